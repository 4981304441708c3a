// Package duvc provides control of UVC-class webcams through the Windows
// DirectShow capture graph: enumeration, camera-control and
// video-proc-amp properties, vendor extensions, and hot-plug notification.
//
// It never opens a capture stream; that is left to whatever media pipeline
// the caller already has (DirectShow, Media Foundation, or otherwise). This
// package only drives the control-plane interfaces a capture filter
// exposes alongside its video pins: IAMCameraControl, IAMVideoProcAmp, and
// IKsPropertySet.
//
// Platform support is Windows only; non-Windows builds return
// NotImplemented from every operation that requires a real backend, so the
// package still compiles and its tests that don't require a live device
// still run cross-platform.
package duvc
