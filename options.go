package duvc

// WithClassFilter overrides the device-interface category Enumerator
// searches. Defaults to the video-input-device category; exposed for
// callers targeting a related but distinct DirectShow category (e.g. audio
// capture devices exposed by the same physical unit).
func WithClassFilter(category GUID) EnumerateOption {
	return func(o *enumOptions) { o.classFilter = &category }
}

// cameraOptions configures a Camera.
type cameraOptions struct {
	logger      *Logger
	openTimeout int
}

// CameraOption configures a Camera at construction.
type CameraOption func(*cameraOptions)

// WithLogger attaches a Logger the Camera (and the Connection it opens)
// reports diagnostics through.
func WithLogger(l *Logger) CameraOption {
	return func(o *cameraOptions) { o.logger = l }
}

// WithOpenTimeout is informational only: per spec, core operations never
// install an internal cancellation mechanism, so this does not abort a
// hung platform call. The value is stored in the Camera's options; no
// Camera method reads it back, and nothing in this package acts on it.
func WithOpenTimeout(milliseconds int) CameraOption {
	return func(o *cameraOptions) { o.openTimeout = milliseconds }
}
