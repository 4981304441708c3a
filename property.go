package duvc

import "fmt"

// CamProp enumerates the camera-control properties, routed through
// DirectShow's IAMCameraControl. Order matches the real CameraControlProperty
// enum (strmif.h) exactly, since the integer value of each constant doubles
// as its platform property id (see property_ids.go).
type CamProp int32

const (
	Pan CamProp = iota
	Tilt
	Roll
	Zoom
	Exposure
	Iris
	Focus
	ScanMode
	Privacy
	PanRelative
	TiltRelative
	RollRelative
	ZoomRelative
	ExposureRelative
	IrisRelative
	FocusRelative
	PanTilt
	PanTiltRelative
	FocusSimple
	DigitalZoom
	DigitalZoomRelative
	CamBacklightCompensation
	Lamp
	numCamProps
)

func (p CamProp) String() string {
	switch p {
	case Pan:
		return "Pan"
	case Tilt:
		return "Tilt"
	case Roll:
		return "Roll"
	case Zoom:
		return "Zoom"
	case Exposure:
		return "Exposure"
	case Iris:
		return "Iris"
	case Focus:
		return "Focus"
	case ScanMode:
		return "ScanMode"
	case Privacy:
		return "Privacy"
	case PanRelative:
		return "PanRelative"
	case TiltRelative:
		return "TiltRelative"
	case RollRelative:
		return "RollRelative"
	case ZoomRelative:
		return "ZoomRelative"
	case ExposureRelative:
		return "ExposureRelative"
	case IrisRelative:
		return "IrisRelative"
	case FocusRelative:
		return "FocusRelative"
	case PanTilt:
		return "PanTilt"
	case PanTiltRelative:
		return "PanTiltRelative"
	case FocusSimple:
		return "FocusSimple"
	case DigitalZoom:
		return "DigitalZoom"
	case DigitalZoomRelative:
		return "DigitalZoomRelative"
	case CamBacklightCompensation:
		return "CamBacklightCompensation"
	case Lamp:
		return "Lamp"
	default:
		return fmt.Sprintf("CamProp(%d)", int32(p))
	}
}

// AllCamProps returns every CamProp value, in declaration order, for use by
// the capability scanner and by callers that want to iterate the full set.
func AllCamProps() []CamProp {
	props := make([]CamProp, int(numCamProps))
	for i := range props {
		props[i] = CamProp(i)
	}
	return props
}

// VidProp enumerates the video-processing-amp properties, routed through
// DirectShow's IAMVideoProcAmp. Order matches the real VideoProcAmpProperty
// enum exactly, for the same reason as CamProp above.
//
// VidBacklightCompensation and CamBacklightCompensation name the same
// physical control concept but are distinct properties that route to
// distinct interfaces; never collapse them to a single tag.
type VidProp int32

const (
	Brightness VidProp = iota
	Contrast
	Hue
	Saturation
	Sharpness
	Gamma
	ColorEnable
	WhiteBalance
	VidBacklightCompensation
	Gain
	numVidProps
)

func (p VidProp) String() string {
	switch p {
	case Brightness:
		return "Brightness"
	case Contrast:
		return "Contrast"
	case Hue:
		return "Hue"
	case Saturation:
		return "Saturation"
	case Sharpness:
		return "Sharpness"
	case Gamma:
		return "Gamma"
	case ColorEnable:
		return "ColorEnable"
	case WhiteBalance:
		return "WhiteBalance"
	case VidBacklightCompensation:
		return "VidBacklightCompensation"
	case Gain:
		return "Gain"
	default:
		return fmt.Sprintf("VidProp(%d)", int32(p))
	}
}

// AllVidProps returns every VidProp value, in declaration order.
func AllVidProps() []VidProp {
	props := make([]VidProp, int(numVidProps))
	for i := range props {
		props[i] = VidProp(i)
	}
	return props
}

// Mode selects whether a property is under automatic or manual control.
type Mode int

const (
	Auto Mode = iota
	Manual
)

func (m Mode) String() string {
	if m == Auto {
		return "Auto"
	}
	return "Manual"
}

// Platform control flags, per the real DirectShow CameraControl_Flags /
// VideoProcAmp_Flags bitmasks: Auto is bit 0, Manual is bit 1. The library
// never exposes these raw bits; they exist only at the connection boundary.
const (
	flagAuto   uint32 = 0x0001
	flagManual uint32 = 0x0002
)

func (m Mode) toFlags() uint32 {
	if m == Auto {
		return flagAuto
	}
	return flagManual
}

// modeFromFlags decodes the platform flag word. Manual takes precedence if
// a platform driver (incorrectly) reports both bits set, since "manual" is
// the more specific claim.
func modeFromFlags(flags uint32) Mode {
	if flags&flagManual != 0 {
		return Manual
	}
	return Auto
}

// Setting is a property's value together with the mode it was read or is to
// be written under. Value is interpreted per-property: degrees, Kelvin,
// log-2 EV steps, percent, or opaque device units.
type Setting struct {
	Value int32
	Mode  Mode
}

// Range describes a property's legal domain and its power-on default.
type Range struct {
	Min         int32
	Max         int32
	Step        int32
	Default     int32
	DefaultMode Mode
}

// aligned reports whether v sits on a Step boundary from Min.
func (r Range) aligned(v int32) bool {
	if r.Step <= 0 {
		return true
	}
	return (v-r.Min)%r.Step == 0
}

// IsValid reports whether v is both in [Min, Max] and aligned to Step.
func (r Range) IsValid(v int32) bool {
	if v < r.Min || v > r.Max {
		return false
	}
	return r.aligned(v)
}

// Clamp maps v into the range's legal domain, rounding to the nearest valid
// step. Callers own the decision to clamp; Connection.Set* never clamps
// implicitly (see spec InvalidValue behavior).
func (r Range) Clamp(v int32) int32 {
	if v <= r.Min {
		return r.Min
	}
	if v >= r.Max {
		return r.Max
	}
	if r.Step <= 1 {
		return v
	}
	steps := (v - r.Min) / r.Step
	rem := (v - r.Min) % r.Step
	if rem*2 >= r.Step {
		steps++
	}
	clamped := r.Min + steps*r.Step
	if clamped > r.Max {
		clamped = r.Max
	}
	return clamped
}

// SupportsAuto reports whether this range's power-on default is automatic
// mode, used as a cheap proxy for "does this property have an auto mode at
// all" since the platform doesn't expose a separate auto-capability bit.
func (r Range) SupportsAuto() bool {
	return r.DefaultMode == Auto
}

// Capability is a point-in-time record of one property's support, legal
// range, and current value.
type Capability struct {
	Supported bool
	Range     Range
	Current   Setting
}

// SupportsAuto reports whether the underlying range's default mode is Auto.
func (c Capability) SupportsAuto() bool {
	return c.Range.SupportsAuto()
}
