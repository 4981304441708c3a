package duvc

// VendorProperty enumerates the well-known Logitech IKsPropertySet
// extension properties most UVC vendor-extension tooling targets. These
// are conveniences only: VendorGet/VendorSet on Connection and Camera take
// a raw GUID/property-id pair and work with any vendor's extension set,
// known or not.
type VendorProperty uint32

// LogitechVendorGUID identifies Logitech's IKsPropertySet vendor extension
// set, exposed through VendorGet/VendorSet.
var LogitechVendorGUID = GUID{0x82066163, 0x7BD1, 0x4BEB, [8]byte{0xAF, 0x09, 0x4D, 0x30, 0x23, 0xB3, 0x93, 0xF1}}

const (
	VendorRightLight VendorProperty = iota
	VendorRightSound
	VendorFaceTracking
	VendorLedIndicator
	VendorProcessorUsage
	VendorRawDataBits
	VendorFocusAssist
	VendorVideoStandard
	VendorDigitalZoomROI
	VendorTiltPan
)

func (p VendorProperty) String() string {
	switch p {
	case VendorRightLight:
		return "RightLight"
	case VendorRightSound:
		return "RightSound"
	case VendorFaceTracking:
		return "FaceTracking"
	case VendorLedIndicator:
		return "LedIndicator"
	case VendorProcessorUsage:
		return "ProcessorUsage"
	case VendorRawDataBits:
		return "RawDataBits"
	case VendorFocusAssist:
		return "FocusAssist"
	case VendorVideoStandard:
		return "VideoStandard"
	case VendorDigitalZoomROI:
		return "DigitalZoomROI"
	case VendorTiltPan:
		return "TiltPan"
	default:
		return "VendorProperty(unknown)"
	}
}

// LogitechVendorPropertyID returns the IKsPropertySet property id Logitech's
// extension unit assigns to p. The binary layout of each property's payload
// (DigitalZoomROI and TiltPan in particular use multi-field structs) is not
// specified here; this package passes the bytes through opaquely.
func LogitechVendorPropertyID(p VendorProperty) uint32 {
	return uint32(p) + 1
}
