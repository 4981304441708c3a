package duvc

// camPropID and vidPropID translate a CamProp/VidProp into the integer
// property id used by the platform's camera-control / video-proc-amp
// interfaces. The conversion is a pure lookup: CamProp and VidProp are
// declared in the exact order of the real DirectShow CameraControlProperty
// and VideoProcAmpProperty enums (see property.go), so the platform id is
// simply the enum's ordinal. This function exists as the single named seam
// so platform code never casts the enum directly, keeping the "the platform
// routes CamProp and VidProp through two different id spaces" invariant
// visible at every call site even though today it's an identity mapping.
func camPropID(p CamProp) int32 { return int32(p) }

func vidPropID(p VidProp) int32 { return int32(p) }
