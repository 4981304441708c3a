package duvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeClampSatisfiesIsValid(t *testing.T) {
	r := Range{Min: 0, Max: 100, Step: 10, Default: 50, DefaultMode: Auto}
	for v := -20; v <= 120; v++ {
		clamped := r.Clamp(int32(v))
		assert.True(t, r.IsValid(clamped), "Clamp(%d) = %d should be valid", v, clamped)
	}
}

func TestRangeClampIdempotentOnValid(t *testing.T) {
	r := Range{Min: 0, Max: 100, Step: 10}
	for v := int32(0); v <= 100; v += 10 {
		assert.Equal(t, v, r.Clamp(v))
	}
}

func TestRangeClampSaturates(t *testing.T) {
	r := Range{Min: 10, Max: 90, Step: 1}
	assert.Equal(t, int32(10), r.Clamp(-500))
	assert.Equal(t, int32(90), r.Clamp(500))
}

func TestRangeIsValidRejectsMisalignedStep(t *testing.T) {
	r := Range{Min: 0, Max: 100, Step: 10}
	assert.True(t, r.IsValid(20))
	assert.False(t, r.IsValid(25))
}

func TestRangeIsValidRejectsOutOfBounds(t *testing.T) {
	r := Range{Min: 0, Max: 100, Step: 1}
	assert.False(t, r.IsValid(-1))
	assert.False(t, r.IsValid(101))
}

func TestModeFlagRoundTrip(t *testing.T) {
	assert.Equal(t, Auto, modeFromFlags(Auto.toFlags()))
	assert.Equal(t, Manual, modeFromFlags(Manual.toFlags()))
}

func TestModeFromFlagsPrefersManualWhenBothSet(t *testing.T) {
	assert.Equal(t, Manual, modeFromFlags(flagAuto|flagManual))
}

func TestCamPropAndVidPropDistinctIDs(t *testing.T) {
	// CamBacklightCompensation and VidBacklightCompensation name the same
	// physical concept but must never collapse to the same platform id
	// space: they're read through different interfaces entirely.
	assert.Equal(t, int32(21), camPropID(CamBacklightCompensation))
	assert.Equal(t, int32(8), vidPropID(VidBacklightCompensation))
}

func TestAllCamPropsCoversFullRange(t *testing.T) {
	props := AllCamProps()
	assert.Len(t, props, int(numCamProps))
	assert.Equal(t, Pan, props[0])
	assert.Equal(t, Lamp, props[len(props)-1])
}

func TestAllVidPropsCoversFullRange(t *testing.T) {
	props := AllVidProps()
	assert.Len(t, props, int(numVidProps))
	assert.Equal(t, Brightness, props[0])
	assert.Equal(t, Gain, props[len(props)-1])
}

func TestCapabilitySupportsAuto(t *testing.T) {
	c := Capability{Supported: true, Range: Range{DefaultMode: Auto}}
	assert.True(t, c.SupportsAuto())
	c.Range.DefaultMode = Manual
	assert.False(t, c.SupportsAuto())
}

func TestCamPropStringUnknown(t *testing.T) {
	assert.Contains(t, CamProp(999).String(), "CamProp")
}
