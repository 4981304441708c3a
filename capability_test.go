package duvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanCapabilitiesMarksUnsupportedPropertiesFalse(t *testing.T) {
	impl := newFakeConn()
	impl.camRanges[camPropID(Zoom)] = Range{Min: 0, Max: 10, Step: 1, DefaultMode: Manual}
	// Every other CamProp is left absent from camRanges, so
	// getCameraPropertyRange reports PropertyNotSupported for them.
	impl.vidRanges[vidPropID(Brightness)] = Range{Min: 0, Max: 255, Step: 1, DefaultMode: Auto}

	c := newTestConnection(impl)
	snap, err := ScanCapabilities(c)
	require.NoError(t, err)

	assert.True(t, snap.SupportsCameraProperty(Zoom))
	assert.False(t, snap.SupportsCameraProperty(Pan))
	assert.False(t, snap.SupportsCameraProperty(Tilt))

	assert.True(t, snap.SupportsVideoProperty(Brightness))
	assert.False(t, snap.SupportsVideoProperty(Contrast))
}

func TestScanCapabilitiesAbortsOnConnectionFailure(t *testing.T) {
	impl := newFakeConn()
	impl.failNextWith = newErr(DeviceNotFound, "gone")
	c := newTestConnection(impl)

	_, err := ScanCapabilities(c)
	require.Error(t, err)
	assert.Equal(t, DeviceNotFound, KindOf(err))
}

func TestCapabilitySnapshotRefreshReplacesContents(t *testing.T) {
	impl := newFakeConn()
	impl.camRanges[camPropID(Zoom)] = Range{Min: 0, Max: 10, Step: 1}
	c := newTestConnection(impl)

	snap, err := ScanCapabilities(c)
	require.NoError(t, err)
	assert.True(t, snap.SupportsCameraProperty(Zoom))

	delete(impl.camRanges, camPropID(Zoom))
	require.NoError(t, snap.Refresh(c))
	assert.False(t, snap.SupportsCameraProperty(Zoom))
}

func TestCapabilityPropertyAccessorsReturnZeroValueWhenUnknown(t *testing.T) {
	snap := &CapabilitySnapshot{camera: map[CamProp]Capability{}, video: map[VidProp]Capability{}}
	assert.Equal(t, Capability{}, snap.CameraProperty(Pan))
	assert.Equal(t, Capability{}, snap.VideoProperty(Brightness))
	assert.False(t, snap.Inaccessible())
}

func TestInaccessibleSnapshotMarksEveryPropertyUnsupported(t *testing.T) {
	snap := inaccessibleSnapshot()
	assert.True(t, snap.Inaccessible())
	for _, p := range AllCamProps() {
		assert.False(t, snap.SupportsCameraProperty(p), "%s", p)
	}
	for _, p := range AllVidProps() {
		assert.False(t, snap.SupportsVideoProperty(p), "%s", p)
	}
}
