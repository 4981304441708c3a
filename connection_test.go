package duvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	camValues map[int32]int32
	camFlags  map[int32]uint32
	camRanges map[int32]Range
	vidValues map[int32]int32
	vidFlags  map[int32]uint32
	vidRanges map[int32]Range

	vendorData map[uint32][]byte

	failNextWith error
	closeCalls   int
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		camValues:  map[int32]int32{},
		camFlags:   map[int32]uint32{},
		camRanges:  map[int32]Range{},
		vidValues:  map[int32]int32{},
		vidFlags:   map[int32]uint32{},
		vidRanges:  map[int32]Range{},
		vendorData: map[uint32][]byte{},
	}
}

func (f *fakeConn) takeFailure() error {
	if f.failNextWith != nil {
		err := f.failNextWith
		f.failNextWith = nil
		return err
	}
	return nil
}

func (f *fakeConn) getCameraProperty(id int32) (int32, uint32, error) {
	if err := f.takeFailure(); err != nil {
		return 0, 0, err
	}
	return f.camValues[id], f.camFlags[id], nil
}

func (f *fakeConn) setCameraProperty(id int32, value int32, flags uint32) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	f.camValues[id] = value
	f.camFlags[id] = flags
	return nil
}

func (f *fakeConn) getCameraPropertyRange(id int32) (Range, error) {
	if err := f.takeFailure(); err != nil {
		return Range{}, err
	}
	r, ok := f.camRanges[id]
	if !ok {
		return Range{}, newErr(PropertyNotSupported, "camera property %d not supported", id)
	}
	return r, nil
}

func (f *fakeConn) getVideoProperty(id int32) (int32, uint32, error) {
	if err := f.takeFailure(); err != nil {
		return 0, 0, err
	}
	return f.vidValues[id], f.vidFlags[id], nil
}

func (f *fakeConn) setVideoProperty(id int32, value int32, flags uint32) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	f.vidValues[id] = value
	f.vidFlags[id] = flags
	return nil
}

func (f *fakeConn) getVideoPropertyRange(id int32) (Range, error) {
	if err := f.takeFailure(); err != nil {
		return Range{}, err
	}
	r, ok := f.vidRanges[id]
	if !ok {
		return Range{}, newErr(PropertyNotSupported, "video property %d not supported", id)
	}
	return r, nil
}

func (f *fakeConn) vendorGet(guid GUID, propID uint32) ([]byte, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	return f.vendorData[propID], nil
}

func (f *fakeConn) vendorSet(guid GUID, propID uint32, data []byte) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	f.vendorData[propID] = append([]byte{}, data...)
	return nil
}

func (f *fakeConn) close() error {
	f.closeCalls++
	return nil
}

func newTestConnection(impl *fakeConn) *Connection {
	return &Connection{device: Device{Name: "fake"}, state: stateOpen, impl: impl}
}

func TestConnectionRoundTripCameraProperty(t *testing.T) {
	impl := newFakeConn()
	impl.camRanges[camPropID(Zoom)] = Range{Min: 0, Max: 100, Step: 1}
	c := newTestConnection(impl)

	require.NoError(t, c.SetCameraProperty(Zoom, Setting{Value: 42, Mode: Manual}))
	got, err := c.GetCameraProperty(Zoom)
	require.NoError(t, err)
	assert.Equal(t, Setting{Value: 42, Mode: Manual}, got)
}

func TestConnectionRejectsOutOfRangeWithoutMutating(t *testing.T) {
	impl := newFakeConn()
	impl.camRanges[camPropID(Iris)] = Range{Min: 0, Max: 10, Step: 1}
	impl.camValues[camPropID(Iris)] = 5
	c := newTestConnection(impl)

	err := c.SetCameraProperty(Iris, Setting{Value: 999})
	require.Error(t, err)
	assert.Equal(t, InvalidValue, KindOf(err))

	got, err := c.GetCameraProperty(Iris)
	require.NoError(t, err)
	assert.EqualValues(t, 5, got.Value)
}

func TestConnectionTransitionsToLostOnDeviceNotFound(t *testing.T) {
	impl := newFakeConn()
	impl.camRanges[camPropID(Pan)] = Range{Min: -100, Max: 100, Step: 1}
	c := newTestConnection(impl)

	impl.failNextWith = newErr(DeviceNotFound, "unplugged")
	_, err := c.GetCameraPropertyRange(Pan)
	require.Error(t, err)

	_, err = c.GetCameraPropertyRange(Pan)
	require.Error(t, err)
	assert.Equal(t, DeviceNotFound, KindOf(err))
}

func TestConnectionCloseIsIdempotent(t *testing.T) {
	impl := newFakeConn()
	c := newTestConnection(impl)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, 1, impl.closeCalls)
}

func TestConnectionThreadAffinityViolation(t *testing.T) {
	impl := newFakeConn()
	c := newTestConnection(impl)
	c.threadBound = true
	c.ownerThread = currentThreadID() + 1

	_, err := c.GetCameraProperty(Pan)
	require.Error(t, err)
	assert.Equal(t, SystemError, KindOf(err))
}

func TestConnectionVendorRoundTrip(t *testing.T) {
	impl := newFakeConn()
	c := newTestConnection(impl)

	require.NoError(t, c.VendorSet(LogitechVendorGUID, LogitechVendorPropertyID(VendorFaceTracking), []byte{1, 2, 3}))
	data, err := c.VendorGet(LogitechVendorGUID, LogitechVendorPropertyID(VendorFaceTracking))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
}
