package duvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnumerator struct {
	devices []Device
	err     error
}

func (f fakeEnumerator) listDevices() ([]Device, error) {
	return f.devices, f.err
}

func newFakeEnumerator(devices ...Device) *Enumerator {
	return &Enumerator{impl: fakeEnumerator{devices: devices}}
}

func TestDeviceEqualByPathCaseInsensitive(t *testing.T) {
	a := Device{Name: "Cam A", Path: `\\?\usb#vid_046d&pid_0825`}
	b := Device{Name: "Different Name", Path: `\\?\USB#VID_046D&PID_0825`}
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
}

func TestDeviceEqualFallsBackToNameWhenPathEmpty(t *testing.T) {
	a := Device{Name: "Cam A"}
	b := Device{Name: "Cam A"}
	c := Device{Name: "Cam B"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestDeviceEqualReflexiveSymmetricTransitive(t *testing.T) {
	a := Device{Name: "Cam", Path: "P1"}
	b := Device{Name: "Cam2", Path: "p1"}
	c := Device{Name: "Cam3", Path: "P1"}
	assert.True(t, a.Equal(a))
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.True(t, b.Equal(c))
	assert.True(t, a.Equal(c))
}

func TestListDevicesEmptyIsNotAnError(t *testing.T) {
	e := newFakeEnumerator()
	devices, err := e.ListDevices()
	require.NoError(t, err)
	assert.NotNil(t, devices)
	assert.Empty(t, devices)
}

func TestListDevicesPropagatesBackendError(t *testing.T) {
	e := &Enumerator{impl: fakeEnumerator{err: newErr(SystemError, "enumeration framework unavailable")}}
	_, err := e.ListDevices()
	require.Error(t, err)
	assert.Equal(t, SystemError, KindOf(err))
}

func TestIsDeviceConnected(t *testing.T) {
	present := Device{Name: "Cam0", Path: "P0"}
	absent := Device{Name: "Cam1", Path: "P1"}
	e := newFakeEnumerator(present)

	assert.True(t, e.IsDeviceConnected(present))
	assert.False(t, e.IsDeviceConnected(absent))
}

func TestIsDeviceConnectedNeverErrors(t *testing.T) {
	e := &Enumerator{impl: fakeEnumerator{err: newErr(SystemError, "boom")}}
	assert.False(t, e.IsDeviceConnected(Device{Name: "anything"}))
}

func TestFindDeviceByPath(t *testing.T) {
	target := Device{Name: "Cam0", Path: "P0"}
	e := newFakeEnumerator(Device{Name: "Other", Path: "Px"}, target)

	found, err := e.FindDeviceByPath("p0")
	require.NoError(t, err)
	assert.Equal(t, target, found)
}

func TestFindDeviceByPathNotFound(t *testing.T) {
	e := newFakeEnumerator(Device{Name: "Other", Path: "Px"})
	_, err := e.FindDeviceByPath("missing")
	require.Error(t, err)
	assert.Equal(t, DeviceNotFound, KindOf(err))
}
