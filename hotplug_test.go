package duvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWatcher struct {
	stopped bool
}

func (f *fakeWatcher) start(func(DeviceChangeEvent)) error { return nil }
func (f *fakeWatcher) stop()                               { f.stopped = true }

func resetHotplugState(t *testing.T) {
	t.Cleanup(func() {
		hotplugMu.Lock()
		hotplugRunning = false
		hotplugWatcher = nil
		hotplugCallback = nil
		hotplugMu.Unlock()
	})
}

func TestDispatchDeviceChangeDeliversInOrder(t *testing.T) {
	resetHotplugState(t)

	var got []DeviceChangeEvent
	hotplugMu.Lock()
	hotplugCallback = func(e DeviceChangeEvent) { got = append(got, e) }
	hotplugMu.Unlock()

	e1 := DeviceChangeEvent{Added: true, DevicePath: "P1"}
	e2 := DeviceChangeEvent{Added: false, DevicePath: "P1"}
	dispatchDeviceChange(e1)
	dispatchDeviceChange(e2)

	require.Len(t, got, 2)
	assert.Equal(t, e1, got[0])
	assert.Equal(t, e2, got[1])
}

func TestDispatchDeviceChangeNoopWithoutCallback(t *testing.T) {
	resetHotplugState(t)
	assert.NotPanics(t, func() { dispatchDeviceChange(DeviceChangeEvent{}) })
}

func TestUnregisterDeviceChangeCallbackWhenNotRunningIsNoop(t *testing.T) {
	resetHotplugState(t)
	assert.NotPanics(t, func() { UnregisterDeviceChangeCallback() })
}

func TestRegisterDeviceChangeCallbackReplacesCallbackWhileRunning(t *testing.T) {
	resetHotplugState(t)

	hotplugMu.Lock()
	hotplugRunning = true
	hotplugWatcher = &fakeWatcher{}
	hotplugCallback = func(DeviceChangeEvent) { t.Error("replaced callback was invoked") }
	hotplugMu.Unlock()

	var calls int
	err := RegisterDeviceChangeCallback(func(DeviceChangeEvent) { calls++ })
	require.NoError(t, err)

	dispatchDeviceChange(DeviceChangeEvent{})
	assert.Equal(t, 1, calls)
}

func TestUnregisterDeviceChangeCallbackStopsWatcherAndClearsState(t *testing.T) {
	resetHotplugState(t)

	fw := &fakeWatcher{}
	hotplugMu.Lock()
	hotplugRunning = true
	hotplugWatcher = fw
	hotplugCallback = func(DeviceChangeEvent) {}
	hotplugMu.Unlock()

	UnregisterDeviceChangeCallback()

	assert.True(t, fw.stopped)
	hotplugMu.Lock()
	assert.False(t, hotplugRunning)
	assert.Nil(t, hotplugCallback)
	hotplugMu.Unlock()
}

func TestNoDeliveryAfterUnregister(t *testing.T) {
	resetHotplugState(t)

	fw := &fakeWatcher{}
	hotplugMu.Lock()
	hotplugRunning = true
	hotplugWatcher = fw
	hotplugMu.Unlock()

	var calls int
	require.NoError(t, RegisterDeviceChangeCallback(func(DeviceChangeEvent) { calls++ }))
	dispatchDeviceChange(DeviceChangeEvent{})
	assert.Equal(t, 1, calls)

	UnregisterDeviceChangeCallback()
	dispatchDeviceChange(DeviceChangeEvent{})
	assert.Equal(t, 1, calls, "no delivery should occur after unregister")
}
