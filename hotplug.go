package duvc

import "sync"

// DeviceChangeEvent describes a single hot-plug transition delivered by the
// watcher registered through RegisterDeviceChangeCallback.
type DeviceChangeEvent struct {
	Added      bool
	DevicePath string
}

// DeviceChangeCallback receives hot-plug events. Callbacks run on the
// watcher's internal goroutine/thread; they must not block or call back
// into a Connection bound to a different thread.
type DeviceChangeCallback func(DeviceChangeEvent)

var (
	hotplugMu       sync.Mutex
	hotplugWatcher  platformWatcher
	hotplugRunning  bool
	hotplugCallback DeviceChangeCallback
)

// platformWatcher is the seam a platform backend implements to satisfy the
// hot-plug notifier. Tests inject a fake; hotplug_windows.go installs a
// hidden-window message pump filtered to the video-input device interface
// class, hotplug_other.go a NotImplemented stub.
type platformWatcher interface {
	start(func(DeviceChangeEvent)) error
	stop()
}

// RegisterDeviceChangeCallback starts the hot-plug watcher, if not already
// running, and installs cb as its callback. Only one callback is active at
// a time; a second registration replaces the first.
func RegisterDeviceChangeCallback(cb DeviceChangeCallback) error {
	hotplugMu.Lock()
	defer hotplugMu.Unlock()

	hotplugCallback = cb
	if hotplugRunning {
		return nil
	}
	w := newPlatformWatcher()
	if err := w.start(dispatchDeviceChange); err != nil {
		hotplugCallback = nil
		return err
	}
	hotplugWatcher = w
	hotplugRunning = true
	return nil
}

// UnregisterDeviceChangeCallback stops the hot-plug watcher. Safe to call
// when no callback is registered.
func UnregisterDeviceChangeCallback() {
	hotplugMu.Lock()
	defer hotplugMu.Unlock()

	if !hotplugRunning {
		return
	}
	hotplugWatcher.stop()
	hotplugWatcher = nil
	hotplugRunning = false
	hotplugCallback = nil
}

// dispatchDeviceChange is reached directly from the platform message pump
// (on Windows, from hotplugWndProc via syscall.NewCallback) so a panicking
// callback must never be allowed to unwind past this point: that would
// crash the process, not just a goroutine.
func dispatchDeviceChange(evt DeviceChangeEvent) {
	hotplugMu.Lock()
	cb := hotplugCallback
	hotplugMu.Unlock()
	if cb == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			DefaultLogger().Errorf("device change callback panicked: %v", r)
		}
	}()
	cb(evt)
}
