//go:build windows

package duvc

import (
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procRegisterClassExW        = user32.NewProc("RegisterClassExW")
	procCreateWindowExW         = user32.NewProc("CreateWindowExW")
	procDestroyWindow           = user32.NewProc("DestroyWindow")
	procDefWindowProcW          = user32.NewProc("DefWindowProcW")
	procGetMessageW             = user32.NewProc("GetMessageW")
	procTranslateMessage        = user32.NewProc("TranslateMessage")
	procDispatchMessageW        = user32.NewProc("DispatchMessageW")
	procPostMessageW            = user32.NewProc("PostMessageW")
	procPostQuitMessage         = user32.NewProc("PostQuitMessage")
	procRegisterDeviceNotification   = user32.NewProc("RegisterDeviceNotificationW")
	procUnregisterDeviceNotification = user32.NewProc("UnregisterDeviceNotification")
)

const (
	wmDestroy      = 0x0002
	wmClose        = 0x0010
	wmDeviceChange = 0x0219
	wmUser         = 0x0400
	wmQuitWatcher  = wmUser + 1

	dbtDeviceArrival        = 0x8000
	dbtDeviceRemoveComplete = 0x8004

	dbtDevtypDeviceInterface = 5

	deviceNotifyWindowHandle = 0x00000000

	cwUseDefault = ^uint32(0) // CW_USEDEFAULT as unsigned
)

// devBroadcastDeviceInterface matches DEV_BROADCAST_DEVICEINTERFACE_W's
// fixed-size header (dbcc_classguid is set for the registration filter)
// plus the first element of the variable-length dbcc_name, which
// decodeWideNameFrom reads past to recover the device path.
type devBroadcastDeviceInterface struct {
	dbccSize       uint32
	dbccDeviceType uint32
	dbccReserved   uint32
	dbccClassGUID  windows.GUID
	dbccName       [1]uint16
}

type wndClassExW struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cbClsExtra    int32
	cbWndExtra    int32
	hInstance     windows.Handle
	hIcon         windows.Handle
	hCursor       windows.Handle
	hbrBackground windows.Handle
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       windows.Handle
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

const hotplugWindowClass = "duvc-hotplug-watcher"

// windowsWatcher drives a hidden top-level window's message pump on a
// dedicated goroutine locked to its own OS thread (window handles, like COM
// apartments, are thread-affine).
type windowsWatcher struct {
	mu      sync.Mutex
	hwnd    uintptr
	started bool
	done    chan struct{}
}

func newPlatformWatcher() platformWatcher {
	return &windowsWatcher{}
}

var hotplugCallbackFn func(DeviceChangeEvent)

func (w *windowsWatcher) start(cb func(DeviceChangeEvent)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}
	hotplugCallbackFn = cb

	ready := make(chan error, 1)
	w.done = make(chan struct{})
	go w.run(ready)
	if err := <-ready; err != nil {
		return err
	}
	w.started = true
	return nil
}

func (w *windowsWatcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	procPostMessageW.Call(w.hwnd, uintptr(wmQuitWatcher), 0, 0)
	<-w.done
	w.started = false
}

func (w *windowsWatcher) run(ready chan<- error) {
	// The window, its message queue, and the device notification handle
	// all belong to this OS thread; never unlock until the pump exits.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(w.done)

	className, _ := windows.UTF16PtrFromString(hotplugWindowClass)
	wc := wndClassExW{
		lpfnWndProc:   syscall.NewCallback(hotplugWndProc),
		lpszClassName: className,
	}
	wc.cbSize = uint32(unsafe.Sizeof(wc))
	procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))

	hwnd, _, _ := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(className)),
		0, 0, 0, 0, 0,
		0, 0, 0, 0,
	)
	if hwnd == 0 {
		ready <- newErr(SystemError, "creating hot-plug watcher window failed")
		return
	}
	w.hwnd = hwnd

	var filter devBroadcastDeviceInterface
	filter.dbccSize = uint32(unsafe.Sizeof(filter))
	filter.dbccDeviceType = dbtDevtypDeviceInterface
	filter.dbccClassGUID = toWindowsGUID(ksCategoryVideoInput)

	notifyHandle, _, _ := procRegisterDeviceNotification.Call(
		hwnd,
		uintptr(unsafe.Pointer(&filter)),
		uintptr(deviceNotifyWindowHandle),
	)
	ready <- nil

	var m msg
	for {
		r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(r) <= 0 {
			break
		}
		if m.message == wmQuitWatcher {
			break
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}

	if notifyHandle != 0 {
		procUnregisterDeviceNotification.Call(notifyHandle)
	}
	procDestroyWindow.Call(hwnd)
}

func hotplugWndProc(hwnd uintptr, message uint32, wParam, lParam uintptr) uintptr {
	if message == wmDeviceChange {
		handleDeviceChangeMessage(wParam, lParam)
		return 0
	}
	if message == wmDestroy {
		procPostQuitMessage.Call(0)
		return 0
	}
	ret, _, _ := procDefWindowProcW.Call(hwnd, uintptr(message), wParam, lParam)
	return ret
}

func handleDeviceChangeMessage(wParam, lParam uintptr) {
	if wParam != dbtDeviceArrival && wParam != dbtDeviceRemoveComplete {
		return
	}
	if lParam == 0 {
		return
	}
	hdr := (*devBroadcastDeviceInterface)(unsafe.Pointer(lParam))
	if hdr.dbccDeviceType != dbtDevtypDeviceInterface {
		return
	}
	path := decodeWideNameFrom(unsafe.Pointer(&hdr.dbccName[0]))
	evt := DeviceChangeEvent{Added: wParam == dbtDeviceArrival, DevicePath: path}
	if hotplugCallbackFn != nil {
		hotplugCallbackFn(evt)
	}
}

// decodeWideNameFrom reads a null-terminated UTF-16 string starting at p,
// the variable-length dbcc_name tail of DEV_BROADCAST_DEVICEINTERFACE_W.
func decodeWideNameFrom(p unsafe.Pointer) string {
	const maxLen = 1024
	slice := unsafe.Slice((*uint16)(p), maxLen)
	n := 0
	for n < maxLen && slice[n] != 0 {
		n++
	}
	return windows.UTF16ToString(slice[:n])
}
