//go:build windows

package duvc

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	procCreateBindCtx = ole32.NewProc("CreateBindCtx")

	oleaut32         = windows.NewLazySystemDLL("oleaut32.dll")
	procSysFreeString = oleaut32.NewProc("SysFreeString")
)

// variant matches the 16-byte (x64) layout of the Windows VARIANT struct,
// enough of it to read VT_BSTR values out of IPropertyBag::Read.
type variant struct {
	vt       uint16
	reserved [6]byte
	val      uint64
}

const vtBSTR = 8

func (v variant) bstrString() string {
	if v.vt != vtBSTR || v.val == 0 {
		return ""
	}
	p := (*uint16)(unsafe.Pointer(uintptr(v.val)))
	return windows.UTF16PtrToString(p)
}

func (v variant) free() {
	if v.vt == vtBSTR && v.val != 0 {
		procSysFreeString.Call(uintptr(v.val))
	}
}

func createBindCtx() (comObject, error) {
	var out uintptr
	ret, _, _ := procCreateBindCtx.Call(0, uintptr(unsafe.Pointer(&out)))
	if int32(ret) < 0 {
		return comObject{}, hresultErr(int32(ret))
	}
	return comObject{ptr: out}, nil
}

// readPropertyBagString reads a string-valued property (FriendlyName,
// DevicePath) out of an IPropertyBag via IPropertyBag::Read.
func readPropertyBagString(bag comObject, name string) (string, error) {
	nameUTF16, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return "", newErr(InvalidArgument, "invalid property name %q", name)
	}
	var v variant
	_, err = bag.call(vtblPropertyBagRead, uintptr(unsafe.Pointer(nameUTF16)), uintptr(unsafe.Pointer(&v)), 0)
	if err != nil {
		return "", err
	}
	defer v.free()
	return v.bstrString(), nil
}

// windowsEnumerator implements platformEnumerator over DirectShow's
// video-input-device category via ICreateDevEnum/IEnumMoniker/IPropertyBag.
type windowsEnumerator struct {
	category GUID
}

func newPlatformEnumerator(o enumOptions) platformEnumerator {
	category := clsidVideoInputDeviceCategory
	if o.classFilter != nil {
		category = *o.classFilter
	}
	return windowsEnumerator{category: category}
}

func (e windowsEnumerator) listDevices() ([]Device, error) {
	if err := coInitialize(); err != nil {
		return nil, err
	}
	defer coUninitialize()

	devEnum, err := coCreateInstance(clsidSystemDeviceEnum, iidICreateDevEnum)
	if err != nil {
		return nil, newErr(SystemError, "creating ICreateDevEnum: %v", err)
	}
	defer devEnum.release()

	var enumMonikerPtr uintptr
	wCat := toWindowsGUID(e.category)
	ret, err := devEnum.call(vtblCreateClassEnumerator, uintptr(unsafe.Pointer(&wCat)), uintptr(unsafe.Pointer(&enumMonikerPtr)), 0)
	if err != nil {
		return nil, newErr(SystemError, "CreateClassEnumerator: %v", err)
	}
	if ret == sFalse || enumMonikerPtr == 0 {
		// No category members at all: no video-input devices present.
		return []Device{}, nil
	}
	enumMoniker := comObject{ptr: enumMonikerPtr}
	defer enumMoniker.release()

	bindCtx, err := createBindCtx()
	if err != nil {
		return nil, newErr(SystemError, "CreateBindCtx: %v", err)
	}
	defer bindCtx.release()

	var devices []Device
	for {
		var monikerPtr uintptr
		var fetched uintptr
		_, err := enumMoniker.call(vtblEnumMonikerNext, 1, uintptr(unsafe.Pointer(&monikerPtr)), uintptr(unsafe.Pointer(&fetched)))
		if err != nil || fetched == 0 || monikerPtr == 0 {
			break
		}
		moniker := comObject{ptr: monikerPtr}

		d, ok := deviceFromMoniker(moniker, bindCtx)
		moniker.release()
		if ok {
			devices = append(devices, d)
		}
	}
	if devices == nil {
		devices = []Device{}
	}
	return devices, nil
}

func deviceFromMoniker(moniker, bindCtx comObject) (Device, bool) {
	var bagPtr uintptr
	wIID := toWindowsGUID(iidIPropertyBag)
	_, err := moniker.call(vtblMonikerBindToStorage, bindCtx.ptr, 0, uintptr(unsafe.Pointer(&wIID)), uintptr(unsafe.Pointer(&bagPtr)))
	if err != nil || bagPtr == 0 {
		return Device{}, false
	}
	bag := comObject{ptr: bagPtr}
	defer bag.release()

	name, _ := readPropertyBagString(bag, "FriendlyName")
	path, _ := readPropertyBagString(bag, "DevicePath")
	if name == "" && path == "" {
		return Device{}, false
	}
	return Device{Name: name, Path: path}, true
}

// bindFilter resolves device to a live IBaseFilter by re-enumerating the
// video-input category and binding the matching moniker. DirectShow offers
// no direct "open by path" call; re-walking the category is how every
// DirectShow-based tool (including the Windows SDK samples) does this.
func bindFilter(device Device) (comObject, error) {
	if err := coInitialize(); err != nil {
		return comObject{}, err
	}

	devEnum, err := coCreateInstance(clsidSystemDeviceEnum, iidICreateDevEnum)
	if err != nil {
		coUninitialize()
		return comObject{}, newErr(SystemError, "creating ICreateDevEnum: %v", err)
	}
	defer devEnum.release()

	var enumMonikerPtr uintptr
	wCat := toWindowsGUID(clsidVideoInputDeviceCategory)
	ret, err := devEnum.call(vtblCreateClassEnumerator, uintptr(unsafe.Pointer(&wCat)), uintptr(unsafe.Pointer(&enumMonikerPtr)), 0)
	if err != nil || ret == sFalse || enumMonikerPtr == 0 {
		coUninitialize()
		return comObject{}, newErr(DeviceNotFound, "no video input devices present")
	}
	enumMoniker := comObject{ptr: enumMonikerPtr}
	defer enumMoniker.release()

	bindCtx, err := createBindCtx()
	if err != nil {
		coUninitialize()
		return comObject{}, newErr(SystemError, "CreateBindCtx: %v", err)
	}
	defer bindCtx.release()

	for {
		var monikerPtr uintptr
		var fetched uintptr
		_, err := enumMoniker.call(vtblEnumMonikerNext, 1, uintptr(unsafe.Pointer(&monikerPtr)), uintptr(unsafe.Pointer(&fetched)))
		if err != nil || fetched == 0 || monikerPtr == 0 {
			break
		}
		moniker := comObject{ptr: monikerPtr}

		candidate, ok := deviceFromMoniker(moniker, bindCtx)
		if !ok || !candidate.Equal(device) {
			moniker.release()
			continue
		}

		var filterPtr uintptr
		wIID := toWindowsGUID(iidIBaseFilter)
		_, err = moniker.call(vtblMonikerBindToObject, bindCtx.ptr, 0, uintptr(unsafe.Pointer(&wIID)), uintptr(unsafe.Pointer(&filterPtr)))
		moniker.release()
		if err != nil || filterPtr == 0 {
			coUninitialize()
			return comObject{}, newErr(SystemError, "binding filter for %s: %v", device, err)
		}
		// coUninitialize is deferred to the connection's close, not here:
		// the filter and its sub-interfaces remain valid only while this
		// thread's COM apartment stays initialized.
		return comObject{ptr: filterPtr}, nil
	}

	coUninitialize()
	return comObject{}, newErr(DeviceNotFound, "device %s not present", device)
}
