//go:build windows

package duvc

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Pure-Go COM vtable calling, no cgo: resolve the function pointer at the
// vtable's index and invoke it through syscall.SyscallN, the same pattern
// used for every other DLL-backed call in this package.

func toWindowsGUID(g GUID) windows.GUID {
	return windows.GUID{Data1: g.Data1, Data2: g.Data2, Data3: g.Data3, Data4: g.Data4}
}

// comObject wraps a raw COM interface pointer (pointer to pointer to
// vtable). It is not safe for concurrent use; callers serialize access
// through Connection's mutex.
type comObject struct {
	ptr uintptr
}

// call invokes the vtable method at idx, returning the raw HRESULT. A
// negative HRESULT (the SUCCEEDED/FAILED convention) is surfaced as the
// *Error built by hresultErr, which carries both the raw code and the
// ErrorKind it maps to.
func (o comObject) call(idx int, args ...uintptr) (uintptr, error) {
	if o.ptr == 0 {
		return 0, newErr(SystemError, "call on released COM interface")
	}
	vtable := *(*uintptr)(unsafe.Pointer(o.ptr))
	fn := *(*uintptr)(unsafe.Pointer(vtable + uintptr(idx)*unsafe.Sizeof(uintptr(0))))

	allArgs := make([]uintptr, 0, 1+len(args))
	allArgs = append(allArgs, o.ptr)
	allArgs = append(allArgs, args...)
	ret, _, _ := syscall.SyscallN(fn, allArgs...)

	if int32(ret) < 0 {
		return ret, hresultErr(int32(ret))
	}
	return ret, nil
}

// queryInterface calls IUnknown::QueryInterface (vtable index 0).
func (o comObject) queryInterface(iid GUID) (comObject, error) {
	wg := toWindowsGUID(iid)
	var out uintptr
	ret, _, _ := syscall.SyscallN(o.vtableFn(vtblQueryInterface), o.ptr, uintptr(unsafe.Pointer(&wg)), uintptr(unsafe.Pointer(&out)))
	if int32(ret) < 0 {
		return comObject{}, hresultErr(int32(ret))
	}
	return comObject{ptr: out}, nil
}

func (o comObject) vtableFn(idx int) uintptr {
	vtable := *(*uintptr)(unsafe.Pointer(o.ptr))
	return *(*uintptr)(unsafe.Pointer(vtable + uintptr(idx)*unsafe.Sizeof(uintptr(0))))
}

// release calls IUnknown::Release (vtable index 2). Safe on the zero value.
func (o comObject) release() {
	if o.ptr == 0 {
		return
	}
	syscall.SyscallN(o.vtableFn(vtblRelease), o.ptr)
}

func (o comObject) valid() bool { return o.ptr != 0 }

// --- IUnknown vtable offsets, fixed by the COM ABI ---

const (
	vtblQueryInterface = 0
	vtblAddRef         = 1
	vtblRelease        = 2
)

// --- interface-specific vtable offsets ---
//
// Each interface extends IUnknown (slots 0-2); its own methods start at 3
// in declaration order from the Windows SDK headers (strmif.h, ksproxy.h,
// ocidl.h, objidl.h).

const (
	// IAMCameraControl (strmif.h)
	vtblCamControlGetRange = 3
	vtblCamControlSet      = 4
	vtblCamControlGet      = 5

	// IAMVideoProcAmp (strmif.h) — identical shape to IAMCameraControl
	vtblVidProcGetRange = 3
	vtblVidProcSet      = 4
	vtblVidProcGet      = 5

	// IKsPropertySet (ksproxy.h)
	vtblKsPropSet             = 3
	vtblKsPropGet             = 4
	vtblKsPropQuerySupported  = 5

	// IBaseFilter (strmif.h, extends IMediaFilter which extends IPersist)
	// IPersist: 3=GetClassID
	// IMediaFilter: 4=Stop,5=Pause,6=Run,7=GetState,8=SetSyncSource,9=GetSyncSource
	// IBaseFilter: 10=EnumPins,11=FindPin,12=QueryFilterInfo,13=JoinFilterGraph,14=QueryVendorInfo

	// ICreateDevEnum (strmif.h)
	vtblCreateClassEnumerator = 3

	// IEnumMoniker (objidl.h)
	vtblEnumMonikerNext  = 3
	vtblEnumMonikerSkip  = 4
	vtblEnumMonikerReset = 5
	vtblEnumMonikerClone = 6

	// IMoniker (objidl.h): IUnknown(0-2), IPersist.GetClassID(3),
	// IPersistStream.IsDirty/Load/Save/GetSizeMax(4-7), then IMoniker's own
	// methods starting at 8.
	vtblMonikerBindToObject  = 8
	vtblMonikerBindToStorage = 9

	// IPropertyBag (oaidl.h)
	vtblPropertyBagRead  = 3
	vtblPropertyBagWrite = 4
)

// hresultErr maps a COM HRESULT to an *Error with a best-effort ErrorKind.
// E_NOTIMPL / E_NOINTERFACE map to PropertyNotSupported; access-denied maps
// to PermissionDenied; E_INVALIDARG maps to InvalidArgument; device-gone
// codes (device not connected, file or element not found, cannot connect)
// map to DeviceNotFound; busy / device-in-use map to DeviceBusy; everything
// else is SystemError.
func hresultErr(hr int32) *Error {
	const (
		eNotImpl     = -2147467263 // 0x80004001
		eNoInterface = -2147467262 // 0x80004002
		eAccessDenied = -2147024891 // 0x80070005
		eInvalidArg  = -2147024809 // 0x80070057
		eFileNotFound       = -2147024894 // 0x80070002
		eDeviceNotConnected = -2147023729 // 0x8007048F
		eNotFound           = -2147023728 // 0x80070490
		vfwECannotConnect   = -2147220969 // 0x80040217
		eBusy               = -2147024726 // 0x800700AA
		eDeviceInUse        = -2147022492 // 0x80070964
	)
	switch hr {
	case eNotImpl, eNoInterface:
		return newPlatformErr(PropertyNotSupported, hr, "COM call not supported")
	case eAccessDenied:
		return newPlatformErr(PermissionDenied, hr, "COM call access denied")
	case eInvalidArg:
		return newPlatformErr(InvalidArgument, hr, "COM call received an invalid argument")
	case eFileNotFound, eDeviceNotConnected, eNotFound, vfwECannotConnect:
		return newPlatformErr(DeviceNotFound, hr, "COM call failed: device not present")
	case eBusy, eDeviceInUse:
		return newPlatformErr(DeviceBusy, hr, "COM call failed: device busy")
	default:
		return newPlatformErr(SystemError, hr, "COM call failed")
	}
}

// --- CoInitialize / CoCreateInstance ---

var (
	ole32 = windows.NewLazySystemDLL("ole32.dll")

	procCoInitializeEx   = ole32.NewProc("CoInitializeEx")
	procCoUninitialize   = ole32.NewProc("CoUninitialize")
	procCoCreateInstance = ole32.NewProc("CoCreateInstance")
	procCoTaskMemFree    = ole32.NewProc("CoTaskMemFree")
)

const (
	coinitApartmentThreaded = 0x2
	clsctxInprocServer      = 0x1

	sOK      = 0
	sFalse   = 1
	rpcEChangedMode int32 = -2147417850 // RPC_E_CHANGED_MODE, 0x80010106
)

// coInitialize initializes COM on the calling OS thread in the single-
// threaded apartment model, which DirectShow filter graphs require. Must be
// paired with coUninitialize on the same thread. Returns sFalse (already
// initialized, harmless) transparently; any other failure is a SystemError.
func coInitialize() error {
	ret, _, _ := procCoInitializeEx.Call(0, uintptr(coinitApartmentThreaded))
	hr := int32(ret)
	if hr == sOK || hr == sFalse {
		return nil
	}
	if hr == rpcEChangedMode {
		return newPlatformErr(SystemError, hr, "thread already initialized COM in multi-threaded apartment mode")
	}
	return newPlatformErr(SystemError, hr, "CoInitializeEx failed")
}

func coUninitialize() {
	procCoUninitialize.Call()
}

// coCreateInstance creates an out-of-process-free COM object of clsid,
// queried immediately for iid.
func coCreateInstance(clsid, iid GUID) (comObject, error) {
	wClsid := toWindowsGUID(clsid)
	wIid := toWindowsGUID(iid)
	var out uintptr
	ret, _, _ := procCoCreateInstance.Call(
		uintptr(unsafe.Pointer(&wClsid)),
		0,
		uintptr(clsctxInprocServer),
		uintptr(unsafe.Pointer(&wIid)),
		uintptr(unsafe.Pointer(&out)),
	)
	hr := int32(ret)
	if hr < 0 {
		return comObject{}, hresultErr(hr)
	}
	return comObject{ptr: out}, nil
}

func coTaskMemFree(p uintptr) {
	if p != 0 {
		procCoTaskMemFree.Call(p)
	}
}

// --- well-known CLSIDs / IIDs (strmif.h, ksmedia.h, uuids.h) ---

var (
	clsidVideoInputDeviceCategory = GUID{0x860BB310, 0x5D01, 0x11D0, [8]byte{0xBD, 0x3B, 0x00, 0xA0, 0xC9, 0x11, 0xCE, 0x86}}
	clsidSystemDeviceEnum         = GUID{0x62BE5D10, 0x60EB, 0x11D0, [8]byte{0xBD, 0x3B, 0x00, 0xA0, 0xC9, 0x11, 0xCE, 0x86}}

	iidICreateDevEnum   = GUID{0x29840822, 0x5B84, 0x11D0, [8]byte{0xBD, 0x3B, 0x00, 0xA0, 0xC9, 0x11, 0xCE, 0x86}}
	iidIAMCameraControl = GUID{0xC6E13370, 0x30AC, 0x11D0, [8]byte{0xA1, 0x8C, 0x00, 0xA0, 0xC9, 0x11, 0x89, 0x56}}
	iidIAMVideoProcAmp  = GUID{0xC6E13360, 0x30AC, 0x11D0, [8]byte{0xA1, 0x8C, 0x00, 0xA0, 0xC9, 0x11, 0x89, 0x56}}
	iidIKsPropertySet   = GUID{0x31EFAC30, 0x515C, 0x11D0, [8]byte{0xA9, 0xAA, 0x00, 0xAA, 0x00, 0x61, 0xBE, 0x93}}
	iidIBaseFilter      = GUID{0x56A86895, 0x0AD4, 0x11CE, [8]byte{0xB0, 0x3A, 0x00, 0x20, 0xAF, 0x0B, 0xA7, 0x70}}
	iidIPropertyBag     = GUID{0x55272A00, 0x42CB, 0x11CE, [8]byte{0x81, 0x35, 0x00, 0xAA, 0x00, 0x4B, 0xB8, 0x51}}

	ksCategoryVideoInput = GUID{0x65E8773D, 0x8F56, 0x11D0, [8]byte{0xA3, 0xB9, 0x00, 0xA0, 0xC9, 0x22, 0x31, 0x96}}
)
