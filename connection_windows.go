//go:build windows

package duvc

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func currentThreadID() uint64 {
	return uint64(windows.GetCurrentThreadId())
}

// windowsConn implements platformConn by binding a device's IBaseFilter and
// lazily querying IAMCameraControl / IAMVideoProcAmp / IKsPropertySet off
// it, exactly the set of interfaces a DirectShow capture filter exposes for
// control (as opposed to streaming, which this package never touches).
type windowsConn struct {
	filter     comObject
	camControl comObject
	vidProc    comObject
	ksProps    comObject
}

func openPlatformConnection(device Device) (platformConn, error) {
	filter, err := bindFilter(device)
	if err != nil {
		return nil, err
	}
	return &windowsConn{filter: filter}, nil
}

func (c *windowsConn) camControlIface() (comObject, error) {
	if c.camControl.valid() {
		return c.camControl, nil
	}
	obj, err := c.filter.queryInterface(iidIAMCameraControl)
	if err != nil {
		return comObject{}, newPlatformErr(PropertyNotSupported, 0, "device does not expose IAMCameraControl")
	}
	c.camControl = obj
	return obj, nil
}

func (c *windowsConn) vidProcIface() (comObject, error) {
	if c.vidProc.valid() {
		return c.vidProc, nil
	}
	obj, err := c.filter.queryInterface(iidIAMVideoProcAmp)
	if err != nil {
		return comObject{}, newPlatformErr(PropertyNotSupported, 0, "device does not expose IAMVideoProcAmp")
	}
	c.vidProc = obj
	return obj, nil
}

func (c *windowsConn) ksPropsIface() (comObject, error) {
	if c.ksProps.valid() {
		return c.ksProps, nil
	}
	obj, err := c.filter.queryInterface(iidIKsPropertySet)
	if err != nil {
		return comObject{}, newPlatformErr(PropertyNotSupported, 0, "device does not expose IKsPropertySet")
	}
	c.ksProps = obj
	return obj, nil
}

func (c *windowsConn) getCameraProperty(id int32) (int32, uint32, error) {
	iface, err := c.camControlIface()
	if err != nil {
		return 0, 0, err
	}
	var value int32
	var flags uint32
	_, err = iface.call(vtblCamControlGet, uintptr(id), uintptr(unsafe.Pointer(&value)), uintptr(unsafe.Pointer(&flags)))
	if err != nil {
		return 0, 0, err
	}
	return value, flags, nil
}

func (c *windowsConn) setCameraProperty(id int32, value int32, flags uint32) error {
	iface, err := c.camControlIface()
	if err != nil {
		return err
	}
	_, err = iface.call(vtblCamControlSet, uintptr(id), uintptr(value), uintptr(flags))
	return err
}

func (c *windowsConn) getCameraPropertyRange(id int32) (Range, error) {
	iface, err := c.camControlIface()
	if err != nil {
		return Range{}, err
	}
	var min, max, step, def int32
	var defFlags uint32
	_, err = iface.call(vtblCamControlGetRange, uintptr(id),
		uintptr(unsafe.Pointer(&min)), uintptr(unsafe.Pointer(&max)), uintptr(unsafe.Pointer(&step)),
		uintptr(unsafe.Pointer(&def)), uintptr(unsafe.Pointer(&defFlags)))
	if err != nil {
		return Range{}, err
	}
	return Range{Min: min, Max: max, Step: step, Default: def, DefaultMode: modeFromFlags(defFlags)}, nil
}

func (c *windowsConn) getVideoProperty(id int32) (int32, uint32, error) {
	iface, err := c.vidProcIface()
	if err != nil {
		return 0, 0, err
	}
	var value int32
	var flags uint32
	_, err = iface.call(vtblVidProcGet, uintptr(id), uintptr(unsafe.Pointer(&value)), uintptr(unsafe.Pointer(&flags)))
	if err != nil {
		return 0, 0, err
	}
	return value, flags, nil
}

func (c *windowsConn) setVideoProperty(id int32, value int32, flags uint32) error {
	iface, err := c.vidProcIface()
	if err != nil {
		return err
	}
	_, err = iface.call(vtblVidProcSet, uintptr(id), uintptr(value), uintptr(flags))
	return err
}

func (c *windowsConn) getVideoPropertyRange(id int32) (Range, error) {
	iface, err := c.vidProcIface()
	if err != nil {
		return Range{}, err
	}
	var min, max, step, def int32
	var defFlags uint32
	_, err = iface.call(vtblVidProcGetRange, uintptr(id),
		uintptr(unsafe.Pointer(&min)), uintptr(unsafe.Pointer(&max)), uintptr(unsafe.Pointer(&step)),
		uintptr(unsafe.Pointer(&def)), uintptr(unsafe.Pointer(&defFlags)))
	if err != nil {
		return Range{}, err
	}
	return Range{Min: min, Max: max, Step: step, Default: def, DefaultMode: modeFromFlags(defFlags)}, nil
}

// vendorGet / vendorSet implement IKsPropertySet::Get / Set. The spec
// treats vendor payloads as opaque bytes; callers own interpreting whatever
// binary layout the vendor's driver expects.
func (c *windowsConn) vendorGet(guid GUID, propID uint32) ([]byte, error) {
	iface, err := c.ksPropsIface()
	if err != nil {
		return nil, err
	}
	wGuid := toWindowsGUID(guid)
	buf := make([]byte, 256)
	var bytesReturned uint32
	_, err = iface.call(vtblKsPropGet,
		uintptr(unsafe.Pointer(&wGuid)), uintptr(propID),
		0, 0,
		uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)),
		uintptr(unsafe.Pointer(&bytesReturned)))
	if err != nil {
		return nil, err
	}
	return buf[:bytesReturned], nil
}

func (c *windowsConn) vendorSet(guid GUID, propID uint32, data []byte) error {
	iface, err := c.ksPropsIface()
	if err != nil {
		return err
	}
	wGuid := toWindowsGUID(guid)
	var dataPtr uintptr
	if len(data) > 0 {
		dataPtr = uintptr(unsafe.Pointer(&data[0]))
	}
	_, err = iface.call(vtblKsPropSet,
		uintptr(unsafe.Pointer(&wGuid)), uintptr(propID),
		0, 0,
		dataPtr, uintptr(len(data)))
	return err
}

func (c *windowsConn) close() error {
	c.ksProps.release()
	c.vidProc.release()
	c.camControl.release()
	c.filter.release()
	coUninitialize()
	return nil
}
