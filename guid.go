package duvc

import "fmt"

// GUID is a 128-bit identifier, binary-compatible with the Windows GUID /
// COM IID/CLSID layout. Declared here rather than imported from
// golang.org/x/sys/windows so that types using it (VendorGet/VendorSet,
// vendor property-set identifiers) compile on every platform; the windows
// backend converts to windows.GUID at the syscall boundary.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

func (g GUID) String() string {
	return fmt.Sprintf("{%08X-%04X-%04X-%02X%02X-%02X%02X%02X%02X%02X%02X}",
		g.Data1, g.Data2, g.Data3,
		g.Data4[0], g.Data4[1], g.Data4[2], g.Data4[3],
		g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7])
}
