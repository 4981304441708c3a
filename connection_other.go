//go:build !windows

package duvc

func currentThreadID() uint64 {
	return 0
}

func openPlatformConnection(device Device) (platformConn, error) {
	return nil, newErr(NotImplemented, "device connections are only implemented for windows")
}
