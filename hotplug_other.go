//go:build !windows

package duvc

type otherWatcher struct{}

func newPlatformWatcher() platformWatcher {
	return otherWatcher{}
}

func (otherWatcher) start(func(DeviceChangeEvent)) error {
	return newErr(NotImplemented, "hot-plug notification is only implemented for windows")
}

func (otherWatcher) stop() {}
