package duvc

import "strings"

// Device is a discovered video-input endpoint. Values are immutable and
// cheap to copy; the enumerator is the only producer.
type Device struct {
	// Name is a human-readable label, not guaranteed unique.
	Name string
	// Path is the platform-assigned stable identifier, compared
	// case-insensitively. Stable across unplug/replug of the same port
	// within a host session.
	Path string
}

// Equal reports identity per spec: two Devices are equal iff their paths
// match case-insensitively; if either path is empty, equality falls back to
// case-sensitive name comparison.
func (d Device) Equal(other Device) bool {
	if d.Path != "" && other.Path != "" {
		return strings.EqualFold(d.Path, other.Path)
	}
	return d.Name == other.Name
}

func (d Device) String() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Path
}

// platformEnumerator is the seam platform backends implement. Tests inject a
// fake implementation; device_windows.go provides the real COM-backed one,
// device_other.go a NotImplemented stub.
type platformEnumerator interface {
	listDevices() ([]Device, error)
}

// enumOptions configures an Enumerator. Kept as a struct (rather than
// inlining fields into Enumerator) so EnumerateOption can grow without
// breaking callers, mirroring the teacher's DeviceListOption shape.
type enumOptions struct {
	includeUnnamed bool
	classFilter    *GUID
}

// EnumerateOption configures device enumeration.
type EnumerateOption func(*enumOptions)

// WithIncludeUnnamed includes devices that report an empty friendly name
// (some virtual/filter-chain cameras do). By default such devices are still
// returned — this option exists for forward compatibility with stricter
// future filtering and is a no-op today since the core never invents a name
// for a device that doesn't have one.
func WithIncludeUnnamed() EnumerateOption {
	return func(o *enumOptions) { o.includeUnnamed = true }
}

// Enumerator lists and probes video-input devices. The zero value is not
// usable; construct with NewEnumerator.
type Enumerator struct {
	opts enumOptions
	impl platformEnumerator
}

// NewEnumerator constructs an Enumerator bound to the real platform backend.
func NewEnumerator(opts ...EnumerateOption) *Enumerator {
	var o enumOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Enumerator{opts: o, impl: newPlatformEnumerator(o)}
}

// ListDevices enumerates all present video-input devices. Returns an empty,
// non-nil slice if none are present — never DeviceNotFound merely because
// the list is empty. Fails only if the platform enumeration framework
// itself is unavailable.
func (e *Enumerator) ListDevices() ([]Device, error) {
	devices, err := e.impl.listDevices()
	if err != nil {
		return nil, err
	}
	if devices == nil {
		devices = []Device{}
	}
	return devices, nil
}

// IsDeviceConnected re-enumerates and searches by path (case-insensitive),
// falling back to name. It reports presence, not availability: a device
// held exclusively by another process still reports true. Never returns an
// error; every failure collapses to false.
func (e *Enumerator) IsDeviceConnected(d Device) bool {
	devices, err := e.impl.listDevices()
	if err != nil {
		return false
	}
	for _, candidate := range devices {
		if candidate.Equal(d) {
			return true
		}
	}
	return false
}

// FindDeviceByPath performs a case-insensitive path lookup, returning
// DeviceNotFound if no device with that path is currently present.
func (e *Enumerator) FindDeviceByPath(path string) (Device, error) {
	devices, err := e.impl.listDevices()
	if err != nil {
		return Device{}, err
	}
	for _, candidate := range devices {
		if strings.EqualFold(candidate.Path, path) {
			return candidate, nil
		}
	}
	return Device{}, newErr(DeviceNotFound, "no device with path %q", path)
}

// Package-level convenience wrapping a default Enumerator, mirroring the
// teacher's package-level DeviceList()/OpenDevice() helpers in usb.go.

// ListDevices enumerates all present video-input devices using the default
// enumerator.
func ListDevices() ([]Device, error) {
	return NewEnumerator().ListDevices()
}

// IsDeviceConnected probes presence of d using the default enumerator.
func IsDeviceConnected(d Device) bool {
	return NewEnumerator().IsDeviceConnected(d)
}

// FindDeviceByPath looks up a device by path using the default enumerator.
func FindDeviceByPath(path string) (Device, error) {
	return NewEnumerator().FindDeviceByPath(path)
}
