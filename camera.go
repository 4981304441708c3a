package duvc

import "sync"

// Camera is the high-level facade over a single device: it owns a
// Connection, opening it lazily on first use rather than at construction
// (contrast Connect, which opens eagerly). This matches the common calling
// pattern of obtaining a Camera from enumeration and not touching it again
// until a UI thread actually needs to read or write a property.
type Camera struct {
	mu     sync.Mutex
	device Device
	opts   cameraOptions
	conn   *Connection
}

// OpenCamera constructs a Camera for device. No platform resources are
// acquired until the first property operation or an explicit call that
// forces connection (Snapshot, IsValid).
func OpenCamera(device Device, opts ...CameraOption) (*Camera, error) {
	var o cameraOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Camera{device: device, opts: o}, nil
}

// OpenCameraByIndex opens the Nth device returned by the default
// Enumerator, in enumeration order. Returns DeviceNotFound if idx is out of
// range.
func OpenCameraByIndex(idx int, opts ...CameraOption) (*Camera, error) {
	devices, err := ListDevices()
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(devices) {
		return nil, newErr(DeviceNotFound, "no device at index %d (found %d)", idx, len(devices))
	}
	return OpenCamera(devices[idx], opts...)
}

// Device returns the device this Camera was opened for.
func (c *Camera) Device() Device {
	return c.device
}

// ensureConnection binds the Camera's Connection on first use. Once bound,
// the underlying Connection's own thread-affinity check governs every later
// call, so a Camera inherits "first caller's thread owns it" from
// Connection.
func (c *Camera) ensureConnection() (*Connection, error) {
	if c.conn != nil {
		return c.conn, nil
	}
	var connOpts []ConnOption
	if c.opts.logger != nil {
		connOpts = append(connOpts, WithConnectionLogger(c.opts.logger))
	}
	conn, err := Connect(c.device, connOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return conn, nil
}

// GetCameraProperty reads a camera-control property, opening the underlying
// connection first if this is the Camera's first operation.
func (c *Camera) GetCameraProperty(p CamProp) (Setting, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn, err := c.ensureConnection()
	if err != nil {
		return Setting{}, err
	}
	return conn.GetCameraProperty(p)
}

// SetCameraProperty writes a camera-control property.
func (c *Camera) SetCameraProperty(p CamProp, s Setting) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn, err := c.ensureConnection()
	if err != nil {
		return err
	}
	return conn.SetCameraProperty(p, s)
}

// GetCameraPropertyRange queries a camera-control property's legal range.
func (c *Camera) GetCameraPropertyRange(p CamProp) (Range, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn, err := c.ensureConnection()
	if err != nil {
		return Range{}, err
	}
	return conn.GetCameraPropertyRange(p)
}

// GetVideoProperty reads a video-proc-amp property.
func (c *Camera) GetVideoProperty(p VidProp) (Setting, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn, err := c.ensureConnection()
	if err != nil {
		return Setting{}, err
	}
	return conn.GetVideoProperty(p)
}

// SetVideoProperty writes a video-proc-amp property.
func (c *Camera) SetVideoProperty(p VidProp, s Setting) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn, err := c.ensureConnection()
	if err != nil {
		return err
	}
	return conn.SetVideoProperty(p, s)
}

// GetVideoPropertyRange queries a video-proc-amp property's legal range.
func (c *Camera) GetVideoPropertyRange(p VidProp) (Range, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn, err := c.ensureConnection()
	if err != nil {
		return Range{}, err
	}
	return conn.GetVideoPropertyRange(p)
}

// VendorGet reads a vendor extension property.
func (c *Camera) VendorGet(guid GUID, propID uint32) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn, err := c.ensureConnection()
	if err != nil {
		return nil, err
	}
	return conn.VendorGet(guid, propID)
}

// VendorSet writes a vendor extension property.
func (c *Camera) VendorSet(guid GUID, propID uint32, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn, err := c.ensureConnection()
	if err != nil {
		return err
	}
	return conn.VendorSet(guid, propID, data)
}

// Snapshot scans every CamProp and VidProp on the Camera's connection,
// opening the connection first if needed. A device that can't be opened at
// all never surfaces as an error here: it comes back as an inaccessible
// snapshot with every property Supported=false, so callers can always
// inspect a CapabilitySnapshot rather than branch on the open failure.
func (c *Camera) Snapshot() (*CapabilitySnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn, err := c.ensureConnection()
	if err != nil {
		return inaccessibleSnapshot(), nil
	}
	return ScanCapabilities(conn)
}

// IsValid reports whether the Camera's connection (opening it if needed) is
// still usable. A failure to open at all is treated as invalid rather than
// propagated, since IsValid's contract is a boolean probe.
func (c *Camera) IsValid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn, err := c.ensureConnection()
	if err != nil {
		return false
	}
	return conn.IsValid()
}

// Close releases the Camera's connection, if one was ever opened. Safe to
// call on a Camera that never connected.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
