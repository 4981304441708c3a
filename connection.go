package duvc

import "sync"

// connState models the per-connection state machine from spec.md §4.4.
//
//	          open()
//	  Closed ───────► Opening ──ok──► Open ──op failure (DeviceNotFound)──► Lost
//	    ▲               │                │                                     │
//	    │               └─err─► Closed   └── Close() ─────────────────────────►│
//	    └────────────────────────── Close() ────────────────────────────────────┘
//
// Lost and Closed are terminal; callers must create a new Connection.
type connState int32

const (
	stateClosed connState = iota
	stateOpening
	stateOpen
	stateLost
)

// platformConn is the seam a platform backend implements to satisfy
// Connection. Tests inject a fake; connection_windows.go provides the real
// COM-backed implementation; connection_other.go a NotImplemented stub.
type platformConn interface {
	getCameraProperty(id int32) (value int32, flags uint32, err error)
	setCameraProperty(id int32, value int32, flags uint32) error
	getCameraPropertyRange(id int32) (Range, error)

	getVideoProperty(id int32) (value int32, flags uint32, err error)
	setVideoProperty(id int32, value int32, flags uint32) error
	getVideoPropertyRange(id int32) (Range, error)

	vendorGet(guid GUID, propID uint32) ([]byte, error)
	vendorSet(guid GUID, propID uint32, data []byte) error

	close() error
}

// connOptions configures a Connection.
type connOptions struct {
	logger *Logger
}

// ConnOption configures a Connection at construction.
type ConnOption func(*connOptions)

// WithConnectionLogger attaches a Logger the Connection will use for
// warning/error diagnostics (e.g. a swallowed Close failure).
func WithConnectionLogger(l *Logger) ConnOption {
	return func(o *connOptions) { o.logger = l }
}

// Connection is a thread-affine handle to a device's control interfaces. It
// exclusively owns its underlying platform handles; Close releases them.
// Not shareable across threads: the thread that performs the first
// operation becomes the owner, and calls from any other thread are a usage
// error surfaced as SystemError rather than silent corruption.
type Connection struct {
	mu     sync.Mutex
	device Device
	state  connState
	impl   platformConn
	logger *Logger

	threadBound bool
	ownerThread uint64
}

// Connect opens a Connection to device. Opening is eager: platform resources
// are acquired before Connect returns (contrast with Camera, which opens
// lazily on first operation).
func Connect(device Device, opts ...ConnOption) (*Connection, error) {
	var o connOptions
	for _, opt := range opts {
		opt(&o)
	}
	c := &Connection{device: device, state: stateOpening, logger: o.logger}
	impl, err := openPlatformConnection(device)
	if err != nil {
		c.state = stateClosed
		return nil, err
	}
	c.impl = impl
	c.state = stateOpen
	return c, nil
}

// Device returns the device this connection was opened against.
func (c *Connection) Device() Device {
	return c.device
}

// checkThread enforces the thread-affinity rule. The first caller to reach
// this binds the connection to the current OS thread; every later caller
// must be running on that same thread.
func (c *Connection) checkThread() error {
	tid := currentThreadID()
	if !c.threadBound {
		c.threadBound = true
		c.ownerThread = tid
		return nil
	}
	if c.ownerThread != tid {
		return newErr(SystemError, "connection for %s used from a different thread than its first operation ran on", c.device)
	}
	return nil
}

func (c *Connection) guard() error {
	if err := c.checkThread(); err != nil {
		return err
	}
	switch c.state {
	case stateClosed, stateLost:
		return newErr(DeviceNotFound, "connection for %s is closed", c.device)
	}
	return nil
}

// noteFailure transitions the connection to Lost when an operation reports
// DeviceNotFound, per the failure semantics in spec.md §4.4: a DeviceNotFound
// result indicates the caller should discard the connection, and no other
// failure invalidates it.
func (c *Connection) noteFailure(err error) {
	if err != nil && Is(err, DeviceNotFound) {
		c.state = stateLost
	}
}

// GetCameraProperty reads a camera-control property's current value and mode.
func (c *Connection) GetCameraProperty(p CamProp) (Setting, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guard(); err != nil {
		return Setting{}, err
	}
	value, flags, err := c.impl.getCameraProperty(camPropID(p))
	c.noteFailure(err)
	if err != nil {
		return Setting{}, err
	}
	return Setting{Value: value, Mode: modeFromFlags(flags)}, nil
}

// SetCameraProperty writes a camera-control property. The range is queried
// first; a value failing Range.IsValid is rejected with InvalidValue without
// ever reaching the platform, and the library never auto-clamps.
func (c *Connection) SetCameraProperty(p CamProp, s Setting) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guard(); err != nil {
		return err
	}
	r, err := c.impl.getCameraPropertyRange(camPropID(p))
	if err != nil {
		c.noteFailure(err)
		return err
	}
	if !r.IsValid(s.Value) {
		return newErr(InvalidValue, "value %d for %s out of range [%d,%d] step %d", s.Value, p, r.Min, r.Max, r.Step)
	}
	err = c.impl.setCameraProperty(camPropID(p), s.Value, s.Mode.toFlags())
	c.noteFailure(err)
	return err
}

// GetCameraPropertyRange queries a camera-control property's legal range and
// power-on default.
func (c *Connection) GetCameraPropertyRange(p CamProp) (Range, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guard(); err != nil {
		return Range{}, err
	}
	r, err := c.impl.getCameraPropertyRange(camPropID(p))
	c.noteFailure(err)
	return r, err
}

// GetVideoProperty reads a video-proc-amp property's current value and mode.
func (c *Connection) GetVideoProperty(p VidProp) (Setting, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guard(); err != nil {
		return Setting{}, err
	}
	value, flags, err := c.impl.getVideoProperty(vidPropID(p))
	c.noteFailure(err)
	if err != nil {
		return Setting{}, err
	}
	return Setting{Value: value, Mode: modeFromFlags(flags)}, nil
}

// SetVideoProperty writes a video-proc-amp property, following the identical
// range-check-then-set shape as SetCameraProperty.
func (c *Connection) SetVideoProperty(p VidProp, s Setting) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guard(); err != nil {
		return err
	}
	r, err := c.impl.getVideoPropertyRange(vidPropID(p))
	if err != nil {
		c.noteFailure(err)
		return err
	}
	if !r.IsValid(s.Value) {
		return newErr(InvalidValue, "value %d for %s out of range [%d,%d] step %d", s.Value, p, r.Min, r.Max, r.Step)
	}
	err = c.impl.setVideoProperty(vidPropID(p), s.Value, s.Mode.toFlags())
	c.noteFailure(err)
	return err
}

// GetVideoPropertyRange queries a video-proc-amp property's legal range and
// power-on default.
func (c *Connection) GetVideoPropertyRange(p VidProp) (Range, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guard(); err != nil {
		return Range{}, err
	}
	r, err := c.impl.getVideoPropertyRange(vidPropID(p))
	c.noteFailure(err)
	return r, err
}

// VendorGet reads a vendor extension property as an opaque byte payload.
func (c *Connection) VendorGet(guid GUID, propID uint32) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guard(); err != nil {
		return nil, err
	}
	data, err := c.impl.vendorGet(guid, propID)
	c.noteFailure(err)
	return data, err
}

// VendorSet writes a vendor extension property as an opaque byte payload.
func (c *Connection) VendorSet(guid GUID, propID uint32, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guard(); err != nil {
		return err
	}
	err := c.impl.vendorSet(guid, propID, data)
	c.noteFailure(err)
	return err
}

// IsValid performs a cheap connectivity probe: an attempted read of the
// first camera-control property's range. It never mutates device state.
func (c *Connection) IsValid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guard(); err != nil {
		return false
	}
	_, err := c.impl.getCameraPropertyRange(camPropID(Pan))
	if err != nil && Is(err, DeviceNotFound) {
		c.state = stateLost
		return false
	}
	return true
}

// Close releases the connection's platform handles. Always safe to call
// more than once. Close failures are swallowed, per spec: a resource leak
// is preferable to a terminated process on cleanup. A swallowed failure is
// logged at Warning through the Logger attached with WithConnectionLogger;
// without one it is not logged.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateClosed {
		return nil
	}
	var err error
	if c.impl != nil {
		err = c.impl.close()
	}
	c.state = stateClosed
	if err != nil && c.logger != nil {
		c.logger.Warnf("closing connection for %s: %v", c.device, err)
	}
	return nil
}
