package duvc

// CapabilitySnapshot is a point-in-time record of every CamProp/VidProp's
// support, legal range, and current setting on a connection. Building one
// is the recommended way to discover what a device supports before driving
// it, rather than probing properties one at a time.
type CapabilitySnapshot struct {
	camera       map[CamProp]Capability
	video        map[VidProp]Capability
	inaccessible bool
}

// ScanCapabilities probes every known CamProp and VidProp on conn. A
// property whose range or current value can't be read is recorded with
// Supported=false rather than aborting the scan — PropertyNotSupported from
// the platform is expected and routine, not a scan failure. Only
// DeviceNotFound (the device has disappeared) aborts and is returned.
func ScanCapabilities(conn *Connection) (*CapabilitySnapshot, error) {
	s := &CapabilitySnapshot{
		camera: make(map[CamProp]Capability, len(AllCamProps())),
		video:  make(map[VidProp]Capability, len(AllVidProps())),
	}
	if err := s.Refresh(conn); err != nil {
		return nil, err
	}
	return s, nil
}

// inaccessibleSnapshot builds the CapabilitySnapshot for a device whose
// connection could not even be opened. Every property reads Supported=false
// and Inaccessible reports true, rather than surfacing the open failure as
// an error from the scan itself.
func inaccessibleSnapshot() *CapabilitySnapshot {
	s := &CapabilitySnapshot{
		camera:       make(map[CamProp]Capability, len(AllCamProps())),
		video:        make(map[VidProp]Capability, len(AllVidProps())),
		inaccessible: true,
	}
	for _, p := range AllCamProps() {
		s.camera[p] = Capability{Supported: false}
	}
	for _, p := range AllVidProps() {
		s.video[p] = Capability{Supported: false}
	}
	return s
}

// Inaccessible reports whether the snapshot's device could not be opened at
// all, rather than being scanned and found to support nothing.
func (s *CapabilitySnapshot) Inaccessible() bool {
	return s.inaccessible
}

// Refresh re-probes every property against conn, replacing the snapshot's
// contents in place.
func (s *CapabilitySnapshot) Refresh(conn *Connection) error {
	camera := make(map[CamProp]Capability, len(AllCamProps()))
	for _, p := range AllCamProps() {
		c, err := scanCamProp(conn, p)
		if err != nil {
			return err
		}
		camera[p] = c
	}

	video := make(map[VidProp]Capability, len(AllVidProps()))
	for _, p := range AllVidProps() {
		c, err := scanVidProp(conn, p)
		if err != nil {
			return err
		}
		video[p] = c
	}

	s.camera = camera
	s.video = video
	return nil
}

func scanCamProp(conn *Connection, p CamProp) (Capability, error) {
	r, err := conn.GetCameraPropertyRange(p)
	if err != nil {
		if !Is(err, DeviceNotFound) {
			return Capability{Supported: false}, nil
		}
		return Capability{}, err
	}
	cur, err := conn.GetCameraProperty(p)
	if err != nil {
		if !Is(err, DeviceNotFound) {
			return Capability{Supported: false}, nil
		}
		return Capability{}, err
	}
	return Capability{Supported: true, Range: r, Current: cur}, nil
}

func scanVidProp(conn *Connection, p VidProp) (Capability, error) {
	r, err := conn.GetVideoPropertyRange(p)
	if err != nil {
		if !Is(err, DeviceNotFound) {
			return Capability{Supported: false}, nil
		}
		return Capability{}, err
	}
	cur, err := conn.GetVideoProperty(p)
	if err != nil {
		if !Is(err, DeviceNotFound) {
			return Capability{Supported: false}, nil
		}
		return Capability{}, err
	}
	return Capability{Supported: true, Range: r, Current: cur}, nil
}

// SupportsCameraProperty reports whether p was found supported by the last scan.
func (s *CapabilitySnapshot) SupportsCameraProperty(p CamProp) bool {
	return s.camera[p].Supported
}

// SupportsVideoProperty reports whether p was found supported by the last scan.
func (s *CapabilitySnapshot) SupportsVideoProperty(p VidProp) bool {
	return s.video[p].Supported
}

// CameraProperty returns the recorded Capability for p, zero-value if p
// wasn't supported (or the snapshot predates it being added).
func (s *CapabilitySnapshot) CameraProperty(p CamProp) Capability {
	return s.camera[p]
}

// VideoProperty returns the recorded Capability for p, zero-value if p
// wasn't supported.
func (s *CapabilitySnapshot) VideoProperty(p VidProp) Capability {
	return s.video[p]
}
