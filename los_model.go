package los

// NewLosModel assembles a LosModel from its already-constructed pieces,
// validating the invariants spec §3.2/§3.3 require: bands must be
// non-empty, and the ephemeris/attitude interpolators must be present.
// A LosModel is assembled once per scene and is immutable through
// projection calls thereafter.
func NewLosModel(wrsPath, wrsRow int, acqType AcquisitionType, spacecraft SpacecraftModel, bands []*BandSensorModel, earth EarthCharacteristics) (*LosModel, error) {
	if spacecraft.Ephemeris == nil {
		return nil, errInvalidInput("NewLosModel", "spacecraft ephemeris model is required")
	}
	if spacecraft.Attitude == nil {
		return nil, errInvalidInput("NewLosModel", "spacecraft attitude model is required")
	}
	if len(bands) == 0 {
		return nil, errInvalidInput("NewLosModel", "at least one sensor band is required")
	}

	return &LosModel{
		WrsPath:         wrsPath,
		WrsRow:          wrsRow,
		AcquisitionType: acqType,
		Spacecraft:      spacecraft,
		Bands:           bands,
		Earth:           earth,
	}, nil
}

// GetSatelliteStateVectorAtLocation returns the interpolated satellite
// position and velocity at the pixel (line, sample, band, sca), in
// whichever frame the acquisition type selects (ECEF for Earth, ECI for
// stellar/lunar), matching the per-pixel state-vector query the source
// system exposes alongside the geodetic projection.
func (m *LosModel) GetSatelliteStateVectorAtLocation(line, sample float64, bandIndex, scaIndex int, detType DetectorType) (position, velocity Vector3, err error) {
	band, err := m.band(bandIndex)
	if err != nil {
		return Vector3{}, Vector3{}, err
	}

	tImg, err := band.FindTime(line, sample, scaIndex, detType)
	if err != nil {
		return Vector3{}, Vector3{}, errInvalidInput("GetSatelliteStateVectorAtLocation", "find_time: %v", err)
	}

	deltaEphTime := epochDelta(band.UtcEpochTime, m.Spacecraft.Ephemeris.RefEpoch) + tImg
	return m.Spacecraft.Ephemeris.PositionVelocityAt(deltaEphTime, lagrangePoints(m.Spacecraft.Ephemeris))
}

// GetSatelliteStateVectorInEcef is GetSatelliteStateVectorAtLocation
// always expressed in ECEF, regardless of acquisition type: Earth
// acquisitions already store ECEF samples and pass through unchanged;
// stellar/lunar acquisitions store ECI samples and are converted via
// orientation's full position/velocity transform (including the Ω*×r
// frame-rotation-rate correction on velocity).
func (m *LosModel) GetSatelliteStateVectorInEcef(line, sample float64, bandIndex, scaIndex int, detType DetectorType, orientation *EarthOrientation) (position, velocity Vector3, err error) {
	band, err := m.band(bandIndex)
	if err != nil {
		return Vector3{}, Vector3{}, err
	}

	position, velocity, err = m.GetSatelliteStateVectorAtLocation(line, sample, bandIndex, scaIndex, detType)
	if err != nil {
		return Vector3{}, Vector3{}, err
	}
	if m.AcquisitionType == AcquisitionEarth {
		return position, velocity, nil
	}

	tImg, err := band.FindTime(line, sample, scaIndex, detType)
	if err != nil {
		return Vector3{}, Vector3{}, errInvalidInput("GetSatelliteStateVectorInEcef", "find_time: %v", err)
	}
	imageTime := band.UtcEpochTime.AddSeconds(tImg)

	position, velocity, err = orientation.EciToEcefStateVector(imageTime, position, velocity)
	if err != nil {
		return Vector3{}, Vector3{}, errAdapter("GetSatelliteStateVectorInEcef", err, "converting ECI state vector to ECEF")
	}
	return position, velocity, nil
}
