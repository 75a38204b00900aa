package los

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
)

// AcquisitionType controls which ephemeris frame is read, whether
// center-of-mass correction and ellipsoid intersection apply, per spec
// §3.1.
type AcquisitionType int

const (
	AcquisitionEarth AcquisitionType = iota
	AcquisitionStellar
	AcquisitionLunar
)

// SpacecraftModel bundles the ephemeris and attitude interpolators for a
// scene.
type SpacecraftModel struct {
	Ephemeris *EphemerisModel
	Attitude  *AttitudeModel
}

// LosModel is the top-level assembly a scene's forward projection runs
// against: WRS path/row, acquisition type, spacecraft state
// interpolators, per-band sensor geometry, and Earth characteristics,
// per spec §3.1.
type LosModel struct {
	WrsPath         int
	WrsRow          int
	AcquisitionType AcquisitionType
	Spacecraft      SpacecraftModel
	Bands           []*BandSensorModel
	Earth           EarthCharacteristics
}

func (m *LosModel) band(bandIndex int) (*BandSensorModel, error) {
	if bandIndex < 0 || bandIndex >= len(m.Bands) {
		return nil, errInvalidInput("LosModel.band", "band index %d out of range [0, %d)", bandIndex, len(m.Bands))
	}
	b := m.Bands[bandIndex]
	if b == nil || !b.BandPresent {
		return nil, errNotFound("LosModel.band", "band index %d not present", bandIndex)
	}
	return b, nil
}

// rollPitchYawMatrix computes the body-to-orbital attitude perturbation
// matrix R_yaw * R_pitch * R_roll. The source carries this formula
// commented out and hard-codes the identity instead
// (ComputeOrientationMatrices below matches that production behavior);
// this unexported helper preserves the documented formula; nothing in
// the package calls it and no test exercises it.
func rollPitchYawMatrix(roll, pitch, yaw float64) Matrix3 {
	rs, rc := math.Sincos(roll)
	ps, pc := math.Sincos(pitch)
	ys, yc := math.Sincos(yaw)

	return Matrix3{
		{pc * yc, yc*rs*ps + rc*ys, rs*ys - ps*rc*yc},
		{-ys * pc, yc*rc - ys*rs*ps, ps*ys*rc + yc*rs},
		{ps, -rs * pc, pc * rc},
	}
}

// ComputeOrientationMatrices builds the orbit-to-ECEF triad from the
// spacecraft position/velocity and returns it alongside the attitude
// perturbation matrix. Matching the source's current (not its
// commented-out) behavior, attpert is always the identity: roll/pitch/yaw
// are accepted for signature compatibility with rollPitchYawMatrix but
// unused here, per the documented decision to preserve this production
// behavior exactly.
func ComputeOrientationMatrices(satPos, satVel Vector3, roll, pitch, yaw float64) (orb2ecf Matrix3, attpert Matrix3, err error) {
	_, _, _ = roll, pitch, yaw

	zAxis := satPos.Scale(-1)
	yAxis := zAxis.Cross(satVel)
	xAxis := yAxis.Cross(zAxis)

	xMag, yMag, zMag := xAxis.Norm(), yAxis.Norm(), zAxis.Norm()
	if xMag == 0 || yMag == 0 || zMag == 0 {
		return Matrix3{}, Matrix3{}, errNumeric("ComputeOrientationMatrices", "degenerate orbital triad")
	}

	xHat := xAxis.Scale(1 / xMag)
	yHat := yAxis.Scale(1 / yMag)
	zHat := zAxis.Scale(1 / zMag)

	orb2ecf = columnsToMatrix(xHat, yHat, zHat)
	return orb2ecf, Identity3(), nil
}

// CorrectForVelocityAberration adjusts los for the relative velocity of
// spacecraft and target, per ias_geo_correct_for_velocity_aberration.c.
// For Earth acquisitions, ground velocity is Earth's rotation crossed
// with the (first-pass) target location; for stellar/lunar, ground
// velocity is zero. Unlike the source (which normalizes the stellar/lunar
// branch by the squared magnitude instead of its square root, an
// apparent bug), this always normalizes by the vector's true length.
func CorrectForVelocityAberration(satPos, satVel Vector3, acqType AcquisitionType, earth EarthCharacteristics, clos Vector3) (Vector3, error) {
	var groundVel Vector3

	if acqType == AcquisitionEarth {
		target, _, _, _, err := FindTargetPosition(satPos, clos, earth, 0)
		if err != nil {
			return Vector3{}, errNumeric("CorrectForVelocityAberration", "finding target position: %v", err)
		}
		earthAngularVel := Vector3{X: 0, Y: 0, Z: earth.AngularVelocity}
		groundVel = earthAngularVel.Cross(target)
	}

	nlos := clos.Sub(satVel.Sub(groundVel).Scale(1 / earth.SpeedOfLight))
	return nlos.Normalize()
}

// InputLineSampToGeodetic is the main forward-projection entry point, per
// spec §4.5: pixel (line, sample, band, sca) plus a target elevation
// yields the geodetic latitude/longitude the pixel observes (for Earth
// acquisitions) or the stellar/lunar LOS expressed as (declination,
// right ascension) (for stellar/lunar acquisitions).
func (m *LosModel) InputLineSampToGeodetic(line, sample float64, bandIndex, scaIndex int, targetElev float64, detType DetectorType) (lat, lon float64, err error) {
	timer := prometheus.NewTimer(projectionDuration.WithLabelValues(acquisitionTypeLabel(m.AcquisitionType)))
	defer func() {
		timer.ObserveDuration()
		observeProjectionOutcome(m.AcquisitionType, err)
	}()

	band, err := m.band(bandIndex)
	if err != nil {
		return 0, 0, err
	}

	tImg, err := band.FindTime(line, sample, scaIndex, detType)
	if err != nil {
		return 0, 0, errInvalidInput("InputLineSampToGeodetic", "find_time: %v", err)
	}

	sensorLos, err := band.FindLOSVector(scaIndex, sample, detType)
	if err != nil {
		return 0, 0, errInvalidInput("InputLineSampToGeodetic", "find_los_vector: %v", err)
	}

	// The source fixes roll/pitch/yaw to zero in this routine rather than
	// interpolating the attitude model; this preserves that behavior.
	const roll, pitch, yaw = 0.0, 0.0, 0.0

	deltaEphTime := epochDelta(band.UtcEpochTime, m.Spacecraft.Ephemeris.RefEpoch) + tImg
	satPos, satVel, err := m.Spacecraft.Ephemeris.PositionVelocityAt(deltaEphTime, lagrangePoints(m.Spacecraft.Ephemeris))
	if err != nil {
		return 0, 0, errInvalidInput("InputLineSampToGeodetic", "ephemeris interpolation: %v", err)
	}

	orb2ecf, attpert, err := ComputeOrientationMatrices(satPos, satVel, roll, pitch, yaw)
	if err != nil {
		return 0, 0, err
	}

	pertLos := attpert.Apply(band.Frame.Sensor2Acs.Apply(sensorLos))
	newLos := orb2ecf.Apply(pertLos)

	// Center-of-mass offset: applied as an active step for Earth
	// acquisitions, per the SPEC_FULL.md decision to follow the active
	// prose description over the source's commented-out implementation.
	effectiveSatPos := satPos
	if m.AcquisitionType == AcquisitionEarth {
		offset := orb2ecf.Apply(attpert.Apply(band.Frame.CenterMass2SensorOffset))
		effectiveSatPos = satPos.Add(offset)
	}

	velAberrLos, err := CorrectForVelocityAberration(effectiveSatPos, satVel, m.AcquisitionType, m.Earth, newLos)
	if err != nil {
		return 0, 0, err
	}

	if m.AcquisitionType != AcquisitionEarth {
		latSph, lonSph, _ := ConvertCart2Sph(velAberrLos)
		return latSph, lonSph, nil
	}

	target, targetLatC, targetLon, targetRadius, err := FindTargetPosition(effectiveSatPos, velAberrLos, m.Earth, targetElev)
	if err != nil {
		return 0, 0, err
	}

	_, targetLatC, targetLon, targetRadius, err = CorrectForLightTravelTime(effectiveSatPos, target, m.Earth)
	if err != nil {
		return 0, 0, err
	}

	latGeodetic, _, err := m.Earth.ConvertGeocentricHeightToGeodetic(targetLatC, targetRadius)
	if err != nil {
		return 0, 0, err
	}
	return latGeodetic, targetLon, nil
}

// lagrangePoints returns the interpolation window size to use for an
// ephemeris model: the full LAGRANGE_PTS count the spec requires
// (§3.1/§3.2), capped to however many samples the model actually holds.
func lagrangePoints(eph *EphemerisModel) int {
	const lagrangePts = 9
	if len(eph.samples) < lagrangePts {
		return len(eph.samples)
	}
	return lagrangePts
}

// GetMoonPositionAtLocation returns the Moon's right ascension,
// declination, and distance relative to the spacecraft for the pixel
// (line, sample, band, sca), per spec §4.6.
func (m *LosModel) GetMoonPositionAtLocation(line, sample float64, bandIndex, scaIndex int, detType DetectorType, adapter NovasAdapter) (rightAscension, declination, distance float64, err error) {
	return m.celestialPositionAtLocation(line, sample, bandIndex, scaIndex, detType, adapter, adapter.MoonPosition)
}

// GetSunPositionAtLocation is the solar analogue of
// GetMoonPositionAtLocation.
func (m *LosModel) GetSunPositionAtLocation(line, sample float64, bandIndex, scaIndex int, detType DetectorType, adapter NovasAdapter) (rightAscension, declination, distance float64, err error) {
	return m.celestialPositionAtLocation(line, sample, bandIndex, scaIndex, detType, adapter, adapter.SunPosition)
}

func (m *LosModel) celestialPositionAtLocation(line, sample float64, bandIndex, scaIndex int, detType DetectorType, adapter NovasAdapter, ephemerisQuery func(float64) (float64, float64, float64, error)) (float64, float64, float64, error) {
	band, err := m.band(bandIndex)
	if err != nil {
		return 0, 0, 0, err
	}

	secondsFromImageStart, err := band.FindTime(line, sample, scaIndex, detType)
	if err != nil {
		return 0, 0, 0, errInvalidInput("celestialPositionAtLocation", "find_time: %v", err)
	}
	imageTime := band.UtcEpochTime.AddSeconds(secondsFromImageStart)

	jdUt1, jdTdb, _, err := ConvertUtcToTimes(imageTime, m.Earth.Ut1UtcCorrection, adapter)
	if err != nil {
		return 0, 0, 0, errAdapter("celestialPositionAtLocation", err, "resolving time standards")
	}
	_ = jdUt1

	raHours, decDeg, distKm, err := ephemerisQuery(jdTdb)
	if err != nil {
		return 0, 0, 0, errAdapter("celestialPositionAtLocation", err, "querying celestial ephemeris")
	}

	const hoursToRad = 15.0 * radiansPerDegree
	bodyTod := ConvertSph2Cart(deg2rad(decDeg), raHours*hoursToRad, distKm*1000.0)

	bodyMod, err := adapter.Nutation(jdTdb, NovasTrueToMean, NovasReducedAccuracy, bodyTod)
	if err != nil {
		return 0, 0, 0, errAdapter("celestialPositionAtLocation", err, "nutation tod2mod")
	}
	bodyEci, err := adapter.Precession(jdTdb, bodyMod, J2000Epoch)
	if err != nil {
		return 0, 0, 0, errAdapter("celestialPositionAtLocation", err, "precession mod2j2k")
	}

	ephemTime := epochDelta(band.UtcEpochTime, m.Spacecraft.Ephemeris.RefEpoch) + secondsFromImageStart
	satPos, _, err := m.Spacecraft.Ephemeris.PositionVelocityAt(ephemTime, lagrangePoints(m.Spacecraft.Ephemeris))
	if err != nil {
		return 0, 0, 0, errInvalidInput("celestialPositionAtLocation", "ephemeris interpolation: %v", err)
	}

	bodySat := bodyEci.Sub(satPos)
	dec, ra, dist := ConvertCart2Sph(bodySat)
	return ra, dec, dist, nil
}
