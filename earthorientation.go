package los

import "math"

// EarthOrientation composes the NovasAdapter facade into the full
// ECI(J2000)<->ECEF transform chain spec §4.1 describes: precession,
// nutation, sidereal rotation, and polar motion, plus the Ω* Earth
// rotation rate used for the velocity cross-term of the state-vector
// transforms. It owns no
// state of its own beyond the adapter and the per-scene Earth
// characteristics (pole wander, UT1-UTC) the CPF supplies.
type EarthOrientation struct {
	adapter NovasAdapter
	earth   EarthCharacteristics
}

// NewEarthOrientation builds an EarthOrientation over adapter, using
// earth's PoleWanderX/Y and Ut1UtcCorrection for the wobble and sidereal
// steps.
func NewEarthOrientation(adapter NovasAdapter, earth EarthCharacteristics) *EarthOrientation {
	return &EarthOrientation{adapter: adapter, earth: earth}
}

// EciToEcef converts a J2000 ECI vector at epoch e to ECEF, applying
// precession (J2000->mean-of-date), nutation (mean->true-of-date),
// sidereal rotation (true-of-date -> pseudo-Earth-fixed), and polar
// motion (pseudo-Earth-fixed -> ECEF), in that order, per
// ias_geo_eci2ecef.c.
func (o *EarthOrientation) EciToEcef(e Epoch, vJ2000 Vector3) (Vector3, error) {
	jdUt1, jdTdb, jdTt, err := ConvertUtcToTimes(e, o.earth.Ut1UtcCorrection, o.adapter)
	if err != nil {
		return Vector3{}, errAdapter("EarthOrientation.EciToEcef", err, "failed resolving time standards")
	}

	vMod, err := o.adapter.Precession(J2000Epoch, vJ2000, jdTdb)
	if err != nil {
		novasAdapterErrors.WithLabelValues("precession").Inc()
		return Vector3{}, errAdapter("EarthOrientation.EciToEcef", err, "precession j2k2mod failed")
	}

	vTod, err := o.adapter.Nutation(jdTdb, NovasMeanToTrue, NovasReducedAccuracy, vMod)
	if err != nil {
		novasAdapterErrors.WithLabelValues("nutation").Inc()
		return Vector3{}, errAdapter("EarthOrientation.EciToEcef", err, "nutation mod2tod failed")
	}

	gast, err := o.siderealEciToEcef(jdUt1, jdTt)
	if err != nil {
		return Vector3{}, err
	}
	vPef := RotateZ(vTod, gast)

	vEcef, err := o.adapter.Wobble(jdTdb, NovasMeanToTrue, o.earth.PoleWanderX, o.earth.PoleWanderY, vPef)
	if err != nil {
		novasAdapterErrors.WithLabelValues("wobble").Inc()
		return Vector3{}, errAdapter("EarthOrientation.EciToEcef", err, "wobble true2mean failed")
	}
	return vEcef, nil
}

// EciToEcefStateVector is EciToEcef extended to also transform velocity,
// per ias_geo_eci2ecef.c's velocity branch (precession/nutation/sidereal
// rotation/polar motion applied to velocity the same as position) plus
// the Ω*×r frame-rotation-rate correction term
// ias_geo_transform_sidereal.c's eci2ecef applies at the sidereal step:
// ecftod_vel.x += -Ω*sin(gast)*pos.x + Ω*cos(gast)*pos.y, and the
// symmetric term for y, where pos is the true-of-date position (before
// the GAST rotation).
func (o *EarthOrientation) EciToEcefStateVector(e Epoch, posJ2000, velJ2000 Vector3) (posEcef, velEcef Vector3, err error) {
	jdUt1, jdTdb, jdTt, err := ConvertUtcToTimes(e, o.earth.Ut1UtcCorrection, o.adapter)
	if err != nil {
		return Vector3{}, Vector3{}, errAdapter("EarthOrientation.EciToEcefStateVector", err, "failed resolving time standards")
	}

	posMod, err := o.adapter.Precession(J2000Epoch, posJ2000, jdTdb)
	if err != nil {
		novasAdapterErrors.WithLabelValues("precession").Inc()
		return Vector3{}, Vector3{}, errAdapter("EarthOrientation.EciToEcefStateVector", err, "precession j2k2mod failed (position)")
	}
	velMod, err := o.adapter.Precession(J2000Epoch, velJ2000, jdTdb)
	if err != nil {
		novasAdapterErrors.WithLabelValues("precession").Inc()
		return Vector3{}, Vector3{}, errAdapter("EarthOrientation.EciToEcefStateVector", err, "precession j2k2mod failed (velocity)")
	}

	posTod, err := o.adapter.Nutation(jdTdb, NovasMeanToTrue, NovasReducedAccuracy, posMod)
	if err != nil {
		novasAdapterErrors.WithLabelValues("nutation").Inc()
		return Vector3{}, Vector3{}, errAdapter("EarthOrientation.EciToEcefStateVector", err, "nutation mod2tod failed (position)")
	}
	velTod, err := o.adapter.Nutation(jdTdb, NovasMeanToTrue, NovasReducedAccuracy, velMod)
	if err != nil {
		novasAdapterErrors.WithLabelValues("nutation").Inc()
		return Vector3{}, Vector3{}, errAdapter("EarthOrientation.EciToEcefStateVector", err, "nutation mod2tod failed (velocity)")
	}

	gast, err := o.siderealEciToEcef(jdUt1, jdTt)
	if err != nil {
		return Vector3{}, Vector3{}, err
	}
	omegaStar, err := o.EarthRotationRate(e)
	if err != nil {
		return Vector3{}, Vector3{}, err
	}

	posPef := RotateZ(posTod, gast)
	velPef := RotateZ(velTod, gast)
	velPef = applyRotationRateCorrection(velPef, posTod, gast, omegaStar, 1)

	posEcef, err = o.adapter.Wobble(jdTdb, NovasMeanToTrue, o.earth.PoleWanderX, o.earth.PoleWanderY, posPef)
	if err != nil {
		novasAdapterErrors.WithLabelValues("wobble").Inc()
		return Vector3{}, Vector3{}, errAdapter("EarthOrientation.EciToEcefStateVector", err, "wobble true2mean failed (position)")
	}
	velEcef, err = o.adapter.Wobble(jdTdb, NovasMeanToTrue, o.earth.PoleWanderX, o.earth.PoleWanderY, velPef)
	if err != nil {
		novasAdapterErrors.WithLabelValues("wobble").Inc()
		return Vector3{}, Vector3{}, errAdapter("EarthOrientation.EciToEcefStateVector", err, "wobble true2mean failed (velocity)")
	}
	return posEcef, velEcef, nil
}

// EcefToEciStateVector is the inverse of EciToEcefStateVector, applying
// the Ω*×r correction with the opposite sign before undoing the GAST
// rotation, per ias_geo_transform_sidereal.c's ecef2eci.
func (o *EarthOrientation) EcefToEciStateVector(e Epoch, posEcef, velEcef Vector3) (posJ2000, velJ2000 Vector3, err error) {
	jdUt1, jdTdb, jdTt, err := ConvertUtcToTimes(e, o.earth.Ut1UtcCorrection, o.adapter)
	if err != nil {
		return Vector3{}, Vector3{}, errAdapter("EarthOrientation.EcefToEciStateVector", err, "failed resolving time standards")
	}

	posPef, err := o.adapter.Wobble(jdTdb, NovasTrueToMean, o.earth.PoleWanderX, o.earth.PoleWanderY, posEcef)
	if err != nil {
		return Vector3{}, Vector3{}, errAdapter("EarthOrientation.EcefToEciStateVector", err, "wobble mean2true failed (position)")
	}
	velPef, err := o.adapter.Wobble(jdTdb, NovasTrueToMean, o.earth.PoleWanderX, o.earth.PoleWanderY, velEcef)
	if err != nil {
		return Vector3{}, Vector3{}, errAdapter("EarthOrientation.EcefToEciStateVector", err, "wobble mean2true failed (velocity)")
	}

	gast, err := o.siderealEciToEcef(jdUt1, jdTt)
	if err != nil {
		return Vector3{}, Vector3{}, err
	}
	omegaStar, err := o.EarthRotationRate(e)
	if err != nil {
		return Vector3{}, Vector3{}, err
	}

	posTod := RotateZ(posPef, -gast)
	velPef = applyRotationRateCorrection(velPef, posTod, gast, omegaStar, -1)
	velTod := RotateZ(velPef, -gast)

	posMod, err := o.adapter.Nutation(jdTdb, NovasTrueToMean, NovasReducedAccuracy, posTod)
	if err != nil {
		return Vector3{}, Vector3{}, errAdapter("EarthOrientation.EcefToEciStateVector", err, "nutation tod2mod failed (position)")
	}
	velMod, err := o.adapter.Nutation(jdTdb, NovasTrueToMean, NovasReducedAccuracy, velTod)
	if err != nil {
		return Vector3{}, Vector3{}, errAdapter("EarthOrientation.EcefToEciStateVector", err, "nutation tod2mod failed (velocity)")
	}

	posJ2000, err = o.adapter.Precession(jdTdb, posMod, J2000Epoch)
	if err != nil {
		return Vector3{}, Vector3{}, errAdapter("EarthOrientation.EcefToEciStateVector", err, "precession mod2j2k failed (position)")
	}
	velJ2000, err = o.adapter.Precession(jdTdb, velMod, J2000Epoch)
	if err != nil {
		return Vector3{}, Vector3{}, errAdapter("EarthOrientation.EcefToEciStateVector", err, "precession mod2j2k failed (velocity)")
	}
	return posJ2000, velJ2000, nil
}

// applyRotationRateCorrection adds (sign=+1) or removes (sign=-1) the
// Ω*×r cross-term arising from the sidereal rotation's time derivative,
// evaluated at the true-of-date position pos.
func applyRotationRateCorrection(vel, pos Vector3, gast, omegaStar float64, sign float64) Vector3 {
	s, c := math.Sin(gast), math.Cos(gast)
	return Vector3{
		X: vel.X + sign*(-omegaStar*s*pos.X+omegaStar*c*pos.Y),
		Y: vel.Y + sign*(-omegaStar*c*pos.X-omegaStar*s*pos.Y),
		Z: vel.Z,
	}
}

// EcefToEci is the inverse of EciToEcef: polar motion removed, sidereal
// rotation undone, nutation removed, precession undone.
func (o *EarthOrientation) EcefToEci(e Epoch, vEcef Vector3) (Vector3, error) {
	jdUt1, jdTdb, jdTt, err := ConvertUtcToTimes(e, o.earth.Ut1UtcCorrection, o.adapter)
	if err != nil {
		return Vector3{}, errAdapter("EarthOrientation.EcefToEci", err, "failed resolving time standards")
	}

	vPef, err := o.adapter.Wobble(jdTdb, NovasTrueToMean, o.earth.PoleWanderX, o.earth.PoleWanderY, vEcef)
	if err != nil {
		return Vector3{}, errAdapter("EarthOrientation.EcefToEci", err, "wobble mean2true failed")
	}

	gast, err := o.siderealEciToEcef(jdUt1, jdTt)
	if err != nil {
		return Vector3{}, err
	}
	vTod := RotateZ(vPef, -gast)

	vMod, err := o.adapter.Nutation(jdTdb, NovasTrueToMean, NovasReducedAccuracy, vTod)
	if err != nil {
		return Vector3{}, errAdapter("EarthOrientation.EcefToEci", err, "nutation tod2mod failed")
	}

	vJ2000, err := o.adapter.Precession(jdTdb, vMod, J2000Epoch)
	if err != nil {
		return Vector3{}, errAdapter("EarthOrientation.EcefToEci", err, "precession mod2j2k failed")
	}
	return vJ2000, nil
}

// siderealEciToEcef returns the GAST rotation angle (radians) to apply
// about Z for the given UT1/TT Julian dates.
func (o *EarthOrientation) siderealEciToEcef(jdUt1, jdTt float64) (float64, error) {
	deltaTtUt1 := (jdTt - jdUt1) * secondsPerDay
	gastHours, err := o.adapter.SiderealTime(jdUt1, 0, deltaTtUt1, NovasGreenwichApparentSiderealTime, 0, NovasReducedAccuracy)
	if err != nil {
		novasAdapterErrors.WithLabelValues("sidereal_time").Inc()
		return 0, errAdapter("EarthOrientation.siderealEciToEcef", err, "sidereal time failed")
	}
	return gastHours * (15.0 * radiansPerDegree), nil
}

const radiansPerDegree = 3.141592653589793 / 180.0

// EarthRotationRate returns Ω*, the instantaneous Earth rotation rate
// (rad/s) at epoch e, estimated by a central finite difference of GAST
// across a small time step, per ias_geo_transform_sidereal.c's treatment
// of the rotation-rate term. EciToEcefStateVector and EcefToEciStateVector
// use it for the velocity cross-term; velocity-aberration correction uses
// the constant EarthCharacteristics.AngularVelocity instead.
func (o *EarthOrientation) EarthRotationRate(e Epoch) (float64, error) {
	const halfStep = 1.0 // second
	ePlus := e.AddSeconds(halfStep)
	eMinus := e.AddSeconds(-halfStep)

	jdUt1Plus, jdTtPlus, err := o.ut1AndTt(ePlus)
	if err != nil {
		return 0, err
	}
	jdUt1Minus, jdTtMinus, err := o.ut1AndTt(eMinus)
	if err != nil {
		return 0, err
	}

	gastPlus, err := o.siderealEciToEcef(jdUt1Plus, jdTtPlus)
	if err != nil {
		return 0, err
	}
	gastMinus, err := o.siderealEciToEcef(jdUt1Minus, jdTtMinus)
	if err != nil {
		return 0, err
	}

	return (gastPlus - gastMinus) / (2 * halfStep), nil
}

func (o *EarthOrientation) ut1AndTt(e Epoch) (jdUt1, jdTt float64, err error) {
	jdUt1, _, jdTt, err = ConvertUtcToTimes(e, o.earth.Ut1UtcCorrection, o.adapter)
	if err != nil {
		return 0, 0, errAdapter("EarthOrientation.ut1AndTt", err, "failed resolving time standards")
	}
	return jdUt1, jdTt, nil
}
