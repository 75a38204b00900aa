package los

import (
	"math"
	"sync"
)

// NovasDirection selects the sense of a nutation/wobble transform.
type NovasDirection int

const (
	// NovasMeanToTrue transforms mean-of-date/mean-pole to true-of-date/true-pole.
	NovasMeanToTrue NovasDirection = 0
	// NovasTrueToMean transforms true-of-date/true-pole to mean-of-date/mean-pole.
	NovasTrueToMean NovasDirection = -1
)

// NovasAccuracy selects NOVAS's internal series truncation.
type NovasAccuracy int

const (
	NovasFullAccuracy    NovasAccuracy = 0
	NovasReducedAccuracy NovasAccuracy = 1
)

// NovasSiderealKind selects which sidereal time NOVAS computes.
type NovasSiderealKind int

const (
	NovasGreenwichMeanSiderealTime NovasSiderealKind = iota
	NovasGreenwichApparentSiderealTime
)

// J2000Epoch is the Julian date of the J2000.0 inertial epoch
// (2000-01-01 12:00 TT).
const J2000Epoch = 2451545.0

// NovasAdapter is a thin facade over the external NOVAS astronomical
// routines (§6.2). The core treats it as an opaque collaborator: it
// never reimplements sidereal time, nutation, precession, or polar
// motion series itself, it only calls through this interface. Initialize
// and Shutdown must each be called exactly once per process and must not
// be interleaved with transform calls (§5).
type NovasAdapter interface {
	// Tdb2Tt converts a Barycentric Dynamical Time Julian date to
	// Terrestrial Time, returning the TT Julian date and the TDB-TT
	// delta in seconds (jdTt = jdTdb - delta/86400).
	Tdb2Tt(jdTdb float64) (jdTt float64, deltaSeconds float64, err error)

	// Precession rotates vIn from the mean equator/equinox of jdFrom to
	// the mean equator/equinox of jdTo.
	Precession(jdFrom float64, vIn Vector3, jdTo float64) (vOut Vector3, err error)

	// Nutation applies (direction=MeanToTrue) or removes
	// (direction=TrueToMean) nutation at epoch jdTdb.
	Nutation(jdTdb float64, direction NovasDirection, accuracy NovasAccuracy, vIn Vector3) (vOut Vector3, err error)

	// Wobble applies (direction=MeanToTrue) or removes
	// (direction=TrueToMean) polar motion given pole offsets xp, yp
	// (arc-seconds) at epoch jdTdb.
	Wobble(jdTdb float64, direction NovasDirection, xp, yp float64, vIn Vector3) (vOut Vector3, err error)

	// SiderealTime returns Greenwich sidereal time in hours for the
	// given UT1 Julian date, UT1 fraction, TT-UT1 delta (seconds), kind,
	// equinox method, and accuracy.
	SiderealTime(jdUt1High, jdUt1Low, deltaTtUt1 float64, kind NovasSiderealKind, equinoxMethod int, accuracy NovasAccuracy) (gastHours float64, err error)

	// MoonPosition returns the Moon's geocentric right ascension (hours),
	// declination (degrees), and distance (km) in the true-of-date frame
	// at Julian date jdTdb, per spec §4.6's lunar-ephemeris-service
	// collaborator.
	MoonPosition(jdTdb float64) (raHours, decDeg, distKm float64, err error)

	// SunPosition returns the Sun's geocentric right ascension (hours),
	// declination (degrees), and distance (km) in the true-of-date frame
	// at Julian date jdTdb.
	SunPosition(jdTdb float64) (raHours, decDeg, distKm float64, err error)

	// Initialize performs any required per-process NOVAS setup (loading
	// ephemeris tables, etc). Must be called exactly once per process.
	Initialize() error
	// Shutdown releases per-process NOVAS resources. Must be called
	// exactly once per process, after which no further calls are valid.
	Shutdown() error
}

// DefaultNovasAdapter is a reduced-precision, pure-Go stand-in for the
// real NOVAS library: production deployments of this core link the real
// NOVAS routines behind the same NovasAdapter interface, but for
// standalone operation and for the test suite this adapter implements
// IAU 1976 precession, the dominant term of the IAU 1980 nutation series,
// and GMST plus the equation of the equinoxes directly (grounded on
// the nutation-series and frame-bias treatment in the goeph example's
// coord package), rather than requiring a NOVAS binding to be present.
type DefaultNovasAdapter struct {
	initOnce     sync.Once
	shutdownOnce sync.Once
	initialized  bool
}

// NewDefaultNovasAdapter returns a ready-to-initialize DefaultNovasAdapter.
func NewDefaultNovasAdapter() *DefaultNovasAdapter {
	return &DefaultNovasAdapter{}
}

func (a *DefaultNovasAdapter) Initialize() error {
	a.initOnce.Do(func() {
		a.initialized = true
		logDebugf("default NOVAS adapter initialized")
	})
	return nil
}

func (a *DefaultNovasAdapter) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.initialized = false
		logDebugf("default NOVAS adapter shut down")
	})
	return nil
}

// Tdb2Tt implements the standard (sub-2-millisecond) periodic TDB-TT
// relation; jdTt is numerically indistinguishable from jdTdb at the
// precision this adapter targets, so delta is returned directly from the
// closed-form periodic term.
func (a *DefaultNovasAdapter) Tdb2Tt(jdTdb float64) (float64, float64, error) {
	t := (jdTdb - J2000Epoch) / 36525.0
	g := deg2rad(357.53 + 0.9856003*(jdTdb-J2000Epoch))
	deltaSeconds := 0.001658*math.Sin(g) + 0.000014*math.Sin(2*g)
	_ = t
	jdTt := jdTdb - deltaSeconds/secondsPerDay
	return jdTt, deltaSeconds, nil
}

// Precession applies the IAU 1976 precession angles (zeta, z, theta)
// about the J2000 mean pole between jdFrom and jdTo.
func (a *DefaultNovasAdapter) Precession(jdFrom float64, vIn Vector3, jdTo float64) (Vector3, error) {
	zeta, z, theta := precessionAngles(jdFrom, jdTo)
	m := Rz(-z).Mul(Ry(theta)).Mul(Rz(-zeta))
	return m.Apply(vIn), nil
}

// precessionAngles returns the IAU 1976 precession angles (radians) for
// rotating from epoch t0 to epoch t1 (both full Julian dates).
func precessionAngles(t0, t1 float64) (zeta, z, theta float64) {
	capT := (t0 - J2000Epoch) / 36525.0
	lilT := (t1 - t0) / 36525.0

	asec := func(a0, a1, a2 float64) float64 {
		return ((a2*lilT+a1)*lilT + a0) * lilT
	}

	zetaAsec := asec(2306.2181+1.39656*capT-0.000139*capT*capT, 0.30188-0.000344*capT, 0.017998)
	zAsec := asec(2306.2181+1.39656*capT-0.000139*capT*capT, 1.09468+0.000066*capT, 0.018203)
	thetaAsec := asec(2004.3109-0.85330*capT-0.000217*capT*capT, -0.42665-0.000217*capT, -0.041833)

	const asec2rad = math.Pi / (180.0 * 3600.0)
	return zetaAsec * asec2rad, zAsec * asec2rad, thetaAsec * asec2rad
}

// Nutation applies a low-order (two-term) nutation approximation in
// longitude/obliquity, sufficient for the adapter's documented reduced
// precision. direction selects mean->true (dPsi,dEps applied) or
// true->mean (the transposed rotation).
func (a *DefaultNovasAdapter) Nutation(jdTdb float64, direction NovasDirection, accuracy NovasAccuracy, vIn Vector3) (Vector3, error) {
	dPsi, dEps, meanEps := nutationAngles(jdTdb)
	m := Rx(-(meanEps + dEps)).Mul(Rz(-dPsi)).Mul(Rx(meanEps))
	if direction == NovasTrueToMean {
		m = m.Transpose()
	}
	return m.Apply(vIn), nil
}

// nutationAngles returns the principal nutation-in-longitude and
// nutation-in-obliquity terms (radians) plus the mean obliquity, using
// the dominant 18.6-year lunar-node term of the IAU 1980 series.
func nutationAngles(jdTdb float64) (dPsi, dEps, meanEps float64) {
	capT := (jdTdb - J2000Epoch) / 36525.0
	omega := deg2rad(125.04452 - 1934.136261*capT)
	const asec2rad = math.Pi / (180.0 * 3600.0)
	dPsi = -17.20*math.Sin(omega) * asec2rad
	dEps = 9.20 * math.Cos(omega) * asec2rad
	meanEps = deg2rad(23.439291 - 0.0130042*capT)
	return dPsi, dEps, meanEps
}

// Wobble applies the polar-motion rotation given pole offsets (converted
// from arc-seconds to radians).
func (a *DefaultNovasAdapter) Wobble(jdTdb float64, direction NovasDirection, xp, yp float64, vIn Vector3) (Vector3, error) {
	const asec2rad = math.Pi / (180.0 * 3600.0)
	xr, yr := xp*asec2rad, yp*asec2rad
	m := Ry(-xr).Mul(Rx(-yr))
	if direction == NovasTrueToMean {
		m = m.Transpose()
	}
	return m.Apply(vIn), nil
}

// SiderealTime returns Greenwich apparent sidereal time (hours) via the
// standard GMST polynomial plus the equation of the equinoxes
// (dPsi*cos(meanEps)), the classical NOVAS "equinox method" result.
func (a *DefaultNovasAdapter) SiderealTime(jdUt1High, jdUt1Low float64, deltaTtUt1 float64, kind NovasSiderealKind, equinoxMethod int, accuracy NovasAccuracy) (float64, error) {
	jdUt1 := jdUt1High + jdUt1Low
	capT := (jdUt1 - J2000Epoch) / 36525.0

	// Earth rotation angle (revolutions) plus the precession polynomial,
	// which is in arc-seconds (15 arc-seconds per second of time).
	gmstSeconds := 86400.0*(0.7790572732640+0.00273781191135448*(jdUt1-J2000Epoch)+math.Mod(jdUt1, 1.0)) +
		(0.014506+4612.156534*capT+1.3915817*capT*capT-
			0.00000044*capT*capT*capT)/15.0
	gmstHours := math.Mod(gmstSeconds/3600.0, 24.0)
	if gmstHours < 0 {
		gmstHours += 24.0
	}

	if kind == NovasGreenwichMeanSiderealTime {
		return gmstHours, nil
	}

	jdTdb := jdUt1 + deltaTtUt1/secondsPerDay
	dPsi, _, meanEps := nutationAngles(jdTdb)
	eqeqHours := (dPsi * math.Cos(meanEps)) * (180.0 / math.Pi) / 15.0
	gastHours := math.Mod(gmstHours+eqeqHours, 24.0)
	if gastHours < 0 {
		gastHours += 24.0
	}
	return gastHours, nil
}

func deg2rad(d float64) float64 { return d * math.Pi / 180.0 }

// SunPosition implements Meeus's low-precision solar position algorithm
// (ch. 25 "low accuracy"), good to about 0.01 degrees, as this adapter's
// documented reduced-precision stand-in for a NOVAS solar ephemeris call.
func (a *DefaultNovasAdapter) SunPosition(jdTdb float64) (float64, float64, float64, error) {
	capT := (jdTdb - J2000Epoch) / 36525.0
	l0 := math.Mod(280.46646+capT*(36000.76983+capT*0.0003032), 360.0)
	m := deg2rad(math.Mod(357.52911+capT*(35999.05029-0.0001537*capT), 360.0))
	c := (1.914602-0.004817*capT-0.000014*capT*capT)*math.Sin(m) +
		(0.019993-0.000101*capT)*math.Sin(2*m) +
		0.000289*math.Sin(3*m)
	trueLon := deg2rad(l0 + c)

	obliquity := deg2rad(23.439291 - 0.0130042*capT)
	ra := math.Atan2(math.Cos(obliquity)*math.Sin(trueLon), math.Cos(trueLon))
	dec := math.Asin(math.Sin(obliquity) * math.Sin(trueLon))

	e := 0.016708634 - capT*(0.000042037+0.0000001267*capT)
	distAU := 1.000001018 * (1 - e*e) / (1 + e*math.Cos(m+deg2rad(c)))
	const kmPerAU = 1.495978707e8

	raHours := math.Mod(ra*(180.0/math.Pi)/15.0+24.0, 24.0)
	return raHours, dec * (180.0 / math.Pi), distAU * kmPerAU, nil
}

// MoonPosition implements the dominant terms of Meeus's low-precision
// lunar position algorithm (ch. 47, main periodic terms only), another
// documented reduced-precision stand-in for a NOVAS lunar ephemeris call.
func (a *DefaultNovasAdapter) MoonPosition(jdTdb float64) (float64, float64, float64, error) {
	capT := (jdTdb - J2000Epoch) / 36525.0

	lPrime := deg2rad(math.Mod(218.3164477+481267.88123421*capT, 360.0))
	d := deg2rad(math.Mod(297.8501921+445267.1114034*capT, 360.0))
	m := deg2rad(math.Mod(357.5291092+35999.0502909*capT, 360.0))
	mPrime := deg2rad(math.Mod(134.9633964+477198.8675055*capT, 360.0))
	f := deg2rad(math.Mod(93.2720950+483202.0175233*capT, 360.0))

	lonCorr := 6.288774*math.Sin(mPrime) + 1.274027*math.Sin(2*d-mPrime) +
		0.658314*math.Sin(2*d) + 0.213618*math.Sin(2*mPrime) -
		0.185116*math.Sin(m) - 0.114332*math.Sin(2*f)
	latCorr := 5.128122*math.Sin(f) + 0.280602*math.Sin(mPrime+f) +
		0.277693*math.Sin(mPrime-f) + 0.173237*math.Sin(2*d-f)
	distCorr := -20905.355*math.Cos(mPrime) - 3699.111*math.Cos(2*d-mPrime) -
		2955.968*math.Cos(2*d)

	lonDeg := lPrime*(180.0/math.Pi) + lonCorr
	latDeg := latCorr
	distKm := 385000.56 + distCorr

	lon := deg2rad(lonDeg)
	lat := deg2rad(latDeg)
	obliquity := deg2rad(23.439291 - 0.0130042*capT)

	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	sinObl, cosObl := math.Sincos(obliquity)

	ra := math.Atan2(sinLon*cosObl-math.Tan(lat)*sinObl, cosLon)
	dec := math.Asin(sinLat*cosObl + cosLat*sinObl*sinLon)

	raHours := math.Mod(ra*(180.0/math.Pi)/15.0+24.0, 24.0)
	return raHours, dec * (180.0 / math.Pi), distKm, nil
}
