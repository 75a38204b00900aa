package los

import "math"

const secondsPerDay = 86400.0

// Epoch is a UTC timestamp expressed as (year, day-of-year, second-of-day),
// matching the year/doy/sod triples the source ancillary tables and sensor
// models carry around instead of a single scalar time. Invariant:
// 1 <= DayOfYear <= daysInYear(Year), 0 <= SecondOfDay < 86400.
type Epoch struct {
	Year        int
	DayOfYear   float64
	SecondOfDay float64
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func daysInYear(year int) float64 {
	if isLeapYear(year) {
		return 366
	}
	return 365
}

// AddSeconds returns e shifted by delta seconds (positive or negative),
// renormalizing day-of-year/second-of-day/year so the invariant holds.
// Mirrors ias_math_add_seconds_to_year_doy_sod.
func (e Epoch) AddSeconds(delta float64) Epoch {
	sod := e.SecondOfDay + delta
	doy := e.DayOfYear
	year := e.Year

	for sod >= secondsPerDay {
		sod -= secondsPerDay
		doy++
	}
	for sod < 0 {
		sod += secondsPerDay
		doy--
	}

	for doy > daysInYear(year) {
		doy -= daysInYear(year)
		year++
	}
	for doy < 1 {
		year--
		doy += daysInYear(year)
	}

	return Epoch{Year: year, DayOfYear: doy, SecondOfDay: sod}
}

// DiffSeconds returns the number of seconds from other to e (e - other),
// i.e. the delta that AddSeconds would need to turn other into e.
func (e Epoch) DiffSeconds(other Epoch) float64 {
	return e.fullDays()*secondsPerDay - other.fullDays()*secondsPerDay
}

// fullDays returns a monotonically increasing day count usable for
// differencing two epochs, anchored at an arbitrary but fixed origin.
func (e Epoch) fullDays() float64 {
	days := 0.0
	if e.Year >= epochAnchorYear {
		for y := epochAnchorYear; y < e.Year; y++ {
			days += daysInYear(y)
		}
	} else {
		for y := e.Year; y < epochAnchorYear; y++ {
			days -= daysInYear(y)
		}
	}
	days += e.DayOfYear - 1
	days += e.SecondOfDay / secondsPerDay
	return days
}

const epochAnchorYear = 1950

// epochDelta returns the number of seconds from eph (the reference epoch)
// to band (the epoch whose delta is wanted), i.e. band - eph. Callers add
// this to an intra-epoch time (e.g. seconds_from_image_start) to get a
// delta-time relative to the reference epoch, per spec §4.2's contract.
func epochDelta(band, eph Epoch) float64 {
	return band.DiffSeconds(eph)
}

// FullJulianDate returns the full Julian date (days, with fractional part)
// corresponding to e, treated as UTC. Uses the standard Fliegel & van
// Flandern civil-calendar formula for the Julian day number of Jan 1 of
// e.Year, then adds the day-of-year/second-of-day offset.
func (e Epoch) FullJulianDate() float64 {
	const m = 1
	const d = 1
	a := (14 - m) / 12
	y2 := e.Year + 4800 - a
	m2 := m + 12*a - 3
	jdn := d + (153*m2+2)/5 + 365*y2 + y2/4 - y2/100 + y2/400 - 32045
	jdJan1 := float64(jdn) - 0.5
	return jdJan1 + (e.DayOfYear - 1) + e.SecondOfDay/secondsPerDay
}

// ModifiedJulianDate returns the Modified Julian Date for e (full JD minus
// 2400000.5), per spec §4.1.
func (e Epoch) ModifiedJulianDate() float64 {
	return e.FullJulianDate() - 2400000.5
}

// defaultTaiMinusUtcSeconds approximates TAI-UTC (the accumulated leap
// second count) since the source system's leap-second table is outside
// this core's scope (it is ingested from a separate file the core does
// not own). TT-UTC is then this value plus the fixed 32.184s TT-TAI
// offset.
const defaultTaiMinusUtcSeconds = 37.0
const ttMinusTaiSeconds = 32.184

// ConvertUtcToTimes converts e (UTC) plus a UT1-UTC correction (seconds,
// from EarthCharacteristics) into the three Julian date time standards
// the EarthOrientation transforms need: UT1, TDB, and TT. The TDB/TT
// distinction (sub-two-millisecond periodic term) is resolved with one
// evaluation of the NovasAdapter's Tdb2Tt routine at the TT date, matching how the
// source system treats the TDB<->TT relationship as NOVAS's concern.
func ConvertUtcToTimes(e Epoch, ut1UtcCorrection float64, adapter NovasAdapter) (jdUt1, jdTdb, jdTt float64, err error) {
	jdUtc := e.FullJulianDate()
	jdUt1 = jdUtc + ut1UtcCorrection/secondsPerDay
	jdTt = jdUtc + (defaultTaiMinusUtcSeconds+ttMinusTaiSeconds)/secondsPerDay

	candidate := jdTt
	gotTt, delta, err := adapter.Tdb2Tt(candidate)
	if err != nil {
		return 0, 0, 0, errAdapter("ConvertUtcToTimes", err, "NOVAS tdb2tt failed")
	}
	_ = gotTt
	jdTdb = jdTt + delta/secondsPerDay
	if math.IsNaN(jdTdb) {
		return 0, 0, 0, errNumeric("ConvertUtcToTimes", "NaN TDB Julian date")
	}
	return jdUt1, jdTdb, jdTt, nil
}
