package los

import "sort"

// EarthOrientationRecord is one row of a CPF's Earth-orientation table:
// pole wander and UT1-UTC correction at a given Modified Julian Date.
type EarthOrientationRecord struct {
	Mjd              float64
	PoleWanderX      float64 // arc-seconds
	PoleWanderY      float64 // arc-seconds
	Ut1UtcCorrection float64 // seconds
}

// CpfEarthOrientationTable is a CPF's Earth-orientation parameter table,
// sorted ascending by MJD. find_mjdcoords in the source system brackets
// the table by MJD and linearly interpolates; this is that lookup
// expressed as a Go value type instead of a fixed-size C array plus a
// cursor index.
type CpfEarthOrientationTable struct {
	records []EarthOrientationRecord
}

// NewCpfEarthOrientationTable builds a table from records, which need not
// be pre-sorted; it is an error (KindInvalidInput) to pass an empty
// slice.
func NewCpfEarthOrientationTable(records []EarthOrientationRecord) (*CpfEarthOrientationTable, error) {
	if len(records) == 0 {
		return nil, errInvalidInput("NewCpfEarthOrientationTable", "empty Earth-orientation table")
	}
	sorted := make([]EarthOrientationRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Mjd < sorted[j].Mjd })
	return &CpfEarthOrientationTable{records: sorted}, nil
}

// At returns the Earth-orientation parameters at mjd, linearly
// interpolating between the two bracketing table rows. It returns a
// KindNotFound error if mjd falls outside the table's range, matching
// find_mjdcoords's refusal to extrapolate.
func (t *CpfEarthOrientationTable) At(mjd float64) (EarthOrientationRecord, error) {
	n := len(t.records)
	if mjd < t.records[0].Mjd || mjd > t.records[n-1].Mjd {
		return EarthOrientationRecord{}, errNotFound("CpfEarthOrientationTable.At", "mjd %g outside table range [%g, %g]", mjd, t.records[0].Mjd, t.records[n-1].Mjd)
	}

	idx := sort.Search(n, func(i int) bool { return t.records[i].Mjd >= mjd })
	if idx < n && t.records[idx].Mjd == mjd {
		return t.records[idx], nil
	}
	if idx == 0 {
		return t.records[0], nil
	}

	lo, hi := t.records[idx-1], t.records[idx]
	frac := (mjd - lo.Mjd) / (hi.Mjd - lo.Mjd)
	return EarthOrientationRecord{
		Mjd:              mjd,
		PoleWanderX:      lo.PoleWanderX + frac*(hi.PoleWanderX-lo.PoleWanderX),
		PoleWanderY:      lo.PoleWanderY + frac*(hi.PoleWanderY-lo.PoleWanderY),
		Ut1UtcCorrection: lo.Ut1UtcCorrection + frac*(hi.Ut1UtcCorrection-lo.Ut1UtcCorrection),
	}, nil
}

// ApplyTo returns earth with PoleWanderX/Y and Ut1UtcCorrection
// overwritten from the table lookup at mjd.
func (t *CpfEarthOrientationTable) ApplyTo(earth EarthCharacteristics, mjd float64) (EarthCharacteristics, error) {
	rec, err := t.At(mjd)
	if err != nil {
		return EarthCharacteristics{}, err
	}
	earth.PoleWanderX = rec.PoleWanderX
	earth.PoleWanderY = rec.PoleWanderY
	earth.Ut1UtcCorrection = rec.Ut1UtcCorrection
	return earth, nil
}
