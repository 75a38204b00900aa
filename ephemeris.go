package los

import (
	"math"
	"sort"
)

// EphemerisSample is one spacecraft state vector at a known time offset
// from the ephemeris's reference epoch.
type EphemerisSample struct {
	SecondsFromRef float64
	Position       Vector3 // ECEF or ECI, meters; caller's choice, carried through unchanged
	Velocity       Vector3 // meters/second
}

// EphemerisModel holds a spacecraft's ephemeris samples and interpolates
// position/velocity at arbitrary times via Lagrange interpolation,
// mirroring ias_geo_lagrange_interpolate.c.
type EphemerisModel struct {
	RefEpoch Epoch
	// NominalSampleTime is the fixed spacing, in seconds, between
	// consecutive samples. The Lagrange window start index is derived
	// from it (see window), matching
	// ias_sc_model_get_position_and_velocity_at_time.c.
	NominalSampleTime float64
	samples           []EphemerisSample
}

// NewEphemerisModel builds an EphemerisModel from samples, sorted
// ascending by SecondsFromRef. nominalSampleTime is the fixed spacing
// between samples used to derive the Lagrange window's starting index.
// Returns KindInvalidInput if fewer than 2 samples are given or
// nominalSampleTime is not positive.
func NewEphemerisModel(refEpoch Epoch, nominalSampleTime float64, samples []EphemerisSample) (*EphemerisModel, error) {
	if len(samples) < 2 {
		return nil, errInvalidInput("NewEphemerisModel", "need at least 2 ephemeris samples, got %d", len(samples))
	}
	if nominalSampleTime <= 0 {
		return nil, errInvalidInput("NewEphemerisModel", "nominal sample time must be positive, got %v", nominalSampleTime)
	}
	sorted := make([]EphemerisSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SecondsFromRef < sorted[j].SecondsFromRef })
	return &EphemerisModel{RefEpoch: refEpoch, NominalSampleTime: nominalSampleTime, samples: sorted}, nil
}

// PositionVelocityAt returns the Lagrange-interpolated position and
// velocity at deltaTime seconds from RefEpoch, using the nPts
// consecutive samples selected by window. Returns KindInvalidInput if nPts exceeds the number
// of samples held.
func (m *EphemerisModel) PositionVelocityAt(deltaTime float64, nPts int) (position, velocity Vector3, err error) {
	if nPts < 2 || nPts > len(m.samples) {
		return Vector3{}, Vector3{}, errInvalidInput("EphemerisModel.PositionVelocityAt", "invalid interpolation point count %d (have %d samples)", nPts, len(m.samples))
	}
	ephemerisInterpolations.Inc()

	window := m.window(deltaTime, nPts)

	var psum, vsum Vector3
	for i := 0; i < nPts; i++ {
		pterm := window[i].Position
		vterm := window[i].Velocity
		for j := 0; j < nPts; j++ {
			if j == i {
				continue
			}
			scale := (deltaTime - window[j].SecondsFromRef) / (window[i].SecondsFromRef - window[j].SecondsFromRef)
			pterm = pterm.Scale(scale)
			vterm = vterm.Scale(scale)
		}
		psum = psum.Add(pterm)
		vsum = vsum.Add(vterm)
	}
	return psum, vsum, nil
}

// window returns the nPts samples starting at the Lagrange index
// floor(deltaTime/NominalSampleTime - nPts/2), clamped to the available
// range, per ias_sc_model_get_position_and_velocity_at_time.c.
func (m *EphemerisModel) window(deltaTime float64, nPts int) []EphemerisSample {
	start := int(math.Floor(deltaTime/m.NominalSampleTime - float64(nPts/2)))
	if start < 0 {
		start = 0
	}
	if start+nPts > len(m.samples) {
		start = len(m.samples) - nPts
	}
	return m.samples[start : start+nPts]
}
