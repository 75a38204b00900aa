package los

import (
	"math"
	"sort"
)

// AttitudeSample is one roll/pitch/yaw (and their rates) state at a known
// time offset from the attitude model's reference epoch. Units: radians,
// radians/second.
type AttitudeSample struct {
	SecondsFromRef               float64
	Roll, Pitch, Yaw             float64
	RollRate, PitchRate, YawRate float64
}

// AttitudeModel holds a spacecraft's attitude samples and interpolates
// roll/pitch/yaw at arbitrary times via the same Lagrange scheme
// ephemeris interpolation uses, applied component-wise to the three
// Euler angles instead of to a position/velocity vector.
type AttitudeModel struct {
	RefEpoch Epoch
	// NominalSampleTime is the fixed spacing, in seconds, between
	// consecutive samples, used to derive the Lagrange window's
	// starting index the same way EphemerisModel does.
	NominalSampleTime float64
	samples           []AttitudeSample
}

// NewAttitudeModel builds an AttitudeModel from samples, sorted ascending
// by SecondsFromRef. nominalSampleTime is the fixed spacing between
// samples used to derive the Lagrange window's starting index. Returns
// KindInvalidInput if fewer than 2 samples are given or nominalSampleTime
// is not positive.
func NewAttitudeModel(refEpoch Epoch, nominalSampleTime float64, samples []AttitudeSample) (*AttitudeModel, error) {
	if len(samples) < 2 {
		return nil, errInvalidInput("NewAttitudeModel", "need at least 2 attitude samples, got %d", len(samples))
	}
	if nominalSampleTime <= 0 {
		return nil, errInvalidInput("NewAttitudeModel", "nominal sample time must be positive, got %v", nominalSampleTime)
	}
	sorted := make([]AttitudeSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SecondsFromRef < sorted[j].SecondsFromRef })
	return &AttitudeModel{RefEpoch: refEpoch, NominalSampleTime: nominalSampleTime, samples: sorted}, nil
}

// RollPitchYawAt returns the Lagrange-interpolated roll, pitch, and yaw
// (radians) at deltaTime seconds from RefEpoch, using the nPts
// consecutive samples selected by window.
func (m *AttitudeModel) RollPitchYawAt(deltaTime float64, nPts int) (roll, pitch, yaw float64, err error) {
	if nPts < 2 || nPts > len(m.samples) {
		return 0, 0, 0, errInvalidInput("AttitudeModel.RollPitchYawAt", "invalid interpolation point count %d (have %d samples)", nPts, len(m.samples))
	}

	window := m.window(deltaTime, nPts)

	for i := 0; i < nPts; i++ {
		rTerm, pTerm, yTerm := window[i].Roll, window[i].Pitch, window[i].Yaw
		for j := 0; j < nPts; j++ {
			if j == i {
				continue
			}
			scale := (deltaTime - window[j].SecondsFromRef) / (window[i].SecondsFromRef - window[j].SecondsFromRef)
			rTerm *= scale
			pTerm *= scale
			yTerm *= scale
		}
		roll += rTerm
		pitch += pTerm
		yaw += yTerm
	}
	return roll, pitch, yaw, nil
}

// window returns the nPts samples starting at the Lagrange index
// floor(deltaTime/NominalSampleTime - nPts/2), clamped to the available
// range, matching EphemerisModel.window's derivation.
func (m *AttitudeModel) window(deltaTime float64, nPts int) []AttitudeSample {
	start := int(math.Floor(deltaTime/m.NominalSampleTime - float64(nPts/2)))
	if start < 0 {
		start = 0
	}
	if start+nPts > len(m.samples) {
		start = len(m.samples) - nPts
	}
	return m.samples[start : start+nPts]
}
