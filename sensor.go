package los

import "sort"

// DetectorType selects which detector-location/timing model a sensor
// lookup uses, per spec §4.4.
type DetectorType int

const (
	// DetectorNominal uses the as-designed (pre-launch) detector
	// positions/timing.
	DetectorNominal DetectorType = iota
	// DetectorActual uses the as-measured (post-calibration) detector
	// positions/timing.
	DetectorActual
	// DetectorMaximum uses the largest timing delta across the SCA's
	// detectors, used for worst-case frame-time bounding.
	DetectorMaximum
	// DetectorExact linearly interpolates between the two nearest
	// detector indices at sub-detector precision.
	DetectorExact
)

// FrameTimeRecord maps an integer image line to the time (seconds from
// image start) that line's frame was acquired.
type FrameTimeRecord struct {
	Line                  int
	SecondsFromImageStart float64
}

// SensorFrame carries the fixed geometry shared by every band mounted on
// the same optical bench: the sensor-to-ACS rotation and the
// center-of-mass-to-sensor translational offset, per spec §4.4.
type SensorFrame struct {
	Sensor2Acs              Matrix3
	CenterMass2SensorOffset Vector3
}

// scaDetectorModel holds one SCA's per-detector timing deltas and
// line-of-sight unit vectors, each indexed by detector number.
type scaDetectorModel struct {
	frameTimes        []FrameTimeRecord // sorted ascending by Line
	nominalTimeDeltas []float64         // seconds, per detector
	actualTimeDeltas  []float64         // seconds, per detector
	nominalLos        []Vector3         // unit vectors, per detector
	actualLos         []Vector3         // unit vectors, per detector
}

// BandSensorModel is one imaging band's sensor geometry and timing:
// per-SCA frame-time tables, the shared SensorFrame, and per-detector LOS
// tables, per spec §3.1.
type BandSensorModel struct {
	BandIndex       int
	BandPresent     bool
	UtcEpochTime    Epoch
	DetectorsPerSca int
	Frame           SensorFrame

	scas []scaDetectorModel
}

// NewBandSensorModel builds a BandSensorModel from per-SCA data. Each
// scaData entry must carry frameTimes sorted ascending by Line and
// nominal/actual timing-delta and LOS slices of length detectorsPerSca.
func NewBandSensorModel(bandIndex int, present bool, epoch Epoch, frame SensorFrame, detectorsPerSca int, scaData []ScaSensorData) (*BandSensorModel, error) {
	m := &BandSensorModel{
		BandIndex:       bandIndex,
		BandPresent:     present,
		UtcEpochTime:    epoch,
		DetectorsPerSca: detectorsPerSca,
		Frame:           frame,
	}
	for i, d := range scaData {
		if len(d.NominalTimeDeltas) != detectorsPerSca || len(d.ActualTimeDeltas) != detectorsPerSca ||
			len(d.NominalLos) != detectorsPerSca || len(d.ActualLos) != detectorsPerSca {
			return nil, errInvalidInput("NewBandSensorModel", "sca %d: detector table length mismatch, want %d", i, detectorsPerSca)
		}
		frameTimes := make([]FrameTimeRecord, len(d.FrameTimes))
		copy(frameTimes, d.FrameTimes)
		sort.Slice(frameTimes, func(a, b int) bool { return frameTimes[a].Line < frameTimes[b].Line })

		m.scas = append(m.scas, scaDetectorModel{
			frameTimes:        frameTimes,
			nominalTimeDeltas: d.NominalTimeDeltas,
			actualTimeDeltas:  d.ActualTimeDeltas,
			nominalLos:        d.NominalLos,
			actualLos:         d.ActualLos,
		})
	}
	return m, nil
}

// ScaSensorData is the raw per-SCA input to NewBandSensorModel.
type ScaSensorData struct {
	FrameTimes        []FrameTimeRecord
	NominalTimeDeltas []float64
	ActualTimeDeltas  []float64
	NominalLos        []Vector3
	ActualLos         []Vector3
}

func (m *BandSensorModel) sca(sca int) (*scaDetectorModel, error) {
	if sca < 0 || sca >= len(m.scas) {
		return nil, errInvalidInput("BandSensorModel", "sca index %d out of range [0, %d)", sca, len(m.scas))
	}
	return &m.scas[sca], nil
}

// FindTime returns the seconds-from-image-start for the given fractional
// line, fractional sample, sca, and detector-timing model, per spec
// §4.4. line interpolates linearly between the bracketing frame-time
// records; the fractional part of sample selects
// (and, for DetectorExact, interpolates between) per-detector timing
// deltas.
func (m *BandSensorModel) FindTime(line, sample float64, sca int, detType DetectorType) (float64, error) {
	s, err := m.sca(sca)
	if err != nil {
		return 0, err
	}

	frameTime, err := interpolateFrameTime(s.frameTimes, line)
	if err != nil {
		return 0, err
	}

	delta, err := detectorScalarAt(s.nominalTimeDeltas, s.actualTimeDeltas, sample, detType)
	if err != nil {
		return 0, err
	}
	return frameTime + delta, nil
}

// FindLOSVector returns the unit sensor-frame line-of-sight for the
// detector addressed by (sca, sample) under detType, per spec §4.4.
// Under DetectorExact, sub-detector samples interpolate between the two
// adjacent detectors' unit vectors and are renormalized; the other
// detector types use a single detector's vector.
func (m *BandSensorModel) FindLOSVector(sca int, sample float64, detType DetectorType) (Vector3, error) {
	s, err := m.sca(sca)
	if err != nil {
		return Vector3{}, err
	}
	return detectorVectorAt(s.nominalLos, s.actualLos, sample, detType)
}

func interpolateFrameTime(table []FrameTimeRecord, line float64) (float64, error) {
	n := len(table)
	if n == 0 {
		return 0, errInvalidInput("interpolateFrameTime", "empty frame-time table")
	}
	if line <= float64(table[0].Line) {
		return table[0].SecondsFromImageStart, nil
	}
	if line >= float64(table[n-1].Line) {
		return table[n-1].SecondsFromImageStart, nil
	}

	idx := sort.Search(n, func(i int) bool { return float64(table[i].Line) >= line })
	lo, hi := table[idx-1], table[idx]
	frac := (line - float64(lo.Line)) / float64(hi.Line-lo.Line)
	return lo.SecondsFromImageStart + frac*(hi.SecondsFromImageStart-lo.SecondsFromImageStart), nil
}

// detectorScalarAt selects (Nominal/Actual), maximizes (Maximum), or
// interpolates (Exact) a per-detector scalar timing delta at fractional
// detector index sample.
func detectorScalarAt(nominal, actual []float64, sample float64, detType DetectorType) (float64, error) {
	n := len(nominal)
	if n == 0 {
		return 0, errInvalidInput("detectorScalarAt", "empty detector table")
	}
	idx := clampDetectorIndex(sample, n)

	switch detType {
	case DetectorNominal:
		return nominal[idx], nil
	case DetectorActual:
		return actual[idx], nil
	case DetectorMaximum:
		max := nominal[0]
		for _, v := range nominal {
			if v > max {
				max = v
			}
		}
		return max, nil
	case DetectorExact:
		i0, i1, frac := bracketDetectorIndex(sample, n)
		return actual[i0] + frac*(actual[i1]-actual[i0]), nil
	default:
		return 0, errInvalidInput("detectorScalarAt", "unknown detector type %d", detType)
	}
}

func detectorVectorAt(nominal, actual []Vector3, sample float64, detType DetectorType) (Vector3, error) {
	n := len(nominal)
	if n == 0 {
		return Vector3{}, errInvalidInput("detectorVectorAt", "empty detector LOS table")
	}

	switch detType {
	case DetectorNominal:
		idx := clampDetectorIndex(sample, n)
		return nominal[idx], nil
	case DetectorActual, DetectorMaximum:
		idx := clampDetectorIndex(sample, n)
		return actual[idx], nil
	case DetectorExact:
		i0, i1, frac := bracketDetectorIndex(sample, n)
		v := actual[i0].Scale(1 - frac).Add(actual[i1].Scale(frac))
		return v.Normalize()
	default:
		return Vector3{}, errInvalidInput("detectorVectorAt", "unknown detector type %d", detType)
	}
}

func clampDetectorIndex(sample float64, n int) int {
	idx := int(sample + 0.5)
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

func bracketDetectorIndex(sample float64, n int) (i0, i1 int, frac float64) {
	if sample <= 0 {
		return 0, 0, 0
	}
	if sample >= float64(n-1) {
		return n - 1, n - 1, 0
	}
	i0 = int(sample)
	i1 = i0 + 1
	frac = sample - float64(i0)
	return i0, i1, frac
}
