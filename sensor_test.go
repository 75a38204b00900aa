package los_test

import (
	"testing"

	los "github.com/yalinlee/los-model"

	"github.com/stretchr/testify/assert"
)

func testBandSensorModel(t *testing.T) *los.BandSensorModel {
	frame := los.SensorFrame{
		Sensor2Acs:              los.Identity3(),
		CenterMass2SensorOffset: los.Vector3{},
	}
	sca := los.ScaSensorData{
		FrameTimes: []los.FrameTimeRecord{
			{Line: 0, SecondsFromImageStart: 0},
			{Line: 100, SecondsFromImageStart: 1},
			{Line: 200, SecondsFromImageStart: 2},
		},
		NominalTimeDeltas: []float64{0.0, 0.1, 0.2},
		ActualTimeDeltas:  []float64{0.01, 0.11, 0.21},
		NominalLos: []los.Vector3{
			{X: 0, Y: 0, Z: -1},
			{X: 0.01, Y: 0, Z: -1},
			{X: 0.02, Y: 0, Z: -1},
		},
		ActualLos: []los.Vector3{
			{X: 0, Y: 0.01, Z: -1},
			{X: 0.01, Y: 0.01, Z: -1},
			{X: 0.02, Y: 0.01, Z: -1},
		},
	}
	m, err := los.NewBandSensorModel(0, true, los.Epoch{Year: 2020, DayOfYear: 1, SecondOfDay: 0}, frame, 3, []los.ScaSensorData{sca})
	assert.NoError(t, err)
	return m
}

func Test_NewBandSensorModel_RejectsMismatchedDetectorTableLength(t *testing.T) {
	assert := assert.New(t)
	frame := los.SensorFrame{Sensor2Acs: los.Identity3()}
	sca := los.ScaSensorData{
		NominalTimeDeltas: []float64{0, 0.1},
		ActualTimeDeltas:  []float64{0, 0.1, 0.2},
		NominalLos:        []los.Vector3{{}, {}},
		ActualLos:         []los.Vector3{{}, {}},
	}
	_, err := los.NewBandSensorModel(0, true, los.Epoch{}, frame, 3, []los.ScaSensorData{sca})
	assert.Error(err)
	kind, ok := los.KindOf(err)
	assert.True(ok)
	assert.Equal(los.KindInvalidInput, kind)
}

func Test_FindTime_InterpolatesAcrossLineAndDetector(t *testing.T) {
	assert := assert.New(t)
	m := testBandSensorModel(t)

	tm, err := m.FindTime(50, 1, 0, los.DetectorNominal)
	assert.NoError(err)
	assert.InDelta(0.5+0.1, tm, 1e-9)
}

func Test_FindTime_ClampsAtFrameTableEnds(t *testing.T) {
	assert := assert.New(t)
	m := testBandSensorModel(t)

	tm, err := m.FindTime(-50, 0, 0, los.DetectorNominal)
	assert.NoError(err)
	assert.InDelta(0.0, tm, 1e-9)

	tm, err = m.FindTime(500, 0, 0, los.DetectorNominal)
	assert.NoError(err)
	assert.InDelta(2.0, tm, 1e-9)
}

func Test_FindTime_UnknownScaIsInvalidInput(t *testing.T) {
	assert := assert.New(t)
	m := testBandSensorModel(t)

	_, err := m.FindTime(0, 0, 5, los.DetectorNominal)
	assert.Error(err)
	kind, ok := los.KindOf(err)
	assert.True(ok)
	assert.Equal(los.KindInvalidInput, kind)
}

func Test_FindLOSVector_ExactInterpolatesAndRenormalizes(t *testing.T) {
	assert := assert.New(t)
	m := testBandSensorModel(t)

	v, err := m.FindLOSVector(0, 0.5, los.DetectorExact)
	assert.NoError(err)
	assert.InDelta(1.0, v.Norm(), 1e-9)
}

func Test_FindLOSVector_NominalSelectsNearestDetector(t *testing.T) {
	assert := assert.New(t)
	m := testBandSensorModel(t)

	v, err := m.FindLOSVector(0, 1.2, los.DetectorNominal)
	assert.NoError(err)
	assert.InDelta(0.01, v.X, 1e-9)
	assert.InDelta(0, v.Y, 1e-9)
	assert.InDelta(-1, v.Z, 1e-9)
}
