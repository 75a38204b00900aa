package los_test

import (
	"testing"

	los "github.com/yalinlee/los-model"

	"github.com/stretchr/testify/assert"
)

func nineSampleAttitude(t *testing.T) *los.AttitudeModel {
	samples := make([]los.AttitudeSample, 9)
	for i := 0; i < 9; i++ {
		tt := float64(i)
		samples[i] = los.AttitudeSample{
			SecondsFromRef: tt,
			Roll:           0.01 * tt,
			Pitch:          0.02 * tt,
			Yaw:            0.03 * tt,
		}
	}
	m, err := los.NewAttitudeModel(los.Epoch{Year: 2020, DayOfYear: 1, SecondOfDay: 0}, 1.0, samples)
	assert.NoError(t, err)
	return m
}

func Test_NewAttitudeModel_RejectsFewerThanTwoSamples(t *testing.T) {
	assert := assert.New(t)

	_, err := los.NewAttitudeModel(los.Epoch{}, 1.0, []los.AttitudeSample{{SecondsFromRef: 0}})
	assert.Error(err)
	kind, ok := los.KindOf(err)
	assert.True(ok)
	assert.Equal(los.KindInvalidInput, kind)
}

func Test_NewAttitudeModel_RejectsNonPositiveNominalSampleTime(t *testing.T) {
	assert := assert.New(t)

	samples := []los.AttitudeSample{{SecondsFromRef: 0}, {SecondsFromRef: 1}}
	_, err := los.NewAttitudeModel(los.Epoch{}, 0, samples)
	assert.Error(err)
	kind, ok := los.KindOf(err)
	assert.True(ok)
	assert.Equal(los.KindInvalidInput, kind)
}

func Test_AttitudeModel_ExactRecallAtSampleTime(t *testing.T) {
	assert := assert.New(t)
	m := nineSampleAttitude(t)

	roll, pitch, yaw, err := m.RollPitchYawAt(4.0, 9)
	assert.NoError(err)
	assert.InDelta(0.04, roll, 1e-9)
	assert.InDelta(0.08, pitch, 1e-9)
	assert.InDelta(0.12, yaw, 1e-9)
}

func Test_AttitudeModel_InterpolatesAtNonSampleTime(t *testing.T) {
	assert := assert.New(t)
	m := nineSampleAttitude(t)

	roll, pitch, yaw, err := m.RollPitchYawAt(3.5, 9)
	assert.NoError(err)
	assert.InDelta(0.035, roll, 1e-9)
	assert.InDelta(0.07, pitch, 1e-9)
	assert.InDelta(0.105, yaw, 1e-9)
}

func Test_AttitudeModel_ClampsWindowAtBothEnds(t *testing.T) {
	assert := assert.New(t)
	m := nineSampleAttitude(t)

	_, _, _, err := m.RollPitchYawAt(-100, 4)
	assert.NoError(err)

	_, _, _, err = m.RollPitchYawAt(100, 4)
	assert.NoError(err)
}

func Test_AttitudeModel_RejectsTooManyInterpolationPoints(t *testing.T) {
	assert := assert.New(t)
	m := nineSampleAttitude(t)

	_, _, _, err := m.RollPitchYawAt(4.0, 20)
	assert.Error(err)
	kind, ok := los.KindOf(err)
	assert.True(ok)
	assert.Equal(los.KindInvalidInput, kind)
}
