package los_test

import (
	"testing"

	los "github.com/yalinlee/los-model"

	"github.com/stretchr/testify/assert"
)

func Test_Epoch_AddSeconds_NormalizesAcrossDayBoundary(t *testing.T) {
	assert := assert.New(t)

	e := los.Epoch{Year: 2015, DayOfYear: 365, SecondOfDay: 86399}
	out := e.AddSeconds(2)

	assert.True(out.DayOfYear >= 1 && out.DayOfYear <= 366)
	assert.True(out.SecondOfDay >= 0 && out.SecondOfDay < 86400)
	assert.Equal(2016, out.Year)
	assert.Equal(1.0, out.DayOfYear)
	assert.InDelta(1.0, out.SecondOfDay, 1e-9)
}

func Test_Epoch_AddSeconds_NegativeCrossesYearBackward(t *testing.T) {
	assert := assert.New(t)

	e := los.Epoch{Year: 2016, DayOfYear: 1, SecondOfDay: 0}
	out := e.AddSeconds(-1)

	assert.Equal(2015, out.Year)
	assert.Equal(365.0, out.DayOfYear)
	assert.InDelta(86399.0, out.SecondOfDay, 1e-9)
}

func Test_Epoch_DiffSeconds_RoundTripsWithAddSeconds(t *testing.T) {
	assert := assert.New(t)

	e := los.Epoch{Year: 2015, DayOfYear: 100, SecondOfDay: 43200}
	shifted := e.AddSeconds(12345.678)

	assert.InDelta(12345.678, shifted.DiffSeconds(e), 1e-6)
}

func Test_Epoch_ModifiedJulianDate_KnownEpoch(t *testing.T) {
	assert := assert.New(t)

	// 2000-01-01T12:00:00 UTC is JD 2451545.0, MJD 51544.5.
	e := los.Epoch{Year: 2000, DayOfYear: 1, SecondOfDay: 43200}
	assert.InDelta(51544.5, e.ModifiedJulianDate(), 1e-6)
}
