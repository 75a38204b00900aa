package los_test

import (
	"math"
	"testing"

	los "github.com/yalinlee/los-model"

	"github.com/stretchr/testify/assert"
)

func Test_DefaultNovasAdapter_InitializeShutdownIdempotent(t *testing.T) {
	assert := assert.New(t)
	a := los.NewDefaultNovasAdapter()

	assert.NoError(a.Initialize())
	assert.NoError(a.Initialize())
	assert.NoError(a.Shutdown())
	assert.NoError(a.Shutdown())
}

func Test_Tdb2Tt_DeltaIsSubMillisecondMagnitude(t *testing.T) {
	assert := assert.New(t)
	a := los.NewDefaultNovasAdapter()

	jdTt, deltaSeconds, err := a.Tdb2Tt(los.J2000Epoch)
	assert.NoError(err)
	assert.True(math.Abs(deltaSeconds) < 0.001)
	assert.InDelta(los.J2000Epoch, jdTt, 0.01/86400.0+1e-9)
}

func Test_Precession_NoOpAtSameEpoch(t *testing.T) {
	assert := assert.New(t)
	a := los.NewDefaultNovasAdapter()

	v := los.Vector3{X: 7000000, Y: 0, Z: 0}
	out, err := a.Precession(los.J2000Epoch, v, los.J2000Epoch)
	assert.NoError(err)
	assert.InDelta(v.X, out.X, 1e-6)
	assert.InDelta(v.Y, out.Y, 1e-6)
	assert.InDelta(v.Z, out.Z, 1e-6)
}

func Test_Precession_ForwardAndBackIsIdentity(t *testing.T) {
	assert := assert.New(t)
	a := los.NewDefaultNovasAdapter()

	jdTo := los.J2000Epoch + 3652.5 // ten years later
	v := los.Vector3{X: 1, Y: 2, Z: 3}

	forward, err := a.Precession(los.J2000Epoch, v, jdTo)
	assert.NoError(err)
	back, err := a.Precession(jdTo, forward, los.J2000Epoch)
	assert.NoError(err)

	assert.InDelta(v.X, back.X, 1e-6)
	assert.InDelta(v.Y, back.Y, 1e-6)
	assert.InDelta(v.Z, back.Z, 1e-6)
}

func Test_Nutation_MeanToTrueAndBackIsIdentity(t *testing.T) {
	assert := assert.New(t)
	a := los.NewDefaultNovasAdapter()

	v := los.Vector3{X: 7000000, Y: 100000, Z: -200000}
	true_, err := a.Nutation(los.J2000Epoch, los.NovasMeanToTrue, los.NovasReducedAccuracy, v)
	assert.NoError(err)
	mean, err := a.Nutation(los.J2000Epoch, los.NovasTrueToMean, los.NovasReducedAccuracy, true_)
	assert.NoError(err)

	assert.InDelta(v.X, mean.X, 1e-3)
	assert.InDelta(v.Y, mean.Y, 1e-3)
	assert.InDelta(v.Z, mean.Z, 1e-3)
}

func Test_Wobble_MeanToTrueAndBackIsIdentity(t *testing.T) {
	assert := assert.New(t)
	a := los.NewDefaultNovasAdapter()

	v := los.Vector3{X: 7000000, Y: 0, Z: 0}
	true_, err := a.Wobble(los.J2000Epoch, los.NovasMeanToTrue, 0.15, 0.25, v)
	assert.NoError(err)
	mean, err := a.Wobble(los.J2000Epoch, los.NovasTrueToMean, 0.15, 0.25, true_)
	assert.NoError(err)

	assert.InDelta(v.X, mean.X, 1e-3)
	assert.InDelta(v.Y, mean.Y, 1e-3)
	assert.InDelta(v.Z, mean.Z, 1e-3)
}

func Test_SiderealTime_GastWithinHourRange(t *testing.T) {
	assert := assert.New(t)
	a := los.NewDefaultNovasAdapter()

	gast, err := a.SiderealTime(los.J2000Epoch, 0, 64.0, los.NovasGreenwichApparentSiderealTime, 0, los.NovasReducedAccuracy)
	assert.NoError(err)
	assert.True(gast >= 0 && gast < 24)
}

func Test_SunPosition_DistanceNearOneAU(t *testing.T) {
	assert := assert.New(t)
	a := los.NewDefaultNovasAdapter()

	ra, dec, dist, err := a.SunPosition(los.J2000Epoch)
	assert.NoError(err)
	assert.True(ra >= 0 && ra < 24)
	assert.True(math.Abs(dec) < 30)
	// J2000 (1 January) is two days before perihelion, ~0.983 AU.
	assert.InDelta(1.471e8, dist, 0.02e8)
}

func Test_MoonPosition_DistanceNearLunarMean(t *testing.T) {
	assert := assert.New(t)
	a := los.NewDefaultNovasAdapter()

	ra, dec, dist, err := a.MoonPosition(los.J2000Epoch)
	assert.NoError(err)
	assert.True(ra >= 0 && ra < 24)
	assert.True(math.Abs(dec) < 30)
	assert.InDelta(385000, dist, 30000)
}
