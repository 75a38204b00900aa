package los_test

import (
	"os"
	"testing"

	los "github.com/yalinlee/los-model"

	"github.com/stretchr/testify/assert"
)

func Test_SetBiasModelDetectorCoefficients_RoutesPanEvenOddSeparately(t *testing.T) {
	assert := assert.New(t)
	bpf := los.AllocateBpf()

	const panBand = 8
	assert.NoError(bpf.SetBiasModelSpectralType(panBand, 1, los.SpectralPan))

	coeffs := los.DetectorCoefficients{PreAvg: 1, PostAvg: 2, A1: 3, C1: 4}
	assert.NoError(bpf.SetBiasModelDetectorCoefficients(panBand, 0, 100, los.PanEven, coeffs))

	even, err := bpf.GetModelParameters(panBand, los.SpectralPan, 0, los.PanEven, true)
	assert.NoError(err)
	assert.Len(even, 101)
	assert.Equal(coeffs, even[100])

	odd, err := bpf.GetModelParameters(panBand, los.SpectralPan, 0, los.PanOdd, true)
	assert.NoError(err)
	for _, c := range odd {
		assert.Equal(los.DetectorCoefficients{}, c)
	}
}

func Test_SetBiasModelA0Coefficient_ScaIndexBoundary(t *testing.T) {
	assert := assert.New(t)
	bpf := los.AllocateBpf()

	const vnirBand = 1
	const scas = 3
	assert.NoError(bpf.SetBiasModelSpectralType(vnirBand, scas, los.SpectralVnir))

	assert.NoError(bpf.SetBiasModelA0Coefficient(vnirBand, scas-1, los.PanEven, 1.5))

	err := bpf.SetBiasModelA0Coefficient(vnirBand, scas, los.PanEven, 1.5)
	assert.Error(err)
	kind, ok := los.KindOf(err)
	assert.True(ok)
	assert.Equal(los.KindInvalidInput, kind)
}

func Test_BandModel_RejectsMismatchedSpectralType(t *testing.T) {
	assert := assert.New(t)
	bpf := los.AllocateBpf()

	assert.NoError(bpf.SetBiasModelSpectralType(1, 1, los.SpectralVnir))

	_, err := bpf.GetModelParameters(1, los.SpectralThermal, 0, los.PanEven, false)
	assert.Error(err)
	kind, ok := los.KindOf(err)
	assert.True(ok)
	assert.Equal(los.KindInvalidInput, kind)
}

func Test_DeriveSensorID_ExactMatchOnly(t *testing.T) {
	assert := assert.New(t)

	id, err := los.DeriveSensorID("OLI")
	assert.NoError(err)
	assert.Equal(los.SensorOLI, id)

	id, err = los.DeriveSensorID("Thermal Infrared Sensor")
	assert.NoError(err)
	assert.Equal(los.SensorTIRS, id)

	_, err = los.DeriveSensorID("oli")
	assert.Error(err)
	kind, ok := los.KindOf(err)
	assert.True(ok)
	assert.Equal(los.KindInvalidInput, kind)
}

func Test_ReadBpf_ParsesFileAttributesAndOrbitParameters(t *testing.T) {
	assert := assert.New(t)

	content := `GROUP = FILE_ATTRIBUTES
SENSOR_NAME = "OLI"
SPACECRAFT_NAME = "LANDSAT_8"
VERSION = 3
END_GROUP = FILE_ATTRIBUTES
GROUP = ORBIT_PARAMETERS
BEGIN_ORBIT_NUMBER = 12345
END_GROUP = ORBIT_PARAMETERS
END
`
	f, err := os.CreateTemp(t.TempDir(), "bpf-*.txt")
	assert.NoError(err)
	_, err = f.WriteString(content)
	assert.NoError(err)
	assert.NoError(f.Close())

	bpf, err := los.ReadBpf(f.Name())
	assert.NoError(err)
	assert.Equal("OLI", bpf.FileAttributes.SensorName)
	assert.Equal("LANDSAT_8", bpf.FileAttributes.SpacecraftName)
	assert.Equal(3, bpf.FileAttributes.Version)
	assert.Equal(12345, bpf.OrbitParameters.BeginOrbitNumber)
}

func Test_ReadBpf_MissingFileIsBackingStoreError(t *testing.T) {
	assert := assert.New(t)

	_, err := los.ReadBpf("/nonexistent/path/to.bpf")
	assert.Error(err)
	kind, ok := los.KindOf(err)
	assert.True(ok)
	assert.Equal(los.KindBackingStore, kind)
}
