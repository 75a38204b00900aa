package los

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// Bias parameter file dimension constants, carried over from
// ias_bpf.h's IAS_BPF_* defines.
const (
	BpfMsMaxDetectors      = 494
	BpfPanMaxDetectors     = 988
	BpfThermalMaxDetectors = 640
	BpfThermalMaxScas      = 3
	BpfVnirBands           = 5
	BpfSwirBands           = 3
	BpfPanBands            = 1
	BpfOliBands            = BpfVnirBands + BpfSwirBands + BpfPanBands
	BpfTirsBands           = 2
	BpfBands               = BpfOliBands + BpfTirsBands
)

// SpectralType identifies which bias-model variant a band carries.
type SpectralType int

const (
	SpectralVnir SpectralType = iota
	SpectralSwir
	SpectralPan
	SpectralThermal
)

// PanParity selects the even or odd detector table within a PanBias,
// per spec §3.1/§4.7.
type PanParity int

const (
	PanEven PanParity = iota
	PanOdd
)

// DetectorCoefficients is the 4-element (pre_avg, post_avg, a1, c1) OLI
// coefficient tuple, or the 2-element (pre_avg, post_avg) TIRS tuple when
// A1/C1 are unused (left zero).
type DetectorCoefficients struct {
	PreAvg, PostAvg, A1, C1 float64
}

// BiasModel is the sum type over a band's spectral-type-specific bias
// data, per spec §3.1's "only one variant populated per band" tagged
// union. Go expresses this as an interface implemented by exactly one of
// VnirBias/SwirBias/PanBias/ThermalBias, rather than a C union with a
// discriminant field the caller must check by hand.
type BiasModel interface {
	SpectralType() SpectralType
}

// VnirBias holds the VNIR det_params[SCA][DET][4] and a0_coefficient[SCA]
// tables.
type VnirBias struct {
	DetParams     [][]DetectorCoefficients // [sca][det]
	A0Coefficient []float64                // [sca]
}

func (VnirBias) SpectralType() SpectralType { return SpectralVnir }

// SwirBias mirrors VnirBias's layout for SWIR bands.
type SwirBias struct {
	DetParams     [][]DetectorCoefficients
	A0Coefficient []float64
}

func (SwirBias) SpectralType() SpectralType { return SpectralSwir }

// PanBias holds separate even/odd detector tables and a0 pairs, per spec
// §3.1.
type PanBias struct {
	DetParamsEven     [][]DetectorCoefficients
	A0CoefficientEven []float64
	DetParamsOdd      [][]DetectorCoefficients
	A0CoefficientOdd  []float64
}

func (PanBias) SpectralType() SpectralType { return SpectralPan }

// ThermalBias holds the TIRS det_params[SCA][DET][2] table (A1/C1 unused,
// left zero in DetectorCoefficients).
type ThermalBias struct {
	DetParams [][]DetectorCoefficients
}

func (ThermalBias) SpectralType() SpectralType { return SpectralThermal }

// BandBiasModel is one band's entry in BpfModel.BiasModels: its 1-based
// band number, spectral type, and the single populated variant.
type BandBiasModel struct {
	BandNumber   int
	SpectralType SpectralType
	Variant      BiasModel
}

// FileAttributes is the BPF's FILE_ATTRIBUTES group.
type FileAttributes struct {
	EffectiveDateBegin string
	EffectiveDateEnd   string
	BaselineDate       string
	FileName           string
	FileSource         string
	SpacecraftName     string
	SensorName         string
	Description        string
	Version            int
}

// OrbitParameters is the BPF's ORBIT_PARAMETERS group.
type OrbitParameters struct {
	BeginOrbitNumber int
}

// BpfModel is the in-memory Bias Parameter File: file attributes, orbit
// parameters, and a per-band bias model array, per spec §3.1. The
// source's global "loaded" flag tri-state has no counterpart here: a
// freshly-allocated model is ready for manual population immediately
// (there is no separate "unloaded" state to track).
type BpfModel struct {
	FileAttributes  FileAttributes
	OrbitParameters OrbitParameters
	BiasModels      [BpfBands]*BandBiasModel
}

// AllocateBpf returns an empty BpfModel ready for field-by-field
// population, per spec §4.7's allocate().
func AllocateBpf() *BpfModel {
	return &BpfModel{}
}

func bandIndex(bandNumber int) (int, error) {
	idx := bandNumber - 1
	if idx < 0 || idx >= BpfBands {
		return 0, errInvalidInput("bandIndex", "band number %d out of range [1, %d]", bandNumber, BpfBands)
	}
	return idx, nil
}

// SetBiasModelBandNumber writes bandNumber into BiasModels[bandIndex(bandNumber)],
// allocating the slot's BandBiasModel if it does not exist yet, per
// ias_bpf_set_groups.c's set_bias_model_band_number.
func (b *BpfModel) SetBiasModelBandNumber(bandNumber int) error {
	idx, err := bandIndex(bandNumber)
	if err != nil {
		return err
	}
	if b.BiasModels[idx] == nil {
		b.BiasModels[idx] = &BandBiasModel{}
	}
	b.BiasModels[idx].BandNumber = bandNumber
	return nil
}

// SetBiasModelSpectralType sets the spectral type for bandNumber and
// allocates the matching variant block (discarding any previously
// populated variant, mirroring the source's one-variant-at-a-time
// invariant).
func (b *BpfModel) SetBiasModelSpectralType(bandNumber int, scas int, t SpectralType) error {
	idx, err := bandIndex(bandNumber)
	if err != nil {
		return err
	}
	if b.BiasModels[idx] == nil {
		b.BiasModels[idx] = &BandBiasModel{BandNumber: bandNumber}
	}
	model := b.BiasModels[idx]
	model.SpectralType = t

	switch t {
	case SpectralVnir:
		model.Variant = VnirBias{DetParams: make([][]DetectorCoefficients, scas), A0Coefficient: make([]float64, scas)}
	case SpectralSwir:
		model.Variant = SwirBias{DetParams: make([][]DetectorCoefficients, scas), A0Coefficient: make([]float64, scas)}
	case SpectralPan:
		model.Variant = PanBias{
			DetParamsEven: make([][]DetectorCoefficients, scas), A0CoefficientEven: make([]float64, scas),
			DetParamsOdd: make([][]DetectorCoefficients, scas), A0CoefficientOdd: make([]float64, scas),
		}
	case SpectralThermal:
		model.Variant = ThermalBias{DetParams: make([][]DetectorCoefficients, scas)}
	default:
		return errInvalidInput("SetBiasModelSpectralType", "unknown spectral type %d", t)
	}
	return nil
}

func (b *BpfModel) bandModel(bandNumber int, expect SpectralType) (*BandBiasModel, error) {
	idx, err := bandIndex(bandNumber)
	if err != nil {
		return nil, err
	}
	model := b.BiasModels[idx]
	if model == nil || model.Variant == nil {
		return nil, errInvalidInput("bandModel", "band %d has no bias model allocated", bandNumber)
	}
	if model.SpectralType != expect {
		return nil, errInvalidInput("bandModel", "band %d spectral type is %v, not %v", bandNumber, model.SpectralType, expect)
	}
	return model, nil
}

// SetBiasModelA0Coefficient sets the A0 coefficient for (bandNumber, sca),
// routing PAN bands to the even or odd table per parity. scaIndex must be
// within the variant's SCA count (equal to scas returned InvalidInput,
// per spec §8.3's boundary case).
func (b *BpfModel) SetBiasModelA0Coefficient(bandNumber, scaIndex int, parity PanParity, value float64) error {
	idx, err := bandIndex(bandNumber)
	if err != nil {
		return err
	}
	model := b.BiasModels[idx]
	if model == nil || model.Variant == nil {
		return errInvalidInput("SetBiasModelA0Coefficient", "band %d has no bias model allocated", bandNumber)
	}

	switch v := model.Variant.(type) {
	case VnirBias:
		if scaIndex < 0 || scaIndex >= len(v.A0Coefficient) {
			return errInvalidInput("SetBiasModelA0Coefficient", "sca index %d out of range [0, %d)", scaIndex, len(v.A0Coefficient))
		}
		v.A0Coefficient[scaIndex] = value
	case SwirBias:
		if scaIndex < 0 || scaIndex >= len(v.A0Coefficient) {
			return errInvalidInput("SetBiasModelA0Coefficient", "sca index %d out of range [0, %d)", scaIndex, len(v.A0Coefficient))
		}
		v.A0Coefficient[scaIndex] = value
	case PanBias:
		table := v.A0CoefficientEven
		if parity == PanOdd {
			table = v.A0CoefficientOdd
		}
		if scaIndex < 0 || scaIndex >= len(table) {
			return errInvalidInput("SetBiasModelA0Coefficient", "sca index %d out of range [0, %d)", scaIndex, len(table))
		}
		table[scaIndex] = value
	default:
		return errInvalidInput("SetBiasModelA0Coefficient", "band %d spectral type has no a0 coefficient", bandNumber)
	}
	return nil
}

// SetBiasModelDetectorCoefficients sets the per-detector coefficient
// tuple for (bandNumber, sca, detector), routing PAN bands to the even or
// odd table per parity, per spec §8.4 scenario 4. The detector slice for
// the addressed SCA is grown lazily on first write.
func (b *BpfModel) SetBiasModelDetectorCoefficients(bandNumber, scaIndex, detector int, parity PanParity, coeffs DetectorCoefficients) error {
	idx, err := bandIndex(bandNumber)
	if err != nil {
		return err
	}
	model := b.BiasModels[idx]
	if model == nil || model.Variant == nil {
		return errInvalidInput("SetBiasModelDetectorCoefficients", "band %d has no bias model allocated", bandNumber)
	}

	setInto := func(table [][]DetectorCoefficients, maxDet int) error {
		if scaIndex < 0 || scaIndex >= len(table) {
			return errInvalidInput("SetBiasModelDetectorCoefficients", "sca index %d out of range [0, %d)", scaIndex, len(table))
		}
		if detector < 0 || detector >= maxDet {
			return errInvalidInput("SetBiasModelDetectorCoefficients", "detector index %d out of range [0, %d)", detector, maxDet)
		}
		if len(table[scaIndex]) <= detector {
			grown := make([]DetectorCoefficients, detector+1)
			copy(grown, table[scaIndex])
			table[scaIndex] = grown
		}
		table[scaIndex][detector] = coeffs
		return nil
	}

	switch v := model.Variant.(type) {
	case VnirBias:
		return setInto(v.DetParams, BpfMsMaxDetectors)
	case SwirBias:
		return setInto(v.DetParams, BpfMsMaxDetectors)
	case PanBias:
		if parity == PanOdd {
			return setInto(v.DetParamsOdd, BpfPanMaxDetectors)
		}
		return setInto(v.DetParamsEven, BpfPanMaxDetectors)
	case ThermalBias:
		return setInto(v.DetParams, BpfThermalMaxDetectors)
	default:
		return errInvalidInput("SetBiasModelDetectorCoefficients", "unknown bias variant for band %d", bandNumber)
	}
}

// GetModelParameters returns the stored per-detector coefficient table
// (pre/post, and for OLI spectral types a1/c1) of (band, sca), validating
// that the band's spectral type matches expect. expectA1C1 does not
// change the result.
func (b *BpfModel) GetModelParameters(bandNumber int, expect SpectralType, scaIndex int, parity PanParity, expectA1C1 bool) ([]DetectorCoefficients, error) {
	model, err := b.bandModel(bandNumber, expect)
	if err != nil {
		return nil, err
	}

	var table [][]DetectorCoefficients
	switch v := model.Variant.(type) {
	case VnirBias:
		table = v.DetParams
	case SwirBias:
		table = v.DetParams
	case PanBias:
		if parity == PanOdd {
			table = v.DetParamsOdd
		} else {
			table = v.DetParamsEven
		}
	case ThermalBias:
		table = v.DetParams
	}

	if scaIndex < 0 || scaIndex >= len(table) {
		return nil, errInvalidInput("GetModelParameters", "sca index %d out of range [0, %d)", scaIndex, len(table))
	}
	return table[scaIndex], nil
}

// SensorID identifies OLI vs TIRS.
type SensorID int

const (
	SensorUnknown SensorID = iota
	SensorOLI
	SensorTIRS
)

// DeriveSensorID matches sensorName against the small enumerated set of
// known names, case-sensitively, per spec §4.7: exact match only, no
// normalization.
func DeriveSensorID(sensorName string) (SensorID, error) {
	switch sensorName {
	case "OLI", "Operational Land Imager":
		return SensorOLI, nil
	case "TIRS", "Thermal Infrared Sensor":
		return SensorTIRS, nil
	default:
		return SensorUnknown, errInvalidInput("DeriveSensorID", "unrecognized sensor name %q", sensorName)
	}
}

// ReadBpf parses an ODL-like parameter-group text file (GROUP = name /
// value lines / END_GROUP) into a BpfModel, per spec §6.4. It recognizes
// the FILE_ATTRIBUTES and ORBIT_PARAMETERS groups; unrecognized groups
// are skipped, matching the source's tolerant ODL scanning style (see
// the teacher's text-oriented stream parsers).
func ReadBpf(path string) (*BpfModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errBackingStore("ReadBpf", err, "opening %s", path)
	}
	defer f.Close()

	bpf := AllocateBpf()
	scanner := bufio.NewScanner(f)
	var group string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "GROUP ="):
			group = strings.TrimSpace(strings.TrimPrefix(line, line[:strings.Index(line, "=")+1]))
			continue
		case strings.HasPrefix(upper, "END_GROUP"):
			group = ""
			continue
		case upper == "END":
			continue
		}

		eq := strings.Index(line, "=")
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.Trim(strings.TrimSpace(line[eq+1:]), "\"")

		switch group {
		case "FILE_ATTRIBUTES":
			applyFileAttribute(&bpf.FileAttributes, key, value)
		case "ORBIT_PARAMETERS":
			if key == "BEGIN_ORBIT_NUMBER" {
				if n, err := strconv.Atoi(value); err == nil {
					bpf.OrbitParameters.BeginOrbitNumber = n
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errBackingStore("ReadBpf", err, "scanning %s", path)
	}
	return bpf, nil
}

func applyFileAttribute(attrs *FileAttributes, key, value string) {
	switch key {
	case "EFFECTIVE_DATE_BEGIN":
		attrs.EffectiveDateBegin = value
	case "EFFECTIVE_DATE_END":
		attrs.EffectiveDateEnd = value
	case "BASELINE_DATE":
		attrs.BaselineDate = value
	case "FILE_NAME":
		attrs.FileName = value
	case "FILE_SOURCE":
		attrs.FileSource = value
	case "SPACECRAFT_NAME":
		attrs.SpacecraftName = value
	case "SENSOR_NAME":
		attrs.SensorName = value
	case "DESCRIPTION":
		attrs.Description = value
	case "VERSION":
		if n, err := strconv.Atoi(value); err == nil {
			attrs.Version = n
		}
	}
}
