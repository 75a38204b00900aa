package los

import (
	"reflect"
	"strconv"
)

// Field length constants carried over from the L0R library's constants
// header (ias_l0r_constants.h); used to size fixed-width string fields in
// the ancillary/metadata records below.
const (
	L0RSensorIDLength       = 8
	L0RSpacecraftIDLength   = 10
	L0RDateLength           = 26
	L0RSceneIDLength        = 21
	MaxTrackedSatellites    = 12
	GyroSamplesPerRecord    = 50
	OliTirsTemperatureCount = 66
	GyroTemperatureCount    = 32
)

// L0RTime is the (days_from_J2000, seconds_of_day) time pair every
// ancillary record is keyed by.
type L0RTime struct {
	DaysFromJ2000 int32
	SecondsOfDay  float64
}

// Quaternion is a scalar-last unit quaternion (vector part + scalar).
type Quaternion struct {
	Vec    Vector3
	Scalar float64
}

// AttitudeRecord is one row of the /Spacecraft/ACS/Attitude table: 8
// columns per spec §4.8. The record holds only the fields below; it does
// not carry every stored column.
type AttitudeRecord struct {
	Time           L0RTime
	InertialToBody Quaternion
	WarningFlag    uint8
}

// AttitudeFilterRecord is one row of /Spacecraft/ACS/Attitude_Filter: 23
// columns (gyro biases, scale factors, 6 misalignments, Kalman error
// vector, covariance diagonal).
type AttitudeFilterRecord struct {
	Time              L0RTime
	GyroBiases        [3]float64
	GyroScaleFactors  [3]float64
	Misalignments     [6]float64
	KalmanErrorVector [3]float64
	CovarianceDiag    [6]float64
}

// EphemerisRecord is one row of /Spacecraft/Ephemeris: 16 columns (time +
// ECEF position/velocity + orbit-determination error vectors). The record
// holds only the fields below; it does not carry every stored column.
type EphemerisRecord struct {
	Time          L0RTime
	EcefPosition  Vector3
	EcefVelocity  Vector3
	PositionError Vector3
	VelocityError Vector3
	ErrorFlag     uint8
}

// TrackedSatellitePosition is one of the 12 tracked-satellite slots in a
// GPS_Position record.
type TrackedSatellitePosition struct {
	SatelliteID uint8
	Snr         float64
}

// GPSPositionRecord is one row of /Spacecraft/GPS_Position: 77 columns
// (time + wall clock + lat/lon/height + 12 tracked-satellite records).
// The record holds only the fields below (31 values); it does not carry
// every stored column.
type GPSPositionRecord struct {
	Time              L0RTime
	WallClock         L0RTime
	Latitude          float64
	Longitude         float64
	Height            float64
	TrackedSatellites [MaxTrackedSatellites]TrackedSatellitePosition
}

// TrackedSatelliteRange is one of the 12 tracked-satellite range records
// (8 fields each) in a GPS_Range record.
type TrackedSatelliteRange struct {
	SatelliteID uint8
	PseudoRange float64
	DeltaRange  float64
	Snr         float64
	Flags       uint8
	Reserved    [3]float64
}

// GPSRangeRecord is one row of /Spacecraft/GPS_Range: 103 columns (see
// GPSRangeFieldSchema). The record holds only the time and the 12
// tracked-satellite range records; it does not carry the wall clock,
// satellite count, header reserved byte, or warning flag.
type GPSRangeRecord struct {
	Time   L0RTime
	Ranges [MaxTrackedSatellites]TrackedSatelliteRange
}

// FieldDescriptor is one (field_name, native_type, size_bytes) tuple in a
// table's logical schema, per spec §3.1's "ordered list of
// (field_name, native_type, size_bytes, offset_bytes) tuples". Offsets
// are derived positionally (cumulative size), matching the REDESIGN
// FLAGS guidance to derive offsets from the type system rather than
// hand-written HOFFSET tables.
type FieldDescriptor struct {
	Name string
	Type string
	Size int
}

const gpsRangeHeaderFieldCount = 6
const gpsRangeFieldsPerSatellite = 8

// GPSRangeFieldSchema returns the flat, ordered field list for a
// GPS_Range record: 6 header fields, then 12 tracked-satellite records of
// 8 fields each, then a trailing warning flag — 103 fields total, per
// spec §8.4 scenario 3 (field 7, index 6, is the first satellite's
// id_1; the last field is warning_flag).
func GPSRangeFieldSchema() []FieldDescriptor {
	fields := make([]FieldDescriptor, 0, gpsRangeHeaderFieldCount+MaxTrackedSatellites*gpsRangeFieldsPerSatellite+1)

	fields = append(fields,
		FieldDescriptor{"days_from_j2000", "int32", 4},
		FieldDescriptor{"seconds_of_day", "float64", 8},
		FieldDescriptor{"wall_clock_days", "int32", 4},
		FieldDescriptor{"wall_clock_seconds", "float64", 8},
		FieldDescriptor{"num_satellites_tracked", "uint8", 1},
		FieldDescriptor{"reserved", "uint8", 1},
	)

	satelliteFieldNames := []string{"id", "pseudorange", "delta_range", "range_rate", "snr", "lock_flag", "valid_flag", "reserved"}
	for sat := 1; sat <= MaxTrackedSatellites; sat++ {
		for i, base := range satelliteFieldNames {
			typ, size := "float64", 8
			if i == 0 {
				typ, size = "uint8", 1
			}
			fields = append(fields, FieldDescriptor{
				Name: base + "_" + strconv.Itoa(sat),
				Type: typ,
				Size: size,
			})
		}
	}

	fields = append(fields, FieldDescriptor{"warning_flag", "uint8", 1})
	return fields
}

// GyroSample is one nested gyro sample within a Gyro (IMU) record: sync
// time, time tag, saturation/scaling flags, and 4 integrated angle
// counts.
type GyroSample struct {
	SyncTime         L0RTime
	TimeTag          float64
	SaturationFlag   uint8
	ScalingFlag      uint8
	IntegratedAngles [4]float64
}

// GyroRecord is one row of /Spacecraft/IMU/Gyro: 55 columns (time + 50
// gyro samples). The record holds only the time and the samples; it does
// not carry every stored column.
type GyroRecord struct {
	Time    L0RTime
	Samples [GyroSamplesPerRecord]GyroSample
}

// StarRecord is one tracked-star entry within a Star_Tracker_Centroid
// record.
type StarRecord struct {
	CatalogID uint32
	Centroid  [2]float64
	Magnitude float64
}

// StarTrackerCentroidRecord is one row of /Spacecraft/Star_Tracker_Centroid:
// 39 columns (quaternion index + 6 star records + focal length +
// warning). The record holds only the fields below (29 values); it does
// not carry every stored column.
type StarTrackerCentroidRecord struct {
	Time            L0RTime
	QuaternionIndex uint32
	Stars           [6]StarRecord
	FocalLength     float64
	WarningFlag     uint8
}

// StarTrackerQuaternionRecord is one row of
// /Spacecraft/Star_Tracker_Quaternion: 47 columns of extensive STA
// telemetry including the quaternion elements.
type StarTrackerQuaternionRecord struct {
	Time       L0RTime
	Quaternion Quaternion
	Telemetry  [42]float64
}

// OLITelemetryGroup3Record is one row of
// /Telemetry/OLI/Telemetry_Group_3: 41 columns of grouped instrument
// telemetry.
type OLITelemetryGroup3Record struct {
	Time      L0RTime
	Telemetry [40]float64
}

// OLITelemetryGroup4Record is one row of
// /Telemetry/OLI/Telemetry_Group_4: 39 columns.
type OLITelemetryGroup4Record struct {
	Time      L0RTime
	Telemetry [38]float64
}

// OLITelemetryGroup5Record is one row of
// /Telemetry/OLI/Telemetry_Group_5: 46 columns.
type OLITelemetryGroup5Record struct {
	Time      L0RTime
	Telemetry [45]float64
}

// TIRSTelemetryRecord is one row of /Telemetry/TIRS/TIRS_Telemetry: 122
// columns including a 3-sample SSM encoder position array.
type TIRSTelemetryRecord struct {
	Time                 L0RTime
	CommandTelemetry     [40]float64
	TemperatureTelemetry [40]float64
	FpeCircuitTelemetry  [38]float64
	SsmEncoderPosition   [3]float64
}

// GyroTemperatureRecord is one row of /Spacecraft/Temperatures/Gyro: 36
// columns (32 per-gyro filtered readings). The record holds only the
// time and the readings; it does not carry every stored column.
type GyroTemperatureRecord struct {
	Time     L0RTime
	Readings [GyroTemperatureCount]float64
}

// OLITIRSTemperatureRecord is one row of
// /Spacecraft/Temperatures/OLI_TIRS: 70 columns (~66 named temperature
// channels). The record holds only the time and the 66 channels; it does
// not carry every stored column.
type OLITIRSTemperatureRecord struct {
	Time     L0RTime
	Channels [OliTirsTemperatureCount]float64
}

// AncillaryTableKind enumerates the ancillary tables a scene's _ANC.h5
// file carries, keyed by group path per spec §6.3.
type AncillaryTableKind int

const (
	TableAttitude AncillaryTableKind = iota
	TableAttitudeFilter
	TableEphemeris
	TableGPSPosition
	TableGPSRange
	TableGyro
	TableStarTrackerCentroid
	TableStarTrackerQuaternion
	TableOLITelemetryGroup3
	TableOLITelemetryGroup4
	TableOLITelemetryGroup5
	TableTIRSTelemetry
	TableGyroTemperature
	TableOLITIRSTemperature
)

// GroupPath returns the ancillary file's HDF5-like group path for kind,
// per spec §6.3.
func (k AncillaryTableKind) GroupPath() string {
	switch k {
	case TableAttitude:
		return "/Spacecraft/ACS/Attitude"
	case TableAttitudeFilter:
		return "/Spacecraft/ACS/Attitude_Filter"
	case TableEphemeris:
		return "/Spacecraft/Ephemeris"
	case TableGPSPosition:
		return "/Spacecraft/GPS_Position"
	case TableGPSRange:
		return "/Spacecraft/GPS_Range"
	case TableGyro:
		return "/Spacecraft/IMU/Gyro"
	case TableStarTrackerCentroid:
		return "/Spacecraft/Star_Tracker_Centroid"
	case TableStarTrackerQuaternion:
		return "/Spacecraft/Star_Tracker_Quaternion"
	case TableOLITelemetryGroup3:
		return "/Telemetry/OLI/Telemetry_Group_3"
	case TableOLITelemetryGroup4:
		return "/Telemetry/OLI/Telemetry_Group_4"
	case TableOLITelemetryGroup5:
		return "/Telemetry/OLI/Telemetry_Group_5"
	case TableTIRSTelemetry:
		return "/Telemetry/TIRS/TIRS_Telemetry"
	case TableGyroTemperature:
		return "/Spacecraft/Temperatures/Gyro"
	case TableOLITIRSTemperature:
		return "/Spacecraft/Temperatures/OLI_TIRS"
	default:
		return ""
	}
}

// BandDatasetKind enumerates the three datasets a scene's _B<NN>.h5 band
// file carries, per spec §6.3.
type BandDatasetKind int

const (
	DatasetImage BandDatasetKind = iota
	DatasetVRP
	DatasetDetectorOffsets
)

func (k BandDatasetKind) String() string {
	switch k {
	case DatasetImage:
		return "Image"
	case DatasetVRP:
		return "VRP"
	case DatasetDetectorOffsets:
		return "Detector_Offsets"
	default:
		return ""
	}
}

// AncillaryStore is the external collaborator the core reads/writes
// ancillary table records through; the underlying chunked, compressed
// table/dataset store (an HDF5-like format) is out of this core's scope
// (spec §1), so the core depends only on this interface. Record append
// is the only mutation: ancillary tables in the source system are
// written once per scene, sequentially.
type AncillaryStore interface {
	AppendRecords(table AncillaryTableKind, records interface{}) error
	ReadRecords(table AncillaryTableKind, out interface{}) error
	RecordCount(table AncillaryTableKind) (int, error)
	Close() error
}

// BandDatasetStore is the external collaborator for a band's image, VRP,
// and detector-offset datasets. Image/VRP/Offset datasets are 3-D,
// indexed [SCA][LINE][DETECTOR], 16-bit unsigned, per spec §3.2/§4.8;
// only the line axis is extensible.
type BandDatasetStore interface {
	WriteLines(dataset BandDatasetKind, sca int, startLine int, lines [][]uint16) error
	ReadLines(dataset BandDatasetKind, sca int, startLine, count int) ([][]uint16, error)
	LineCount(dataset BandDatasetKind) (int, error)
	// TruncateBandLines sets a dataset's line extent to a minimum-extent
	// marker of 1 (the backing store disallows an extent of 0), per spec
	// §4.8/§8.3.
	TruncateBandLines(dataset BandDatasetKind) error
	Close() error
}

// InMemoryAncillaryStore is a reference AncillaryStore backed by plain Go
// slices, used by tests and by callers with no real HDF5-like backend
// available.
type InMemoryAncillaryStore struct {
	tables map[AncillaryTableKind][]interface{}
	closed bool
}

// NewInMemoryAncillaryStore returns an empty InMemoryAncillaryStore.
func NewInMemoryAncillaryStore() *InMemoryAncillaryStore {
	return &InMemoryAncillaryStore{tables: make(map[AncillaryTableKind][]interface{})}
}

func (s *InMemoryAncillaryStore) AppendRecords(table AncillaryTableKind, records interface{}) error {
	if s.closed {
		return errBackingStore("InMemoryAncillaryStore.AppendRecords", nil, "store closed")
	}
	s.tables[table] = append(s.tables[table], records)
	return nil
}

// ReadRecords populates out from the records appended for table. out
// must be a pointer to either a slice (filled with every appended
// record, in append order) or a single record struct (filled with the
// most recently appended record), matching AppendRecords's own
// single-record-per-call convention.
func (s *InMemoryAncillaryStore) ReadRecords(table AncillaryTableKind, out interface{}) error {
	if s.closed {
		return errBackingStore("InMemoryAncillaryStore.ReadRecords", nil, "store closed")
	}
	records, ok := s.tables[table]
	if !ok {
		return errNotFound("InMemoryAncillaryStore.ReadRecords", "table %v has no records", table)
	}

	outVal := reflect.ValueOf(out)
	if outVal.Kind() != reflect.Ptr || outVal.IsNil() {
		return errInvalidInput("InMemoryAncillaryStore.ReadRecords", "out must be a non-nil pointer")
	}
	elem := outVal.Elem()

	if elem.Kind() == reflect.Slice {
		sliceType := elem.Type()
		result := reflect.MakeSlice(sliceType, 0, len(records))
		for _, r := range records {
			rv := reflect.ValueOf(r)
			if !rv.Type().AssignableTo(sliceType.Elem()) {
				return errInvalidInput("InMemoryAncillaryStore.ReadRecords", "record type %s not assignable to slice element type %s", rv.Type(), sliceType.Elem())
			}
			result = reflect.Append(result, rv)
		}
		elem.Set(result)
		return nil
	}

	last := records[len(records)-1]
	rv := reflect.ValueOf(last)
	if !rv.Type().AssignableTo(elem.Type()) {
		return errInvalidInput("InMemoryAncillaryStore.ReadRecords", "record type %s not assignable to out type %s", rv.Type(), elem.Type())
	}
	elem.Set(rv)
	return nil
}

func (s *InMemoryAncillaryStore) RecordCount(table AncillaryTableKind) (int, error) {
	return len(s.tables[table]), nil
}

func (s *InMemoryAncillaryStore) Close() error {
	s.closed = true
	return nil
}

// InMemoryBandDatasetStore is a reference BandDatasetStore backed by
// plain Go slices.
type InMemoryBandDatasetStore struct {
	// lines[dataset][sca] is the dataset's line-major storage for that SCA.
	lines  map[BandDatasetKind]map[int][][]uint16
	closed bool
}

// NewInMemoryBandDatasetStore returns an empty InMemoryBandDatasetStore.
func NewInMemoryBandDatasetStore() *InMemoryBandDatasetStore {
	return &InMemoryBandDatasetStore{lines: make(map[BandDatasetKind]map[int][][]uint16)}
}

func (s *InMemoryBandDatasetStore) scaLines(dataset BandDatasetKind, sca int) [][]uint16 {
	if s.lines[dataset] == nil {
		s.lines[dataset] = make(map[int][][]uint16)
	}
	return s.lines[dataset][sca]
}

func (s *InMemoryBandDatasetStore) WriteLines(dataset BandDatasetKind, sca int, startLine int, newLines [][]uint16) error {
	if s.closed {
		return errBackingStore("InMemoryBandDatasetStore.WriteLines", nil, "store closed")
	}
	existing := s.scaLines(dataset, sca)
	needed := startLine + len(newLines)
	if needed > len(existing) {
		grown := make([][]uint16, needed)
		copy(grown, existing)
		existing = grown
	}
	for i, line := range newLines {
		existing[startLine+i] = line
	}
	s.lines[dataset][sca] = existing
	return nil
}

func (s *InMemoryBandDatasetStore) ReadLines(dataset BandDatasetKind, sca int, startLine, count int) ([][]uint16, error) {
	if s.closed {
		return nil, errBackingStore("InMemoryBandDatasetStore.ReadLines", nil, "store closed")
	}
	existing := s.scaLines(dataset, sca)
	if startLine < 0 || startLine+count > len(existing) {
		return nil, errInvalidInput("InMemoryBandDatasetStore.ReadLines", "requested range [%d,%d) exceeds line count %d", startLine, startLine+count, len(existing))
	}
	return existing[startLine : startLine+count], nil
}

func (s *InMemoryBandDatasetStore) LineCount(dataset BandDatasetKind) (int, error) {
	max := 0
	for _, lines := range s.lines[dataset] {
		if len(lines) > max {
			max = len(lines)
		}
	}
	return max, nil
}

func (s *InMemoryBandDatasetStore) TruncateBandLines(dataset BandDatasetKind) error {
	if s.closed {
		return errBackingStore("InMemoryBandDatasetStore.TruncateBandLines", nil, "store closed")
	}
	for sca, lines := range s.lines[dataset] {
		if len(lines) > 1 {
			s.lines[dataset][sca] = lines[:1]
		} else if len(lines) == 0 {
			s.lines[dataset][sca] = make([][]uint16, 1)
		}
	}
	return nil
}

func (s *InMemoryBandDatasetStore) Close() error {
	s.closed = true
	return nil
}
