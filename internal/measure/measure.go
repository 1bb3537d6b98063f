// Package measure defines the body measurement record produced by the
// estimators and the plausibility checks run over it.
package measure

import (
	"math"
)

// Name identifies a single measurement. Names are the snake_case keys used
// when a record is serialized.
type Name string

// Measurement names.
const (
	Height               Name = "height"
	ShoulderWidth        Name = "shoulder_width"
	ChestCircumference   Name = "chest_circumference"
	WaistCircumference   Name = "waist_circumference"
	HipCircumference     Name = "hip_circumference"
	NeckCircumference    Name = "neck_circumference"
	BicepCircumference   Name = "bicep_circumference"
	ForearmCircumference Name = "forearm_circumference"
	WristCircumference   Name = "wrist_circumference"
	ThighCircumference   Name = "thigh_circumference"
	CalfCircumference    Name = "calf_circumference"
	AnkleCircumference   Name = "ankle_circumference"
	Inseam               Name = "inseam"
	Outseam              Name = "outseam"
	SleeveLength         Name = "sleeve_length"
	TorsoLength          Name = "torso_length"
	ArmSpan              Name = "arm_span"
)

// Names lists every measurement in presentation order.
var Names = []Name{
	Height,
	ShoulderWidth,
	ChestCircumference,
	WaistCircumference,
	HipCircumference,
	NeckCircumference,
	BicepCircumference,
	ForearmCircumference,
	WristCircumference,
	ThighCircumference,
	CalfCircumference,
	AnkleCircumference,
	Inseam,
	Outseam,
	SleeveLength,
	TorsoLength,
	ArmSpan,
}

// Confidence grades how directly a measurement was observed.
type Confidence string

const (
	// ConfidenceMissing marks a field that could not be computed at all.
	ConfidenceMissing Confidence = "missing"
	// ConfidenceLow marks proxy values derived from stature or bone-length ratios.
	ConfidenceLow Confidence = "low"
	// ConfidenceMedium marks values from a real observation combined with an
	// empirical ratio, e.g. a measured width with an assumed depth.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceHigh marks values observed directly.
	ConfidenceHigh Confidence = "high"
)

func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// Min returns the weakest of the given confidences.
func Min(cs ...Confidence) Confidence {
	if len(cs) == 0 {
		return ConfidenceMissing
	}
	lowest := cs[0]
	for _, c := range cs[1:] {
		if c.rank() < lowest.rank() {
			lowest = c
		}
	}
	return lowest
}

// AtLeast reports whether c is as strong as other.
func (c Confidence) AtLeast(other Confidence) bool {
	return c.rank() >= other.rank()
}

// BodyMeasurements is the estimator output. All values are centimetres and
// are always finite and non-negative.
type BodyMeasurements struct {
	Height               float64 `json:"height"`
	ShoulderWidth        float64 `json:"shoulder_width"`
	ChestCircumference   float64 `json:"chest_circumference"`
	WaistCircumference   float64 `json:"waist_circumference"`
	HipCircumference     float64 `json:"hip_circumference"`
	NeckCircumference    float64 `json:"neck_circumference"`
	BicepCircumference   float64 `json:"bicep_circumference"`
	ForearmCircumference float64 `json:"forearm_circumference"`
	WristCircumference   float64 `json:"wrist_circumference"`
	ThighCircumference   float64 `json:"thigh_circumference"`
	CalfCircumference    float64 `json:"calf_circumference"`
	AnkleCircumference   float64 `json:"ankle_circumference"`
	Inseam               float64 `json:"inseam"`
	Outseam              float64 `json:"outseam"`
	SleeveLength         float64 `json:"sleeve_length"`
	TorsoLength          float64 `json:"torso_length"`
	ArmSpan              float64 `json:"arm_span"`

	Confidence map[Name]Confidence `json:"confidence"`
}

// New returns a record with every field zero and marked missing.
func New() BodyMeasurements {
	m := BodyMeasurements{Confidence: make(map[Name]Confidence, len(Names))}
	for _, n := range Names {
		m.Confidence[n] = ConfidenceMissing
	}
	return m
}

func (m *BodyMeasurements) field(n Name) *float64 {
	switch n {
	case Height:
		return &m.Height
	case ShoulderWidth:
		return &m.ShoulderWidth
	case ChestCircumference:
		return &m.ChestCircumference
	case WaistCircumference:
		return &m.WaistCircumference
	case HipCircumference:
		return &m.HipCircumference
	case NeckCircumference:
		return &m.NeckCircumference
	case BicepCircumference:
		return &m.BicepCircumference
	case ForearmCircumference:
		return &m.ForearmCircumference
	case WristCircumference:
		return &m.WristCircumference
	case ThighCircumference:
		return &m.ThighCircumference
	case CalfCircumference:
		return &m.CalfCircumference
	case AnkleCircumference:
		return &m.AnkleCircumference
	case Inseam:
		return &m.Inseam
	case Outseam:
		return &m.Outseam
	case SleeveLength:
		return &m.SleeveLength
	case TorsoLength:
		return &m.TorsoLength
	case ArmSpan:
		return &m.ArmSpan
	}
	return nil
}

// Get returns the value of the named measurement, or 0 for unknown names.
func (m *BodyMeasurements) Get(n Name) float64 {
	if f := m.field(n); f != nil {
		return *f
	}
	return 0
}

// ConfidenceOf returns the confidence recorded for n.
func (m *BodyMeasurements) ConfidenceOf(n Name) Confidence {
	if c, ok := m.Confidence[n]; ok {
		return c
	}
	return ConfidenceMissing
}

// Set stores a value and its confidence. Values that are NaN, infinite or
// negative are stored as 0 and marked missing. Unknown names are ignored.
func (m *BodyMeasurements) Set(n Name, v float64, c Confidence) {
	f := m.field(n)
	if f == nil {
		return
	}
	if m.Confidence == nil {
		m.Confidence = make(map[Name]Confidence, len(Names))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		*f = 0
		m.Confidence[n] = ConfidenceMissing
		return
	}
	if v == 0 {
		c = ConfidenceMissing
	}
	*f = v
	m.Confidence[n] = c
}

// ToMap flattens the record into snake_case keys.
func (m *BodyMeasurements) ToMap() map[string]float64 {
	out := make(map[string]float64, len(Names))
	for _, n := range Names {
		out[string(n)] = m.Get(n)
	}
	return out
}

// Degraded returns the names whose confidence is below min, in
// presentation order.
func (m *BodyMeasurements) Degraded(min Confidence) []Name {
	var names []Name
	for _, n := range Names {
		if !m.ConfidenceOf(n).AtLeast(min) {
			names = append(names, n)
		}
	}
	return names
}

// Cap lowers every confidence above c to c.
func (m *BodyMeasurements) Cap(c Confidence) {
	if m.Confidence == nil {
		m.Confidence = make(map[Name]Confidence, len(Names))
	}
	for _, n := range Names {
		m.Confidence[n] = Min(m.ConfidenceOf(n), c)
	}
}
