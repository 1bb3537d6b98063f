package measure

import "fmt"

// Range is an inclusive plausible interval in centimetres.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Contains reports whether v lies in the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// DefaultRanges returns adult anthropometric bounds wide enough to accept
// any real body and narrow enough to catch calibration failures.
func DefaultRanges() map[Name]Range {
	return map[Name]Range{
		Height:               {Min: 120, Max: 250},
		ShoulderWidth:        {Min: 30, Max: 70},
		ChestCircumference:   {Min: 60, Max: 150},
		WaistCircumference:   {Min: 50, Max: 150},
		HipCircumference:     {Min: 60, Max: 160},
		NeckCircumference:    {Min: 25, Max: 55},
		BicepCircumference:   {Min: 18, Max: 55},
		ForearmCircumference: {Min: 15, Max: 45},
		WristCircumference:   {Min: 12, Max: 25},
		ThighCircumference:   {Min: 35, Max: 90},
		CalfCircumference:    {Min: 25, Max: 60},
		AnkleCircumference:   {Min: 15, Max: 35},
		Inseam:               {Min: 55, Max: 100},
		Outseam:              {Min: 75, Max: 130},
		SleeveLength:         {Min: 45, Max: 95},
		TorsoLength:          {Min: 35, Max: 80},
		ArmSpan:              {Min: 120, Max: 260},
	}
}

// Issue describes one measurement outside its plausible range.
type Issue struct {
	Name  Name    `json:"name"`
	Value float64 `json:"value"`
	Range Range   `json:"range"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s = %.1f cm outside [%.0f, %.0f]", i.Name, i.Value, i.Range.Min, i.Range.Max)
}

// Report is the outcome of a validation pass.
type Report struct {
	OK     bool    `json:"ok"`
	Issues []Issue `json:"issues,omitempty"`
}

// Validate checks m against DefaultRanges.
func Validate(m BodyMeasurements) Report {
	return ValidateWith(m, DefaultRanges())
}

// ValidateWith checks every measurement that has a range. It never modifies
// the record; callers decide whether to warn or re-capture.
func ValidateWith(m BodyMeasurements, ranges map[Name]Range) Report {
	report := Report{OK: true}
	for _, n := range Names {
		r, ok := ranges[n]
		if !ok {
			continue
		}
		v := m.Get(n)
		if !r.Contains(v) {
			report.OK = false
			report.Issues = append(report.Issues, Issue{Name: n, Value: v, Range: r})
		}
	}
	return report
}
