package measure

import (
	"encoding/json"
	"math"
	"testing"

	"go.viam.com/test"
)

func plausible() BodyMeasurements {
	m := New()
	m.Set(Height, 175, ConfidenceHigh)
	m.Set(ShoulderWidth, 42, ConfidenceHigh)
	m.Set(ChestCircumference, 98, ConfidenceHigh)
	m.Set(WaistCircumference, 84, ConfidenceHigh)
	m.Set(HipCircumference, 100, ConfidenceHigh)
	m.Set(NeckCircumference, 38, ConfidenceLow)
	m.Set(BicepCircumference, 30, ConfidenceLow)
	m.Set(ForearmCircumference, 26, ConfidenceLow)
	m.Set(WristCircumference, 17, ConfidenceLow)
	m.Set(ThighCircumference, 56, ConfidenceLow)
	m.Set(CalfCircumference, 37, ConfidenceLow)
	m.Set(AnkleCircumference, 23, ConfidenceLow)
	m.Set(Inseam, 80, ConfidenceHigh)
	m.Set(Outseam, 105, ConfidenceHigh)
	m.Set(SleeveLength, 62, ConfidenceHigh)
	m.Set(TorsoLength, 52, ConfidenceHigh)
	m.Set(ArmSpan, 172, ConfidenceHigh)
	return m
}

func TestNew(t *testing.T) {
	m := New()
	for _, n := range Names {
		test.That(t, m.Get(n), test.ShouldEqual, 0)
		test.That(t, m.ConfidenceOf(n), test.ShouldEqual, ConfidenceMissing)
	}
}

func TestSet(t *testing.T) {
	t.Run("stores value and confidence", func(t *testing.T) {
		m := New()
		m.Set(Inseam, 81.5, ConfidenceMedium)
		test.That(t, m.Inseam, test.ShouldEqual, 81.5)
		test.That(t, m.ConfidenceOf(Inseam), test.ShouldEqual, ConfidenceMedium)
	})

	t.Run("rejects non-finite and negative values", func(t *testing.T) {
		for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -4} {
			m := New()
			m.Set(ChestCircumference, v, ConfidenceHigh)
			test.That(t, m.ChestCircumference, test.ShouldEqual, 0)
			test.That(t, m.ConfidenceOf(ChestCircumference), test.ShouldEqual, ConfidenceMissing)
		}
	})

	t.Run("zero is missing", func(t *testing.T) {
		var m BodyMeasurements
		m.Set(Height, 0, ConfidenceHigh)
		test.That(t, m.ConfidenceOf(Height), test.ShouldEqual, ConfidenceMissing)
	})

	t.Run("unknown name is ignored", func(t *testing.T) {
		m := New()
		m.Set(Name("shoe_size"), 44, ConfidenceHigh)
		test.That(t, m.Get(Name("shoe_size")), test.ShouldEqual, 0)
		_, ok := m.Confidence[Name("shoe_size")]
		test.That(t, ok, test.ShouldBeFalse)
	})
}

func TestMin(t *testing.T) {
	test.That(t, Min(ConfidenceHigh, ConfidenceMedium), test.ShouldEqual, ConfidenceMedium)
	test.That(t, Min(ConfidenceHigh, ConfidenceLow, ConfidenceMedium), test.ShouldEqual, ConfidenceLow)
	test.That(t, Min(ConfidenceHigh), test.ShouldEqual, ConfidenceHigh)
	test.That(t, Min(), test.ShouldEqual, ConfidenceMissing)
	test.That(t, ConfidenceHigh.AtLeast(ConfidenceMedium), test.ShouldBeTrue)
	test.That(t, ConfidenceLow.AtLeast(ConfidenceMedium), test.ShouldBeFalse)
}

func TestToMapAndJSON(t *testing.T) {
	m := plausible()
	flat := m.ToMap()
	test.That(t, flat, test.ShouldHaveLength, len(Names))
	test.That(t, flat["chest_circumference"], test.ShouldEqual, 98)
	test.That(t, flat["sleeve_length"], test.ShouldEqual, 62)

	data, err := json.Marshal(m)
	test.That(t, err, test.ShouldBeNil)

	var decoded map[string]any
	test.That(t, json.Unmarshal(data, &decoded), test.ShouldBeNil)
	for _, n := range Names {
		test.That(t, decoded, test.ShouldContainKey, string(n))
	}
	conf := decoded["confidence"].(map[string]any)
	test.That(t, conf["neck_circumference"], test.ShouldEqual, "low")
}

func TestDegraded(t *testing.T) {
	m := plausible()
	low := m.Degraded(ConfidenceMedium)
	test.That(t, low, test.ShouldResemble, []Name{
		NeckCircumference, BicepCircumference, ForearmCircumference, WristCircumference,
		ThighCircumference, CalfCircumference, AnkleCircumference,
	})
	test.That(t, m.Degraded(ConfidenceLow), test.ShouldBeEmpty)
}

func TestValidate(t *testing.T) {
	t.Run("plausible record passes", func(t *testing.T) {
		report := Validate(plausible())
		test.That(t, report.OK, test.ShouldBeTrue)
		test.That(t, report.Issues, test.ShouldBeEmpty)
	})

	t.Run("implausible values are reported, not clamped", func(t *testing.T) {
		m := plausible()
		m.Set(Height, 310, ConfidenceHigh)
		m.Set(ChestCircumference, 20, ConfidenceHigh)

		report := Validate(m)
		test.That(t, report.OK, test.ShouldBeFalse)
		test.That(t, report.Issues, test.ShouldHaveLength, 2)
		test.That(t, report.Issues[0].Name, test.ShouldEqual, Height)
		test.That(t, report.Issues[1].Name, test.ShouldEqual, ChestCircumference)
		test.That(t, report.Issues[0].String(), test.ShouldContainSubstring, "height = 310.0 cm")
		test.That(t, m.Height, test.ShouldEqual, 310)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		report := Validate(New())
		test.That(t, report.OK, test.ShouldBeFalse)
		test.That(t, report.Issues, test.ShouldHaveLength, len(Names))
	})

	t.Run("custom ranges only check listed fields", func(t *testing.T) {
		m := New()
		m.Set(Height, 180, ConfidenceHigh)
		report := ValidateWith(m, map[Name]Range{Height: {Min: 150, Max: 200}})
		test.That(t, report.OK, test.ShouldBeTrue)
	})
}

func TestCap(t *testing.T) {
	m := New()
	m.Set(Height, 175, ConfidenceHigh)
	m.Set(ChestCircumference, 95, ConfidenceMedium)
	m.Cap(ConfidenceLow)

	test.That(t, m.ConfidenceOf(Height), test.ShouldEqual, ConfidenceLow)
	test.That(t, m.ConfidenceOf(ChestCircumference), test.ShouldEqual, ConfidenceLow)
	test.That(t, m.ConfidenceOf(Inseam), test.ShouldEqual, ConfidenceMissing)
	test.That(t, m.Height, test.ShouldEqual, 175.0)
}
