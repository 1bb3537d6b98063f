package body

import (
	"github.com/ayusman/bodyscan/internal/geometry"
	"github.com/ayusman/bodyscan/internal/measure"
)

// Quantity is a value in centimetres with the confidence it was obtained at.
type Quantity struct {
	Value      float64
	Confidence measure.Confidence
}

// Observed wraps a directly measured value.
func Observed(v float64) Quantity {
	return Quantity{Value: v, Confidence: measure.ConfidenceHigh}
}

// Proxy wraps a value substituted for a missing observation.
func Proxy(v float64) Quantity {
	return Quantity{Value: v, Confidence: measure.ConfidenceLow}
}

// OK reports whether q holds a usable value.
func (q Quantity) OK() bool {
	return q.Value > 0 && geometry.Finite(q.Value) && q.Confidence != measure.ConfidenceMissing
}

// Scale multiplies the value, keeping the confidence.
func (q Quantity) Scale(f float64) Quantity {
	return Quantity{Value: q.Value * f, Confidence: q.Confidence}
}

// Plus adds two quantities; the result is as weak as the weaker operand.
func (q Quantity) Plus(o Quantity) Quantity {
	return Quantity{Value: q.Value + o.Value, Confidence: measure.Min(q.Confidence, o.Confidence)}
}

// Cap limits the confidence of q to c.
func (q Quantity) Cap(c measure.Confidence) Quantity {
	return Quantity{Value: q.Value, Confidence: measure.Min(q.Confidence, c)}
}

// Lengths are the skeletal spans every measurement is derived from.
type Lengths struct {
	Height        Quantity
	ShoulderWidth Quantity
	HipJointWidth Quantity
	UpperArm      Quantity
	Forearm       Quantity
	Thigh         Quantity
	Shin          Quantity
	Torso         Quantity
}

// MeasureLengths reads every span off the pose. Spans whose joints are
// missing fall back to a fraction of height and are marked low confidence.
func MeasureLengths(p Pose, height Quantity, props Proportions) Lengths {
	st := props.Stature
	h := height.Value
	pick := func(v float64, ok bool, fraction float64) Quantity {
		if ok && v > 0 && geometry.Finite(v) {
			return Observed(v)
		}
		return Proxy(h * fraction).Cap(height.Confidence)
	}

	l := Lengths{Height: height}
	v, ok := p.Distance(LeftShoulder, RightShoulder)
	l.ShoulderWidth = pick(v, ok, st.ShoulderWidth)
	v, ok = p.Distance(LeftHip, RightHip)
	l.HipJointWidth = pick(v, ok, st.HipJointWidth)
	v, ok = p.Bilateral(func(s Side) (float64, bool) { return p.Distance(s.Shoulder, s.Elbow) })
	l.UpperArm = pick(v, ok, st.UpperArm)
	v, ok = p.Bilateral(func(s Side) (float64, bool) { return p.Distance(s.Elbow, s.Wrist) })
	l.Forearm = pick(v, ok, st.Forearm)
	v, ok = p.Bilateral(func(s Side) (float64, bool) { return p.Distance(s.Hip, s.Knee) })
	l.Thigh = pick(v, ok, st.Thigh)
	v, ok = p.Bilateral(func(s Side) (float64, bool) { return p.Distance(s.Knee, s.Ankle) })
	l.Shin = pick(v, ok, st.Shin)
	v, ok = torsoLength(p)
	l.Torso = pick(v, ok, st.Torso)
	return l
}

func torsoLength(p Pose) (float64, bool) {
	shoulders, okS := p.Center(LeftShoulder, RightShoulder)
	hips, okH := p.Center(LeftHip, RightHip)
	if !okS || !okH {
		return 0, false
	}
	return geometry.Distance(shoulders, hips), true
}

// Sleeve is the shoulder-to-wrist length.
func (l Lengths) Sleeve() Quantity {
	return l.UpperArm.Plus(l.Forearm)
}

// Leg is the hip-joint-to-ankle length.
func (l Lengths) Leg() Quantity {
	return l.Thigh.Plus(l.Shin)
}

// ArmSpan is the fingertip-to-fingertip span. Hands are never observed, so
// the result is at best medium confidence.
func (l Lengths) ArmSpan(props Proportions) Quantity {
	hand := Proxy(l.Height.Value * props.Stature.Hand)
	arm := l.Sleeve().Plus(Quantity{Value: hand.Value, Confidence: measure.ConfidenceMedium})
	return arm.Scale(2).Plus(l.ShoulderWidth)
}

// Girth returns the ellipse perimeter for a width and an observed depth. When
// depth is not usable the depth is assumed to be depthRatio of the width and
// the result is capped at medium confidence.
func Girth(width, depth Quantity, depthRatio float64) Quantity {
	if !width.OK() {
		return Quantity{Confidence: measure.ConfidenceMissing}
	}
	a := width.Value / 2
	if depth.OK() {
		c := geometry.EllipseCircumference(a, depth.Value/2)
		return Quantity{Value: c, Confidence: measure.Min(width.Confidence, depth.Confidence)}
	}
	c := geometry.EllipseCircumference(a, a*depthRatio)
	return Quantity{Value: c, Confidence: measure.Min(width.Confidence, measure.ConfidenceMedium)}
}

// LimbGirth estimates a girth from an adjacent bone length. These are the
// least reliable measurements and never exceed low confidence.
func LimbGirth(bone Quantity, limb Limb) Quantity {
	width := bone.Scale(limb.WidthRatio)
	return Girth(width, Quantity{}, limb.DepthRatio).Cap(measure.ConfidenceLow)
}

// TorsoWidths derives chest, waist and hip widths from the shoulder and hip
// joint spans.
func (l Lengths) TorsoWidths(props Proportions) (chest, waist, hip Quantity) {
	chest = l.ShoulderWidth.Scale(props.ChestToShoulderWidth).Cap(measure.ConfidenceMedium)
	hip = l.HipJointWidth.Scale(props.HipWidthToHipJoints).Cap(measure.ConfidenceMedium)
	waist = hip.Scale(props.WaistToHipWidth).Cap(measure.ConfidenceMedium)
	return chest, waist, hip
}

// Fill writes every measurement that can be derived from lengths alone:
// direct lengths, proportion-based torso girths and bone-ratio limb girths.
// Estimators overwrite the girths they can observe afterwards.
func Fill(m *measure.BodyMeasurements, l Lengths, props Proportions) {
	set := func(n measure.Name, q Quantity) {
		m.Set(n, q.Value, q.Confidence)
	}

	set(measure.Height, l.Height)
	set(measure.ShoulderWidth, l.ShoulderWidth)
	set(measure.TorsoLength, l.Torso)
	set(measure.SleeveLength, l.Sleeve())
	set(measure.Inseam, l.Leg().Scale(props.InseamToLeg))
	set(measure.Outseam, l.Leg().Scale(props.OutseamToLeg))
	set(measure.ArmSpan, l.ArmSpan(props))

	chest, waist, hip := l.TorsoWidths(props)
	set(measure.ChestCircumference, Girth(chest, Quantity{}, props.ChestDepthRatio))
	set(measure.WaistCircumference, Girth(waist, Quantity{}, props.WaistDepthRatio))
	set(measure.HipCircumference, Girth(hip, Quantity{}, props.HipDepthRatio))

	set(measure.NeckCircumference, LimbGirth(l.ShoulderWidth, props.Neck))
	set(measure.BicepCircumference, LimbGirth(l.UpperArm, props.Bicep))
	set(measure.ForearmCircumference, LimbGirth(l.Forearm, props.Forearm))
	set(measure.WristCircumference, LimbGirth(l.Forearm, props.Wrist))
	set(measure.ThighCircumference, LimbGirth(l.Thigh, props.Thigh))
	set(measure.CalfCircumference, LimbGirth(l.Shin, props.Calf))
	set(measure.AnkleCircumference, LimbGirth(l.Shin, props.Ankle))
}
