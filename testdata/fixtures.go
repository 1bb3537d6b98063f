// Package testdata provides synthetic captures of a 175 cm standing subject
// for estimator, service and end-to-end tests.
package testdata

import (
	"embed"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/ayusman/bodyscan/internal/body"
	"github.com/ayusman/bodyscan/internal/landmark"
)

//go:embed scans/*
var scansFS embed.FS

// SubjectHeightCm is the standing height of the synthetic subject.
const SubjectHeightCm = 175.0

// subjectFront places the subject's joints in centimetres, x to the
// subject's left and y up from the ankles. The nose sits at full height so
// that nose-to-ankle calibration is exact.
var subjectFront = map[body.Joint]r3.Vector{
	body.Nose:          {X: 0, Y: 175},
	body.LeftShoulder:  {X: 20, Y: 148},
	body.RightShoulder: {X: -20, Y: 148},
	body.LeftElbow:     {X: 23, Y: 118},
	body.RightElbow:    {X: -23, Y: 118},
	body.LeftWrist:     {X: 24, Y: 90},
	body.RightWrist:    {X: -24, Y: 90},
	body.LeftHip:       {X: 9, Y: 95},
	body.RightHip:      {X: -9, Y: 95},
	body.LeftKnee:      {X: 10, Y: 50},
	body.RightKnee:     {X: -10, Y: 50},
	body.LeftAnkle:     {X: 10, Y: 0},
	body.RightAnkle:    {X: -10, Y: 0},
}

// subjectSide is the same subject in profile; bilateral pairs spread by the
// torso depth.
var subjectSide = map[body.Joint]r3.Vector{
	body.Nose:          {X: 10, Y: 175},
	body.LeftShoulder:  {X: -12, Y: 148},
	body.RightShoulder: {X: 12, Y: 148},
	body.LeftHip:       {X: -13, Y: 95},
	body.RightHip:      {X: 13, Y: 95},
	body.LeftAnkle:     {X: 2, Y: 0},
	body.RightAnkle:    {X: -2, Y: 0},
}

// Layout of the subject in the frame: ankles at 93% and nose at 8% of the
// image height.
const (
	ankleRow = 0.93
	noseRow  = 0.08
)

// FrontView renders the subject's front landmarks into an image of the
// given pixel size. Every landmark has confidence 0.95.
func FrontView(width, height float64) *landmark.Set {
	return render(subjectFront, width, height)
}

// SideView renders the subject in profile.
func SideView(width, height float64) *landmark.Set {
	return render(subjectSide, width, height)
}

func render(joints map[body.Joint]r3.Vector, width, height float64) *landmark.Set {
	pxPerCm := (ankleRow - noseRow) * height / SubjectHeightCm
	set := landmark.NewSet(width, height)
	for j, p := range joints {
		set.Add(landmark.Landmark{
			Joint:      j,
			X:          0.5 + p.X*pxPerCm/width,
			Y:          ankleRow - p.Y*pxPerCm/height,
			Confidence: 0.95,
		})
	}
	return set
}

// LoadLandmarks decodes an embedded landmark payload from scans/.
func LoadLandmarks(name string) (*landmark.Set, error) {
	f, err := scansFS.Open("scans/" + name)
	if err != nil {
		return nil, errors.Wrapf(err, "load landmarks %s", name)
	}
	defer f.Close()
	return landmark.Decode(f)
}

// ReadFile returns the raw bytes of an embedded fixture.
func ReadFile(name string) ([]byte, error) {
	return scansFS.ReadFile("scans/" + name)
}
