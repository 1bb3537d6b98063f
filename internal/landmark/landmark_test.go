package landmark

import (
	"encoding/json"
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/ayusman/bodyscan/internal/body"
)

func TestSetGet(t *testing.T) {
	s := NewSet(1000, 2000,
		Landmark{Joint: body.Nose, X: 0.5, Y: 0.1, Confidence: 0.9},
		Landmark{Joint: body.LeftAnkle, X: 0.45, Y: 0.9, Confidence: 0.3},
	)

	t.Run("confident landmark", func(t *testing.T) {
		l, ok := s.Get(body.Nose, DefaultMinConfidence)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, l.X, test.ShouldEqual, 0.5)
	})

	t.Run("low confidence is ignored", func(t *testing.T) {
		_, ok := s.Get(body.LeftAnkle, DefaultMinConfidence)
		test.That(t, ok, test.ShouldBeFalse)
		_, ok = s.Get(body.LeftAnkle, 0.2)
		test.That(t, ok, test.ShouldBeTrue)
	})

	t.Run("pixel coordinates", func(t *testing.T) {
		v, ok := s.Pixel(body.Nose, DefaultMinConfidence)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, v.X, test.ShouldAlmostEqual, 500.0)
		test.That(t, v.Y, test.ShouldAlmostEqual, 200.0)
		test.That(t, v.Z, test.ShouldEqual, 0.0)
	})

	t.Run("nil set", func(t *testing.T) {
		var empty *Set
		_, ok := empty.Get(body.Nose, 0)
		test.That(t, ok, test.ShouldBeFalse)
		test.That(t, empty.Len(), test.ShouldEqual, 0)
	})
}

func TestNewSetDefaultsSize(t *testing.T) {
	s := NewSet(0, -5)
	test.That(t, s.ImageWidth, test.ShouldEqual, 1.0)
	test.That(t, s.ImageHeight, test.ShouldEqual, 1.0)
}

func TestMirror(t *testing.T) {
	s := NewSet(100, 100,
		Landmark{Joint: body.LeftShoulder, X: 0.3, Y: 0.2, Confidence: 1},
		Landmark{Joint: body.Nose, X: 0.5, Y: 0.1, Confidence: 1},
	)
	m := s.Mirror()

	_, ok := m.Get(body.LeftShoulder, 0)
	test.That(t, ok, test.ShouldBeFalse)
	l, ok := m.Get(body.RightShoulder, 0)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, l.X, test.ShouldEqual, 0.3)
	_, ok = m.Get(body.Nose, 0)
	test.That(t, ok, test.ShouldBeTrue)

	// original untouched
	_, ok = s.Get(body.LeftShoulder, 0)
	test.That(t, ok, test.ShouldBeTrue)
}

func TestPose(t *testing.T) {
	s := NewSet(1000, 1000,
		Landmark{Joint: body.LeftShoulder, X: 0.4, Y: 0.2, Confidence: 1},
		Landmark{Joint: body.RightShoulder, X: 0.6, Y: 0.2, Confidence: 1},
		Landmark{Joint: body.Nose, X: 0.5, Y: 0.1, Confidence: 0.1},
	)
	p := s.Pose(DefaultMinConfidence, 2)
	test.That(t, p, test.ShouldHaveLength, 2)
	d, ok := p.Distance(body.LeftShoulder, body.RightShoulder)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, d, test.ShouldAlmostEqual, 100.0)
}

func TestDecode(t *testing.T) {
	t.Run("named", func(t *testing.T) {
		in := `{"image_width": 720, "image_height": 1280, "landmarks": [
			{"name": "leftShoulder", "x": 0.4, "y": 0.3, "confidence": 0.8},
			{"name": "right_shoulder", "x": 0.6, "y": 0.3, "visibility": 0.7, "z": -0.1},
			{"name": "nose", "x": 0.5, "y": 0.1}
		]}`
		s, err := Decode(strings.NewReader(in))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, s.Len(), test.ShouldEqual, 3)
		test.That(t, s.ImageHeight, test.ShouldEqual, 1280.0)

		l, _ := s.Get(body.LeftShoulder, 0)
		test.That(t, l.Confidence, test.ShouldEqual, 0.8)
		test.That(t, l.HasZ, test.ShouldBeFalse)
		r, _ := s.Get(body.RightShoulder, 0)
		test.That(t, r.Confidence, test.ShouldEqual, 0.7)
		test.That(t, r.HasZ, test.ShouldBeTrue)
		n, _ := s.Get(body.Nose, 0)
		test.That(t, n.Confidence, test.ShouldEqual, 1.0)
	})

	t.Run("mediapipe indices", func(t *testing.T) {
		in := `{"schema": "mediapipe", "image_width": 1, "image_height": 1, "landmarks": [
			{"index": 0, "x": 0.5, "y": 0.1},
			{"index": 27, "x": 0.45, "y": 0.9},
			{"index": 32, "x": 0.6, "y": 0.95}
		]}`
		s, err := Decode(strings.NewReader(in))
		test.That(t, err, test.ShouldBeNil)
		_, ok := s.Get(body.Nose, 0)
		test.That(t, ok, test.ShouldBeTrue)
		_, ok = s.Get(body.LeftAnkle, 0)
		test.That(t, ok, test.ShouldBeTrue)
		_, ok = s.Get(body.RightFootIndex, 0)
		test.That(t, ok, test.ShouldBeTrue)
	})

	t.Run("coco indices", func(t *testing.T) {
		in := `{"schema": "coco", "landmarks": [{"index": 15, "x": 0.4, "y": 0.9}]}`
		s, err := Decode(strings.NewReader(in))
		test.That(t, err, test.ShouldBeNil)
		_, ok := s.Get(body.LeftAnkle, 0)
		test.That(t, ok, test.ShouldBeTrue)
	})

	errCases := []struct {
		name string
		in   string
		want string
	}{
		{"unknown schema", `{"schema": "openpose", "landmarks": []}`, "unknown landmark schema"},
		{"unknown joint", `{"landmarks": [{"name": "tail", "x": 0, "y": 0}]}`, "unknown joint"},
		{"index without schema", `{"landmarks": [{"index": 3, "x": 0, "y": 0}]}`, "requires a schema"},
		{"index out of range", `{"schema": "coco", "landmarks": [{"index": 17, "x": 0, "y": 0}]}`, "out of range"},
		{"no identity", `{"landmarks": [{"x": 0, "y": 0}]}`, "neither name nor index"},
		{"malformed", `{"landmarks": [`, "decode landmarks"},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.in))
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.want)
		})
	}
}

func TestSetJSONRoundTrip(t *testing.T) {
	s := NewSet(640, 480,
		Landmark{Joint: body.LeftHip, X: 0.45, Y: 0.55, Z: 0.2, HasZ: true, Confidence: 0.9},
	)
	data, err := json.Marshal(s)
	test.That(t, err, test.ShouldBeNil)

	var back Set
	test.That(t, json.Unmarshal(data, &back), test.ShouldBeNil)
	test.That(t, back.ImageWidth, test.ShouldEqual, 640.0)
	l, ok := back.Get(body.LeftHip, 0)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, l.HasZ, test.ShouldBeTrue)
	test.That(t, l.Z, test.ShouldEqual, 0.2)
}

func TestSchemas(t *testing.T) {
	test.That(t, MediaPipe.Len(), test.ShouldEqual, 33)
	test.That(t, COCO.Len(), test.ShouldEqual, 17)
	s, ok := SchemaByName("vision")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, s.Name, test.ShouldEqual, "coco")
	_, ok = MediaPipe.Joint(33)
	test.That(t, ok, test.ShouldBeFalse)
}
