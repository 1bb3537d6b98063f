package landmark

import "github.com/ayusman/bodyscan/internal/body"

// Schema maps the positional indices of one pose detector to joint names.
type Schema struct {
	Name   string
	Joints []body.Joint
}

// MediaPipe is the 33-point BlazePose layout.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
var MediaPipe = Schema{
	Name: "mediapipe",
	Joints: []body.Joint{
		body.Nose,
		body.LeftEyeInner, body.LeftEye, body.LeftEyeOuter,
		body.RightEyeInner, body.RightEye, body.RightEyeOuter,
		body.LeftEar, body.RightEar,
		body.MouthLeft, body.MouthRight,
		body.LeftShoulder, body.RightShoulder,
		body.LeftElbow, body.RightElbow,
		body.LeftWrist, body.RightWrist,
		body.LeftPinky, body.RightPinky,
		body.LeftIndex, body.RightIndex,
		body.LeftThumb, body.RightThumb,
		body.LeftHip, body.RightHip,
		body.LeftKnee, body.RightKnee,
		body.LeftAnkle, body.RightAnkle,
		body.LeftHeel, body.RightHeel,
		body.LeftFootIndex, body.RightFootIndex,
	},
}

// COCO is the 17-keypoint layout used by COCO-trained detectors and matched
// by the Vision framework's body pose joints.
var COCO = Schema{
	Name: "coco",
	Joints: []body.Joint{
		body.Nose,
		body.LeftEye, body.RightEye,
		body.LeftEar, body.RightEar,
		body.LeftShoulder, body.RightShoulder,
		body.LeftElbow, body.RightElbow,
		body.LeftWrist, body.RightWrist,
		body.LeftHip, body.RightHip,
		body.LeftKnee, body.RightKnee,
		body.LeftAnkle, body.RightAnkle,
	},
}

// SchemaByName returns a known schema.
func SchemaByName(name string) (Schema, bool) {
	switch name {
	case MediaPipe.Name, "blazepose":
		return MediaPipe, true
	case COCO.Name, "vision":
		return COCO, true
	}
	return Schema{}, false
}

// Joint returns the joint at index i.
func (s Schema) Joint(i int) (body.Joint, bool) {
	if i < 0 || i >= len(s.Joints) {
		return "", false
	}
	return s.Joints[i], true
}

// Len returns the schema cardinality.
func (s Schema) Len() int {
	return len(s.Joints)
}
