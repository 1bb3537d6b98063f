// Package body holds the anatomical vocabulary shared by both estimators:
// semantic joint names, unit-agnostic poses, skeletal length formulas and the
// empirical proportions used when a quantity cannot be observed.
package body

import "strings"

// Joint is a stable semantic joint name. Upstream detectors with different
// index layouts are mapped onto these names, never onto array positions.
type Joint string

// Head and face.
const (
	HeadTop       Joint = "head_top"
	Head          Joint = "head"
	Nose          Joint = "nose"
	LeftEyeInner  Joint = "left_eye_inner"
	LeftEye       Joint = "left_eye"
	LeftEyeOuter  Joint = "left_eye_outer"
	RightEyeInner Joint = "right_eye_inner"
	RightEye      Joint = "right_eye"
	RightEyeOuter Joint = "right_eye_outer"
	LeftEar       Joint = "left_ear"
	RightEar      Joint = "right_ear"
	MouthLeft     Joint = "mouth_left"
	MouthRight    Joint = "mouth_right"
	Neck          Joint = "neck"
	Chest         Joint = "chest"
	Spine         Joint = "spine"
	Pelvis        Joint = "pelvis"
)

// Limbs.
const (
	LeftShoulder   Joint = "left_shoulder"
	RightShoulder  Joint = "right_shoulder"
	LeftElbow      Joint = "left_elbow"
	RightElbow     Joint = "right_elbow"
	LeftWrist      Joint = "left_wrist"
	RightWrist     Joint = "right_wrist"
	LeftPinky      Joint = "left_pinky"
	RightPinky     Joint = "right_pinky"
	LeftIndex      Joint = "left_index"
	RightIndex     Joint = "right_index"
	LeftThumb      Joint = "left_thumb"
	RightThumb     Joint = "right_thumb"
	LeftHip        Joint = "left_hip"
	RightHip       Joint = "right_hip"
	LeftKnee       Joint = "left_knee"
	RightKnee      Joint = "right_knee"
	LeftAnkle      Joint = "left_ankle"
	RightAnkle     Joint = "right_ankle"
	LeftHeel       Joint = "left_heel"
	RightHeel      Joint = "right_heel"
	LeftFootIndex  Joint = "left_foot_index"
	RightFootIndex Joint = "right_foot_index"
)

const (
	leftPrefix  = "left_"
	rightPrefix = "right_"
)

// Mirror returns the joint on the opposite side of the body. Midline joints
// are returned unchanged.
func (j Joint) Mirror() Joint {
	s := string(j)
	switch {
	case strings.HasPrefix(s, leftPrefix):
		return Joint(rightPrefix + strings.TrimPrefix(s, leftPrefix))
	case strings.HasPrefix(s, rightPrefix):
		return Joint(leftPrefix + strings.TrimPrefix(s, rightPrefix))
	case strings.HasSuffix(s, "_left"):
		return Joint(strings.TrimSuffix(s, "_left") + "_right")
	case strings.HasSuffix(s, "_right"):
		return Joint(strings.TrimSuffix(s, "_right") + "_left")
	}
	return j
}

// Side names the joints of one half of the body.
type Side struct {
	Shoulder Joint
	Elbow    Joint
	Wrist    Joint
	Hip      Joint
	Knee     Joint
	Ankle    Joint
}

// Left and Right are the two body sides.
var (
	Left = Side{
		Shoulder: LeftShoulder,
		Elbow:    LeftElbow,
		Wrist:    LeftWrist,
		Hip:      LeftHip,
		Knee:     LeftKnee,
		Ankle:    LeftAnkle,
	}
	Right = Side{
		Shoulder: RightShoulder,
		Elbow:    RightElbow,
		Wrist:    RightWrist,
		Hip:      RightHip,
		Knee:     RightKnee,
		Ankle:    RightAnkle,
	}
)

// Sides lists both body sides.
var Sides = []Side{Left, Right}
