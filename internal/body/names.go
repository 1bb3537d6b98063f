package body

import (
	"strings"
	"unicode"
)

type alias struct {
	joint Joint
	// rank orders aliases that resolve to the same joint; lower wins.
	rank int
}

// aliases maps detector-specific joint names onto semantic joints. ARKit and
// Vision both report several names per region, so each carries a rank.
var aliases = map[string]alias{
	"top_head":   {HeadTop, 1},
	"crown":      {HeadTop, 1},
	"head_joint": {Head, 1},
	"nose_joint": {Nose, 1},

	"neck_1_joint":  {Neck, 1},
	"neck_joint":    {Neck, 1},
	"spine_7_joint": {Chest, 1},
	"upper_chest":   {Chest, 1},
	"spine_4_joint": {Spine, 1},
	"mid_spine":     {Spine, 1},
	"hips_joint":    {Pelvis, 1},
	"root":          {Pelvis, 2},
	"mid_hip":       {Pelvis, 1},

	"left_arm_joint":         {LeftShoulder, 1},
	"left_shoulder_1_joint":  {LeftShoulder, 2},
	"right_arm_joint":        {RightShoulder, 1},
	"right_shoulder_1_joint": {RightShoulder, 2},
	"left_forearm_joint":     {LeftElbow, 1},
	"right_forearm_joint":    {RightElbow, 1},
	"left_hand_joint":        {LeftWrist, 1},
	"right_hand_joint":       {RightWrist, 1},
	"left_up_leg_joint":      {LeftHip, 1},
	"right_up_leg_joint":     {RightHip, 1},
	"left_leg_joint":         {LeftKnee, 1},
	"right_leg_joint":        {RightKnee, 1},
	"left_foot_joint":        {LeftAnkle, 1},
	"right_foot_joint":       {RightAnkle, 1},
	"left_toes_joint":        {LeftFootIndex, 1},
	"right_toes_joint":       {RightFootIndex, 1},
	"left_eye_joint":         {LeftEye, 1},
	"right_eye_joint":        {RightEye, 1},
	"left_ear_joint":         {LeftEar, 1},
	"right_ear_joint":        {RightEar, 1},
}

var known = func() map[Joint]bool {
	m := make(map[Joint]bool)
	for _, j := range []Joint{
		HeadTop, Head, Nose, LeftEyeInner, LeftEye, LeftEyeOuter, RightEyeInner, RightEye,
		RightEyeOuter, LeftEar, RightEar, MouthLeft, MouthRight, Neck, Chest, Spine, Pelvis,
		LeftShoulder, RightShoulder, LeftElbow, RightElbow, LeftWrist, RightWrist,
		LeftPinky, RightPinky, LeftIndex, RightIndex, LeftThumb, RightThumb,
		LeftHip, RightHip, LeftKnee, RightKnee, LeftAnkle, RightAnkle,
		LeftHeel, RightHeel, LeftFootIndex, RightFootIndex,
	} {
		m[j] = true
	}
	return m
}()

// Lookup resolves a detector joint name. Semantic names have rank 0; aliases
// rank higher, so callers that see several names for one joint can keep the
// best one.
func Lookup(name string) (Joint, int, bool) {
	key := normalize(name)
	if known[Joint(key)] {
		return Joint(key), 0, true
	}
	if a, ok := aliases[key]; ok {
		return a.joint, a.rank, true
	}
	return "", 0, false
}

// Parse resolves a joint name, ignoring alias rank.
func Parse(name string) (Joint, bool) {
	j, _, ok := Lookup(name)
	return j, ok
}

// normalize lowercases a name and converts camelCase, dashes and spaces to
// snake_case.
func normalize(name string) string {
	var b strings.Builder
	runes := []rune(strings.TrimSpace(name))
	for i, r := range runes {
		switch {
		case r == '-' || r == ' ':
			b.WriteRune('_')
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
