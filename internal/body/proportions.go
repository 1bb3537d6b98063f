package body

// Limb describes how a girth is estimated from an adjacent bone length: the
// limb is taken as an ellipse whose width is WidthRatio times the bone and
// whose depth is DepthRatio times that width.
type Limb struct {
	WidthRatio float64 `yaml:"width_ratio" json:"width_ratio"`
	DepthRatio float64 `yaml:"depth_ratio" json:"depth_ratio"`
}

// Stature holds segment lengths as fractions of standing height. They are
// only used when the joints defining a segment were not observed.
type Stature struct {
	ShoulderWidth float64 `yaml:"shoulder_width" json:"shoulder_width"`
	HipJointWidth float64 `yaml:"hip_joint_width" json:"hip_joint_width"`
	UpperArm      float64 `yaml:"upper_arm" json:"upper_arm"`
	Forearm       float64 `yaml:"forearm" json:"forearm"`
	Hand          float64 `yaml:"hand" json:"hand"`
	Thigh         float64 `yaml:"thigh" json:"thigh"`
	Shin          float64 `yaml:"shin" json:"shin"`
	Torso         float64 `yaml:"torso" json:"torso"`
}

// Proportions collects every empirical ratio the estimators rely on. None of
// them is calibrated against a reference population; they are parameters,
// not constants.
type Proportions struct {
	// Torso widths derived from joint spans.
	ChestToShoulderWidth float64 `yaml:"chest_to_shoulder_width" json:"chest_to_shoulder_width"`
	HipWidthToHipJoints  float64 `yaml:"hip_width_to_hip_joints" json:"hip_width_to_hip_joints"`
	WaistToHipWidth      float64 `yaml:"waist_to_hip_width" json:"waist_to_hip_width"`

	// Depth as a fraction of width when no side observation exists.
	ChestDepthRatio float64 `yaml:"chest_depth_ratio" json:"chest_depth_ratio"`
	WaistDepthRatio float64 `yaml:"waist_depth_ratio" json:"waist_depth_ratio"`
	HipDepthRatio   float64 `yaml:"hip_depth_ratio" json:"hip_depth_ratio"`

	// Secondary girths. Neck is relative to shoulder width, the others to
	// the bone they surround.
	Neck    Limb `yaml:"neck" json:"neck"`
	Bicep   Limb `yaml:"bicep" json:"bicep"`
	Forearm Limb `yaml:"forearm" json:"forearm"`
	Wrist   Limb `yaml:"wrist" json:"wrist"`
	Thigh   Limb `yaml:"thigh" json:"thigh"`
	Calf    Limb `yaml:"calf" json:"calf"`
	Ankle   Limb `yaml:"ankle" json:"ankle"`

	// Trouser lengths relative to hip-to-ankle leg length.
	InseamToLeg  float64 `yaml:"inseam_to_leg" json:"inseam_to_leg"`
	OutseamToLeg float64 `yaml:"outseam_to_leg" json:"outseam_to_leg"`

	Stature Stature `yaml:"stature" json:"stature"`
}

// DefaultProportions returns ratios for an average adult.
func DefaultProportions() Proportions {
	return Proportions{
		ChestToShoulderWidth: 0.9,
		HipWidthToHipJoints:  2.1,
		WaistToHipWidth:      0.85,

		ChestDepthRatio: 0.65,
		WaistDepthRatio: 0.7,
		HipDepthRatio:   0.7,

		Neck:    Limb{WidthRatio: 0.3, DepthRatio: 0.9},
		Bicep:   Limb{WidthRatio: 0.3, DepthRatio: 0.9},
		Forearm: Limb{WidthRatio: 0.3, DepthRatio: 0.85},
		Wrist:   Limb{WidthRatio: 0.22, DepthRatio: 0.7},
		Thigh:   Limb{WidthRatio: 0.38, DepthRatio: 0.9},
		Calf:    Limb{WidthRatio: 0.26, DepthRatio: 0.9},
		Ankle:   Limb{WidthRatio: 0.17, DepthRatio: 0.9},

		InseamToLeg:  0.9,
		OutseamToLeg: 1.12,

		Stature: Stature{
			ShoulderWidth: 0.23,
			HipJointWidth: 0.1,
			UpperArm:      0.17,
			Forearm:       0.145,
			Hand:          0.1,
			Thigh:         0.245,
			Shin:          0.235,
			Torso:         0.3,
		},
	}
}
