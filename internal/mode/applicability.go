package mode

// DetailedSourceCharacter is a coarser classification than source.Kind,
// grouping sources by how they behave for applicability purposes: does it
// have continuous travel, is it a button, does it emit a direction.
// Supplemented from the applicability matrix the distilled spec dropped
// (see SPEC_FULL.md §4.6).
type DetailedSourceCharacter int

const (
	SourceMomentaryVelocitySensitiveButton DetailedSourceCharacter = iota
	SourceMomentaryOnOffButton
	SourcePressOnlyButton
	SourceRangeControl
	SourceRelativeControl
)

// ModeParameter enumerates the configuration knobs CheckApplicability can
// be asked about.
type ModeParameter int

const (
	ParamSourceMinMax ModeParameter = iota
	ParamTargetMinMax
	ParamReverse
	ParamOutOfRangeBehavior
	ParamJumpMinMax
	ParamTakeoverMode
	ParamControlTransformation
	ParamFeedbackTransformation
	ParamStepSizeMinMax
	ParamStepCountMinMax
	ParamRelativeFilter
	ParamRotate
	ParamFireMode
	ParamButtonFilter
)

// ApplicabilityInput names the parameter in question and the context it
// would apply in: a particular kind of source, and whether we're asking
// about the control or the feedback direction.
type ApplicabilityInput struct {
	Parameter       ModeParameter
	SourceCharacter DetailedSourceCharacter
	IsFeedback      bool
}

// CheckApplicability reports whether a given mode parameter is meaningful
// for a given source/direction combination, and why - host/UI guidance for
// a mapping editor, not a control-path requirement. It never panics: every
// ModeParameter x DetailedSourceCharacter combination falls through to a
// defined answer.
func CheckApplicability(input ApplicabilityInput) (reason string, applicable bool) {
	isButton := input.SourceCharacter == SourceMomentaryVelocitySensitiveButton ||
		input.SourceCharacter == SourceMomentaryOnOffButton ||
		input.SourceCharacter == SourcePressOnlyButton
	producesIncrements := input.SourceCharacter == SourceRelativeControl ||
		input.SourceCharacter == SourceMomentaryVelocitySensitiveButton ||
		input.SourceCharacter == SourcePressOnlyButton

	switch input.Parameter {
	case ParamJumpMinMax, ParamTakeoverMode:
		if input.IsFeedback {
			return "jump restriction only applies to the control direction", false
		}
		if input.SourceCharacter == SourceMomentaryOnOffButton || input.SourceCharacter == SourcePressOnlyButton {
			return "a button without continuous travel can't jump", false
		}
		return "", true
	case ParamRotate, ParamStepCountMinMax:
		if !producesIncrements {
			return "rotate/step-count only matter when the mode produces increments", false
		}
		return "", true
	case ParamRelativeFilter:
		if input.SourceCharacter != SourceRelativeControl {
			return "only a relative source emits a direction to filter", false
		}
		return "", true
	case ParamButtonFilter:
		if !isButton {
			return "press/release filtering needs a button-like source", false
		}
		return "", true
	case ParamStepSizeMinMax:
		if input.SourceCharacter == SourceRangeControl {
			return "a range control already reports its own magnitude", false
		}
		return "", true
	case ParamFireMode:
		if !isButton {
			return "press-duration timing only applies to buttons", false
		}
		return "", true
	case ParamControlTransformation:
		if input.IsFeedback {
			return "control transformation doesn't run on the feedback path", false
		}
		return "", true
	case ParamFeedbackTransformation:
		if !input.IsFeedback {
			return "feedback transformation doesn't run on the control path", false
		}
		return "", true
	default:
		return "", true
	}
}
