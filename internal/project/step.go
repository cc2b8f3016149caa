package project

// Step identifies one stage of the storyboard workflow. Steps gate on
// prerequisite data but navigation between unlocked steps is otherwise free.
type Step int

const (
	StepScript   Step = 1
	StepScenes   Step = 2
	StepImages   Step = 3
	StepMatching Step = 4
	StepExport   Step = 5
)

var stepLabels = map[Step]string{
	StepScript:   "Script Entry",
	StepScenes:   "Scene List",
	StepImages:   "Image Production",
	StepMatching: "Matching Table",
	StepExport:   "Export",
}

// Valid reports whether the step is one of the five known workflow steps.
func (s Step) Valid() bool {
	return s >= StepScript && s <= StepExport
}

// Label returns the human-readable name of the step.
func (s Step) Label() string {
	if label, ok := stepLabels[s]; ok {
		return label
	}
	return "Unknown"
}

// RequiresAnalysis reports whether the step is only reachable once script
// analysis has populated scenes and character profiles.
func (s Step) RequiresAnalysis() bool {
	return s >= StepScenes
}
