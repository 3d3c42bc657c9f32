package models

type Label string

const (
	LabelFresh  Label = "fresh"
	LabelRotten Label = "rotten"
)

// LabelFromPrediction maps the service's class index onto a label.
// Only 1 means rotten; every other value is fresh.
func LabelFromPrediction(value float64) Label {
	if value == 1 {
		return LabelRotten
	}
	return LabelFresh
}

func (l Label) Title() string {
	if l == LabelRotten {
		return "Rotten"
	}
	return "Fresh"
}

// PredictionResult is the outcome of a successful classification.
// Confidence is a percentage in [0,100], present only when the service
// reported one.
type PredictionResult struct {
	Label      Label    `json:"label"`
	Confidence *float64 `json:"confidence,omitempty"`
}
