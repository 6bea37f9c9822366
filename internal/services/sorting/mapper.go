package sorting

import (
	"time"

	"sortserver/internal/config"
	"sortserver/internal/models"
)

// Mapper turns a label distribution into a sorting decision. It is a pure
// policy object: no I/O, no shared state, same output for the same input.
type Mapper struct {
	threshold    float32
	rejectLabel  string
	rejectAction string
	actions      map[string]string
}

// NewMapper builds a Mapper from the configured sorting policy.
func NewMapper(config *config.Config) *Mapper {
	return &Mapper{
		threshold:    config.RejectThreshold,
		rejectLabel:  config.RejectLabel,
		rejectAction: config.RejectAction,
		actions:      config.LabelActions,
	}
}

// Decide selects the top label and assigns its action. The top label is the
// maximum probability; an exact tie goes to the earlier label in declaration
// order. The action is reject when the confidence sits below the threshold,
// when the top label is the catch-all class, or when no action is bound to
// the label.
func (m *Mapper) Decide(dist models.Distribution) models.Classification {
	topIdx := 0
	for i := 1; i < dist.Len(); i++ {
		if dist.Scores[i] > dist.Scores[topIdx] {
			topIdx = i
		}
	}

	material := dist.Labels[topIdx]
	confidence := dist.Scores[topIdx]

	action := m.rejectAction
	if confidence >= m.threshold && material != m.rejectLabel {
		if bound, ok := m.actions[material]; ok {
			action = bound
		}
	}

	return models.Classification{
		MaterialType: material,
		Confidence:   confidence,
		Action:       action,
		All:          dist.Clone(),
		At:           time.Now(),
	}
}
