package models

// Distribution is the classifier's raw per-label probability output.
// Labels keep the model's output order, Scores[i] belongs to Labels[i].
type Distribution struct {
	Labels []string  `json:"labels"`
	Scores []float32 `json:"scores"`
}

// NewDistribution pairs a label list with its scores.
func NewDistribution(labels []string, scores []float32) Distribution {
	return Distribution{Labels: labels, Scores: scores}
}

// Len returns the number of labels in the distribution.
func (d Distribution) Len() int {
	return len(d.Labels)
}

// Score returns the probability for a label, or 0 if the label is unknown.
func (d Distribution) Score(label string) float32 {
	for i, l := range d.Labels {
		if l == label {
			return d.Scores[i]
		}
	}
	return 0
}

// Map flattens the distribution into a label->score map for JSON responses.
func (d Distribution) Map() map[string]float32 {
	m := make(map[string]float32, len(d.Labels))
	for i, l := range d.Labels {
		m[l] = d.Scores[i]
	}
	return m
}

// Clone returns an independent copy so snapshots never alias live buffers.
func (d Distribution) Clone() Distribution {
	labels := make([]string, len(d.Labels))
	copy(labels, d.Labels)
	scores := make([]float32, len(d.Scores))
	copy(scores, d.Scores)
	return Distribution{Labels: labels, Scores: scores}
}
