package ai

// Result is the clustered pain point summary produced by a model.
type Result struct {
	Summary    string      `json:"summary"`
	Tags       []string    `json:"tags"`
	PainPoints []PainPoint `json:"painPoints"`
}

// PainPoint is one cluster of complaints. Count is the model's own estimate.
type PainPoint struct {
	Icon   string  `json:"icon"`
	Title  string  `json:"title"`
	Count  int     `json:"count"`
	Quotes []Quote `json:"quotes"`
}

type Quote struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}
