package diagnosis

// Request carries the free-text fields of a vehicle-noise report.
type Request struct {
	Description string
	Location    string
	Situation   string
	MakeModel   string
	Notes       string
}

// Suggestion points at an external tutorial or parts resource.
type Suggestion struct {
	Text string `json:"text" yaml:"text"`
	URL  string `json:"url" yaml:"url"`
}

// Result is the wire shape returned by the diagnose endpoint. The six
// string fields default to the "Not specified" placeholder when the model
// reply is missing the corresponding block.
type Result struct {
	Diagnosis    string       `json:"diagnosis"`
	Message      string       `json:"message"`
	Severity     string       `json:"severity"`
	DangerLevel  string       `json:"dangerLevel"`
	CostEstimate string       `json:"costEstimate"`
	NextStep     string       `json:"nextStep"`
	Transcript   string       `json:"transcript"`
	Suggestions  []Suggestion `json:"suggestions"`
}
