package core

// Example is a single gold-labelled tweet. GoldLabel true means the
// annotators considered the tweet sexist.
type Example struct {
	ID        string            `json:"id" yaml:"id"`
	Text      string            `json:"text" yaml:"text"`
	GoldLabel bool              `json:"gold_label" yaml:"gold_label"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
