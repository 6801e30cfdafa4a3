package core

import "fmt"

// UnsupportedSourceKindError reports a raw prediction whose source tag is
// not in the supported set. It is fatal to the single prediction and must
// be propagated, never swallowed: silently skipping would bias the metric.
type UnsupportedSourceKindError struct {
	ID   string
	Kind SourceKind
}

func (e *UnsupportedSourceKindError) Error() string {
	return fmt.Sprintf("core: prediction %q has unsupported source kind %q", e.ID, e.Kind)
}
