package normalize

import (
	"regexp"
	"sort"
	"strings"

	"germseval/pkg/core"
)

// DefaultThreshold is the classifier decision boundary. Scores at or above
// it normalize to sexist.
const DefaultThreshold = 0.5

// Default marker sets. The corpus is German tweets, so German verdict
// tokens sit alongside the English ones.
var (
	DefaultAffirmativeMarkers = []string{"sexist", "sexistisch", "yes", "ja"}
	DefaultNegativeMarkers    = []string{"not sexist", "nicht sexistisch", "no", "nein", "kein"}
)

// Normalizer maps raw predictions to canonical verdicts. The zero value is
// not usable; construct with New so marker patterns are compiled once.
type Normalizer struct {
	threshold   float64
	affirmative []pattern
	negative    []pattern
}

type pattern struct {
	marker string
	re     *regexp.Regexp
}

// Option configures a Normalizer.
type Option func(*config)

type config struct {
	threshold   float64
	affirmative []string
	negative    []string
}

// WithThreshold overrides the classifier decision boundary.
func WithThreshold(t float64) Option {
	return func(c *config) { c.threshold = t }
}

// WithAffirmativeMarkers replaces the affirmative marker set.
func WithAffirmativeMarkers(markers ...string) Option {
	return func(c *config) { c.affirmative = markers }
}

// WithNegativeMarkers replaces the negative marker set.
func WithNegativeMarkers(markers ...string) Option {
	return func(c *config) { c.negative = markers }
}

func New(opts ...Option) *Normalizer {
	cfg := config{
		threshold:   DefaultThreshold,
		affirmative: DefaultAffirmativeMarkers,
		negative:    DefaultNegativeMarkers,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Normalizer{
		threshold:   cfg.threshold,
		affirmative: compile(cfg.affirmative),
		negative:    compile(cfg.negative),
	}
}

func compile(markers []string) []pattern {
	out := make([]pattern, 0, len(markers))
	for _, m := range markers {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		// Word-boundary match so "no" does not fire inside "unknown".
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(strings.ToLower(m)) + `\b`)
		out = append(out, pattern{marker: m, re: re})
	}
	return out
}

// Normalize maps one raw prediction to a verdict. It is pure: no I/O, no
// state, same input always yields the same output.
func (n *Normalizer) Normalize(raw core.RawPrediction) (core.NormalizedPrediction, error) {
	switch raw.Source {
	case core.SourceClassifierScore:
		verdict := core.VerdictNotSexist
		if raw.Score >= n.threshold {
			verdict = core.VerdictSexist
		}
		return core.NormalizedPrediction{ID: raw.ID, Verdict: verdict}, nil
	case core.SourceLLMText:
		return core.NormalizedPrediction{ID: raw.ID, Verdict: n.scanText(raw.Text)}, nil
	default:
		return core.NormalizedPrediction{}, &core.UnsupportedSourceKindError{ID: raw.ID, Kind: raw.Source}
	}
}

// scanText extracts a verdict from a free-form completion. Models are
// expected to state the verdict first and justify after, so when both an
// affirmative and a negative marker appear, the earliest occurrence wins;
// at the same offset the longer (more specific) marker wins.
func (n *Normalizer) scanText(text string) core.Verdict {
	affIdx, affLen := earliestMatch(n.affirmative, text)
	negIdx, negLen := earliestMatch(n.negative, text)

	switch {
	case affIdx < 0 && negIdx < 0:
		return core.VerdictUnknown
	case negIdx < 0:
		return core.VerdictSexist
	case affIdx < 0:
		return core.VerdictNotSexist
	case affIdx < negIdx:
		return core.VerdictSexist
	case negIdx < affIdx:
		return core.VerdictNotSexist
	case negLen >= affLen:
		return core.VerdictNotSexist
	default:
		return core.VerdictSexist
	}
}

func earliestMatch(patterns []pattern, text string) (index, length int) {
	index = -1
	for _, p := range patterns {
		loc := p.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		matchLen := loc[1] - loc[0]
		if index < 0 || loc[0] < index || (loc[0] == index && matchLen > length) {
			index = loc[0]
			length = matchLen
		}
	}
	return index, length
}

// All normalizes a batch, keyed by prediction id. Normalization is
// independent per prediction; the caller must not start aligning or
// aggregating until All has returned.
func (n *Normalizer) All(raws []core.RawPrediction) (map[string]core.NormalizedPrediction, error) {
	out := make(map[string]core.NormalizedPrediction, len(raws))
	for _, raw := range raws {
		norm, err := n.Normalize(raw)
		if err != nil {
			return nil, err
		}
		out[norm.ID] = norm
	}
	return out, nil
}

// Markers reports the configured marker sets, sorted, for run metadata.
func (n *Normalizer) Markers() (affirmative, negative []string) {
	for _, p := range n.affirmative {
		affirmative = append(affirmative, p.marker)
	}
	for _, p := range n.negative {
		negative = append(negative, p.marker)
	}
	sort.Strings(affirmative)
	sort.Strings(negative)
	return affirmative, negative
}

// Threshold reports the configured classifier decision boundary.
func (n *Normalizer) Threshold() float64 {
	return n.threshold
}
