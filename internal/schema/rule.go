package schema

import (
	"regexp"

	"gopkg.in/yaml.v3"
)

// Predicate match methods and analysis methods understood by the engine.
const (
	MethodExact = "exact"
	MethodRegex = "regex"

	AnalysisThreshold = "threshold"
)

// Rule is a declarative correlation rule as written in YAML. Immutable
// after loading; the loader validates the shape and pre-compiles regex
// predicates so evaluation never re-checks syntax.
type Rule struct {
	ID          string           `yaml:"id" json:"id"`
	Version     int              `yaml:"version" json:"version"`
	Meta        RuleMeta         `yaml:"meta" json:"meta"`
	Collections []CollectionSpec `yaml:"collections" json:"collections"`
	Aggregation AggregationSpec  `yaml:"aggregation" json:"aggregation"`
	Analysis    []AnalysisSpec   `yaml:"analysis" json:"analysis"`
	Headline    Headline         `yaml:"headline" json:"headline"`
}

// RuleMeta carries display metadata and the risk level stamped onto
// findings.
type RuleMeta struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Risk        string `yaml:"risk" json:"risk"`
}

// CollectionSpec selects a candidate record set. Its predicates are
// ANDed; multiple specs in a rule are unioned.
type CollectionSpec struct {
	Collect []Predicate `yaml:"collect" json:"collect"`
}

// Predicate matches one record field against a value. Pattern is
// populated by the loader for regex predicates.
type Predicate struct {
	Method string `yaml:"method" json:"method"`
	Field  string `yaml:"field" json:"field"`
	Value  string `yaml:"value" json:"value"`

	Pattern *regexp.Regexp `yaml:"-" json:"-"`
}

// AggregationSpec names the dotted field path used to derive grouping
// keys.
type AggregationSpec struct {
	Field string `yaml:"field" json:"field"`
}

// AnalysisSpec decides whether a group constitutes a finding. Multiple
// specs are ANDed.
type AnalysisSpec struct {
	Method          string `yaml:"method" json:"method"`
	Field           string `yaml:"field" json:"field"`
	Minimum         int    `yaml:"minimum" json:"minimum"`
	CountUniqueOnly bool   `yaml:"count_unique_only" json:"count_unique_only"`
}

// Headline is the templated summary attached to findings. Rule authors
// write either a bare string or a mapping with a text key; both decode
// into the same struct.
type Headline struct {
	Text string `yaml:"text" json:"text"`
}

func (h *Headline) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&h.Text)
	}
	type plain Headline
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*h = Headline(p)
	return nil
}
