package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
)

// InvalidRuleError means a rule definition is malformed. It is fatal to
// loading that rule only; the scan continues with the remaining rules.
type InvalidRuleError struct {
	RuleID string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	id := e.RuleID
	if id == "" {
		id = "<unknown>"
	}
	return fmt.Sprintf("invalid rule %s: %s", id, e.Reason)
}

// InvalidPatternError means a regex predicate failed to compile.
type InvalidPatternError struct {
	RuleID  string
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q in rule %s: %v", e.Pattern, e.RuleID, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// Load parses one YAML rule definition, validates it and pre-compiles
// regex predicates so evaluation never re-validates syntax.
func Load(definition []byte) (schema.Rule, error) {
	var r schema.Rule
	if err := yaml.Unmarshal(definition, &r); err != nil {
		return schema.Rule{}, &InvalidRuleError{Reason: fmt.Sprintf("parse YAML: %v", err)}
	}
	if err := validate(&r); err != nil {
		return schema.Rule{}, err
	}
	return r, nil
}

func validate(r *schema.Rule) error {
	fail := func(format string, args ...interface{}) error {
		return &InvalidRuleError{RuleID: r.ID, Reason: fmt.Sprintf(format, args...)}
	}

	if strings.TrimSpace(r.ID) == "" {
		return fail("missing id")
	}
	if len(r.Collections) == 0 {
		return fail("collections must not be empty")
	}
	if !schema.ValidRisk(r.Meta.Risk) {
		return fail("risk %q is not one of INFO, LOW, MEDIUM, HIGH, CRITICAL", r.Meta.Risk)
	}
	if r.Aggregation.Field == "" {
		return fail("aggregation.field is required")
	}
	if len(r.Analysis) == 0 {
		return fail("analysis must not be empty")
	}
	if r.Headline.Text == "" {
		return fail("headline is required")
	}

	for ci, cs := range r.Collections {
		if len(cs.Collect) == 0 {
			return fail("collections[%d] has no predicates", ci)
		}
		for pi := range cs.Collect {
			p := &r.Collections[ci].Collect[pi]
			if p.Field == "" {
				return fail("collections[%d].collect[%d] missing field", ci, pi)
			}
			switch p.Method {
			case schema.MethodExact:
			case schema.MethodRegex:
				re, err := regexp.Compile(p.Value)
				if err != nil {
					return &InvalidPatternError{RuleID: r.ID, Pattern: p.Value, Err: err}
				}
				p.Pattern = re
			default:
				return fail("collections[%d].collect[%d] has unknown method %q", ci, pi, p.Method)
			}
		}
	}

	for ai, a := range r.Analysis {
		if a.Method != schema.AnalysisThreshold {
			return fail("analysis[%d] has unknown method %q", ai, a.Method)
		}
		if a.Field == "" {
			return fail("analysis[%d] missing field", ai)
		}
		if a.Minimum < 1 {
			return fail("analysis[%d] minimum must be >= 1", ai)
		}
	}

	return nil
}

// LoadFile loads one rule from a YAML file.
func LoadFile(path string) (schema.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Rule{}, fmt.Errorf("read rule file: %w", err)
	}
	return Load(data)
}

// LoadError pairs a rule file with the reason it was rejected.
type LoadError struct {
	File string
	Err  error
}

// LoadDir loads every .yaml/.yml rule under dir in lexical order. Bad
// files are reported in errs and do not stop the rest from loading.
func LoadDir(dir string) (loaded []schema.Rule, errs []LoadError, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read rules dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		r, lerr := LoadFile(filepath.Join(dir, name))
		if lerr != nil {
			errs = append(errs, LoadError{File: name, Err: lerr})
			continue
		}
		loaded = append(loaded, r)
	}
	return loaded, errs, nil
}
