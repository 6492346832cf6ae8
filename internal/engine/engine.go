package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/store"
)

// Result holds the outcome of evaluating a rule set against one scan's
// records: the findings plus any per-rule failures. A bad rule never
// aborts the others.
type Result struct {
	Findings   []schema.Finding
	RuleErrors []schema.RuleError
}

type ruleOutcome struct {
	findings []schema.Finding
	err      error
}

// Evaluate runs every rule against the frozen store. Rules are
// independent and read-only against the store, so they run in parallel;
// output order stays deterministic (rule order, then first-seen group
// order). Cancellation is checked per rule, which is coarse enough since
// a single evaluation completes in microseconds.
func Evaluate(ctx context.Context, st *store.RecordStore, ruleset []schema.Rule) (Result, error) {
	st.Freeze()

	outcomes := make([]ruleOutcome, len(ruleset))
	g, gctx := errgroup.WithContext(ctx)

	for i, rule := range ruleset {
		i, rule := i, rule
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			findings, err := evalRule(st, rule)
			outcomes[i] = ruleOutcome{findings: findings, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result
	for i, rule := range ruleset {
		if outcomes[i].err != nil {
			res.RuleErrors = append(res.RuleErrors, schema.RuleError{
				RuleID: rule.ID,
				Error:  outcomes[i].err.Error(),
			})
			continue
		}
		res.Findings = append(res.Findings, outcomes[i].findings...)
	}
	return res, nil
}

// evalRule drives one rule through collect, aggregate, analyze and emit.
func evalRule(st *store.RecordStore, rule schema.Rule) ([]schema.Finding, error) {
	candidates := Collect(st, rule.Collections)
	groups := Aggregate(candidates, rule.Aggregation.Field)

	var findings []schema.Finding
	for _, grp := range groups {
		triggered, err := Analyze(grp, rule.Analysis)
		if err != nil {
			return nil, err
		}
		if triggered {
			findings = append(findings, Emit(rule, grp))
		}
	}
	return findings, nil
}
