package engine

import (
	"fmt"
	"hash/crc32"
	"regexp"

	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
)

var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_.]+)\}`)

// Emit builds the finding for a triggered group: one finding per group,
// headline rendered against the first-inserted member, risk copied from
// the rule's meta.
func Emit(rule schema.Rule, g Group) schema.Finding {
	memberIDs := make([]string, 0, len(g.Members))
	for _, rec := range g.Members {
		memberIDs = append(memberIDs, rec.ID)
	}

	return schema.Finding{
		ID:        findingID(rule.ID, g.Key),
		RuleID:    rule.ID,
		RuleName:  rule.Meta.Name,
		Risk:      rule.Meta.Risk,
		Headline:  renderHeadline(rule.Headline.Text, g),
		GroupKey:  g.Key,
		MemberIDs: memberIDs,
	}
}

// renderHeadline substitutes {dotted.path} placeholders with values
// resolved from the group's representative (first-inserted) member. An
// unresolvable path becomes an empty string rather than failing.
func renderHeadline(text string, g Group) string {
	if len(g.Members) == 0 {
		return placeholderRe.ReplaceAllString(text, "")
	}
	rep := g.Members[0]
	return placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		path := placeholderRe.FindStringSubmatch(m)[1]
		v, ok := ResolveField(rep, path)
		if !ok {
			return ""
		}
		return v
	})
}

// findingID derives a stable id from the rule and group key so re-runs
// over the same inputs produce identical findings.
func findingID(ruleID, groupKey string) string {
	sum := crc32.ChecksumIEEE([]byte(ruleID + "|" + groupKey))
	return fmt.Sprintf("%s-%08x", ruleID, sum)
}
