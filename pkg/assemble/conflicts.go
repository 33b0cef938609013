package assemble

import (
	"fmt"
	"strings"

	"github.com/frontdesk-lu/frontdesk/pkg/schema"
)

// conflictPairs are obligation keywords whose joint appearance in legal
// evidence suggests the sources disagree about what is required.
var conflictPairs = [][2]string{
	{"must", "must not"},
	{"required", "optional"},
	{"mandatory", "voluntary"},
}

// DetectConflicts scans legal evidence for contradictory obligation
// language. It returns one warning per keyword pair found, suitable for
// inclusion in the response's limitations.
func DetectConflicts(evidence []schema.Evidence) []string {
	var snippets []string
	for _, ev := range evidence {
		if ev.Domain == schema.DomainLegal {
			snippets = append(snippets, strings.ToLower(ev.Snippet))
		}
	}
	if len(snippets) == 0 {
		return nil
	}

	var warnings []string
	for _, pair := range conflictPairs {
		positive, negative := pair[0], pair[1]
		var hasPositive, hasNegative bool
		for _, s := range snippets {
			if containsTerm(s, negative) {
				hasNegative = true
				s = strings.ReplaceAll(s, negative, "")
			}
			if containsTerm(s, positive) {
				hasPositive = true
			}
		}
		if hasPositive && hasNegative {
			warnings = append(warnings, fmt.Sprintf(
				"Sources may conflict: some legal evidence says %q while other evidence says %q. Verify against the current Labour Code text.",
				positive, negative))
		}
	}
	return warnings
}

// containsTerm reports whether term appears in s as a whole word, so
// "optional" does not match inside "optionally" nor "must" inside "mustard".
func containsTerm(s, term string) bool {
	for start := 0; ; {
		idx := strings.Index(s[start:], term)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(term)
		beforeOK := idx == 0 || !isWordByte(s[idx-1])
		afterOK := end == len(s) || !isWordByte(s[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
