// Package repair builds reprompts that ask a model to fix its own
// malformed structured output instead of the caller discarding it.
package repair

import (
	"fmt"
	"strings"
)

// JSONPrompt builds a follow-up prompt asking the model to re-emit the
// given output as strict JSON. The original parse error is included so
// the model knows what went wrong.
func JSONPrompt(raw string, parseErr error, schemaDescription string) string {
	var b strings.Builder

	b.WriteString("Your previous response could not be parsed as JSON.\n\n")
	b.WriteString(fmt.Sprintf("Parse error: %v\n\n", parseErr))
	b.WriteString("Previous response:\n")
	b.WriteString(truncate(raw, 2000))
	b.WriteString("\n\n")
	b.WriteString("Respond again with a single valid JSON object and nothing else.\n")
	b.WriteString("No markdown fences, no commentary before or after the object.\n")

	if schemaDescription != "" {
		b.WriteString("\nThe object must have this shape:\n")
		b.WriteString(schemaDescription)
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n[truncated]"
}
