package repair

import (
	"errors"
	"strings"
	"testing"
)

func TestJSONPrompt(t *testing.T) {
	prompt := JSONPrompt(`{"broken`, errors.New("unexpected end of JSON input"), `{"field": "string"}`)

	for _, want := range []string{"could not be parsed", "unexpected end of JSON input", `{"broken`, `{"field": "string"}`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestJSONPromptTruncatesLongOutput(t *testing.T) {
	raw := strings.Repeat("x", 5000)
	prompt := JSONPrompt(raw, errors.New("err"), "")

	if !strings.Contains(prompt, "[truncated]") {
		t.Errorf("long output should be truncated")
	}
	if strings.Contains(prompt, raw) {
		t.Errorf("full output should not be embedded")
	}
}
