package util

import (
	"strings"
	"testing"
)

func TestRenderTemplate_Basic(t *testing.T) {
	tmpl := "--dataset {{.Dataset}} --save-path {{.Output}}"
	data := map[string]interface{}{
		"Dataset": "data/in.csv",
		"Output":  "results/out.csv",
	}

	result, err := RenderTemplate(tmpl, data)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := "--dataset data/in.csv --save-path results/out.csv"
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestRenderTemplate_IntValues(t *testing.T) {
	result, err := RenderTemplate("trial-{{.Trial}}", map[string]interface{}{"Trial": 4})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result != "trial-4" {
		t.Errorf("Expected 'trial-4', got '%s'", result)
	}
}

func TestRenderTemplate_MissingKey(t *testing.T) {
	if _, err := RenderTemplate("{{.Missing}}", map[string]interface{}{"Present": "x"}); err == nil {
		t.Error("Expected an error for a missing key")
	}
}

func TestRenderTemplate_ForbiddenDirectives(t *testing.T) {
	forbidden := []string{
		`{{call .F}}`,
		`{{define "x"}}y{{end}}`,
		`{{template "x"}}`,
		`{{block "x" .}}{{end}}`,
	}

	for _, tmpl := range forbidden {
		if _, err := RenderTemplate(tmpl, nil); err == nil {
			t.Errorf("Expected forbidden directive error for %q", tmpl)
		} else if !strings.Contains(err.Error(), "forbidden directive") {
			t.Errorf("Expected forbidden directive error for %q, got: %v", tmpl, err)
		}
	}
}

func TestRenderTemplate_InvalidSyntax(t *testing.T) {
	if _, err := RenderTemplate("{{.Unclosed", nil); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 7, "this is..."},
		{"héllo wörld", 5, "héllo..."},
	}

	for _, tt := range tests {
		if got := TruncateString(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("TruncateString(%q, %d): got %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}
