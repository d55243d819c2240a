package display

import (
	"strings"
	"testing"
)

func TestStyles_Enabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	tests := []struct {
		name string
		fn   func(string) string
	}{
		{"Bold", Bold},
		{"Dim", Dim},
		{"Green", Green},
		{"Yellow", Yellow},
		{"Red", Red},
		{"Cyan", Cyan},
		{"Gray", Gray},
		{"Accent", Accent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn("text")
			if !strings.Contains(got, "\x1b[") || !strings.Contains(got, "text") {
				t.Errorf("%s(\"text\") = %q, want ANSI-wrapped text", tt.name, got)
			}
		})
	}
}

func TestStyles_Disabled(t *testing.T) {
	SetEnabled(false)

	for _, fn := range []func(string) string{Bold, Dim, Green, Yellow, Red, Cyan, Gray, Accent} {
		if got := fn("plain"); got != "plain" {
			t.Errorf("styled output with colors disabled = %q, want %q", got, "plain")
		}
	}
}

func TestStyles_DistinctColors(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	if Green("x") == Yellow("x") || Cyan("x") == Accent("x") {
		t.Error("palette entries should render differently")
	}
}

func TestBoldf(t *testing.T) {
	SetEnabled(false)

	if got := Boldf("%s in %dm", "Asr", 5); got != "Asr in 5m" {
		t.Errorf("Boldf = %q", got)
	}
}

func TestSetEnabled(t *testing.T) {
	SetEnabled(true)
	if !Enabled() {
		t.Error("Enabled() = false after SetEnabled(true)")
	}
	SetEnabled(false)
	if Enabled() {
		t.Error("Enabled() = true after SetEnabled(false)")
	}
	if Renderer() == nil {
		t.Error("Renderer() returned nil")
	}
}
