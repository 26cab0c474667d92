package debug

import (
	"log/slog"
	"testing"
)

func TestSplitCategories(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "provider", []string{"provider"}},
		{"multiple", "provider,rotation", []string{"provider", "rotation"}},
		{"with spaces", " provider , rotation ", []string{"provider", "rotation"}},
		{"uppercase normalized", "PROVIDER,Rotation", []string{"provider", "rotation"}},
		{"empty segments", "provider,,rotation", []string{"provider", "rotation"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitCategories(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d (%v)", len(got), len(tt.want), got)
			}
			for _, cat := range tt.want {
				if _, ok := got[cat]; !ok {
					t.Errorf("missing category %q", cat)
				}
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	orig := active
	defer func() { active = orig }()

	active = splitCategories("provider,rotation")

	if !Enabled("provider") || !Enabled("rotation") {
		t.Error("listed categories should be enabled")
	}
	if Enabled("search") {
		t.Error("search should not be enabled")
	}
}

func TestEnabledAll(t *testing.T) {
	orig := active
	defer func() { active = orig }()

	active = splitCategories("all")

	if !Enabled("provider") || !Enabled("cart") {
		t.Error("every category should be enabled when all is set")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"TRACE", LevelTrace},
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{" debug ", slog.LevelDebug},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("Truncate long = %q", got)
	}
}
