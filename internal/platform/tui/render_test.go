package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
)

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(10, 3)
	s.DrawTextColored(0, 0, "2048", core.ColorBrightCyan)
	s.DrawText(5, 0, "ok")
	s.DrawTextColored(0, 2, "16", core.ColorBrightRed)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("rendered %d lines, want 3", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 10 {
			t.Errorf("line %d width = %d, want 10", i, w)
		}
	}
	if !strings.Contains(out, "2048") || !strings.Contains(out, "16") {
		t.Errorf("rendered output lost text: %q", out)
	}
}

func TestCenterText(t *testing.T) {
	if got := centerText("ab", 6); got != "  ab" {
		t.Errorf("centerText = %q, want %q", got, "  ab")
	}
	if got := centerText("toolong", 3); got != "toolong" {
		t.Errorf("centerText = %q, want unchanged", got)
	}
}
