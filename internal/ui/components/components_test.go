package components

import (
	"strings"
	"testing"
)

func TestListSelection(t *testing.T) {
	list := NewList("Outfits", 40, 10)
	list.SetItems([]ListItem{{Title: "a"}, {Title: "b"}, {Title: "c"}})

	list.MoveUp()
	if list.Selected != 0 {
		t.Errorf("Expected selection to stay at 0, got %d", list.Selected)
	}
	list.MoveDown()
	list.MoveDown()
	list.MoveDown()
	if list.Selected != 2 {
		t.Errorf("Expected selection clamped at 2, got %d", list.Selected)
	}

	list.SetItems([]ListItem{{Title: "only"}})
	if list.Selected != 0 {
		t.Errorf("Expected selection clamped after shrink, got %d", list.Selected)
	}

	list.SetItems(nil)
	if list.Selected != 0 {
		t.Errorf("Expected selection 0 for empty list, got %d", list.Selected)
	}
}

func TestListRenderNumbersWithOffset(t *testing.T) {
	list := NewList("Outfits", 60, 20)
	list.Offset = 12
	list.SetItems([]ListItem{{Title: "http://img/13.jpg"}})

	output := list.Render()
	if !strings.Contains(output, "13.") || !strings.Contains(output, "http://img/13.jpg") {
		t.Errorf("Expected offset numbering, got:\n%s", output)
	}
}

func TestScoreBarClamps(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{-0.5, "0.0%"},
		{0.5, "50.0%"},
		{1.7, "100.0%"},
	}
	for _, tt := range tests {
		bar := NewScoreBar("spring", tt.value, 10).Render()
		if !strings.Contains(bar, tt.want) {
			t.Errorf("Expected %q in %q", tt.want, bar)
		}
	}
}

func TestSpinnerCycles(t *testing.T) {
	s := NewSpinner("Analyzing")
	for i := 0; i < len(spinnerFrames); i++ {
		s.Tick()
	}
	if s.Frame != 0 {
		t.Errorf("Expected spinner to wrap, got frame %d", s.Frame)
	}
	if !strings.Contains(s.Render(), "Analyzing") {
		t.Error("Expected label in spinner output")
	}
}

func TestSwatch(t *testing.T) {
	if got := Swatch("not-a-color", "Coral", 2); got != "Coral" {
		t.Errorf("Expected bare label for invalid hex, got %q", got)
	}
	if got := Swatch("#FF7F50", "Coral", 2); !strings.HasSuffix(got, " Coral") {
		t.Errorf("Expected swatch followed by label, got %q", got)
	}
}
