package season

import (
	"errors"
	"fmt"
	"testing"
)

func TestSortedProbabilities(t *testing.T) {
	result := &AnalysisResult{
		AllProbabilities: map[string]float64{
			"Spring": 0.05,
			"Summer": 0.02,
			"Autumn": 0.92,
			"Winter": 0.02,
		},
	}

	probs := result.SortedProbabilities()
	if len(probs) != 4 {
		t.Fatalf("Expected 4 probabilities, got %d", len(probs))
	}

	want := []string{"Autumn", "Spring", "Summer", "Winter"}
	for i, p := range probs {
		if p.Season != want[i] {
			t.Errorf("Expected %s at position %d, got %s", want[i], i, p.Season)
		}
	}
}

func TestNewOutfitQuery(t *testing.T) {
	result := &AnalysisResult{
		PrimaryPalette: []Color{
			{Name: "Rust", Hex: "#B7410E"},
			{Name: "Blank", Hex: "  "},
			{Name: "Olive", Hex: " #808000 "},
		},
	}

	query := NewOutfitQuery(result, "")
	if query.Gender != GenderAll {
		t.Errorf("Expected gender all, got %s", query.Gender)
	}
	if query.Filtered() {
		t.Error("Expected unfiltered query")
	}
	if len(query.PrimaryHexColors) != 2 {
		t.Fatalf("Expected 2 hex colors, got %d", len(query.PrimaryHexColors))
	}
	if query.PrimaryHexColors[0] != "#B7410E" || query.PrimaryHexColors[1] != "#808000" {
		t.Errorf("Unexpected hex colors: %v", query.PrimaryHexColors)
	}

	female := NewOutfitQuery(result, GenderFemale)
	if !female.Filtered() {
		t.Error("Expected female query to be filtered")
	}
	if female.Key() == query.Key() {
		t.Error("Expected different keys for different genders")
	}
}

func TestParseGender(t *testing.T) {
	tests := []struct {
		input   string
		want    Gender
		wantErr bool
	}{
		{"", GenderAll, false},
		{"all", GenderAll, false},
		{"Male", GenderMale, false},
		{" female ", GenderFemale, false},
		{"other", GenderAll, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseGender(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGender(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseGender(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenderNextCycles(t *testing.T) {
	g := GenderAll
	seen := []Gender{g}
	for i := 0; i < 3; i++ {
		g = g.Next()
		seen = append(seen, g)
	}
	want := []Gender{GenderAll, GenderFemale, GenderMale, GenderAll}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("Step %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
}

func TestConfidenceLevel(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{0.92, "High"},
		{0.85, "High"},
		{0.75, "Good"},
		{0.60, "Moderate"},
		{0.30, "Low"},
	}

	for _, tt := range tests {
		if got := ConfidenceLevel(tt.confidence); got != tt.want {
			t.Errorf("ConfidenceLevel(%v) = %s, want %s", tt.confidence, got, tt.want)
		}
	}
}

func TestSummaryFallsBackToBuiltInDescription(t *testing.T) {
	result := &AnalysisResult{Season: "Winter"}
	if result.Summary() != Describe("Winter") {
		t.Errorf("Expected built-in description, got %q", result.Summary())
	}

	result.Description = &SeasonDescription{Description: "server copy"}
	if result.Summary() != "server copy" {
		t.Errorf("Expected server description, got %q", result.Summary())
	}
}

func TestErrorPredicates(t *testing.T) {
	cause := errors.New("device busy")
	tests := []struct {
		name    string
		err     error
		want    ErrorType
		message string
	}{
		{"permission", NewPermissionError("/dev/video0", cause), ErrTypePermission, MsgCameraUnavailable},
		{"validation", NewValidationError("file", "a.gif", MsgInvalidFileType), ErrTypeValidation, MsgInvalidFileType},
		{"capture", NewCaptureError("no frame", cause), ErrTypeCapture, "no frame"},
		{"analysis", NewAnalysisError("model unavailable", 500), ErrTypeAnalysis, "model unavailable"},
		{"network", NewNetworkAnalysisError(cause), ErrTypeAnalysis, MsgAnalysisFailed},
		{"outfits", NewOutfitFetchError(502, nil), ErrTypeOutfitFetch, MsgOutfitsFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("workflow: %w", tt.err)
			if got := TypeOf(wrapped); got != tt.want {
				t.Errorf("Expected type %s, got %s", tt.want, got)
			}
			if got := Message(wrapped); got != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, got)
			}
		})
	}

	if !IsPermissionError(NewPermissionError("", cause)) {
		t.Error("Expected IsPermissionError to match")
	}
	if IsAnalysisError(NewCaptureError("x", nil)) {
		t.Error("Expected IsAnalysisError not to match a capture error")
	}
	if !errors.Is(NewPermissionError("", cause), cause) {
		t.Error("Expected permission error to unwrap to its cause")
	}
	if TypeOf(errors.New("plain")) != "" {
		t.Error("Expected empty type for foreign error")
	}
}

func TestErrorsIsMatchesCategory(t *testing.T) {
	targets := []error{
		&PermissionError{},
		&ValidationError{},
		&CaptureError{},
		&AnalysisError{},
		&OutfitFetchError{},
	}
	errs := []error{
		NewPermissionError("/dev/video0", errors.New("busy")),
		NewValidationError("file", "a.gif", MsgInvalidFileType),
		NewCaptureError("no frame", nil),
		NewAnalysisError("model unavailable", 500),
		NewOutfitFetchError(502, nil),
	}

	for i, err := range errs {
		wrapped := fmt.Errorf("workflow: %w", err)
		for j, target := range targets {
			if got := errors.Is(wrapped, target); got != (i == j) {
				t.Errorf("errors.Is(%T, %T) = %v", err, target, got)
			}
		}
	}

	if !errors.Is(NewNetworkAnalysisError(errors.New("refused")), NewAnalysisError("other", 502)) {
		t.Error("Expected analysis errors to match regardless of message and status")
	}
}
