package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/yildizm/ColorSeason/internal/capture"
	"github.com/yildizm/ColorSeason/internal/config"
	"github.com/yildizm/ColorSeason/internal/formatter"
	"github.com/yildizm/ColorSeason/internal/season"
)

type fakeUploads map[string]error

func (f fakeUploads) ReadUpload(path string) (*capture.EncodedImage, error) {
	if err := f[path]; err != nil {
		return nil, err
	}
	return &capture.EncodedImage{Data: []byte(path), MIMEType: capture.MIMETypePNG, Width: 1, Height: 1}, nil
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) Analyze(ctx context.Context, img *capture.EncodedImage) (*season.AnalysisResult, error) {
	return &season.AnalysisResult{
		Season:         "Autumn " + string(img.Data),
		PrimaryPalette: []season.Color{{Name: "Rust", Hex: "#B7410E"}},
		Confidence:     0.9,
	}, nil
}

type fakeOutfits struct {
	mu      sync.Mutex
	queries []season.OutfitQuery
	err     error
}

func (f *fakeOutfits) FetchMatches(ctx context.Context, q season.OutfitQuery) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return outfitURLs(15), nil
}

func outfitURLs(n int) []string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("http://img/%d.jpg", i+1)
	}
	return urls
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("dev", "none", "unknown")
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append(args, "--no-emoji"))
	err := cmd.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf("service:\n  base_url: %s\noutput:\n  color_mode: never\n", baseURL)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestAnalyzeAllKeepsOrderAndRecordsFailures(t *testing.T) {
	outfits := &fakeOutfits{}
	svc := &services{
		uploads:  fakeUploads{"b.png": season.NewValidationError("type", "b.png", "unsupported type")},
		analyzer: fakeAnalyzer{},
		outfits:  outfits,
		pageSize: 12,
	}

	reports, err := svc.analyzeAll(context.Background(), []string{"a.png", "b.png", "c.png"}, season.GenderFemale, 2, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("Expected 3 reports, got %d", len(reports))
	}

	if reports[0].Result == nil || reports[0].Result.Season != "Autumn a.png" {
		t.Errorf("Expected first report for a.png, got %+v", reports[0].Result)
	}
	if reports[1].Err == nil || !season.IsValidationError(reports[1].Err) {
		t.Errorf("Expected validation error for b.png, got %v", reports[1].Err)
	}
	if reports[1].Outfits != nil {
		t.Error("Expected no outfits for a failed image")
	}
	if reports[2].Source != "c.png" {
		t.Errorf("Expected c.png last, got %s", reports[2].Source)
	}

	listing := reports[0].Outfits
	if listing == nil {
		t.Fatal("Expected outfit listing")
	}
	if listing.Page != 2 || listing.TotalPages != 2 || listing.Total != 15 || len(listing.Images) != 3 {
		t.Errorf("Unexpected listing: page %d/%d total %d images %d", listing.Page, listing.TotalPages, listing.Total, len(listing.Images))
	}
	if listing.Images[0] != "http://img/13.jpg" {
		t.Errorf("Expected page 2 to start at item 13, got %s", listing.Images[0])
	}
	if listing.Query.Gender != season.GenderFemale {
		t.Errorf("Expected female filter, got %s", listing.Query.Gender)
	}
	if len(outfits.queries) != 2 {
		t.Errorf("Expected one outfit query per successful analysis, got %d", len(outfits.queries))
	}
	if svc.stats.Succeeded.Get() != 2 || svc.stats.Failed.Get() != 1 {
		t.Errorf("Expected stats 2/1, got %d/%d", svc.stats.Succeeded.Get(), svc.stats.Failed.Get())
	}
	if countFailed(reports) != 1 {
		t.Errorf("Expected 1 failure, got %d", countFailed(reports))
	}
}

func TestAnalyzeAllCancelled(t *testing.T) {
	svc := &services{uploads: fakeUploads{}, analyzer: fakeAnalyzer{}, pageSize: 12}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.analyzeAll(ctx, []string{"a.png"}, season.GenderAll, 1, 1); err == nil {
		t.Error("Expected error for cancelled batch")
	}
}

func TestFetchListingError(t *testing.T) {
	svc := &services{outfits: &fakeOutfits{err: season.NewOutfitFetchError(500, errors.New("boom"))}, pageSize: 12}

	listing := svc.fetchListing(context.Background(), season.OutfitQuery{PrimaryHexColors: []string{"#000000"}}, 1)
	if listing.Err == nil {
		t.Fatal("Expected listing error")
	}
	if len(listing.Images) != 0 {
		t.Errorf("Expected no images, got %d", len(listing.Images))
	}
}

func TestHexArgs(t *testing.T) {
	got := hexArgs([]string{" #B7410E ", "", "#808000,#aabbcc", " , "})
	want := []string{"#B7410E", "#808000", "#aabbcc"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestResolveGender(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Outfits.DefaultGender = "male"

	tests := []struct {
		name    string
		flag    string
		changed bool
		want    season.Gender
		wantErr bool
	}{
		{"config default", "all", false, season.GenderMale, false},
		{"explicit flag", "female", true, season.GenderFemale, false},
		{"explicit all", "all", true, season.GenderAll, false},
		{"invalid flag", "kids", true, season.GenderAll, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveGender(tt.flag, tt.changed, cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestColorEnabled(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	tests := []struct {
		name    string
		noColor bool
		mode    string
		want    bool
	}{
		{"auto", false, "auto", true},
		{"never", false, "never", false},
		{"always", false, "always", true},
		{"flag wins over always", true, "always", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := noColor
			noColor = tt.noColor
			defer func() { noColor = old }()

			cfg := config.DefaultConfig()
			cfg.Output.ColorMode = tt.mode
			if got := colorEnabled(cfg); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDirWatcherSettles(t *testing.T) {
	w := &dirWatcher{settle: time.Second, pending: make(map[string]time.Time)}
	start := time.Now()

	w.record(fsnotify.Event{Name: "/in/a.jpg", Op: fsnotify.Create}, start)
	w.record(fsnotify.Event{Name: "/in/notes.txt", Op: fsnotify.Create}, start)
	w.record(fsnotify.Event{Name: "/in/.hidden.png", Op: fsnotify.Create}, start)
	w.record(fsnotify.Event{Name: "/in/b.PNG", Op: fsnotify.Write}, start)
	w.record(fsnotify.Event{Name: "/in/c.png", Op: fsnotify.Create}, start)
	w.record(fsnotify.Event{Name: "/in/c.png", Op: fsnotify.Remove}, start)

	if ready := w.settled(start.Add(500 * time.Millisecond)); len(ready) != 0 {
		t.Errorf("Expected nothing settled yet, got %v", ready)
	}

	// a later write restarts the quiet period
	w.record(fsnotify.Event{Name: "/in/b.PNG", Op: fsnotify.Write}, start.Add(800*time.Millisecond))

	ready := w.settled(start.Add(time.Second))
	if len(ready) != 1 || ready[0] != "/in/a.jpg" {
		t.Errorf("Expected only a.jpg settled, got %v", ready)
	}

	ready = w.settled(start.Add(2 * time.Second))
	if len(ready) != 1 || ready[0] != "/in/b.PNG" {
		t.Errorf("Expected b.PNG settled, got %v", ready)
	}
	if len(w.pending) != 0 {
		t.Errorf("Expected no pending files, got %d", len(w.pending))
	}
}

func TestDirWatcherRunHandlesFiles(t *testing.T) {
	events := make(chan fsnotify.Event, 1)
	handled := make(chan string, 1)
	w := &dirWatcher{
		events: events,
		errors: make(chan error),
		settle: 10 * time.Millisecond,
		handle: func(ctx context.Context, path string) { handled <- path },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx) }()

	events <- fsnotify.Event{Name: "/in/me.jpg", Op: fsnotify.Create}

	select {
	case path := <-handled:
		if path != "/in/me.jpg" {
			t.Errorf("Expected /in/me.jpg, got %s", path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for file to be handled")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Expected clean stop, got %v", err)
	}
}

func TestCropCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "frame.png")
	out := filepath.Join(dir, "cropped.png")

	frame := image.NewRGBA(image.Rect(0, 0, 100, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 100; x++ {
			frame.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(in, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	cfgPath := writeConfig(t, "http://localhost:8000")
	output, err := execute(t, "crop", in, out, "--config", cfgPath)
	if err != nil {
		t.Fatalf("Unexpected error: %v\n%s", err, output)
	}
	if !strings.Contains(output, "[OK] Cropped") || !strings.Contains(output, "72x72") {
		t.Errorf("Unexpected output: %s", output)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Expected PNG output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 72 || b.Dy() != 72 {
		t.Errorf("Expected 72x72, got %dx%d", b.Dx(), b.Dy())
	}

	if _, err := execute(t, "crop", in, out, "--config", cfgPath); err == nil {
		t.Error("Expected error when output exists without --force")
	}
	if _, err := execute(t, "crop", in, out, "--config", cfgPath, "--ratio", "1.5", "--force"); err == nil {
		t.Error("Expected error for invalid ratio")
	}
}

func TestOutfitsCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get-matching-clothes" {
			http.NotFound(w, r)
			return
		}
		var colors []string
		if err := json.NewDecoder(r.Body).Decode(&colors); err != nil || len(colors) != 2 {
			http.Error(w, `{"detail":"bad colors"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"images": outfitURLs(15)})
	}))
	defer server.Close()

	cfgPath := writeConfig(t, server.URL)
	output, err := execute(t, "outfits", "#B7410E", " #808000 ", "--page", "2", "-o", "json", "--config", cfgPath)
	if err != nil {
		t.Fatalf("Unexpected error: %v\n%s", err, output)
	}

	var got formatter.OutfitOutput
	if err := json.Unmarshal([]byte(output), &got); err != nil {
		t.Fatalf("Expected JSON output: %v\n%s", err, output)
	}
	if got.Page != 2 || got.TotalPages != 2 || got.Total != 15 || len(got.Images) != 3 {
		t.Errorf("Unexpected page: %+v", got)
	}
	if len(got.Colors) != 2 || got.Colors[1] != "#808000" {
		t.Errorf("Expected trimmed colors, got %v", got.Colors)
	}
}

func TestOutfitsCommandRequiresColor(t *testing.T) {
	cfgPath := writeConfig(t, "http://localhost:8000")
	if _, err := execute(t, "outfits", " ", "--config", cfgPath); err == nil {
		t.Error("Expected error for blank colors")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colorseason.yaml")

	output, err := execute(t, "config", "init", "--minimal", "--path", path)
	if err != nil {
		t.Fatalf("Unexpected error: %v\n%s", err, output)
	}
	if !fileExists(path) {
		t.Fatal("Expected config file to be created")
	}

	if _, err := execute(t, "config", "init", "--path", path); err == nil {
		t.Error("Expected error when config exists without --force")
	}

	output, err = execute(t, "config", "validate", "--config", path)
	if err != nil {
		t.Fatalf("Unexpected error: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Configuration is valid") {
		t.Errorf("Unexpected output: %s", output)
	}
}

func TestVersionCommand(t *testing.T) {
	output, err := execute(t, "version")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(output, "ColorSeason development (local-build)") {
		t.Errorf("Unexpected output: %s", output)
	}
}
