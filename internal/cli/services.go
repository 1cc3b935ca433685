package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yildizm/ColorSeason/internal/capture"
	"github.com/yildizm/ColorSeason/internal/client"
	"github.com/yildizm/ColorSeason/internal/config"
	"github.com/yildizm/ColorSeason/internal/formatter"
	"github.com/yildizm/ColorSeason/internal/monitor"
	"github.com/yildizm/ColorSeason/internal/season"
	"github.com/yildizm/ColorSeason/internal/workflow"
)

// services bundles the collaborators the headless commands share
type services struct {
	uploads  workflow.UploadReader
	analyzer workflow.Analyzer
	outfits  workflow.OutfitFetcher
	pageSize int
	stats    *monitor.BatchStats
}

func clientConfig(cfg *config.Config) *client.Config {
	return &client.Config{
		BaseURL:            cfg.Service.BaseURL,
		Timeout:            cfg.Service.Timeout,
		IncludeDescription: cfg.Service.IncludeDescription,
	}
}

func newEngine(cfg *config.Config) *capture.Engine {
	return capture.NewEngine(capture.Options{
		Ratio:  cfg.Capture.CropRatio,
		Mirror: cfg.Capture.Mirror,
	})
}

func newValidator(cfg *config.Config) *capture.Validator {
	return capture.NewValidator(cfg.Upload.MaxFileSize, cfg.Upload.AllowedTypes)
}

func newServices(cfg *config.Config, withOutfits bool) (*services, error) {
	analyzer, err := client.NewAnalysisClient(clientConfig(cfg), newLogger("analysis"))
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis client: %w", err)
	}
	svc := &services{
		uploads:  newValidator(cfg),
		analyzer: analyzer,
		pageSize: cfg.Outfits.PageSize,
		stats:    monitor.NewBatchStats(),
	}
	if withOutfits {
		outfits, err := client.NewOutfitClient(clientConfig(cfg), newLogger("outfits"))
		if err != nil {
			return nil, fmt.Errorf("failed to create outfit client: %w", err)
		}
		svc.outfits = outfits
	}
	return svc, nil
}

// trackImage runs analyzeImage and records it in the batch stats. stats
// must be set before concurrent use.
func (s *services) trackImage(ctx context.Context, path string, gender season.Gender, page int) *formatter.Report {
	var report *formatter.Report
	_ = s.stats.Track(func() error {
		report = s.analyzeImage(ctx, path, gender, page)
		return report.Err
	})
	return report
}

// analyzeImage reads, classifies and optionally matches outfits for one file.
// Failures are recorded on the report rather than returned.
func (s *services) analyzeImage(ctx context.Context, path string, gender season.Gender, page int) *formatter.Report {
	report := &formatter.Report{Source: path}

	img, err := s.uploads.ReadUpload(path)
	if err != nil {
		report.Err = err
		return report
	}

	result, err := s.analyzer.Analyze(ctx, img)
	if err != nil {
		report.Err = err
		return report
	}
	report.Result = result

	if s.outfits != nil {
		report.Outfits = s.fetchListing(ctx, season.NewOutfitQuery(result, gender), page)
	}
	return report
}

// fetchListing fetches the full match list and slices out one page
func (s *services) fetchListing(ctx context.Context, query season.OutfitQuery, page int) *formatter.OutfitListing {
	listing := &formatter.OutfitListing{Query: query}

	images, err := s.outfits.FetchMatches(ctx, query)
	if err != nil {
		listing.Err = err
		return listing
	}

	paged := workflow.Paginate(images, page, s.pageSize)
	listing.Images = paged.Items
	listing.Total = paged.Total
	listing.Page = paged.Page
	listing.TotalPages = paged.TotalPages
	return listing
}

// resolveGender prefers an explicit flag over outfits.default_gender
func resolveGender(flag string, changed bool, cfg *config.Config) (season.Gender, error) {
	if changed {
		return season.ParseGender(flag)
	}
	return season.ParseGender(cfg.Outfits.DefaultGender)
}

// writeOutput writes to path when set, otherwise to w
func writeOutput(w io.Writer, output []byte, path string) error {
	if path == "" {
		_, err := w.Write(output)
		return err
	}

	cleanPath := filepath.Clean(path)
	if strings.TrimSpace(cleanPath) == "" || cleanPath == "." {
		return fmt.Errorf("empty file path")
	}
	if err := os.WriteFile(cleanPath, output, 0o600); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Output saved to: %s\n", cleanPath)
	}
	return nil
}
