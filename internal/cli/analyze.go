package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/ColorSeason/internal/formatter"
	"github.com/yildizm/ColorSeason/internal/monitor"
	"github.com/yildizm/ColorSeason/internal/season"
	"golang.org/x/sync/errgroup"
)

var (
	analyzeOutfits     bool
	analyzeGender      string
	analyzePage        int
	analyzeConcurrency int
	analyzeTimeout     time.Duration
	analyzeOutputFile  string
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Analyze portrait images without the UI",
		Long: `Send one or more JPEG or PNG portraits to the color classification service and
print the season, palettes and probabilities for each.

Files are checked for type and size before upload. Several files are analyzed
concurrently; a failure on one file does not stop the others.

Examples:
  colorseason analyze me.jpg
  colorseason analyze --outfits --gender female me.jpg
  colorseason analyze -o json photos/*.png
  colorseason analyze -o csv --output-file seasons.csv photos/*.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().BoolVar(&analyzeOutfits, "outfits", false, "fetch matching outfits for each result")
	cmd.Flags().StringVarP(&analyzeGender, "gender", "g", "all", "outfit filter (all, male, female)")
	cmd.Flags().IntVar(&analyzePage, "page", 1, "outfit page to show")
	cmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 4, "maximum concurrent uploads")
	cmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall timeout for the batch")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}

	gender, err := resolveGender(analyzeGender, cmd.Flag("gender").Changed, cfg)
	if err != nil {
		return err
	}

	f, err := formatter.New(getOutputFormat(cfg), colorEnabled(cfg))
	if err != nil {
		return err
	}

	svc, err := newServices(cfg, analyzeOutfits)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	reports, err := svc.analyzeAll(ctx, args, gender, analyzePage, analyzeConcurrency)
	if err != nil {
		return err
	}

	output, err := f.Format(reports)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if err := writeOutput(cmd.OutOrStdout(), output, analyzeOutputFile); err != nil {
		return err
	}

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "%s\n", svc.stats.Summary())
	}

	if failed := countFailed(reports); failed > 0 {
		return fmt.Errorf("%d of %d images could not be analyzed", failed, len(reports))
	}
	return nil
}

// analyzeAll analyzes paths with at most limit requests in flight. Reports
// keep the order of paths.
func (s *services) analyzeAll(ctx context.Context, paths []string, gender season.Gender, page, limit int) ([]*formatter.Report, error) {
	if limit < 1 {
		limit = 1
	}

	if s.stats == nil {
		s.stats = monitor.NewBatchStats()
	}
	reports := make([]*formatter.Report, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "Analyzing %s\n", filepath.Clean(path))
			}
			reports[i] = s.trackImage(ctx, path, gender, page)
			// a cancelled batch stops scheduling the rest
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}
	return reports, nil
}

func countFailed(reports []*formatter.Report) int {
	failed := 0
	for _, r := range reports {
		if r.Err != nil {
			failed++
		}
	}
	return failed
}
