package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/ColorSeason/internal/client"
	"github.com/yildizm/ColorSeason/internal/formatter"
	"github.com/yildizm/ColorSeason/internal/season"
)

var (
	outfitsGender  string
	outfitsPage    int
	outfitsTimeout time.Duration
)

func newOutfitsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outfits <hex>...",
		Short: "List outfits matching palette colors",
		Long: `Query the outfit matching service with one or more hex colors, usually the
primary palette of an earlier analysis, and print one page of results.

Examples:
  colorseason outfits "#B7410E" "#808000"
  colorseason outfits --gender male --page 2 "#B7410E"
  colorseason outfits -o json "#B7410E"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runOutfits,
	}

	cmd.Flags().StringVarP(&outfitsGender, "gender", "g", "all", "outfit filter (all, male, female)")
	cmd.Flags().IntVar(&outfitsPage, "page", 1, "page to show")
	cmd.Flags().DurationVar(&outfitsTimeout, "timeout", 30*time.Second, "request timeout")

	return cmd
}

func runOutfits(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}

	gender, err := resolveGender(outfitsGender, cmd.Flag("gender").Changed, cfg)
	if err != nil {
		return err
	}

	query := season.OutfitQuery{PrimaryHexColors: hexArgs(args), Gender: gender}
	if len(query.PrimaryHexColors) == 0 {
		return fmt.Errorf("at least one non-empty hex color is required")
	}

	f, err := formatter.New(getOutputFormat(cfg), colorEnabled(cfg))
	if err != nil {
		return err
	}

	outfits, err := client.NewOutfitClient(clientConfig(cfg), newLogger("outfits"))
	if err != nil {
		return fmt.Errorf("failed to create outfit client: %w", err)
	}
	svc := &services{outfits: outfits, pageSize: cfg.Outfits.PageSize}

	ctx, cancel := context.WithTimeout(cmd.Context(), outfitsTimeout)
	defer cancel()

	listing := svc.fetchListing(ctx, query, outfitsPage)

	output, err := f.FormatOutfits(listing)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if _, err := cmd.OutOrStdout().Write(output); err != nil {
		return err
	}
	return listing.Err
}

// hexArgs trims each argument and drops empty ones; case is kept
func hexArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
