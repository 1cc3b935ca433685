package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/ColorSeason/internal/season"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	now func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{now: time.Now}
}

func (f *markdownFormatter) Format(reports []*Report) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Color Season Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))

	for _, report := range reports {
		f.writeReport(&b, report)
	}

	b.WriteString("---\n")
	b.WriteString("*Report generated by ColorSeason*\n")

	return []byte(b.String()), nil
}

func (f *markdownFormatter) FormatOutfits(listing *OutfitListing) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# Matching Outfits\n\n")
	f.writeOutfits(&b, listing)
	return []byte(b.String()), nil
}

// writeReport writes one image section
func (f *markdownFormatter) writeReport(b *strings.Builder, report *Report) {
	title := report.Source
	if title == "" {
		title = "Capture"
	}
	fmt.Fprintf(b, "## %s\n\n", title)

	if report.Err != nil || report.Result == nil {
		fmt.Fprintf(b, "**Error**: %s\n\n", errorText(report.Err))
		return
	}

	result := report.Result
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Season | %s |\n", result.Season)
	fmt.Fprintf(b, "| Confidence | %s (%s) |\n", percent(result.Confidence), season.ConfidenceLevel(result.Confidence))
	fmt.Fprintf(b, "| Face masking | %t |\n\n", result.FaceMaskingApplied)

	fmt.Fprintf(b, "%s\n\n", result.Summary())

	f.writePalette(b, "Primary palette", result.PrimaryPalette)
	f.writePalette(b, "Secondary palette", result.SecondaryPalette)

	if probs := result.SortedProbabilities(); len(probs) > 0 {
		b.WriteString("### All probabilities\n\n")
		for _, p := range probs {
			fmt.Fprintf(b, "- %s: %s\n", p.Season, percent(p.Value))
		}
		b.WriteString("\n")
	}

	if report.Outfits != nil {
		f.writeOutfits(b, report.Outfits)
	}
}

// writePalette writes a palette as a table
func (f *markdownFormatter) writePalette(b *strings.Builder, title string, colors []season.Color) {
	if len(colors) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	b.WriteString("| Color | Hex |\n")
	b.WriteString("|-------|-----|\n")
	for _, c := range colors {
		fmt.Fprintf(b, "| %s | `%s` |\n", c.Name, c.Hex)
	}
	b.WriteString("\n")
}

// writeOutfits writes outfit images as a list of links
func (f *markdownFormatter) writeOutfits(b *strings.Builder, listing *OutfitListing) {
	fmt.Fprintf(b, "### Matching outfits (%s)\n\n", listing.Query.Gender.Label())
	if listing.Err != nil {
		fmt.Fprintf(b, "**Error**: %s\n\n", errorText(listing.Err))
		return
	}
	if len(listing.Images) == 0 {
		b.WriteString("No matching outfits found.\n\n")
		return
	}
	for i, url := range listing.Images {
		fmt.Fprintf(b, "%d. [Outfit](%s)\n", i+1, url)
	}
	fmt.Fprintf(b, "\nPage %d of %d (%d outfits)\n\n", listing.Page, listing.TotalPages, listing.Total)
}
