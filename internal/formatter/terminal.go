package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/ColorSeason/internal/emoji"
	"github.com/yildizm/ColorSeason/internal/season"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(reports []*Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, "Color Season Analysis")

	for i, report := range reports {
		if i > 0 {
			b.WriteString(strings.Repeat("─", 50) + "\n\n")
		}
		f.writeReport(&b, report)
	}

	if len(reports) > 1 {
		ok, failed := counts(reports)
		fmt.Fprintf(&b, "%s %d analyzed, %d failed\n", emoji.GetEmoji("number"), ok, failed)
	}

	return []byte(b.String()), nil
}

func (f *terminalFormatter) FormatOutfits(listing *OutfitListing) ([]byte, error) {
	var b strings.Builder
	f.writeHeader(&b, "Matching Outfits")
	f.writeOutfits(&b, listing)
	return []byte(b.String()), nil
}

// writeReport writes one analyzed image
func (f *terminalFormatter) writeReport(b *strings.Builder, report *Report) {
	if report.Source != "" {
		fmt.Fprintf(b, "%s %s\n", emoji.GetEmoji("upload"), report.Source)
	}
	if report.Err != nil || report.Result == nil {
		fmt.Fprintf(b, "%s %s\n\n", emoji.GetEmoji("error"), errorText(report.Err))
		return
	}

	result := report.Result
	fmt.Fprintf(b, "%s Your season: %s\n", emoji.ForSeason(result.Season), result.Season)
	b.WriteString(result.Summary() + "\n\n")

	f.writeResultTree(b, result)
	f.writeProbabilities(b, result)

	if report.Outfits != nil {
		f.writeOutfits(b, report.Outfits)
	}
}

// writeResultTree writes confidence and palettes with tree-style formatting using go-termfmt
func (f *terminalFormatter) writeResultTree(b *strings.Builder, result *season.AnalysisResult) {
	items := []termfmt.TreeItem{
		{
			Label: "Confidence",
			Value: fmt.Sprintf("%s (%s)", percent(result.Confidence), season.ConfidenceLevel(result.Confidence)),
			Children: []termfmt.TreeItem{
				{Label: termfmt.CreateConfidenceBar(result.Confidence, f.opts), Value: ""},
			},
		},
		{
			Label:    emoji.GetEmoji("palette") + " Primary palette",
			Value:    fmt.Sprintf("%d colors", len(result.PrimaryPalette)),
			Children: f.colorItems(result.PrimaryPalette),
		},
		{
			Label:    "Secondary palette",
			Value:    fmt.Sprintf("%d colors", len(result.SecondaryPalette)),
			Children: f.colorItems(result.SecondaryPalette),
		},
	}

	if result.FaceMaskingApplied {
		items = append(items, termfmt.TreeItem{Label: emoji.GetEmoji("mask") + " Face masking", Value: "applied"})
	}
	if result.RequestID != "" {
		items = append(items, termfmt.TreeItem{Label: "Request ID", Value: result.RequestID})
	}
	items[len(items)-1].Last = true

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// colorItems builds one tree item per palette entry
func (f *terminalFormatter) colorItems(colors []season.Color) []termfmt.TreeItem {
	items := make([]termfmt.TreeItem, 0, len(colors))
	for i, c := range colors {
		items = append(items, termfmt.TreeItem{
			Label: f.swatch(c.Hex) + c.Name,
			Value: c.Hex,
			Last:  i == len(colors)-1,
		})
	}
	return items
}

// swatch renders a colored block when color output is enabled
func (f *terminalFormatter) swatch(hex string) string {
	if !f.opts.Color || hex == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("██") + " "
}

// writeProbabilities writes every season score, highest first
func (f *terminalFormatter) writeProbabilities(b *strings.Builder, result *season.AnalysisResult) {
	probs := result.SortedProbabilities()
	if len(probs) == 0 {
		return
	}

	fmt.Fprintf(b, "%s All probabilities\n", emoji.GetEmoji("target"))
	for i, p := range probs {
		branch := "├─"
		if i == len(probs)-1 {
			branch = "└─"
		}
		fmt.Fprintf(b, "%s %-8s %s %s\n", branch, p.Season,
			termfmt.CreateConfidenceBar(p.Value, f.opts), percent(p.Value))
	}
	b.WriteString("\n")
}

// writeOutfits writes one page of outfit images
func (f *terminalFormatter) writeOutfits(b *strings.Builder, listing *OutfitListing) {
	fmt.Fprintf(b, "%s Matching outfits (%s)\n", emoji.GetEmoji("outfit"), listing.Query.Gender.Label())

	if listing.Err != nil {
		fmt.Fprintf(b, "%s %s\n\n", emoji.GetEmoji("warning"), errorText(listing.Err))
		return
	}
	if len(listing.Images) == 0 {
		b.WriteString("No matching outfits found\n\n")
		return
	}

	for i, url := range listing.Images {
		branch := "├─"
		if i == len(listing.Images)-1 {
			branch = "└─"
		}
		fmt.Fprintf(b, "%s %s\n", branch, url)
	}
	fmt.Fprintf(b, "Page %d of %d (%d outfits)\n\n", listing.Page, listing.TotalPages, listing.Total)
}

// writeHeader writes a header with box drawing
func (f *terminalFormatter) writeHeader(b *strings.Builder, header string) {
	width := lipgloss.Width(header)

	b.WriteString("╔" + strings.Repeat("═", width+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", width+2) + "╝\n\n")
}
