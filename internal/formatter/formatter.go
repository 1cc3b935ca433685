// Package formatter renders analysis results and outfit pages for the
// headless commands.
package formatter

import (
	"fmt"

	"github.com/yildizm/ColorSeason/internal/season"
)

// Report is the outcome of analyzing one image
type Report struct {
	Source  string
	Result  *season.AnalysisResult
	Outfits *OutfitListing
	Err     error
}

// OutfitListing is one page of outfit recommendations for a query
type OutfitListing struct {
	Query      season.OutfitQuery
	Images     []string
	Total      int
	Page       int
	TotalPages int
	Err        error
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(reports []*Report) ([]byte, error)
	FormatOutfits(listing *OutfitListing) ([]byte, error)
}

// New returns the formatter for an output format name
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (must be one of: text, json, markdown, csv)", format)
	}
}
