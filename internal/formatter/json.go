package formatter

import (
	"encoding/json"

	"github.com/yildizm/ColorSeason/internal/season"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(reports []*Report) ([]byte, error) {
	ok, failed := counts(reports)
	output := &JSONOutput{
		Reports:   make([]*ReportOutput, 0, len(reports)),
		Succeeded: ok,
		Failed:    failed,
	}
	for _, r := range reports {
		output.Reports = append(output.Reports, createReportOutput(r))
	}

	return json.MarshalIndent(output, "", "  ")
}

func (f *jsonFormatter) FormatOutfits(listing *OutfitListing) ([]byte, error) {
	return json.MarshalIndent(createOutfitOutput(listing), "", "  ")
}

// JSONOutput is the top-level document for a batch of reports
type JSONOutput struct {
	Reports   []*ReportOutput `json:"reports"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
}

// ReportOutput is one analyzed image
type ReportOutput struct {
	Source          string                 `json:"source,omitempty"`
	Season          string                 `json:"season,omitempty"`
	Confidence      float64                `json:"confidence,omitempty"`
	ConfidenceLevel string                 `json:"confidence_level,omitempty"`
	Summary         string                 `json:"summary,omitempty"`
	Probabilities   []season.Probability   `json:"probabilities,omitempty"`
	Result          *season.AnalysisResult `json:"result,omitempty"`
	Outfits         *OutfitOutput          `json:"outfits,omitempty"`
	Error           string                 `json:"error,omitempty"`
}

// OutfitOutput is one page of outfit images
type OutfitOutput struct {
	Colors     []string `json:"colors"`
	Gender     string   `json:"gender"`
	Images     []string `json:"images"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Error      string   `json:"error,omitempty"`
}

func createReportOutput(r *Report) *ReportOutput {
	output := &ReportOutput{Source: r.Source}
	if r.Err != nil || r.Result == nil {
		output.Error = errorText(r.Err)
		return output
	}

	output.Season = r.Result.Season
	output.Confidence = r.Result.Confidence
	output.ConfidenceLevel = season.ConfidenceLevel(r.Result.Confidence)
	output.Summary = r.Result.Summary()
	output.Probabilities = r.Result.SortedProbabilities()
	output.Result = r.Result
	if r.Outfits != nil {
		output.Outfits = createOutfitOutput(r.Outfits)
	}
	return output
}

func createOutfitOutput(listing *OutfitListing) *OutfitOutput {
	images := listing.Images
	if images == nil {
		images = []string{}
	}
	colors := listing.Query.PrimaryHexColors
	if colors == nil {
		colors = []string{}
	}
	return &OutfitOutput{
		Colors:     colors,
		Gender:     string(listing.Query.Gender),
		Images:     images,
		Total:      listing.Total,
		Page:       listing.Page,
		TotalPages: listing.TotalPages,
		Error:      errorText(listing.Err),
	}
}
