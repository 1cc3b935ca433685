package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/yildizm/ColorSeason/internal/season"
)

// csvFormatter formats one row per analyzed image
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(reports []*Report) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	headers := []string{
		"Source",
		"Season",
		"Confidence",
		"Confidence Level",
		"Primary Colors",
		"Secondary Colors",
		"Face Masking",
		"Error",
	}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range reports {
		record := []string{r.Source, "", "", "", "", "", "", errorText(r.Err)}
		if r.Err == nil && r.Result != nil {
			record[1] = r.Result.Season
			record[2] = strconv.FormatFloat(r.Result.Confidence, 'f', 4, 64)
			record[3] = season.ConfidenceLevel(r.Result.Confidence)
			record[4] = hexList(r.Result.PrimaryHexColors())
			record[5] = hexList(secondaryHexes(r))
			record[6] = strconv.FormatBool(r.Result.FaceMaskingApplied)
		} else if record[7] == "" {
			record[7] = "no result"
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return b.Bytes(), nil
}

func (f *csvFormatter) FormatOutfits(listing *OutfitListing) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if err := writer.Write([]string{"Page", "Position", "Gender", "Image URL"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for i, url := range listing.Images {
		record := []string{
			strconv.Itoa(listing.Page),
			strconv.Itoa(i + 1),
			string(listing.Query.Gender),
			url,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return b.Bytes(), nil
}

func secondaryHexes(r *Report) []string {
	hexes := make([]string, 0, len(r.Result.SecondaryPalette))
	for _, c := range r.Result.SecondaryPalette {
		if c.Hex != "" {
			hexes = append(hexes, c.Hex)
		}
	}
	return hexes
}

// hexList joins hex values with spaces so the cell stays a single field
func hexList(hexes []string) string {
	return strings.Join(hexes, " ")
}
