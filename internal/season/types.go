// Package season holds the domain model shared by the capture workflow:
// colors and palettes, the analysis result, outfit queries and the
// workflow error taxonomy.
package season

import (
	"fmt"
	"sort"
	"strings"
)

// Color is a named palette entry. Values are immutable once decoded.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
	RGB  []int  `json:"rgb,omitempty"`
}

// String returns "Name (#RRGGBB)"
func (c Color) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Hex)
}

// SeasonDescription is the optional descriptive payload the classifier
// returns when asked for it.
type SeasonDescription struct {
	Name                  string              `json:"name"`
	Code                  string              `json:"code"`
	Description           string              `json:"description"`
	Characteristics       map[string]string   `json:"characteristics,omitempty"`
	HairColors            []string            `json:"hair_colors,omitempty"`
	MakeupRecommendations map[string][]string `json:"makeup_recommendations,omitempty"`
	AvoidColors           []Color             `json:"avoid_colors,omitempty"`
}

// AnalysisResult is produced once per successful analysis call and replaced
// wholesale on re-analysis. Confidence and AllProbabilities are taken as the
// server sent them; they are never derived from one another.
type AnalysisResult struct {
	Season             string             `json:"season"`
	PrimaryPalette     []Color            `json:"primary_palette"`
	SecondaryPalette   []Color            `json:"secondary_palette"`
	Confidence         float64            `json:"confidence"`
	AllProbabilities   map[string]float64 `json:"all_probabilities"`
	Description        *SeasonDescription `json:"description,omitempty"`
	FaceMaskingApplied bool               `json:"face_masking_applied"`
	RequestID          string             `json:"request_id,omitempty"`
}

// Probability pairs a season with its score
type Probability struct {
	Season string  `json:"season"`
	Value  float64 `json:"value"`
}

// SortedProbabilities returns all probabilities, highest first. Ties are
// broken by season name so output is stable.
func (r *AnalysisResult) SortedProbabilities() []Probability {
	probs := make([]Probability, 0, len(r.AllProbabilities))
	for name, value := range r.AllProbabilities {
		probs = append(probs, Probability{Season: name, Value: value})
	}
	sort.Slice(probs, func(i, j int) bool {
		if probs[i].Value == probs[j].Value {
			return probs[i].Season < probs[j].Season
		}
		return probs[i].Value > probs[j].Value
	})
	return probs
}

// PrimaryHexColors returns the hex strings of the primary palette in order
func (r *AnalysisResult) PrimaryHexColors() []string {
	hexes := make([]string, 0, len(r.PrimaryPalette))
	for _, c := range r.PrimaryPalette {
		hex := strings.TrimSpace(c.Hex)
		if hex == "" {
			continue
		}
		hexes = append(hexes, hex)
	}
	return hexes
}

// Summary returns the description text to show for the result, preferring
// the server's payload over the built-in copy.
func (r *AnalysisResult) Summary() string {
	if r.Description != nil && r.Description.Description != "" {
		return r.Description.Description
	}
	return Describe(r.Season)
}

// Gender is the outfit filter
type Gender string

const (
	GenderAll    Gender = "all"
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender parses a user-supplied filter value. Empty means all.
func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case "", GenderAll:
		return GenderAll, nil
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	default:
		return GenderAll, fmt.Errorf("invalid gender filter: %s (must be one of: all, male, female)", s)
	}
}

// Next cycles all -> female -> male -> all
func (g Gender) Next() Gender {
	switch g {
	case GenderAll:
		return GenderFemale
	case GenderFemale:
		return GenderMale
	default:
		return GenderAll
	}
}

// Label returns a display label
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return "All"
	}
}

// OutfitQuery is derived from a result's primary palette and the user's filter
type OutfitQuery struct {
	PrimaryHexColors []string `json:"primary_hex_colors"`
	Gender           Gender   `json:"gender"`
}

// NewOutfitQuery derives the outfit query for a result
func NewOutfitQuery(result *AnalysisResult, gender Gender) OutfitQuery {
	if gender == "" {
		gender = GenderAll
	}
	var hexes []string
	if result != nil {
		hexes = result.PrimaryHexColors()
	}
	return OutfitQuery{PrimaryHexColors: hexes, Gender: gender}
}

// Filtered reports whether the query carries a gender filter
func (q OutfitQuery) Filtered() bool {
	return q.Gender == GenderMale || q.Gender == GenderFemale
}

// Key identifies the query; two queries with the same key return the same outfits
func (q OutfitQuery) Key() string {
	return string(q.Gender) + "|" + strings.Join(q.PrimaryHexColors, ",")
}
