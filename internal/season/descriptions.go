package season

var descriptions = map[string]string{
	"Spring": "Spring types have warm, fresh coloring with golden undertones. You look best in warm, clear colors like coral, peach, and warm greens.",
	"Summer": "Summer types have cool, soft coloring with blue or pink undertones. You look best in soft, cool pastels and muted colors like lavender, soft blue, and rose.",
	"Autumn": "Autumn types have warm, rich coloring with golden or olive undertones. You look best in deep warm colors and earth tones like rust, olive, and warm browns.",
	"Winter": "Winter types have cool, clear coloring with high contrast. You look best in bold, cool, vibrant colors like royal blue, emerald, and true red.",
}

// ConfidenceDescription explains what the confidence figure means
const ConfidenceDescription = "This indicates how certain the classifier is about your color season."

// Describe returns the built-in description for a season, or "" if unknown
func Describe(season string) string {
	return descriptions[season]
}

// ConfidenceLevel maps a confidence in [0,1] to a label
func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.85:
		return "High"
	case confidence >= 0.70:
		return "Good"
	case confidence >= 0.55:
		return "Moderate"
	default:
		return "Low"
	}
}
