package formatter

import (
	"fmt"

	"github.com/yildizm/ColorSeason/internal/season"
)

// percent formats a 0..1 score as a percentage
func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// errorText is the user-facing text for a failed report
func errorText(err error) string {
	if err == nil {
		return ""
	}
	return season.Message(err)
}

// counts returns the number of successful and failed reports
func counts(reports []*Report) (ok, failed int) {
	for _, r := range reports {
		if r.Err != nil || r.Result == nil {
			failed++
		} else {
			ok++
		}
	}
	return ok, failed
}
