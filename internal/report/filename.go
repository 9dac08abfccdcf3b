package report

import (
	"fmt"
	"regexp"
	"time"
)

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// sanitizeName replaces every non-alphanumeric character of a display
// name with an underscore, mirroring what the filename will look like
// on any filesystem.
func sanitizeName(name string) string {
	return nonAlnum.ReplaceAllString(name, "_")
}

// GameReportFileName returns the download name for a game report
// exported at ts, e.g. Analise_Final_Taca_2024-05-01.pdf.
func GameReportFileName(gameName string, ts time.Time) string {
	return fmt.Sprintf("Analise_%s_%s.pdf", sanitizeName(gameName), ts.Format("2006-01-02"))
}

// AthleteReportFileName returns the download name for an athlete report
// exported at ts.
func AthleteReportFileName(athleteName string, ts time.Time) string {
	return fmt.Sprintf("Notas_%s_%s.pdf", sanitizeName(athleteName), ts.Format("2006-01-02"))
}
