package interfaces

import (
	"strings"
	"time"
)

// ExportFilename builds the attachment name for a rendered report:
// <report-type>_<entity-name>_<range-start>_<range-end>.<ext> with
// filesystem-unsafe characters replaced by underscores.
func ExportFilename(reportType, entity string, start, end time.Time, ext string) string {
	parts := []string{
		sanitizeName(reportType),
		sanitizeName(entity),
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
	}
	return strings.Join(parts, "_") + "." + ext
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "report"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
