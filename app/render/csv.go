package render

import (
	"strings"
	"time"

	"github.com/plenarlab/bt-agenda/app/agenda"
)

var csvHeader = []string{"Start", "Ende", "TOP", "Thema", "Beschreibung", "URL", "Status"}

// Csv renders the items as delimited text. A field containing a quote,
// comma or newline is wrapped in quotes with internal quotes doubled;
// plain fields stay unquoted.
func Csv(items []agenda.Item) string {
	rows := make([]string, 0, len(items)+1)
	rows = append(rows, joinRow(csvHeader))

	for _, item := range items {
		rows = append(rows, joinRow([]string{
			item.Start.Format(time.RFC3339),
			item.End.Format(time.RFC3339),
			item.Top,
			item.Thema,
			item.Beschreibung,
			item.Url,
			item.Status,
		}))
	}

	return strings.Join(rows, "\n")
}

func joinRow(fields []string) string {
	escaped := make([]string, len(fields))
	for i, field := range fields {
		escaped[i] = escapeCsvValue(field)
	}
	return strings.Join(escaped, ",")
}

func escapeCsvValue(value string) string {
	escaped := strings.ReplaceAll(value, `"`, `""`)
	if strings.ContainsAny(escaped, "\",\n") {
		return `"` + escaped + `"`
	}
	return escaped
}
