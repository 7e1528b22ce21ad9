package agenda

import (
	"bytes"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// months resolves the localized month names used in the conference-day
// table headers ("17. Januar 2024").
var months = map[string]time.Month{
	"Januar":    time.January,
	"Februar":   time.February,
	"März":      time.March,
	"April":     time.April,
	"Mai":       time.May,
	"Juni":      time.June,
	"Juli":      time.July,
	"August":    time.August,
	"September": time.September,
	"Oktober":   time.October,
	"November":  time.November,
	"Dezember":  time.December,
}

// Parser converts the raw conference-week markup into canonical items.
type Parser struct {
	loc *time.Location
	now func() time.Time
}

func NewParser(loc *time.Location) *Parser {
	return &Parser{
		loc: loc,
		now: time.Now,
	}
}

// Run parses every conference-day table in the page. A malformed row
// fails only that item: it is skipped with a warning and the rest of the
// page still parses.
func (p *Parser) Run(data []byte) ([]Item, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse agenda markup: %w", err)
	}

	var items []Item

	doc.Find("table.bt-table-data").Each(func(_ int, table *goquery.Selection) {
		date, err := p.parseConferenceDate(table)
		if err != nil {
			slog.Warn("Skipping conference table", "error", err)
			return
		}

		rows := table.Find("tbody > tr")

		// The table encodes a sequence of boundary timestamps: an item's
		// end time is the next row's time, and the last row only
		// terminates the preceding item.
		for i := 1; i < rows.Length()-1; i++ {
			item, err := p.parseRow(rows.Eq(i), rows.Eq(i+1), date)
			if err != nil {
				slog.Warn("Skipping agenda row", "date", date.Format("2006-01-02"), "row", i, "error", err)
				continue
			}
			items = append(items, item)
		}
	})

	return items, nil
}

// parseConferenceDate resolves the localized date string in the table
// header, e.g. "17. Januar 2024 (3. Sitzungstag)".
func (p *Parser) parseConferenceDate(table *goquery.Selection) (time.Time, error) {
	title := table.Find("div.bt-conference-title").Text()
	dateStr := strings.TrimSpace(strings.SplitN(title, "(", 2)[0])

	fields := strings.Fields(strings.ReplaceAll(dateStr, ".", ""))
	if len(fields) != 3 {
		return time.Time{}, fmt.Errorf("unexpected conference title %q", title)
	}

	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day in conference title %q: %w", title, err)
	}

	month, ok := months[fields[1]]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month name %q", fields[1])
	}

	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in conference title %q: %w", title, err)
	}

	return time.Date(year, month, day, 0, 0, 0, 0, p.loc), nil
}

func (p *Parser) parseRow(row, next *goquery.Selection, date time.Time) (Item, error) {
	start, err := p.parseClock(row, date)
	if err != nil {
		return Item{}, fmt.Errorf("invalid start time: %w", err)
	}

	end, err := p.parseClock(next, date)
	if err != nil {
		return Item{}, fmt.Errorf("invalid end time: %w", err)
	}

	// Parallel items share a boundary timestamp; give them a default
	// 15-minute duration. Items running past midnight roll over.
	if end.Equal(start) {
		end = end.Add(15 * time.Minute)
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	top := NormalizeTop(strings.TrimSpace(row.Find(`td[data-th="TOP"]`).Text()))
	thema := strings.TrimSpace(row.Find(`td[data-th="Thema"] a.bt-top-collapser`).Text())
	beschreibung := p.richText(row.Find(`td[data-th="Thema"] p`))
	status := p.richText(row.Find(`td[data-th="Status/ Abstimmung"] p`))

	url := ""
	if path, ok := row.Find(`td[data-th="Thema"] div div div button`).Attr("data-url"); ok {
		url = "https://bundestag.de" + path
	}

	description := ComposeDescription(status, beschreibung)

	return Item{
		Start:                 start,
		End:                   end,
		Top:                   top,
		Thema:                 thema,
		Beschreibung:          description,
		Url:                   url,
		Status:                status,
		NamentlicheAbstimmung: IsRollCall(description),
		Uid:                   GenerateUid(start, thema, top),
		Dtstamp:               p.now(),
	}, nil
}

// parseClock reads the HH:MM time cell of a row against the table date.
func (p *Parser) parseClock(row *goquery.Selection, date time.Time) (time.Time, error) {
	text := strings.TrimSpace(row.Find(`td[data-th="Uhrzeit"]`).Text())

	parts := strings.SplitN(text, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("malformed time %q", text)
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed hour in %q: %w", text, err)
	}

	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed minute in %q: %w", text, err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, p.loc), nil
}

var (
	lineBreaks = regexp.MustCompile(`(?i)<br\s*/?>`)
	markupTags = regexp.MustCompile(`<[^>]+>`)
)

// richText flattens a rich-text cell: inline line breaks become literal
// newlines, all other markup is stripped.
func (p *Parser) richText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}

	raw, err := sel.Html()
	if err != nil {
		return ""
	}

	text := lineBreaks.ReplaceAllString(raw, "\n")
	text = markupTags.ReplaceAllString(text, "")
	return strings.TrimSpace(html.UnescapeString(text))
}
