package render

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/plenarlab/bt-agenda/app/agenda"
	"github.com/plenarlab/bt-agenda/app/week"
)

// IcalOptions carry the feed metadata and control the derived event
// blocks of the calendar feed.
type IcalOptions struct {
	// BaseUrl is the public base URL advertised in the SOURCE property.
	BaseUrl string
	// Location is the zone session-week spans are computed in.
	Location *time.Location
	// IncludeRollCalls adds a 15-minute follow-up event after every item
	// closing with a roll-call vote.
	IncludeRollCalls bool
	// RollCallAlarms attaches a 15-minutes-before display alarm to the
	// roll-call events. Only effective with IncludeRollCalls.
	RollCallAlarms bool
	// ShowSessionWeeks adds one all-day Mon-Fri marker per session week
	// present in the rendered set.
	ShowSessionWeeks bool
}

const calendarDescription = "Dieses iCal-Feed stellt die aktuelle Tagesordnung des Plenums des " +
	"Deutschen Bundestages zur Verfügung. Es aktualisiert sich alle 15min selbst. " +
	"Der Sitzungsverlauf ist auch unter bundestag.de/tagesordnung einsehbar, wird " +
	"dort aber nicht maschinenlesbar angeboten."

// Ical renders the item set as an iCalendar feed: CRLF line endings,
// lines hard-folded at 70 octets, embedded newlines escaped as the
// two-character sequence \n.
func Ical(items []agenda.Item, opts IcalOptions) string {
	cal := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//plenarlab//bt-agenda//",
		"CALSCALE:GREGORIAN",
		"COLOR:#808080",
		"X-APPLE-CALENDAR-COLOR:#808080",
		foldLine("X-WR-CALNAME:Tagesordnung Bundestag"),
		foldLine("X-WR-CALDESC:" + calendarDescription),
		foldLine("DESCRIPTION:" + calendarDescription),
		foldLine("SOURCE;VALUE=URI:" + opts.BaseUrl + "/ical"),
		"BEGIN:VTIMEZONE",
		"TZID:Europe/Berlin",
		"BEGIN:STANDARD",
		"TZNAME:CET",
		"DTSTART:19701025T030000",
		"TZOFFSETFROM:+0200",
		"TZOFFSETTO:+0100",
		"RRULE:FREQ=YEARLY;BYMONTH=10;BYDAY=-1SU",
		"END:STANDARD",
		"BEGIN:DAYLIGHT",
		"TZNAME:CEST",
		"DTSTART:19700329T020000",
		"TZOFFSETFROM:+0100",
		"TZOFFSETTO:+0200",
		"RRULE:FREQ=YEARLY;BYMONTH=3;BYDAY=-1SU",
		"END:DAYLIGHT",
		"END:VTIMEZONE",
	}

	type sessionWeek struct {
		year, weekNumber int
	}
	var sessionWeeks []sessionWeek
	seenWeeks := make(map[sessionWeek]bool)

	for _, item := range items {
		sw := sessionWeek{item.Start.Year(), week.Number(item.Start)}
		if !seenWeeks[sw] {
			seenWeeks[sw] = true
			sessionWeeks = append(sessionWeeks, sw)
		}

		summary := item.Thema
		if item.Top != "" {
			summary = item.Top + ": " + item.Thema
		}

		cal = append(cal,
			"BEGIN:VEVENT",
			foldLine("UID:"+item.Uid),
			foldLine("DTSTAMP:"+week.UTCStamp(item.Dtstamp)),
			foldLine("DTSTART:"+week.UTCStamp(item.Start)),
			foldLine("DTEND:"+week.UTCStamp(item.End)),
			foldLine("SUMMARY:"+escapeText(summary)),
			foldLine("DESCRIPTION:"+escapeText(item.Beschreibung)),
		)
		if item.Url != "" {
			cal = append(cal, foldLine("URL:"+item.Url))
		}
		cal = append(cal, "END:VEVENT")

		if opts.IncludeRollCalls && item.NamentlicheAbstimmung {
			cal = append(cal, rollCallEvent(item, opts.RollCallAlarms)...)
		}
	}

	if opts.ShowSessionWeeks {
		loc := opts.Location
		if loc == nil {
			loc = time.Local
		}
		for _, sw := range sessionWeeks {
			monday := week.Monday(sw.weekNumber, sw.year, loc)
			saturday := monday.AddDate(0, 0, 5)

			cal = append(cal,
				"BEGIN:VEVENT",
				foldLine("UID:"+agenda.GenerateUid(monday, "Sitzungswoche", "")),
				foldLine("DTSTAMP:"+week.UTCStamp(time.Now())),
				foldLine("DTSTART;VALUE=DATE:"+week.DateStamp(monday)),
				foldLine("DTEND;VALUE=DATE:"+week.DateStamp(saturday)),
				"SUMMARY:Sitzungswoche",
				"END:VEVENT",
			)
		}
	}

	cal = append(cal, "END:VCALENDAR")

	return strings.Join(cal, "\r\n")
}

// rollCallEvent derives the follow-up event for a roll-call vote:
// starting at the item's end, fixed 15-minute duration.
func rollCallEvent(item agenda.Item, alarm bool) []string {
	start := item.End
	end := start.Add(15 * time.Minute)
	summary := agenda.RollCallMarker + ": " + item.Thema

	lines := []string{
		"BEGIN:VEVENT",
		foldLine("UID:" + agenda.GenerateUid(start, item.Thema, "na")),
		foldLine("DTSTAMP:" + week.UTCStamp(item.Dtstamp)),
		foldLine("DTSTART:" + week.UTCStamp(start)),
		foldLine("DTEND:" + week.UTCStamp(end)),
		foldLine("SUMMARY:" + escapeText(summary)),
	}
	if item.Url != "" {
		lines = append(lines, foldLine("URL:"+item.Url))
	}
	if alarm {
		lines = append(lines,
			"BEGIN:VALARM",
			"ACTION:DISPLAY",
			foldLine("DESCRIPTION:"+escapeText(summary)),
			"TRIGGER:-PT15M",
			"END:VALARM",
		)
	}
	lines = append(lines, "END:VEVENT")

	return lines
}

// foldLine hard-folds a content line longer than 70 octets: cut, CRLF,
// one leading space, continue. The cut backs off to the previous rune
// boundary so a multi-byte character is never split across physical
// lines. Unfolding (CRLF+space removal) reconstructs the original line
// exactly.
func foldLine(line string) string {
	if len(line) <= 70 {
		return line
	}

	var b strings.Builder
	for len(line) > 70 {
		cut := 70
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		if cut == 0 {
			cut = 70
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
	}
	b.WriteString(line)

	return b.String()
}

// escapeText converts embedded newlines into the literal \n sequence.
func escapeText(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}
