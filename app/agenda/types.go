package agenda

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// uidDomain is the fixed suffix of generated event UIDs.
const uidDomain = "bt-agenda.dev"

// RollCallMarker is the phrase the Bundestag appends to the description
// of an agenda item that closes with a recorded, named vote.
const RollCallMarker = "Namentliche Abstimmung"

// Item is the canonical agenda record. Start and End are civil local
// times in the configured zone; renderers convert at the edge. The JSON
// field names are part of the public API and must not change.
type Item struct {
	Start                 time.Time `json:"start"`
	End                   time.Time `json:"end"`
	Top                   string    `json:"top"`
	Thema                 string    `json:"thema"`
	Beschreibung          string    `json:"beschreibung"`
	Url                   string    `json:"url"`
	Status                string    `json:"status"`
	NamentlicheAbstimmung bool      `json:"namentliche_abstimmung"`
	Uid                   string    `json:"uid"`
	Dtstamp               time.Time `json:"dtstamp"`
}

// EquivalentTo reports whether two items carry the same agenda content.
// Dtstamp is excluded: it is freshly stamped on every scrape and would
// make every reconciliation look like a change.
func (i Item) EquivalentTo(other Item) bool {
	return i.Start.Equal(other.Start) &&
		i.End.Equal(other.End) &&
		i.Top == other.Top &&
		i.Thema == other.Thema &&
		i.Beschreibung == other.Beschreibung &&
		i.Url == other.Url &&
		i.Status == other.Status &&
		i.NamentlicheAbstimmung == other.NamentlicheAbstimmung &&
		i.Uid == other.Uid
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// GenerateUid derives the stable event identifier from the start time,
// topic and TOP label: <start-millis>-<slug(thema)>-<slug(top)>@<domain>.
func GenerateUid(start time.Time, thema, top string) string {
	return fmt.Sprintf("%d-%s-%s@%s", start.UnixMilli(), slugify(thema), slugify(top), uidDomain)
}

func slugify(s string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(s, "-"))
}

var bareNumber = regexp.MustCompile(`^\d+$`)

// NormalizeTop prefixes bare agenda-item numbers with the "TOP" marker.
// Comma-joined labels are normalized independently: "5" becomes "TOP 5",
// "TOP 5, 6" becomes "TOP 5, TOP 6", "ZP 1" stays untouched.
func NormalizeTop(top string) string {
	parts := strings.Split(top, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if bareNumber.MatchString(part) {
			part = "TOP " + part
		}
		parts[i] = part
	}
	return strings.Join(parts, ", ")
}

// ComposeDescription builds the rendered description: the status line is
// prepended when present, separated by a blank line.
func ComposeDescription(status, beschreibung string) string {
	if status != "" {
		return fmt.Sprintf("Status: %s\n\n%s", status, beschreibung)
	}
	return beschreibung
}

// IsRollCall reports whether the composed description ends with the
// roll-call vote marker.
func IsRollCall(beschreibung string) bool {
	return strings.HasSuffix(strings.TrimSpace(beschreibung), RollCallMarker)
}
