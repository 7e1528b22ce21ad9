package agenda

import (
	"testing"
	"time"
)

const conferenceWeekFixture = `
<div class="bt-standard-content">
<table class="bt-table-data">
<caption><div class="bt-conference-title">17. Januar 2024 (42. Sitzung)</div></caption>
<thead><tr><th>Uhrzeit</th><th>TOP</th><th>Thema</th><th>Status/ Abstimmung</th></tr></thead>
<tbody>
<tr>
  <td data-th="Uhrzeit">09:00</td>
  <td data-th="TOP"></td>
  <td data-th="Thema"></td>
  <td data-th="Status/ Abstimmung"></td>
</tr>
<tr>
  <td data-th="Uhrzeit">09:00</td>
  <td data-th="TOP">5</td>
  <td data-th="Thema">
    <a class="bt-top-collapser">Haushaltsfinanzierungsgesetz 2024</a>
    <p>Erste Beratung<br>Drucksache 20/9999</p>
    <div><div><div><button data-url="/dokumente/textarchiv/2024/kw03-de-haushalt-986276">Mehr</button></div></div></div>
  </td>
  <td data-th="Status/ Abstimmung"><p>&Uuml;berweisung beschlossen</p></td>
</tr>
<tr>
  <td data-th="Uhrzeit">10:30</td>
  <td data-th="TOP">5, 6</td>
  <td data-th="Thema">
    <a class="bt-top-collapser">Wahlrechtsreform</a>
    <p>Abschlie&szlig;ende Beratung<br>Namentliche Abstimmung</p>
  </td>
  <td data-th="Status/ Abstimmung"></td>
</tr>
<tr>
  <td data-th="Uhrzeit">10:30</td>
  <td data-th="TOP">ZP 1</td>
  <td data-th="Thema">
    <a class="bt-top-collapser">Aktuelle Stunde</a>
  </td>
  <td data-th="Status/ Abstimmung"></td>
</tr>
<tr>
  <td data-th="Uhrzeit">23:30</td>
  <td data-th="TOP">8</td>
  <td data-th="Thema">
    <a class="bt-top-collapser">Nachtsitzung</a>
  </td>
  <td data-th="Status/ Abstimmung"></td>
</tr>
<tr>
  <td data-th="Uhrzeit">00:15</td>
  <td data-th="TOP"></td>
  <td data-th="Thema"></td>
  <td data-th="Status/ Abstimmung"></td>
</tr>
</tbody>
</table>
<table class="bt-table-data">
<caption><div class="bt-conference-title">18. Januar 2024 (43. Sitzung)</div></caption>
<tbody>
<tr>
  <td data-th="Uhrzeit">09:00</td>
  <td data-th="TOP"></td>
  <td data-th="Thema"></td>
</tr>
<tr>
  <td data-th="Uhrzeit">entf&auml;llt</td>
  <td data-th="TOP">11</td>
  <td data-th="Thema"><a class="bt-top-collapser">Abgesetzter Punkt</a></td>
</tr>
<tr>
  <td data-th="Uhrzeit">14:00</td>
  <td data-th="TOP">12</td>
  <td data-th="Thema"><a class="bt-top-collapser">Fragestunde</a></td>
</tr>
<tr>
  <td data-th="Uhrzeit">15:00</td>
  <td data-th="TOP"></td>
  <td data-th="Thema"></td>
</tr>
</tbody>
</table>
</div>
`

func newTestParser(t *testing.T) *Parser {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}

	p := NewParser(loc)
	p.now = func() time.Time {
		return time.Date(2024, 1, 17, 8, 0, 0, 0, loc)
	}

	return p
}

func TestParserRun(t *testing.T) {
	p := newTestParser(t)

	items, err := p.Run([]byte(conferenceWeekFixture))
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}

	loc := p.loc

	first := items[0]
	if !first.Start.Equal(time.Date(2024, 1, 17, 9, 0, 0, 0, loc)) {
		t.Errorf("first item start = %s, want 09:00", first.Start)
	}
	if !first.End.Equal(time.Date(2024, 1, 17, 10, 30, 0, 0, loc)) {
		t.Errorf("first item end = %s, want 10:30", first.End)
	}
	if first.Top != "TOP 5" {
		t.Errorf("first item top = %q, want %q", first.Top, "TOP 5")
	}
	if first.Thema != "Haushaltsfinanzierungsgesetz 2024" {
		t.Errorf("first item thema = %q", first.Thema)
	}
	wantDescription := "Status: Überweisung beschlossen\n\nErste Beratung\nDrucksache 20/9999"
	if first.Beschreibung != wantDescription {
		t.Errorf("first item beschreibung = %q, want %q", first.Beschreibung, wantDescription)
	}
	if first.Status != "Überweisung beschlossen" {
		t.Errorf("first item status = %q", first.Status)
	}
	if first.Url != "https://bundestag.de/dokumente/textarchiv/2024/kw03-de-haushalt-986276" {
		t.Errorf("first item url = %q", first.Url)
	}
	if first.NamentlicheAbstimmung {
		t.Error("first item must not be flagged as roll call")
	}
	if first.Uid == "" {
		t.Error("first item uid must not be empty")
	}
	if !first.Dtstamp.Equal(p.now()) {
		t.Errorf("first item dtstamp = %s, want parser clock", first.Dtstamp)
	}
}

func TestParserZeroDurationGetsDefault(t *testing.T) {
	p := newTestParser(t)

	items, err := p.Run([]byte(conferenceWeekFixture))
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	// Second and third item share the 10:30 boundary.
	rollCall := items[1]
	if rollCall.Thema != "Wahlrechtsreform" {
		t.Fatalf("unexpected second item %q", rollCall.Thema)
	}
	if !rollCall.End.Equal(rollCall.Start.Add(15 * time.Minute)) {
		t.Errorf("zero-duration item end = %s, want start+15m", rollCall.End)
	}
	if rollCall.Top != "TOP 5, TOP 6" {
		t.Errorf("second item top = %q, want %q", rollCall.Top, "TOP 5, TOP 6")
	}
	if !rollCall.NamentlicheAbstimmung {
		t.Error("item whose description ends with the marker must be flagged as roll call")
	}
}

func TestParserOvernightRollover(t *testing.T) {
	p := newTestParser(t)

	items, err := p.Run([]byte(conferenceWeekFixture))
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	night := items[3]
	if night.Thema != "Nachtsitzung" {
		t.Fatalf("unexpected fourth item %q", night.Thema)
	}

	wantEnd := time.Date(2024, 1, 18, 0, 15, 0, 0, p.loc)
	if !night.End.Equal(wantEnd) {
		t.Errorf("overnight item end = %s, want %s", night.End, wantEnd)
	}
}

func TestParserSkipsMalformedRows(t *testing.T) {
	p := newTestParser(t)

	items, err := p.Run([]byte(conferenceWeekFixture))
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	// The second table has one row without a parseable time. The row
	// after it still parses.
	last := items[len(items)-1]
	if last.Thema != "Fragestunde" {
		t.Errorf("last item thema = %q, want %q", last.Thema, "Fragestunde")
	}
	if !last.Start.Equal(time.Date(2024, 1, 18, 14, 0, 0, 0, p.loc)) {
		t.Errorf("last item start = %s, want 14:00", last.Start)
	}

	for _, item := range items {
		if item.Thema == "Abgesetzter Punkt" {
			t.Error("row with malformed time must be skipped")
		}
	}
}

func TestParserSkipsTableWithBrokenTitle(t *testing.T) {
	p := newTestParser(t)

	broken := `
<table class="bt-table-data">
<caption><div class="bt-conference-title">Sitzung entfällt</div></caption>
<tbody>
<tr><td data-th="Uhrzeit">09:00</td></tr>
<tr><td data-th="Uhrzeit">10:00</td></tr>
<tr><td data-th="Uhrzeit">11:00</td></tr>
</tbody>
</table>
`

	items, err := p.Run([]byte(broken))
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items from a table without a parseable date, got %d", len(items))
	}
}

func TestParserEmptyPage(t *testing.T) {
	p := newTestParser(t)

	items, err := p.Run([]byte("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items from an empty page, got %d", len(items))
	}
}
