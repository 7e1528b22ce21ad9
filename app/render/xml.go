package render

import (
	"bytes"
	"encoding/xml"
	"time"

	"github.com/plenarlab/bt-agenda/app/agenda"
)

// Xml renders the items as an <agenda> document with one <event> per
// item. Empty optional fields (status, url) are omitted.
func Xml(items []agenda.Item) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n<agenda>\n")

	for _, item := range items {
		buf.WriteString("  <event>\n")
		writeElement(&buf, "start", item.Start.Format(time.RFC3339))
		writeElement(&buf, "end", item.End.Format(time.RFC3339))
		writeElement(&buf, "top", item.Top)
		writeElement(&buf, "thema", item.Thema)
		if item.Status != "" {
			writeElement(&buf, "status", item.Status)
		}
		writeElement(&buf, "beschreibung", item.Beschreibung)
		if item.Url != "" {
			writeElement(&buf, "url", item.Url)
		}
		buf.WriteString("  </event>\n")
	}

	buf.WriteString("</agenda>")

	return buf.String()
}

func writeElement(buf *bytes.Buffer, tag, content string) {
	buf.WriteString("    <")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
