package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDocs serves the static documentation page.
func (h *Handler) GetDocs(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsHTML))
}

const docsHTML = `<!DOCTYPE html>
<html lang="de">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Bundestag Tagesordnung API</title>
    <meta name="description" content="Endlich maschinenlesbar und als Kalender-Feed: Die Tagesordnung des Bundestages.">
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 0; background-color: #f4f4f4; color: #333; }
        header { background-color: #0a4445; color: white; text-align: center; padding: 20px 0; }
        h1 { font-size: 2em; margin: 0; }
        h2 { font-size: 1.7em; color: #0a4445; margin-top: 2.5rem; margin-bottom: 0; }
        main { max-width: 800px; margin: 20px auto; padding: 20px; background-color: #fff; border-radius: 8px; }
        code { background-color: #e8e8e8; padding: 2px 4px; border-radius: 4px; }
        ul.data { list-style-type: none; }
        a { color: #0a4445; }
        footer { text-align: center; margin: 20px 0; padding: 10px; font-size: 0.8em; color: #777; }
    </style>
</head>
<body>

<header>
    <h1>Bundestag Tagesordnung</h1>
    <p>Inoffizielle iCal-, JSON-, XML- und CSV-API.</p>
</header>

<main>
    <section id="hintergrund">
        <h2>Hintergrund</h2>
        <p>Der Deutsche Bundestag stellt seine Tagesordnung online zur Verfügung &ndash;
        nur leider in keinem maschinenlesbaren Format. Diese API scraped die aktuelle
        Tagesordnung von der Website des Deutschen Bundestags und speichert sie in einer
        Key-Value-Datenbank zwischen. Die Tagesordnungspunkte der laufenden Sitzungswoche
        werden alle 15min aktualisiert; vergangene Sitzungswochen und ganze Jahre können
        ebenfalls abgefragt werden.</p>
    </section>

    <section id="feed-abonnieren">
        <h2>Kalenderfeed abonnieren</h2>
        <p>Die Tagesordnungen des laufenden Jahres als iCal-Feed: <code>/ical</code>.
        Die Kalendereinträge enthalten Startzeit, TOP, Thema, den aktuellen Status des
        Tagesordnungspunktes, den Beschreibungstext und, falls vorhanden, einen Link zum
        zugehörigen Artikel im bundestag.de-Textarchiv.</p>
    </section>

    <section id="api-endpoints">
        <h2>API Endpoints</h2>
        <p><code>GET /ical</code> (alias <code>/ics</code>), <code>GET /json</code>,
        <code>GET /xml</code>, <code>GET /csv</code></p>
        <p>GET-Parameter:</p>
        <ul>
            <li><code>year</code>: Jahr (optional, Standard: laufendes Jahr)</li>
            <li><code>week</code>: Kalenderwoche (optional; mit <code>year</code> kombinierbar)</li>
            <li><code>month</code>: Monat (optional)</li>
            <li><code>day</code>: Tag (optional)</li>
            <li><code>status</code>: Filter auf den Status-Text (optional)</li>
        </ul>
        <p>Nur für <code>/ical</code>:</p>
        <ul>
            <li><code>na</code>: Folgetermine für Namentliche Abstimmungen einfügen</li>
            <li><code>naAlarm</code>: Erinnerung 15min vor Namentlichen Abstimmungen (nur mit <code>na</code>)</li>
            <li><code>showSW</code>: Sitzungswochen als ganztägige Termine markieren</li>
        </ul>
    </section>

    <section id="vorhandene-daten">
        <h2>Vorhandene Daten</h2>
        <p>Abfragen sind auf Datensätze ab 2020 begrenzt.</p>
        <ul id="data-list" class="data">
            <li>Daten werden geladen...</li>
        </ul>
    </section>
</main>

<footer>
    bt-agenda
</footer>

<script>
    document.addEventListener("DOMContentLoaded", async () => {
        const response = await fetch("data-list");
        const kvData = await response.json();
        const dataListElement = document.getElementById("data-list");

        const years = Object.keys(kvData).sort((a, b) => b - a);
        let dataListHtml = '';

        years.forEach(year => {
            const weeks = (kvData[year] || []).sort((a, b) => a - b);
            let weeksHtml = '';
            if (weeks.length === 0) {
                weeksHtml = '<li>keine Daten</li>';
            } else {
                weeks.forEach(week => {
                    weeksHtml += '<li>Kalenderwoche ' + week +
                        ' (<a href="ical?year=' + year + '&week=' + week + '">iCal</a> | ' +
                        '<a href="json?year=' + year + '&week=' + week + '">JSON</a> | ' +
                        '<a href="xml?year=' + year + '&week=' + week + '">XML</a> | ' +
                        '<a href="csv?year=' + year + '&week=' + week + '">CSV</a>)</li>';
                });
            }
            dataListHtml += '<li><strong>' + year + '</strong><ul class="data">' + weeksHtml + '</ul></li>';
        });

        dataListElement.innerHTML = dataListHtml;
    });
</script>

</body>
</html>
`
