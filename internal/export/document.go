package export

import (
	"strings"
	"time"
)

// BuildDocumentHTML renders the table as a printable page: a title line with
// the filename, a generation timestamp, and a zebra-striped bordered table.
// The page either goes to Gotenberg for PDF conversion or straight to the
// browser, whose print flow handles save-as-PDF.
func BuildDocumentHTML(table Table, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(htmlEscape(table.Filename))
	b.WriteString("</title><style>")
	b.WriteString("body{font-family:Arial,sans-serif;margin:20px;}")
	b.WriteString("h1{color:#16a34a;margin-bottom:20px;}")
	b.WriteString("table{width:100%;border-collapse:collapse;margin-top:20px;}")
	b.WriteString("th,td{border:1px solid #ddd;padding:8px;text-align:left;}")
	b.WriteString("th{background-color:#f8f9fa;font-weight:bold;}")
	b.WriteString("tr:nth-child(even){background-color:#f8f9fa;}")
	b.WriteString(".timestamp{color:#666;font-size:12px;}")
	b.WriteString("@media print{body{margin:0;}.no-print{display:none;}}")
	b.WriteString("</style></head><body>")

	b.WriteString("<div class=\"header\"><h1>LOGISAMB - ")
	b.WriteString(htmlEscape(table.Filename))
	b.WriteString("</h1><p class=\"timestamp\">Generado el: ")
	b.WriteString(generatedAt.Format("02/01/2006 15:04:05"))
	b.WriteString("</p></div>")

	b.WriteString("<table><thead><tr>")
	for _, header := range table.Headers {
		b.WriteString("<th>")
		b.WriteString(htmlEscape(header))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range table.Rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>")
			b.WriteString(htmlEscape(cellString(cell)))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></body></html>")
	return b.String()
}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&#39;",
)

func htmlEscape(v string) string {
	return htmlReplacer.Replace(v)
}
