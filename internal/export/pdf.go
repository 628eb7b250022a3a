package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// PDFExporter wraps Gotenberg interactions for document exports.
type PDFExporter struct {
	Endpoint string
	Client   *http.Client
}

// Configured reports whether a Gotenberg endpoint is available. Without one
// the handlers fall back to serving the printable HTML directly.
func (p *PDFExporter) Configured() bool {
	return p != nil && strings.TrimSpace(p.Endpoint) != ""
}

// Render converts the table's printable document into PDF bytes.
func (p *PDFExporter) Render(ctx context.Context, table Table) ([]byte, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("pdf exporter not configured")
	}
	endpoint := strings.TrimRight(p.Endpoint, "/")
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	html := BuildDocumentHTML(table, time.Now())
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("gotenberg response %d: %s", resp.StatusCode, string(data))
	}

	return io.ReadAll(resp.Body)
}
