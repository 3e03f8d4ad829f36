package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"khtherapy-backend/models"
)

// InvoiceExport is the full payload handed to the export adapter. The
// breakdown inside it is authoritative: adapters render it verbatim and never
// recompute figures, which is what keeps the on-screen preview, the PDF
// download and the emailed PDF identical.
type InvoiceExport struct {
	Invoice   models.Invoice       `json:"invoice"`
	Customer  models.Customer      `json:"customer"`
	Items     []models.InvoiceItem `json:"items"`
	Breakdown PresentedBreakdown   `json:"breakdown"`
}

// ExportAdapter renders and delivers invoice PDFs.
type ExportAdapter interface {
	RenderPDF(ctx context.Context, export InvoiceExport) ([]byte, error)
	EmailPDF(ctx context.Context, export InvoiceExport, recipient string) error
}

// HTTPExportAdapter talks to the external render/email service configured
// via EXPORT_SERVICE_URL.
type HTTPExportAdapter struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPExportAdapter() *HTTPExportAdapter {
	return &HTTPExportAdapter{
		BaseURL: os.Getenv("EXPORT_SERVICE_URL"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *HTTPExportAdapter) post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("export service: %s returned %d", path, resp.StatusCode)
	}
	return resp, nil
}

func (a *HTTPExportAdapter) RenderPDF(ctx context.Context, export InvoiceExport) ([]byte, error) {
	resp, err := a.post(ctx, "/render", export)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (a *HTTPExportAdapter) EmailPDF(ctx context.Context, export InvoiceExport, recipient string) error {
	body := struct {
		InvoiceExport
		Recipient string `json:"recipient"`
	}{export, recipient}
	resp, err := a.post(ctx, "/email", body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
