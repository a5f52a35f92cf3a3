package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Format identifies the wire format of a downloaded feed document.
type Format string

const (
	FormatXML Format = "xml"
	FormatCSV Format = "csv"
)

// Fetcher downloads feed documents over HTTP.
type Fetcher struct {
	client *resty.Client
}

// NewFetcher creates a feed fetcher. Feed documents can be large, so
// the timeout is longer than the one used for model calls.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := resty.New()
	client.SetTimeout(timeout)
	return &Fetcher{client: client}
}

// Download retrieves the raw feed document at url.
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download feed: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("feed download returned HTTP %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// DetectFormat classifies a downloaded document as XML or CSV. Anything
// starting with an angle bracket is treated as XML.
func DetectFormat(body []byte) Format {
	trimmed := strings.TrimLeft(string(body), " \t\r\n\uFEFF")
	if strings.HasPrefix(trimmed, "<") {
		return FormatXML
	}
	return FormatCSV
}

// Parse decodes a downloaded document according to its format.
func Parse(body []byte, format Format) (*Node, error) {
	switch format {
	case FormatXML:
		return ParseXML(strings.NewReader(string(body)))
	case FormatCSV:
		return ParseCSV(strings.NewReader(string(body)))
	default:
		return nil, fmt.Errorf("unsupported feed format: %s", format)
	}
}
