// Package upload sends token metadata to the upload service and returns the
// hosted metadata URI.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/observability"
)

// DefaultTimeout bounds one upload request.
const DefaultTimeout = 60 * time.Second

// Request is the metadata sent to the upload service.
type Request struct {
	Name        string
	Symbol      string
	Description string
	Image       []byte
	ImageName   string
	ImageType   string
}

// Client posts multipart metadata to an upload endpoint.
// Uploads are never retried.
type Client struct {
	endpoint string
	client   *http.Client
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates an upload client.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type uploadResponse struct {
	MetadataURI string `json:"metadataUri"`
	Error       string `json:"error"`
}

// Upload sends req and returns the metadata URI. Every failure wraps
// domain.ErrUpload; a non-2xx response carries the service's error text.
func (c *Client) Upload(ctx context.Context, req Request) (uri string, err error) {
	start := time.Now()
	defer func() {
		observability.RecordUpload(time.Since(start).Seconds(), err)
	}()

	body, contentType, err := encodeForm(req)
	if err != nil {
		return "", fmt.Errorf("%w: encode form: %w", domain.ErrUpload, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", domain.ErrUpload, err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpload, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", domain.ErrUpload, err)
	}

	var parsed uploadResponse
	jsonErr := json.Unmarshal(respBody, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if jsonErr == nil && parsed.Error != "" {
			return "", fmt.Errorf("%w: %s", domain.ErrUpload, parsed.Error)
		}
		return "", fmt.Errorf("%w: unexpected status %d: %s", domain.ErrUpload, resp.StatusCode, string(respBody))
	}
	if jsonErr != nil {
		return "", fmt.Errorf("%w: unmarshal response: %w", domain.ErrUpload, jsonErr)
	}

	if err := checkURI(parsed.MetadataURI); err != nil {
		return "", err
	}
	return parsed.MetadataURI, nil
}

// checkURI requires an absolute https URI that fits the metadata record.
func checkURI(uri string) error {
	if uri == "" {
		return fmt.Errorf("%w: response has no metadataUri", domain.ErrUpload)
	}
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%w: metadata uri %q is not https", domain.ErrUpload, uri)
	}
	if len(uri) > domain.MaxURILength {
		return fmt.Errorf("%w: metadata uri exceeds %d characters", domain.ErrUpload, domain.MaxURILength)
	}
	return nil
}

func encodeForm(req Request) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"name", req.Name},
		{"symbol", req.Symbol},
		{"description", req.Description},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if len(req.Image) > 0 {
		filename := req.ImageName
		if filename == "" {
			filename = "image"
		}
		contentType := req.ImageType
		if contentType == "" {
			contentType = http.DetectContentType(req.Image)
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(req.Image); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
