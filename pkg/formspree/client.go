// Package formspree posts completed forms to a form-processing endpoint.
package formspree

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Multipart field names expected by the endpoint
const (
	FieldCV             = "cv"
	FieldSubmissionData = "submission_data"
)

// StatusError is returned when the endpoint answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("formspree: status %d: %s", e.StatusCode, e.Body)
}

// File is an optional file part
type File struct {
	Name string
	Data []byte
}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send posts payload once. Without a file the payload is the JSON body;
// with a file the body is multipart with the file under "cv" and the
// payload JSON under "submission_data".
func (c *Client) Send(ctx context.Context, payload any, file *File) error {
	var (
		body        bytes.Buffer
		contentType string
	)

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("formspree: encode payload: %w", err)
	}

	if file == nil {
		body.Write(data)
		contentType = "application/json"
	} else {
		w := multipart.NewWriter(&body)
		part, err := w.CreateFormFile(FieldCV, file.Name)
		if err != nil {
			return fmt.Errorf("formspree: create file part: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return fmt.Errorf("formspree: write file part: %w", err)
		}
		if err := w.WriteField(FieldSubmissionData, string(data)); err != nil {
			return fmt.Errorf("formspree: write data part: %w", err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("formspree: close multipart: %w", err)
		}
		// Boundary comes from the writer
		contentType = w.FormDataContentType()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("formspree: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
