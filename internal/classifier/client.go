// Package classifier talks to the remote waste-classification service. The
// model itself is opaque to this system; this package owns only the wire
// format.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/medwaste/classify-be/internal/models"
)

// ErrClassificationFailed is returned for any failure of the remote
// classification service. No record exists yet at that point, so callers
// surface it directly. Handlers translate this into a 502.
var ErrClassificationFailed = errors.New("classification failed")

// Result is the classification service's response for one image.
type Result struct {
	TopCategory    string              `json:"top_category"`
	Confidence     float64             `json:"confidence"`
	AllPredictions []models.Prediction `json:"all_predictions"`
	Timestamp      float64             `json:"timestamp"`
	Filename       string              `json:"filename"`
}

// Client is an HTTP client for the classification service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the service at baseURL. No timeout is imposed
// beyond the transport default; a hanging call is the caller's context's
// problem.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// Classify uploads an image as multipart form data and returns the
// service's prediction.
func (c *Client) Classify(ctx context.Context, filename string, image io.Reader) (Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	if err := writer.Close(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/classify", &body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error != "" {
			return Result{}, fmt.Errorf("%w: %s", ErrClassificationFailed, apiErr.Error)
		}
		return Result{}, fmt.Errorf("%w: unexpected status %d", ErrClassificationFailed, resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	return result, nil
}

// Categories fetches the disposal category catalog.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/categories", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrClassificationFailed, resp.StatusCode)
	}

	var catalog struct {
		Categories []models.Category `json:"categories"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	return catalog.Categories, nil
}
