package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"potato-classifier/internal/models"
)

const (
	DefaultTimeout = 30 * time.Second
	predictPath    = "/predict-image"
	formField      = "file"
	// error bodies beyond this are not worth reading
	maxErrorBody = 64 << 10
)

type Options struct {
	Endpoint string
	Timeout  time.Duration
}

type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// predictResponse is the success body, {"prediction": 0|1}. Fields are kept
// raw so a string "1" or a null is caught instead of coerced.
type predictResponse struct {
	Prediction json.RawMessage `json:"prediction"`
	Confidence json.RawMessage `json:"confidence"`
	Error      string          `json:"error"`
}

func NewClient(opts Options, logger *slog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(opts.Endpoint, "/"),
		timeout: timeout,
		// The per-call context carries the deadline.
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (c *Client) Endpoint() string {
	return c.baseURL + predictPath
}

// Submit uploads file once and returns the classification. Every failure is a
// *Error; there are no retries.
func (c *Client) Submit(ctx context.Context, file models.CandidateFile) (*models.PredictionResult, error) {
	body, contentType, err := encodeFile(file)
	if err != nil {
		return nil, newError(models.ErrorUnknown, "", 0, fmt.Errorf("failed to encode file: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), body)
	if err != nil {
		return nil, newError(models.ErrorUnknown, "", 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		kind := classifyTransport(ctx, err)
		c.logger.Warn("prediction request failed", "endpoint", c.Endpoint(), "kind", kind, "error", err)
		detail := ""
		if kind == models.ErrorNetworkUnreachable {
			detail = c.baseURL
		}
		return nil, newError(kind, detail, 0, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		serverMsg := errorMessage(raw)
		c.logger.Warn("prediction service returned an error",
			"status", resp.StatusCode, "message", serverMsg)
		return nil, newError(models.ErrorServerError, serverMsg, resp.StatusCode,
			fmt.Errorf("prediction failed: status %d, body: %s", resp.StatusCode, string(raw)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		kind := classifyTransport(ctx, err)
		if kind == models.ErrorNetworkUnreachable {
			kind = models.ErrorServerError
		}
		return nil, newError(kind, "", resp.StatusCode, fmt.Errorf("failed to read response body: %w", err))
	}

	result, err := decodeResult(raw)
	if err != nil {
		return nil, newError(models.ErrorServerError, errorMessage(raw), resp.StatusCode, err)
	}

	c.logger.Debug("prediction received", "label", result.Label, "elapsed", time.Since(started))
	return result, nil
}

func encodeFile(file models.CandidateFile) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	name := file.Name
	if name == "" {
		name = "upload"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, formField, name))
	if file.MIMEType != "" {
		header.Set("Content-Type", file.MIMEType)
	} else {
		header.Set("Content-Type", "application/octet-stream")
	}

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func decodeResult(raw []byte) (*models.PredictionResult, error) {
	var body predictResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w, body: %s", err, string(raw))
	}

	value, err := parseNumber(body.Prediction)
	if err != nil {
		return nil, fmt.Errorf("invalid prediction field: %w, body: %s", err, string(raw))
	}

	result := &models.PredictionResult{Label: models.LabelFromPrediction(value)}

	if len(body.Confidence) > 0 && string(body.Confidence) != "null" {
		confidence, err := parseNumber(body.Confidence)
		if err != nil {
			return nil, fmt.Errorf("invalid confidence field: %w", err)
		}
		if confidence < 0 || confidence > 100 {
			return nil, fmt.Errorf("confidence %v outside [0,100]", confidence)
		}
		result.Confidence = &confidence
	}

	return result, nil
}

func parseNumber(raw json.RawMessage) (float64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, errors.New("missing")
	}
	if c := s[0]; c != '-' && (c < '0' || c > '9') {
		return 0, fmt.Errorf("not a number: %s", s)
	}
	return strconv.ParseFloat(s, 64)
}

// errorMessage pulls the human readable text out of an error body. FastAPI
// reports request validation problems under "detail".
func errorMessage(raw []byte) string {
	var body struct {
		Error  string          `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		return detail
	}
	return ""
}
