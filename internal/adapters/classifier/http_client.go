package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

const (
	classifyPath = "/classify"
	uploadPath   = "/classify/upload"

	// maxErrorBody caps how much of a failed response is read
	maxErrorBody = 64 << 10
)

// HTTPDoer executes HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient is an implementation of the Classifier interface that talks to
// the classification service over HTTP
type HTTPClient struct {
	baseURL string
	doer    HTTPDoer
	logger  *zap.Logger
}

type classifyRequest struct {
	Content string `json:"content"`
	Subject string `json:"subject,omitempty"`
}

type classifyResponse struct {
	Category          string  `json:"category"`
	Confidence        float64 `json:"confidence"`
	SuggestedResponse string  `json:"suggested_response"`
	OriginalContent   string  `json:"original_content"`
	ProcessedAt       string  `json:"processed_at"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// NewHTTPClient creates a new classification service client. A zero timeout
// leaves the client without a deadline of its own.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	return NewHTTPClientWithDoer(baseURL, &http.Client{Timeout: timeout}, logger)
}

// NewHTTPClientWithDoer creates a client over a caller-supplied doer
func NewHTTPClientWithDoer(baseURL string, doer HTTPDoer, logger *zap.Logger) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    doer,
		logger:  logger,
	}
}

// Classify sends the input to the service and decodes the result
func (c *HTTPClient) Classify(ctx context.Context, input core.ClassificationInput) (*core.ClassificationResult, error) {
	var (
		req *http.Request
		err error
	)
	switch input.Kind {
	case core.InputText:
		req, err = c.textRequest(ctx, input)
	case core.InputFile:
		req, err = c.fileRequest(ctx, input)
	default:
		return nil, fmt.Errorf("unsupported input kind %q", input.Kind)
	}
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		c.logger.Debug("Classification request failed",
			zap.String("path", req.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, &core.TransportFailure{Detail: "classification service timed out", Err: err}
		}
		return nil, &core.TransportFailure{Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("Classification service answered",
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return nil, c.failure(resp)
	}
	return decodeResult(resp.Body)
}

func (c *HTTPClient) textRequest(ctx context.Context, input core.ClassificationInput) (*http.Request, error) {
	body, err := json.Marshal(classifyRequest{
		Content: input.Content,
		Subject: strings.TrimSpace(input.Subject),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+classifyPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *HTTPClient) fileRequest(ctx context.Context, input core.ClassificationInput) (*http.Request, error) {
	if input.File == nil {
		return nil, errors.New("file input without a file")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, input.File.Name))
	contentType := input.File.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(input.File.Data); err != nil {
		return nil, fmt.Errorf("failed to write file part: %w", err)
	}
	if subject := strings.TrimSpace(input.Subject); subject != "" {
		if err := w.WriteField("subject", subject); err != nil {
			return nil, fmt.Errorf("failed to write subject field: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// failure turns a non-200 answer into a TransportFailure carrying the
// service's detail when it sent a textual one
func (c *HTTPClient) failure(resp *http.Response) error {
	f := &core.TransportFailure{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		f.Err = err
		return f
	}

	var body errorResponse
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return f
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		f.Detail = strings.TrimSpace(detail)
	} else {
		// structured details (validation error lists) are not user text
		c.logger.Debug("Ignoring non-text error detail", zap.ByteString("detail", body.Detail))
	}
	return f
}

func decodeResult(r io.Reader) (*core.ClassificationResult, error) {
	var body classifyResponse
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, &core.TransportFailure{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	category := core.Category(body.Category)
	if !category.Valid() {
		return nil, &core.TransportFailure{Err: fmt.Errorf("unknown category %q", body.Category)}
	}
	if math.IsNaN(body.Confidence) || body.Confidence < 0 || body.Confidence > 1 {
		return nil, &core.TransportFailure{Err: fmt.Errorf("confidence %v out of range", body.Confidence)}
	}

	processedAt, err := ParseTimestamp(body.ProcessedAt)
	if err != nil {
		return nil, &core.TransportFailure{Err: err}
	}

	return &core.ClassificationResult{
		Category:          category,
		Confidence:        body.Confidence,
		SuggestedResponse: body.SuggestedResponse,
		OriginalContent:   body.OriginalContent,
		ProcessedAt:       processedAt,
	}, nil
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp accepts RFC 3339 and the offset-less ISO form, which is
// read in local time
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid processed_at %q", s)
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
