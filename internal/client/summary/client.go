package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chalkroute/core/internal/pkg/videoref"
	"go.uber.org/zap"
)

const (
	// EmptySummaryWarning flags a completion whose summary text was empty.
	// It is a soft condition; the request still resolved.
	EmptySummaryWarning = "the server returned an empty summary"

	defaultStallTimeout = 90 * time.Second
)

// Request describes one summary generation. VideoRef is the URL-safe
// encoded form of the source URL.
type Request struct {
	VideoRef    string
	Language    string
	Mode        string // "video" | "podcast"
	AIModel     string
	ClassID     string
	SubjectID   string
	Title       string
	Description string
}

// ProgressEvent is one progress record forwarded to the caller.
type ProgressEvent struct {
	Stage        string `json:"stage"`
	CurrentChunk int    `json:"currentChunk"`
	TotalChunks  int    `json:"totalChunks"`
	Message      string `json:"message"`
}

// Result is the terminal payload of a successful generation.
type Result struct {
	Summary string
	Source  string // "youtube" | "cache"
	Warning string // empty unless the completion carried a soft condition
}

type streamRecord struct {
	Type string `json:"type"`

	Stage        string `json:"stage"`
	CurrentChunk int    `json:"currentChunk"`
	TotalChunks  int    `json:"totalChunks"`
	Message      string `json:"message"`

	Summary string `json:"summary"`
	Source  string `json:"source"`
	Warning string `json:"warning"`

	Error string `json:"error"`
}

// Client drives the streaming summarize endpoint and reads curriculum data.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	log          *zap.Logger
	token        string
	stallTimeout time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithStallTimeout overrides how long the stream may go without any bytes
// before the request is abandoned.
func WithStallTimeout(d time.Duration) Option {
	return func(c *Client) { c.stallTimeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{},
		log:          zap.NewNop(),
		stallTimeout: defaultStallTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type summarizeBody struct {
	URL         string `json:"url"`
	Language    string `json:"language,omitempty"`
	Mode        string `json:"mode,omitempty"`
	AIModel     string `json:"aiModel,omitempty"`
	ClassID     string `json:"class_id"`
	SubjectID   string `json:"subject_id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Generate runs one summary request end to end, invoking onProgress for
// every progress record in stream order. It returns exactly one terminal
// outcome: a Result, or an error. No retries are performed.
func (c *Client) Generate(ctx context.Context, req Request, onProgress func(ProgressEvent)) (*Result, error) {
	if strings.TrimSpace(req.ClassID) == "" || strings.TrimSpace(req.SubjectID) == "" {
		return nil, ErrMissingCurriculumContext
	}

	sourceURL, err := videoref.Decode(req.VideoRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedVideoReference, err)
	}

	payload, err := json.Marshal(summarizeBody{
		URL:         sourceURL,
		Language:    req.Language,
		Mode:        req.Mode,
		AIModel:     req.AIModel,
		ClassID:     req.ClassID,
		SubjectID:   req.SubjectID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v2/summarize", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{StatusCode: resp.StatusCode}
	}

	return c.consumeStream(ctx, resp.Body, onProgress)
}

type readResult struct {
	n   int
	err error
}

// stageOrder ranks the pipeline stages so out-of-order progress records can
// be spotted. Unknown stages rank -1 and are never treated as a regression.
var stageOrder = map[string]int{
	"analyzing":  0,
	"processing": 1,
	"finalizing": 2,
	"saving":     3,
}

// consumeStream reads newline-delimited JSON records until a terminal one.
// Reads run in a goroutine so the loop can also watch for caller
// cancellation and for a stalled connection.
func (c *Client) consumeStream(ctx context.Context, body io.ReadCloser, onProgress func(ProgressEvent)) (*Result, error) {
	reads := make(chan readResult, 1)
	buf := make([]byte, 32*1024)
	kick := make(chan struct{}, 1)

	go func() {
		for range kick {
			n, err := body.Read(buf)
			reads <- readResult{n: n, err: err}
			if err != nil {
				return
			}
		}
	}()
	defer close(kick)

	stall := time.NewTimer(c.stallTimeout)
	defer stall.Stop()

	remainder := ""
	lastStage := -1
	for {
		kick <- struct{}{}

		var rr readResult
		select {
		case rr = <-reads:
		case <-ctx.Done():
			body.Close()
			return nil, ctx.Err()
		case <-stall.C:
			body.Close()
			return nil, ErrStreamStalled
		}

		if !stall.Stop() {
			select {
			case <-stall.C:
			default:
			}
		}
		stall.Reset(c.stallTimeout)

		if rr.n > 0 {
			remainder += string(buf[:rr.n])
			for {
				idx := strings.IndexByte(remainder, '\n')
				if idx < 0 {
					break
				}
				line := strings.TrimSpace(remainder[:idx])
				remainder = remainder[idx+1:]
				if line == "" {
					continue
				}
				if result, done, err := c.handleLine(line, &lastStage, onProgress); done {
					return result, err
				}
			}
		}

		if rr.err != nil {
			if rr.err == io.EOF {
				// A final record without a trailing newline still counts.
				if line := strings.TrimSpace(remainder); line != "" {
					if result, done, err := c.handleLine(line, &lastStage, onProgress); done {
						return result, err
					}
				}
				return nil, &RequestError{Err: io.ErrUnexpectedEOF}
			}
			return nil, &RequestError{Err: rr.err}
		}
	}
}

// handleLine parses one stream line. Unparseable lines are logged and
// skipped; only a complete or error record is terminal. Stage repeats and
// skips are tolerated, but a regression to an earlier stage is logged.
func (c *Client) handleLine(line string, lastStage *int, onProgress func(ProgressEvent)) (*Result, bool, error) {
	var rec streamRecord
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		c.log.Debug("skipping unparseable stream line", zap.String("line", line), zap.Error(err))
		return nil, false, nil
	}

	switch rec.Type {
	case "progress":
		if rank, known := stageOrder[rec.Stage]; known {
			if rank < *lastStage {
				c.log.Debug("stream stage went backwards", zap.String("stage", rec.Stage))
			} else {
				*lastStage = rank
			}
		}
		if onProgress != nil {
			onProgress(ProgressEvent{
				Stage:        rec.Stage,
				CurrentChunk: rec.CurrentChunk,
				TotalChunks:  rec.TotalChunks,
				Message:      rec.Message,
			})
		}
		return nil, false, nil
	case "complete":
		result := &Result{Summary: rec.Summary, Source: rec.Source, Warning: rec.Warning}
		if result.Summary == "" && result.Warning == "" {
			result.Warning = EmptySummaryWarning
		}
		return result, true, nil
	case "error":
		return nil, true, &GenerationError{Message: rec.Error}
	default:
		c.log.Debug("skipping stream record with unknown type", zap.String("type", rec.Type))
		return nil, false, nil
	}
}
