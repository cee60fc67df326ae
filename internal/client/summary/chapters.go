package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Chapter is the read-only view of a persisted chapter.
type Chapter struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	Description string      `json:"description"`
	VideoLinks  []VideoLink `json:"yt_links"`
	ClassID     string      `json:"class_id"`
	SubjectID   string      `json:"subject_id"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type VideoLink struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// CurriculumEntry is a class or subject as listed by the backend.
type CurriculumEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ClassID     string `json:"class_id,omitempty"`
}

// normalizeListEnvelope extracts the item array from a list response body.
// The canonical shape is {"data": [...]}; older backends answered
// {"chapters": [...]} or a bare array, and all three are accepted here so
// shape branching stays out of the call sites.
func normalizeListEnvelope(body []byte, legacyKey string) (json.RawMessage, error) {
	trimmed := firstNonSpace(body)
	if trimmed == '[' {
		return json.RawMessage(body), nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("unrecognized list envelope: %w", err)
	}
	if raw, ok := envelope["data"]; ok {
		return raw, nil
	}
	if legacyKey != "" {
		if raw, ok := envelope[legacyKey]; ok {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("unrecognized list envelope: no data field")
}

func firstNonSpace(body []byte) byte {
	for _, b := range body {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

func (c *Client) getJSON(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{StatusCode: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, 32<<20))
}

func (c *Client) ListChapters(ctx context.Context) ([]Chapter, error) {
	body, err := c.getJSON(ctx, "/api/v2/chapters")
	if err != nil {
		return nil, err
	}
	raw, err := normalizeListEnvelope(body, "chapters")
	if err != nil {
		return nil, err
	}
	var chapters []Chapter
	if err := json.Unmarshal(raw, &chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

func (c *Client) GetChapter(ctx context.Context, id string) (*Chapter, error) {
	body, err := c.getJSON(ctx, "/api/v2/chapters/"+id)
	if err != nil {
		return nil, err
	}
	var chapter Chapter
	if err := json.Unmarshal(body, &chapter); err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (c *Client) ListClasses(ctx context.Context) ([]CurriculumEntry, error) {
	return c.listCurriculum(ctx, "/api/v2/classes", "classes")
}

func (c *Client) ListSubjects(ctx context.Context, classID string) ([]CurriculumEntry, error) {
	path := "/api/v2/subjects"
	if classID != "" {
		path += "?class=" + classID
	}
	return c.listCurriculum(ctx, path, "subjects")
}

func (c *Client) listCurriculum(ctx context.Context, path, legacyKey string) ([]CurriculumEntry, error) {
	body, err := c.getJSON(ctx, path)
	if err != nil {
		return nil, err
	}
	raw, err := normalizeListEnvelope(body, legacyKey)
	if err != nil {
		return nil, err
	}
	var entries []CurriculumEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
