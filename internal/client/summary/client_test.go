package summary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chalkroute/core/internal/pkg/videoref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testVideoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func validRequest() Request {
	return Request{
		VideoRef:  videoref.Encode(testVideoURL),
		Language:  "en",
		Mode:      "video",
		ClassID:   "class-1",
		SubjectID: "subject-1",
	}
}

// streamHandler writes the given chunks verbatim with a flush between each,
// so tests control exactly how lines are split across network reads. Write
// errors are ignored; the client legitimately disconnects after a terminal
// record.
func streamHandler(t *testing.T, chunks []string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, _ := w.(http.Flusher)
		w.WriteHeader(http.StatusOK)
		for _, chunk := range chunks {
			if _, err := w.Write([]byte(chunk)); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

func TestGenerateMissingCurriculumContext(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := New(srv.URL)

	for _, req := range []Request{
		{VideoRef: videoref.Encode(testVideoURL), SubjectID: "s"},
		{VideoRef: videoref.Encode(testVideoURL), ClassID: "c"},
		{VideoRef: videoref.Encode(testVideoURL), ClassID: "  ", SubjectID: "s"},
	} {
		_, err := client.Generate(context.Background(), req, nil)
		assert.ErrorIs(t, err, ErrMissingCurriculumContext)
	}
	assert.Zero(t, calls, "precondition failures must not reach the network")
}

func TestGenerateMalformedVideoReference(t *testing.T) {
	client := New("http://127.0.0.1:0")

	req := validRequest()
	req.VideoRef = "%%%not-base64%%%"
	_, err := client.Generate(context.Background(), req, nil)
	assert.ErrorIs(t, err, ErrMalformedVideoReference)
}

func TestGenerateDecodesVideoReference(t *testing.T) {
	var gotBody summarizeBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"type":"complete","summary":"ok","source":"youtube"}` + "\n"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Generate(context.Background(), validRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, testVideoURL, gotBody.URL)
	assert.Equal(t, "class-1", gotBody.ClassID)
	assert.Equal(t, "subject-1", gotBody.SubjectID)
}

func TestGenerateReassemblesSplitLines(t *testing.T) {
	// Three records split across five chunks, including mid-line splits.
	chunks := []string{
		`{"type":"progress","stage":"analyzing","message":"Analyzing"}` + "\n" + `{"type":"progress","stage":"proc`,
		`essing","currentChunk":1,"totalChunks":2,"message":"Processing chunks (1/2)"}`,
		"\n",
		`{"type":"progress","stage":"processing","currentChunk":2,"totalChunks":2,"message":"Processing chunks (2/2)"}` + "\n" + `{"type":"comp`,
		`lete","summary":"# Done","source":"youtube"}` + "\n",
	}
	srv := httptest.NewServer(streamHandler(t, chunks))
	defer srv.Close()

	var events []ProgressEvent
	result, err := New(srv.URL).Generate(context.Background(), validRequest(), func(ev ProgressEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, "analyzing", events[0].Stage)
	assert.Equal(t, 1, events[1].CurrentChunk)
	assert.Equal(t, 2, events[2].CurrentChunk)
	assert.Equal(t, 2, events[2].TotalChunks)

	assert.Equal(t, "# Done", result.Summary)
	assert.Equal(t, "youtube", result.Source)
	assert.Empty(t, result.Warning)
}

func TestGenerateLogsStageRegression(t *testing.T) {
	srv := httptest.NewServer(streamHandler(t, []string{
		`{"type":"progress","stage":"saving"}` + "\n",
		`{"type":"progress","stage":"analyzing"}` + "\n",
		`{"type":"complete","summary":"ok","source":"youtube"}` + "\n",
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	client := New(srv.URL, WithLogger(zap.New(core)))

	var events []ProgressEvent
	result, err := client.Generate(context.Background(), validRequest(), func(ev ProgressEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Summary)

	// Both records are still forwarded; the anomaly is only logged.
	require.Len(t, events, 2)
	assert.Equal(t, "saving", events[0].Stage)
	assert.Equal(t, "analyzing", events[1].Stage)
	assert.Equal(t, 1, logs.FilterMessage("stream stage went backwards").Len())
}

func TestGenerateToleratesStageSkips(t *testing.T) {
	srv := httptest.NewServer(streamHandler(t, []string{
		`{"type":"progress","stage":"analyzing"}` + "\n",
		`{"type":"progress","stage":"saving"}` + "\n",
		`{"type":"complete","summary":"ok","source":"youtube"}` + "\n",
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	client := New(srv.URL, WithLogger(zap.New(core)))

	_, err := client.Generate(context.Background(), validRequest(), nil)
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessage("stream stage went backwards").Len())
}

func TestGenerateEmptySummaryIsWarningNotError(t *testing.T) {
	srv := httptest.NewServer(streamHandler(t, []string{
		`{"type":"complete","summary":"","source":"youtube"}` + "\n",
	}))
	defer srv.Close()

	result, err := New(srv.URL).Generate(context.Background(), validRequest(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Summary)
	assert.Equal(t, EmptySummaryWarning, result.Warning)
}

func TestGenerateServerWarningIsKept(t *testing.T) {
	srv := httptest.NewServer(streamHandler(t, []string{
		`{"type":"complete","summary":"","source":"youtube","warning":"model was terse"}` + "\n",
	}))
	defer srv.Close()

	result, err := New(srv.URL).Generate(context.Background(), validRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, "model was terse", result.Warning)
}

func TestGenerateErrorRecordStopsProcessing(t *testing.T) {
	srv := httptest.NewServer(streamHandler(t, []string{
		`{"type":"progress","stage":"analyzing"}` + "\n",
		`{"type":"error","error":"no captions available"}` + "\n",
		`{"type":"progress","stage":"processing"}` + "\n",
	}))
	defer srv.Close()

	var events []ProgressEvent
	_, err := New(srv.URL).Generate(context.Background(), validRequest(), func(ev ProgressEvent) {
		events = append(events, ev)
	})

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "no captions available", genErr.Message)
	assert.Len(t, events, 1, "records after the error must be ignored")
}

func TestGenerateIgnoresContentAfterComplete(t *testing.T) {
	srv := httptest.NewServer(streamHandler(t, []string{
		`{"type":"complete","summary":"done","source":"cache"}` + "\n",
		`{"type":"error","error":"should never be seen"}` + "\n",
	}))
	defer srv.Close()

	result, err := New(srv.URL).Generate(context.Background(), validRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, "done", result.Summary)
	assert.Equal(t, "cache", result.Source)
}

func TestGenerateSkipsUnparseableLines(t *testing.T) {
	srv := httptest.NewServer(streamHandler(t, []string{
		"this is not json\n",
		`{"type":"progress","stage":"analyzing"}` + "\n",
		"{\"broken\n",
		`{"type":"complete","summary":"ok","source":"youtube"}` + "\n",
	}))
	defer srv.Close()

	var events []ProgressEvent
	result, err := New(srv.URL).Generate(context.Background(), validRequest(), func(ev ProgressEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "ok", result.Summary)
}

func TestGenerateTerminalRecordWithoutTrailingNewline(t *testing.T) {
	srv := httptest.NewServer(streamHandler(t, []string{
		`{"type":"complete","summary":"ok","source":"youtube"}`,
	}))
	defer srv.Close()

	result, err := New(srv.URL).Generate(context.Background(), validRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Summary)
}

func TestGenerateNon2xxIsRequestFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Generate(context.Background(), validRequest(), nil)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadGateway, reqErr.StatusCode)
}

func TestGenerateTruncatedStreamIsRequestFailure(t *testing.T) {
	srv := httptest.NewServer(streamHandler(t, []string{
		`{"type":"progress","stage":"analyzing"}` + "\n",
	}))
	defer srv.Close()

	_, err := New(srv.URL).Generate(context.Background(), validRequest(), nil)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
}

func TestGenerateStallTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := New(srv.URL, WithStallTimeout(50*time.Millisecond))
	start := time.Now()
	_, err := client.Generate(context.Background(), validRequest(), nil)
	assert.ErrorIs(t, err, ErrStreamStalled)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestGenerateContextCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := New(srv.URL).Generate(ctx, validRequest(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeListEnvelope(t *testing.T) {
	want := []Chapter{{ID: "1", Title: "T"}}

	decode := func(t *testing.T, body string) []Chapter {
		raw, err := normalizeListEnvelope([]byte(body), "chapters")
		require.NoError(t, err)
		var chapters []Chapter
		require.NoError(t, json.Unmarshal(raw, &chapters))
		return chapters
	}

	t.Run("canonical data envelope", func(t *testing.T) {
		assert.Equal(t, want, decode(t, `{"data":[{"id":"1","title":"T"}]}`))
	})

	t.Run("legacy named envelope", func(t *testing.T) {
		assert.Equal(t, want, decode(t, `{"chapters":[{"id":"1","title":"T"}]}`))
	})

	t.Run("bare array", func(t *testing.T) {
		assert.Equal(t, want, decode(t, ` [{"id":"1","title":"T"}]`))
	})

	t.Run("unrecognized shape", func(t *testing.T) {
		_, err := normalizeListEnvelope([]byte(`{"stuff":{}}`), "chapters")
		assert.Error(t, err)
	})
}

func TestListChaptersUsesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/chapters", r.URL.Path)
		w.Write([]byte(`{"data":[{"id":"abc","title":"Chapter One"}]}`))
	}))
	defer srv.Close()

	chapters, err := New(srv.URL).ListChapters(context.Background())
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "abc", chapters[0].ID)
}

func TestListSubjectsFiltersByClass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "c1", r.URL.Query().Get("class"))
		w.Write([]byte(`{"data":[{"id":"s1","title":"Math","class_id":"c1"}]}`))
	}))
	defer srv.Close()

	subjects, err := New(srv.URL).ListSubjects(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "c1", subjects[0].ClassID)
}

func TestRequestErrorUnwrap(t *testing.T) {
	inner := errors.New("dial failed")
	err := &RequestError{Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "dial failed")

	status := &RequestError{StatusCode: 503}
	assert.Contains(t, status.Error(), "503")
}
