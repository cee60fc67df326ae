package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chalkroute/core/internal/client/summary"
	"github.com/chalkroute/core/internal/pkg/videoref"
	"go.uber.org/zap"
)

var stageLabels = []struct {
	stage string
	label string
}{
	{"analyzing", "Analyzing video"},
	{"processing", "Summarizing segments"},
	{"finalizing", "Merging summary"},
	{"saving", "Saving chapter"},
}

func main() {
	server := flag.String("server", "http://localhost:2333", "Backend base URL")
	videoURL := flag.String("url", "", "YouTube video URL (required)")
	lang := flag.String("lang", "en", "Summary language code")
	mode := flag.String("mode", "video", "Presentation mode: video or podcast")
	model := flag.String("model", "", "AI provider id (optional)")
	classID := flag.String("class", "", "Class id (required)")
	subjectID := flag.String("subject", "", "Subject id (required)")
	title := flag.String("title", "", "Chapter title")
	description := flag.String("description", "", "Chapter description")
	token := flag.String("token", "", "Auth token (optional)")
	stall := flag.Duration("stall-timeout", 90*time.Second, "Abort when no bytes arrive for this long")
	flag.Parse()

	if *videoURL == "" {
		fmt.Fprintln(os.Stderr, "error: --url is required")
		flag.Usage()
		os.Exit(2)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	opts := []summary.Option{
		summary.WithLogger(logger),
		summary.WithStallTimeout(*stall),
	}
	if *token != "" {
		opts = append(opts, summary.WithToken(*token))
	}
	client := summary.New(*server, opts...)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	req := summary.Request{
		VideoRef:    videoref.Encode(*videoURL),
		Language:    *lang,
		Mode:        *mode,
		AIModel:     *model,
		ClassID:     *classID,
		SubjectID:   *subjectID,
		Title:       *title,
		Description: *description,
	}

	reached := map[string]bool{}
	result, err := client.Generate(ctx, req, func(ev summary.ProgressEvent) {
		reached[ev.Stage] = true
		renderChecklist(reached, ev)
	})
	fmt.Println()

	if err != nil {
		exitWithError(err)
	}

	if result.Warning != "" {
		fmt.Printf("warning: %s\n\n", result.Warning)
	}
	if result.Summary != "" {
		fmt.Println(result.Summary)
	}
	if result.Source == "cache" {
		fmt.Fprintln(os.Stderr, "\n(served from cache)")
	}
}

// renderChecklist redraws the stage checklist with a coarse percentage on
// one line per update.
func renderChecklist(reached map[string]bool, ev summary.ProgressEvent) {
	fmt.Printf("\r\033[K")
	for _, s := range stageLabels {
		mark := " "
		if reached[s.stage] {
			mark = "x"
		}
		fmt.Printf("[%s] %s  ", mark, s.label)
	}
	if ev.Stage == "processing" && ev.TotalChunks > 0 {
		fmt.Printf("(%d%%)", ev.CurrentChunk*100/ev.TotalChunks)
	}
}

func exitWithError(err error) {
	var genErr *summary.GenerationError
	var reqErr *summary.RequestError

	switch {
	case errors.Is(err, summary.ErrMissingCurriculumContext):
		fmt.Fprintln(os.Stderr, "error: --class and --subject are required")
		os.Exit(2)
	case errors.Is(err, summary.ErrMalformedVideoReference):
		fmt.Fprintln(os.Stderr, "error: the video URL could not be encoded")
		os.Exit(2)
	case errors.As(err, &genErr):
		fmt.Fprintf(os.Stderr, "generation failed: %s\n", genErr.Message)
	case errors.Is(err, summary.ErrStreamStalled):
		fmt.Fprintln(os.Stderr, "error: the server stopped responding")
	case errors.As(err, &reqErr):
		fmt.Fprintf(os.Stderr, "request failed: %v\n", reqErr)
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "cancelled")
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}
