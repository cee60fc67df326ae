package summarize

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	appcfg "github.com/chalkroute/core/internal/config"
	"github.com/chalkroute/core/internal/models"
	"github.com/chalkroute/core/internal/modules/llm"
	redisc "github.com/chalkroute/core/internal/pkg/redis"
	"github.com/chalkroute/core/internal/pkg/videoref"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	cacheKeyPrefix     = "cr:summary:"
	chunkMaxTokens     = 600
	summaryMaxTokens   = 4096
	emptySummaryNotice = "The model returned an empty summary."
)

// GenerateFunc is the seam to the llm package, injectable in tests.
type GenerateFunc func(ctx context.Context, provider *appcfg.AIProvider, systemPrompt, prompt string, maxTokens int) (string, error)

// Service drives the summary generation pipeline.
type Service struct {
	db          *gorm.DB
	rc          *redisc.Client
	cfg         *appcfg.AppConfig
	log         *zap.Logger
	transcripts TranscriptFetcher
	generate    GenerateFunc
}

func NewService(db *gorm.DB, rc *redisc.Client, cfg *appcfg.AppConfig, log *zap.Logger) *Service {
	return &Service{
		db:          db,
		rc:          rc,
		cfg:         cfg,
		log:         log,
		transcripts: NewTimedTextFetcher(),
		generate:    llm.GenerateText,
	}
}

// cacheHash derives the dedup key for a (video, lang, mode) triple.
func cacheHash(videoID, lang, mode string) string {
	h := sha256.Sum256([]byte(videoID + ":" + lang + ":" + mode))
	return fmt.Sprintf("%x", h)
}

// Run executes the full pipeline for one request, emitting records as it
// goes. Every path ends in exactly one terminal record: complete or error.
func (s *Service) Run(ctx context.Context, req requestDTO, emit func(Record) error) {
	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = "en"
	}
	mode := strings.TrimSpace(req.Mode)
	if mode == "" {
		mode = "video"
	}

	fail := func(msg string, err error) {
		if err != nil {
			s.log.Warn("summary generation failed", zap.String("url", req.URL), zap.Error(err))
		}
		_ = emit(errorRecord(msg))
	}

	_ = emit(progressRecord(StageAnalyzing, 0, 0, "Analyzing video content..."))

	videoID := videoref.VideoID(req.URL)
	if videoID == "" {
		fail("unsupported video URL", nil)
		return
	}

	hash := cacheHash(videoID, lang, mode)
	if cached := s.lookupCache(ctx, hash); cached != "" {
		_ = emit(progressRecord(StageSaving, 0, 0, "Saving to history"))
		warning := s.persistChapter(req, cached, SourceCache, lang)
		_ = emit(completeRecord(cached, SourceCache, warning))
		return
	}

	provider := llm.Select(s.cfg.AI, s.cfg.AI.SummaryModel, req.AIModel)
	if provider == nil {
		fail("no enabled AI provider", llm.ErrNoProvider)
		return
	}

	transcript, err := s.transcripts.Fetch(ctx, videoID, lang)
	if err != nil {
		if errors.Is(err, ErrNoCaptions) {
			fail("no captions available for this video", err)
		} else {
			fail("failed to fetch video captions", err)
		}
		return
	}

	chunks := chunkTranscript(transcript, s.cfg.Summarizer.ChunkChars, s.cfg.Summarizer.MaxChunks)
	if len(chunks) == 0 {
		fail("video captions are empty", nil)
		return
	}

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		_ = emit(progressRecord(StageProcessing, i+1, len(chunks),
			fmt.Sprintf("Processing chunks (%d/%d)", i+1, len(chunks))))

		systemPrompt, prompt := buildChunkPrompt(lang, chunk, i+1, len(chunks))
		partial, err := s.generate(ctx, provider, systemPrompt, prompt, chunkMaxTokens)
		if err != nil {
			fail("failed to summarize video segment", err)
			return
		}
		partials = append(partials, strings.TrimSpace(partial))
	}

	_ = emit(progressRecord(StageFinalizing, len(chunks), len(chunks), "Creating final summary"))

	systemPrompt, prompt := buildMergePrompt(lang, mode, partials)
	summary, err := s.generate(ctx, provider, systemPrompt, prompt, summaryMaxTokens)
	if err != nil {
		fail("failed to create final summary", err)
		return
	}
	summary = strings.TrimSpace(summary)

	_ = emit(progressRecord(StageSaving, len(chunks), len(chunks), "Saving to history"))

	warning := ""
	if summary == "" {
		warning = emptySummaryNotice
	} else {
		s.storeCache(ctx, hash, videoID, lang, mode, summary)
	}
	if w := s.persistChapter(req, summary, SourceYouTube, lang); warning == "" {
		warning = w
	}

	_ = emit(completeRecord(summary, SourceYouTube, warning))
}

func (s *Service) lookupCache(ctx context.Context, hash string) string {
	if s.rc != nil {
		if val, err := s.rc.Get(ctx, cacheKeyPrefix+hash); err == nil && val != "" {
			return val
		}
	}
	if s.db != nil {
		var row models.SummaryCacheModel
		if err := s.db.Where("hash = ?", hash).First(&row).Error; err == nil {
			return row.Summary
		}
	}
	return ""
}

func (s *Service) storeCache(ctx context.Context, hash, videoID, lang, mode, summary string) {
	if s.rc != nil {
		if err := s.rc.Set(ctx, cacheKeyPrefix+hash, summary, s.cfg.Summarizer.CacheTTL); err != nil {
			s.log.Warn("summary cache write failed", zap.Error(err))
		}
	}
	if s.db != nil {
		row := models.SummaryCacheModel{
			Hash:    hash,
			Summary: summary,
			VideoID: videoID,
			Lang:    lang,
			Mode:    mode,
		}
		if err := s.db.Where("hash = ?", hash).Assign(row).FirstOrCreate(&row).Error; err != nil {
			s.log.Warn("summary cache persist failed", zap.Error(err))
		}
	}
}

// persistChapter writes the chapter; failure to save is surfaced as a warning
// on the complete record rather than aborting a generation that succeeded.
func (s *Service) persistChapter(req requestDTO, summary, source, lang string) string {
	if s.db == nil || summary == "" {
		return ""
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Video summary"
	}

	chapter := models.ChapterModel{
		Title:       title,
		Content:     summary,
		Description: strings.TrimSpace(req.Description),
		VideoLinks: []models.VideoLink{
			{Title: title, URL: req.URL},
		},
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
		Source:    source,
		Language:  lang,
	}
	if err := s.db.Create(&chapter).Error; err != nil {
		s.log.Error("chapter persist failed", zap.Error(err))
		return "summary generated but could not be saved as a chapter"
	}
	return ""
}
