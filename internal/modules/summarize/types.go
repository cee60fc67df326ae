package summarize

// Stage is the coarse progress phase reported during summary generation.
type Stage string

const (
	StageAnalyzing  Stage = "analyzing"
	StageProcessing Stage = "processing"
	StageFinalizing Stage = "finalizing"
	StageSaving     Stage = "saving"
)

const (
	SourceYouTube = "youtube"
	SourceCache   = "cache"
)

// requestDTO is the summarize request body.
type requestDTO struct {
	URL         string `json:"url" binding:"required"`
	Language    string `json:"language"`
	Mode        string `json:"mode"`    // "video" | "podcast"
	AIModel     string `json:"aiModel"` // provider id
	ClassID     string `json:"class_id" binding:"required"`
	SubjectID   string `json:"subject_id" binding:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Record is one newline-delimited JSON record on the response stream.
// Exactly one of the progress/complete/error field sets is populated,
// discriminated by Type.
type Record struct {
	Type string `json:"type"` // "progress" | "complete" | "error"

	// progress
	Stage        Stage  `json:"stage,omitempty"`
	CurrentChunk int    `json:"currentChunk,omitempty"`
	TotalChunks  int    `json:"totalChunks,omitempty"`
	Message      string `json:"message,omitempty"`

	// complete
	Summary string `json:"summary,omitempty"`
	Source  string `json:"source,omitempty"`
	Warning string `json:"warning,omitempty"`

	// error
	Error string `json:"error,omitempty"`
}

func progressRecord(stage Stage, current, total int, message string) Record {
	return Record{
		Type:         "progress",
		Stage:        stage,
		CurrentChunk: current,
		TotalChunks:  total,
		Message:      message,
	}
}

func completeRecord(summary, source, warning string) Record {
	return Record{
		Type:    "complete",
		Summary: summary,
		Source:  source,
		Warning: warning,
	}
}

func errorRecord(message string) Record {
	return Record{Type: "error", Error: message}
}
