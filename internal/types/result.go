package types

// Method names the strategy that produced a result.
type Method string

const (
	MethodAI                 Method = "ai"
	MethodAITailored         Method = "ai-tailored"
	MethodRegexFallback      Method = "regex-fallback"
	MethodOriginalUntailored Method = "original-untailored"
)

// ProcessingType names the orchestrator that produced a result.
type ProcessingType string

const (
	ProcessingGenerate ProcessingType = "generate"
	ProcessingTailor   ProcessingType = "tailor"
	ProcessingJobSpec  ProcessingType = "jobspec"
)

// ProcessResult is the envelope returned to persistence and UI layers.
type ProcessResult struct {
	Data ParsedResume `json:"data"`
	Meta Meta         `json:"meta"`
}

// Meta describes how Data was produced.
type Meta struct {
	RequestID           string         `json:"requestId"`
	Method              Method         `json:"method"`
	Confidence          int            `json:"confidence"`
	ProcessingType      ProcessingType `json:"processingType"`
	AITailorCommentary  string         `json:"aiTailorCommentary,omitempty"`
	JobMatchScore       *float64       `json:"jobMatchScore,omitempty"`
	TailoringConfidence *float64       `json:"tailoringConfidence,omitempty"`
	ProcessingTimeMs    int64          `json:"processingTime,omitempty"`
	FallbackReason      string         `json:"fallbackReason,omitempty"`
	JobSpec             *ParsedJobSpec `json:"jobSpec,omitempty"`
}

// JobSpecResult is the envelope for a standalone job-spec analysis.
type JobSpecResult struct {
	Data ParsedJobSpec `json:"data"`
	Meta Meta          `json:"meta"`
}
