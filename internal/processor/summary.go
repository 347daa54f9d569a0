package processor

import (
	"context"
	"strings"
	"unicode/utf8"

	"resumeparser/internal/ai"
	"resumeparser/internal/errors"
	"resumeparser/internal/prompts"
	"resumeparser/internal/types"
)

const summaryOperation = "summary"

// SummaryEnforcer keeps resume summaries within a character budget.
type SummaryEnforcer struct {
	provider ai.Provider
	prompts  *prompts.Builder
	recorder Recorder
	logger   *errors.Logger
}

// NewSummaryEnforcer returns an enforcer. With a nil provider every
// over-long summary is truncated.
func NewSummaryEnforcer(deps Dependencies) *SummaryEnforcer {
	deps = deps.withDefaults()
	return &SummaryEnforcer{
		provider: deps.Summary,
		prompts:  deps.Prompts,
		recorder: deps.Recorder,
		logger:   deps.Logger,
	}
}

// Enforce returns resume with a summary of at most maxLen characters. One
// AI rewrite is attempted; if it fails or is still too long the summary is
// cut at maxLen. A non-positive maxLen leaves the resume untouched.
func (s *SummaryEnforcer) Enforce(ctx context.Context, resume types.ParsedResume, maxLen int) types.ParsedResume {
	if maxLen <= 0 || utf8.RuneCountInString(resume.Summary) <= maxLen {
		return resume
	}

	out := resume.Clone()
	rewritten, err := s.rewrite(ctx, resume.Summary, maxLen)
	if err == nil && rewritten != "" && utf8.RuneCountInString(rewritten) <= maxLen {
		out.Summary = rewritten
		return out
	}

	if err != nil {
		s.logger.Debug("Summary rewrite failed, truncating", "max_length", maxLen, "error", err.Error())
	} else {
		s.logger.Debug("Summary rewrite still too long, truncating",
			"max_length", maxLen, "length", utf8.RuneCountInString(rewritten))
	}
	out.Summary = Truncate(resume.Summary, maxLen)
	return out
}

func (s *SummaryEnforcer) rewrite(ctx context.Context, summary string, maxLen int) (string, error) {
	if s.provider == nil {
		return "", errors.NewAIError(errors.ErrCodeProviderUnavailable, "No AI provider configured for summaries", nil)
	}
	prompt, err := s.prompts.Summary(summary, maxLen)
	if err != nil {
		return "", err
	}
	resp, err := timedGenerate(ctx, s.recorder, summaryOperation, func(ctx context.Context) (*ai.Response, error) {
		return s.provider.GenerateText(ctx, ai.Request{Prompt: prompt.User, SystemPrompt: prompt.System})
	})
	if err != nil {
		return "", err
	}
	return cleanSummary(resp.Text), nil
}

// cleanSummary drops surrounding whitespace and quotes the model sometimes adds.
func cleanSummary(text string) string {
	text = strings.TrimSpace(text)
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	return text
}

// Truncate cuts s to at most maxLen runes.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen])
}
