package processor

import (
	"context"
	"testing"

	"resumeparser/internal/errors"
	"resumeparser/internal/regexparser"
	"resumeparser/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorAIExtraction(t *testing.T) {
	extract := newFake(reply(resumeJSON))
	recorder := newRecordingRecorder()
	deps := testDeps()
	deps.Extract = extract
	deps.Recorder = recorder

	custom := types.Customizations{
		ProfileImage: "https://example.com/me.png",
		CustomColors: map[string]string{"primary": "#112233"},
	}
	result, err := NewGenerator(deps).Process(context.Background(), types.TextInput("resume.txt", resumeText), custom)
	require.NoError(t, err)

	assert.Equal(t, types.MethodAI, result.Meta.Method)
	assert.Equal(t, types.ProcessingGenerate, result.Meta.ProcessingType)
	assert.Equal(t, "req-1", result.Meta.RequestID)
	assert.Equal(t, 95, result.Meta.Confidence)
	assert.Empty(t, result.Meta.FallbackReason)
	assert.Nil(t, result.Meta.JobMatchScore)

	data := result.Data
	assert.Equal(t, "Jane Doe", data.Name)
	require.Len(t, data.Experience, 1)
	assert.Equal(t, []string{"Built a thing", "Shipped a feature"}, data.Experience[0].Details)
	assert.Equal(t, "https://example.com/me.png", data.ProfileImage)
	assert.Equal(t, "#112233", data.CustomColors["primary"])
	assert.NotNil(t, data.Education)
	assert.NotNil(t, data.Certifications)
	require.NotNil(t, data.Metadata)
	assert.Equal(t, "ai", data.Metadata.Source)
	assert.Equal(t, "2026-03-01T12:00:00Z", data.Metadata.LastUpdated)

	require.Equal(t, 1, extract.calls())
	req := extract.requests[0]
	assert.Contains(t, req.Prompt, "Acme Corp")
	assert.Nil(t, req.Attachment)
	assert.Nil(t, req.Schema, "generate uses free-text output")

	assert.Equal(t, []string{"extract"}, recorder.aiOps)
	require.Len(t, recorder.results, 1)
	assert.Empty(t, recorder.fallbacks)
}

func TestGeneratorPDFAttachment(t *testing.T) {
	extract := newFake(reply(resumeJSON))
	deps := testDeps()
	deps.Extract = extract

	input := types.PDFInput("resume.pdf", []byte("%PDF-1.4 fake"))
	_, err := NewGenerator(deps).Process(context.Background(), input, types.Customizations{})
	require.NoError(t, err)

	req := extract.requests[0]
	require.NotNil(t, req.Attachment)
	assert.Equal(t, types.PDFMIMEType, req.Attachment.MIMEType)
	assert.Equal(t, []byte("%PDF-1.4 fake"), req.Attachment.Data)
	assert.NotContains(t, req.Prompt, types.PDFContentMarker)
}

func TestGeneratorFallsBackToRegex(t *testing.T) {
	tests := []struct {
		name       string
		provider   *fakeProvider
		wantReason string
	}{
		{
			name:       "provider error",
			provider:   newFake(failure(errors.NewAIError(errors.ErrCodeAIQuotaExceeded, "quota", nil))),
			wantReason: "provider_error",
		},
		{
			name:       "unrecoverable json",
			provider:   newFake(reply(`{"name": "Jane", "title": `)),
			wantReason: errors.InvalidJSONMessage,
		},
		{
			name:       "schema mismatch",
			provider:   newFake(reply(`{"name": "Jane"}`)),
			wantReason: errors.InvalidJSONMessage,
		},
		{
			name:       "no provider",
			wantReason: "unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := newRecordingRecorder()
			deps := testDeps()
			deps.Recorder = recorder
			if tt.provider != nil {
				deps.Extract = tt.provider
			}

			result, err := NewGenerator(deps).Process(context.Background(), types.TextInput("resume.txt", resumeText), types.Customizations{})
			require.NoError(t, err)

			assert.Equal(t, types.MethodRegexFallback, result.Meta.Method)
			assert.Equal(t, tt.wantReason, result.Meta.FallbackReason)
			assert.LessOrEqual(t, result.Meta.Confidence, regexparser.DefaultMaxConfidence)
			assert.Equal(t, regexparser.SourceName, result.Data.Metadata.Source)
			assert.NotEmpty(t, recorder.fallbacks["extract"])
			if tt.provider != nil {
				assert.Equal(t, 1, tt.provider.calls(), "fallback is one-shot")
			}
		})
	}
}

func TestGeneratorConfidenceOrdering(t *testing.T) {
	input := types.TextInput("resume.txt", resumeText)

	withAI := testDeps()
	withAI.Extract = newFake(reply(resumeJSON))
	aiResult, err := NewGenerator(withAI).Process(context.Background(), input, types.Customizations{})
	require.NoError(t, err)

	regexResult, err := NewGenerator(testDeps()).Process(context.Background(), input, types.Customizations{})
	require.NoError(t, err)

	assert.Less(t, regexResult.Meta.Confidence, aiResult.Meta.Confidence)
}

func TestGeneratorDegenerateInput(t *testing.T) {
	result, err := NewGenerator(testDeps()).Process(context.Background(),
		types.TextInput("junk.txt", "@@@ ### !!!"), types.Customizations{})
	require.NoError(t, err)

	data := result.Data
	assert.NotNil(t, data.Experience)
	assert.NotNil(t, data.Education)
	assert.NotNil(t, data.Certifications)
	assert.NotNil(t, data.Skills)
	assert.Equal(t, types.UnknownName, data.Name)
}

func TestGeneratorEmptyInput(t *testing.T) {
	extract := newFake(reply(resumeJSON))
	deps := testDeps()
	deps.Extract = extract

	_, err := NewGenerator(deps).Process(context.Background(), types.TextInput("empty.txt", "  \n "), types.Customizations{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyInput))
	assert.Zero(t, extract.calls())
}

func TestGeneratorEnforcesSummaryLength(t *testing.T) {
	deps := testDeps()
	deps.Extract = newFake(reply(resumeJSON))
	deps.MaxSummaryLength = 8

	result, err := NewGenerator(deps).Process(context.Background(), types.TextInput("resume.txt", resumeText), types.Customizations{})
	require.NoError(t, err)
	assert.Equal(t, "Engineer", result.Data.Summary)
}
