package processor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"resumeparser/internal/confidence"
	"resumeparser/internal/errors"
	"resumeparser/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pastedContext(tone types.Tone) types.UserAdditionalContext {
	return types.UserAdditionalContext{
		JobSpecSource: types.JobSpecSourcePasted,
		JobSpecText:   jobSpecText,
		Tone:          tone,
	}
}

func TestTailorSuccess(t *testing.T) {
	tailor := newFake(reply(tailoredJSON))
	jobSpec := newFake(reply(jobSpecJSON))
	deps := testDeps()
	deps.Extract = newFake(reply(resumeJSON))
	deps.Tailor = tailor
	deps.JobSpec = jobSpec

	jobCtx := pastedContext(types.ToneFormal)
	jobCtx.ExtraPrompt = "Mention remote work."
	custom := types.Customizations{ProfileImage: "me.png"}

	result, err := NewTailor(deps).Process(context.Background(), types.TextInput("resume.txt", resumeText), jobCtx, custom)
	require.NoError(t, err)

	meta := result.Meta
	assert.Equal(t, types.MethodAITailored, meta.Method)
	assert.Equal(t, types.ProcessingTailor, meta.ProcessingType)
	assert.Equal(t, "Emphasized React work.", meta.AITailorCommentary)
	assert.Equal(t, 95, meta.Confidence)
	require.NotNil(t, meta.JobSpec)
	assert.Equal(t, "React Developer", meta.JobSpec.PositionTitle)
	require.NotNil(t, meta.TailoringConfidence)
	assert.InDelta(t, 1.0, *meta.TailoringConfidence, 0.001)
	require.NotNil(t, meta.JobMatchScore)
	assert.Equal(t, confidence.JobMatchScore(result.Data, jobSpecText, meta.JobSpec), *meta.JobMatchScore)
	assert.Greater(t, *meta.JobMatchScore, 0.0)

	assert.Equal(t, "Senior React Engineer", result.Data.Title)
	assert.Equal(t, "me.png", result.Data.ProfileImage)
	assert.Equal(t, "ai-tailored", result.Data.Metadata.Source)

	require.Equal(t, 1, tailor.calls())
	prompt := tailor.requests[0].Prompt
	assert.Contains(t, prompt, "Position: React Developer")
	assert.Contains(t, prompt, "Mention remote work.")
	assert.Contains(t, prompt, "Acme Corp")
	assert.Equal(t, 1, jobSpec.calls())
	assert.NotNil(t, jobSpec.requests[0].Schema, "job-spec analysis is schema constrained")
}

func TestTailorFailureReturnsOriginal(t *testing.T) {
	tests := []struct {
		name       string
		tailor     *fakeProvider
		wantReason string
	}{
		{
			name:       "provider error",
			tailor:     newFake(failure(errors.NewAIError(errors.ErrCodeAIServiceFailed, "AI service request failed", nil))),
			wantReason: "AI service request failed",
		},
		{
			name:       "invalid json",
			tailor:     newFake(reply("I could not do that.")),
			wantReason: errors.InvalidJSONMessage,
		},
		{
			name:       "no provider",
			wantReason: "AI tailoring is unavailable",
		},
	}

	custom := types.Customizations{CustomColors: map[string]string{"accent": "#ff0000"}}
	input := types.TextInput("resume.txt", resumeText)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			genDeps := testDeps()
			genDeps.Extract = newFake(reply(resumeJSON))
			expected, err := NewGenerator(genDeps).Process(context.Background(), input, custom)
			require.NoError(t, err)

			recorder := newRecordingRecorder()
			deps := testDeps()
			deps.Extract = newFake(reply(resumeJSON))
			deps.Recorder = recorder
			if tt.tailor != nil {
				deps.Tailor = tt.tailor
			}

			result, err := NewTailor(deps).Process(context.Background(), input, pastedContext(types.ToneNeutral), custom)
			require.NoError(t, err)

			assert.Equal(t, types.MethodOriginalUntailored, result.Meta.Method)
			assert.Equal(t, expected.Data, result.Data)
			assert.Equal(t, expected.Meta.Confidence, result.Meta.Confidence)
			assert.Contains(t, result.Meta.AITailorCommentary, "Tailoring was skipped")
			assert.Contains(t, result.Meta.AITailorCommentary, tt.wantReason)
			assert.NotNil(t, result.Meta.JobMatchScore)
			assert.NotEmpty(t, recorder.fallbacks["tailor"])
		})
	}
}

func TestTailorJobMatchSkillComponent(t *testing.T) {
	deps := testDeps()
	deps.Extract = newFake(reply(`{"name": "Sam Lee", "title": "Engineer", "experience": [], "skills": ["React", "SQL"]}`))

	jobCtx := types.UserAdditionalContext{JobSpecText: "React developer needed"}
	result, err := NewTailor(deps).Process(context.Background(), types.TextInput("resume.txt", resumeText), jobCtx, types.Customizations{})
	require.NoError(t, err)

	match := confidence.JobMatch(result.Data, "React developer needed", result.Meta.JobSpec)
	assert.InDelta(t, 0.2, match.Skills, 0.0001)
	assert.Equal(t, match.Total, *result.Meta.JobMatchScore)
}

func TestTailorRunsWithoutAnyProvider(t *testing.T) {
	result, err := NewTailor(testDeps()).Process(context.Background(),
		types.TextInput("resume.txt", resumeText), pastedContext(""), types.Customizations{})
	require.NoError(t, err)

	assert.Equal(t, types.MethodOriginalUntailored, result.Meta.Method)
	assert.Equal(t, "unavailable", result.Meta.FallbackReason)
	require.NotNil(t, result.Meta.JobSpec)
	assert.NotNil(t, result.Data.Skills)
}

func TestTailorJobSpecFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(path, []byte(jobSpecText), 0600))

	jobSpec := newFake(reply(jobSpecJSON))
	deps := testDeps()
	deps.JobSpec = jobSpec

	jobCtx := types.UserAdditionalContext{
		JobSpecSource:  types.JobSpecSourceUpload,
		JobSpecFileURL: "file://" + path,
		Tone:           types.ToneCreative,
	}
	result, err := NewTailor(deps).Process(context.Background(), types.TextInput("resume.txt", resumeText), jobCtx, types.Customizations{})
	require.NoError(t, err)

	assert.Equal(t, "React Developer", result.Meta.JobSpec.PositionTitle)
	assert.Contains(t, jobSpec.requests[0].Prompt, "TypeScript for our product team")
}

func TestTailorTruncatesLongUploadedJobSpec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(path, []byte("React developer needed with lots of detail"), 0600))

	deps := testDeps()
	deps.MaxJobSpecLength = 6
	tailor := NewTailor(deps)

	input, err := tailor.resolveJobSpec(context.Background(), types.UserAdditionalContext{JobSpecFileURL: path})
	require.NoError(t, err)
	assert.Equal(t, "React ", input.Content)
}

func TestTailorRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		input  types.FileInput
		jobCtx types.UserAdditionalContext
		code   string
	}{
		{
			name:   "empty resume",
			input:  types.TextInput("resume.txt", ""),
			jobCtx: pastedContext(types.ToneNeutral),
			code:   errors.ErrCodeEmptyInput,
		},
		{
			name:  "both job spec carriers",
			input: types.TextInput("resume.txt", resumeText),
			jobCtx: types.UserAdditionalContext{
				JobSpecText:    "React developer needed",
				JobSpecFileURL: "/tmp/job.txt",
			},
			code: errors.ErrCodeInvalidJobContext,
		},
		{
			name:   "no job spec",
			input:  types.TextInput("resume.txt", resumeText),
			jobCtx: types.UserAdditionalContext{},
			code:   errors.ErrCodeInvalidJobContext,
		},
		{
			name:   "unknown tone",
			input:  types.TextInput("resume.txt", resumeText),
			jobCtx: types.UserAdditionalContext{JobSpecText: "React developer needed", Tone: "Sarcastic"},
			code:   errors.ErrCodeInvalidJobContext,
		},
		{
			name:   "remote job spec url",
			input:  types.TextInput("resume.txt", resumeText),
			jobCtx: types.UserAdditionalContext{JobSpecFileURL: "https://example.com/job.txt"},
			code:   errors.ErrCodeInvalidJobContext,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTailor(testDeps()).Process(context.Background(), tt.input, tt.jobCtx, types.Customizations{})
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestLocalPath(t *testing.T) {
	tests := []struct {
		location string
		want     string
		wantErr  bool
	}{
		{location: "/tmp/job.txt", want: "/tmp/job.txt"},
		{location: " relative/job.txt ", want: "relative/job.txt"},
		{location: "file:///tmp/job.txt", want: "/tmp/job.txt"},
		{location: "file://localhost/tmp/job.txt", want: "/tmp/job.txt"},
		{location: "file://server/share/job.txt", wantErr: true},
		{location: "s3://bucket/job.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			got, err := localPath(tt.location)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
