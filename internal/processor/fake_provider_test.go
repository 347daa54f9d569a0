package processor

import (
	"context"
	"sync"
	"time"

	"resumeparser/internal/ai"
	"resumeparser/internal/types"
)

// fakeProvider replays scripted replies in order. The last reply repeats.
type fakeProvider struct {
	mu       sync.Mutex
	replies  []fakeReply
	requests []ai.Request
}

type fakeReply struct {
	text string
	err  error
}

func reply(text string) fakeReply { return fakeReply{text: text} }

func failure(err error) fakeReply { return fakeReply{err: err} }

func newFake(r ...fakeReply) *fakeProvider { return &fakeProvider{replies: r} }

func (f *fakeProvider) next(req ai.Request) (*ai.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if len(f.replies) == 0 {
		return &ai.Response{}, nil
	}
	r := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	if r.err != nil {
		return nil, r.err
	}
	return &ai.Response{Text: r.text, Usage: &ai.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}}, nil
}

func (f *fakeProvider) GenerateStructured(_ context.Context, req ai.Request) (*ai.Response, error) {
	return f.next(req)
}

func (f *fakeProvider) GenerateText(_ context.Context, req ai.Request) (*ai.Response, error) {
	return f.next(req)
}

func (f *fakeProvider) GetModelInfo(context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "fake", Available: true}
}

func (f *fakeProvider) Close() error { return nil }

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// recordingRecorder keeps every measurement.
type recordingRecorder struct {
	mu        sync.Mutex
	aiOps     []string
	fallbacks map[string]string
	results   []types.Meta
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{fallbacks: map[string]string{}}
}

func (r *recordingRecorder) RecordAIOperation(_ context.Context, operation string, _ time.Duration, _ *ai.TokenUsage, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aiOps = append(r.aiOps, operation)
}

func (r *recordingRecorder) RecordFallback(_ context.Context, operation, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks[operation] = reason
}

func (r *recordingRecorder) RecordResult(_ context.Context, meta types.Meta, _ int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, meta)
}

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testDeps returns deterministic dependencies without any provider.
func testDeps() Dependencies {
	return Dependencies{
		now:   func() time.Time { return fixedTime },
		newID: func() string { return "req-1" },
	}
}

const resumeText = `Jane Doe
Senior Engineer
jane@example.com

EXPERIENCE
Role: Senior Engineer
Company: Acme Corp
Date: Jan 2020 - Present
* Built a thing
* Shipped a feature

SKILLS
Go, SQL, React
`

const resumeJSON = "Here you go:\n```json\n" + `{
  "name": "Jane Doe",
  "title": "Senior Engineer",
  "summary": "Engineer who ships.",
  "contact": {"email": "jane@example.com"},
  "experience": [
    {"title": "Senior Engineer", "company": "Acme Corp", "duration": "Jan 2020 - Present",
     "details": ["Built a thing", "Shipped a feature"]},
  ],
  "skills": ["Go", "SQL", "React"]
}` + "\n```"

const tailoredJSON = `{
  "name": "Jane Doe",
  "title": "Senior React Engineer",
  "summary": "React engineer who ships.",
  "contact": {"email": "jane@example.com"},
  "experience": [
    {"title": "Senior Engineer", "company": "Acme Corp", "duration": "Jan 2020 - Present",
     "details": ["Built a React thing", "Shipped a feature"]}
  ],
  "skills": ["React", "SQL", "Go"],
  "metadata": {"aiCommentary": "Emphasized React work."}
}`

const jobSpecJSON = `{
  "positionTitle": "React Developer",
  "requiredSkills": ["React", "TypeScript"],
  "yearsExperience": 3,
  "responsibilities": ["Build UI"]
}`

const jobSpecText = "React developer needed. We are hiring a React Developer to build UI features with TypeScript for our product team."
