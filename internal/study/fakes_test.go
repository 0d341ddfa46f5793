package study

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/studyplay/internal/knowledge"
	"github.com/abhisek/studyplay/internal/store"
	"github.com/abhisek/studyplay/internal/token"
	"github.com/abhisek/studyplay/internal/tokenizer"
)

type completion struct {
	index  int
	passed bool
}

type fakeHost struct {
	mu              sync.Mutex
	src             string
	subtitlesHidden bool
	overlaysHidden  bool
	paused          bool
	plays           int
	seeks           []time.Duration
	pauseAts        []time.Duration
	notes           []string
	completed       []completion
}

func (h *fakeHost) VideoSource() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.src
}

func (h *fakeHost) setSource(src string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.src = src
}

func (h *fakeHost) SetSubtitlesHidden(hidden bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subtitlesHidden = hidden
}

func (h *fakeHost) SetOverlaysHidden(hidden bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.overlaysHidden = hidden
}

func (h *fakeHost) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paused = true
}

func (h *fakeHost) Play() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paused = false
	h.plays++
}

func (h *fakeHost) Seek(pos time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seeks = append(h.seeks, pos)
}

func (h *fakeHost) PauseAt(pos time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pauseAts = append(h.pauseAts, pos)
}

func (h *fakeHost) Notify(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notes = append(h.notes, msg)
}

func (h *fakeHost) TestCompleted(index int, passed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed = append(h.completed, completion{index, passed})
}

type fakeOverlay struct {
	mu      sync.Mutex
	renders []DisplayState
	hides   int
}

func (o *fakeOverlay) Render(state DisplayState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.renders = append(o.renders, state)
}

func (o *fakeOverlay) Hide() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hides++
}

func (o *fakeOverlay) last() (DisplayState, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.renders) == 0 {
		return DisplayState{}, false
	}
	return o.renders[len(o.renders)-1], true
}

type fakeStudyRepo struct {
	mu      sync.Mutex
	records []store.StudyRecord
	err     error
}

func (r *fakeStudyRepo) Save(_ context.Context, rec store.StudyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeStudyRepo) Stats(_ context.Context, lemma string) (store.StudyStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := store.StudyStats{Lemma: lemma}
	for _, rec := range r.records {
		if rec.Lemma == lemma {
			s.Attempts++
			if rec.Correct {
				s.Correct++
			}
		}
	}
	return s, nil
}

func (r *fakeStudyRepo) Totals(context.Context) (store.StudyStats, error) {
	return store.StudyStats{}, errors.New("not implemented")
}

func (r *fakeStudyRepo) TopLemmas(context.Context, int) ([]store.StudyStats, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeStudyRepo) Query(context.Context, store.QueryOpts) ([]store.StudyRecord, error) {
	return nil, errors.New("not implemented")
}

type fakeRecognitionRepo struct {
	mu      sync.Mutex
	batches [][]store.RecognitionAttempt
	err     error
}

func (r *fakeRecognitionRepo) Stats(_ context.Context, lemma string) (store.RecognitionStats, error) {
	return store.RecognitionStats{Lemma: lemma}, nil
}

func (r *fakeRecognitionRepo) RecordAttemptsBatch(_ context.Context, attempts []store.RecognitionAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.batches = append(r.batches, attempts)
	return nil
}

type fakeKnowledge struct {
	mu       sync.Mutex
	statuses map[string]knowledge.Status
	calls    int
}

func (f *fakeKnowledge) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeKnowledge) Get(_ context.Context, candidates []string) knowledge.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	best := knowledge.StatusUncollected
	for _, c := range candidates {
		best = knowledge.Max(best, f.statuses[c])
	}
	return best
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func part(text, reading, pos, basic string) token.Part {
	return token.Part{Text: text, Reading: reading, POS: pos, WordType: token.WordTypeKnown, BasicForm: basic}
}

func groupsOf(parts ...token.Part) []token.Group {
	groups := make([]token.Group, len(parts))
	for i, p := range parts {
		groups[i] = token.Group{p}
	}
	return groups
}

// studentParts is 私は学生です with 私 left unclassified so that 学生 is the
// only blank candidate.
func studentParts() []token.Part {
	return []token.Part{
		{Text: "私", Reading: "ワタシ", POS: "名詞,代名詞,一般,*", BasicForm: "私"},
		part("は", "ハ", "助詞,係助詞,*,*", "は"),
		part("学生", "ガクセイ", "名詞,一般,*,*", "学生"),
		part("です", "デス", "助動詞,*,*,*", "です"),
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Frequency = 1
	cfg.RateLimitSeconds = 0
	return cfg
}

type harness struct {
	engine  *Engine
	host    *fakeHost
	overlay *fakeOverlay
	tok     *tokenizer.Mock
	clock   *fakeClock
}

func newHarness(t *testing.T, cfg Config, deps Deps) *harness {
	t.Helper()
	h := &harness{
		host:    &fakeHost{src: "video-1"},
		overlay: &fakeOverlay{},
		tok:     tokenizer.NewMock(),
		clock:   &fakeClock{now: time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)},
	}
	h.tok.Set("私は学生です", groupsOf(studentParts()...)...)
	if deps.Tokenizer == nil {
		deps.Tokenizer = h.tok
	}
	if deps.Logger == nil {
		deps.Logger = quietLogger()
	}
	if deps.Now == nil {
		deps.Now = h.clock.Now
	}
	h.engine = New(cfg, deps)
	h.engine.Bind(h.host, h.overlay)
	t.Cleanup(func() { h.engine.Close() })
	return h
}

func sub(index int, text string) Subtitle {
	start := time.Duration(index) * 3 * time.Second
	return Subtitle{Index: index, Start: start, End: start + 2*time.Second, Text: text}
}

// surfaceAnswers answers every blank of the visible test with its surface text.
func (h *harness) surfaceAnswers(t *testing.T) []string {
	t.Helper()
	d, ok := h.engine.Display()
	if !ok {
		t.Fatal("no test displayed")
	}
	answers := make([]string, len(d.Blanks))
	for i, b := range d.Blanks {
		answers[i] = token.TextOf(b.Parts(d.Tokens))
	}
	return answers
}
