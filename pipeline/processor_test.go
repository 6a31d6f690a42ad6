package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"testing"

	"shortreel/compose"
	"shortreel/config"
	"shortreel/layout"
	"shortreel/metadata"
	"shortreel/tts"
	"shortreel/types"
	"shortreel/video"
)

// fakeSynthesizer writes an empty file per segment and reports canned
// durations. Segment ids in failFor return an error instead.
type fakeSynthesizer struct {
	mu        sync.Mutex
	durations map[string]float64
	failFor   map[string]bool
	calls     []string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, segmentID, text, outPath string) (tts.Asset, error) {
	f.mu.Lock()
	f.calls = append(f.calls, segmentID)
	f.mu.Unlock()

	if f.failFor[segmentID] {
		return tts.Asset{}, &tts.SynthesisError{SegmentID: segmentID, Err: fmt.Errorf("voice service down")}
	}
	if err := os.WriteFile(outPath, []byte("mp3"), 0o644); err != nil {
		return tts.Asset{}, err
	}
	seconds := f.durations[segmentID]
	if seconds == 0 {
		seconds = 1.0
	}
	return tts.Asset{SegmentID: segmentID, Path: outPath, Seconds: seconds}, nil
}

type fakeRenderer struct {
	mu    sync.Mutex
	pages []string
}

func (f *fakeRenderer) RenderPage(post types.Post, segment compose.Segment, page layout.Page, outPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, fmt.Sprintf("%s/%d", page.SegmentID, page.Index))
	return nil
}

type fakeAssembler struct {
	frames []video.Frame
	audio  []string
	called bool
}

func (f *fakeAssembler) Assemble(frames []video.Frame, audioPaths []string, outputPath string) error {
	f.called = true
	f.frames = frames
	f.audio = audioPaths
	return nil
}

type fakeSeenStore struct {
	seen   map[string]bool
	marked []string
}

func (f *fakeSeenStore) Seen(ctx context.Context, postID string) (bool, error) {
	return f.seen[postID], nil
}

func (f *fakeSeenStore) Mark(ctx context.Context, postID string) error {
	f.marked = append(f.marked, postID)
	return nil
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	return cfg
}

func newTestProcessor(t *testing.T, cfg Config, synth *fakeSynthesizer) (*Processor, *fakeRenderer, *fakeAssembler) {
	t.Helper()
	renderer := &fakeRenderer{}
	assembler := &fakeAssembler{}
	proc, err := NewProcessor(cfg, "", synth, renderer, assembler)
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	return proc, renderer, assembler
}

func TestProcessPost(t *testing.T) {
	synth := &fakeSynthesizer{durations: map[string]float64{
		"title":     3.0,
		"body":      10.0,
		"comment_0": 4.0,
	}}
	proc, renderer, assembler := newTestProcessor(t, testConfig(t), synth)

	post := types.Post{
		ID:        "abc123",
		Title:     "A short title",
		SelfText:  "Some body text that reads quickly.",
		Subreddit: "tifu",
		Comments:  []types.Comment{{Author: "alice", Body: "great story", Score: 10}},
	}

	if err := proc.ProcessPost(context.Background(), post); err != nil {
		t.Fatalf("ProcessPost: %v", err)
	}

	if !assembler.called {
		t.Fatalf("assembler never called")
	}
	if len(assembler.audio) != 3 {
		t.Fatalf("expected 3 narration clips, got %d", len(assembler.audio))
	}
	if len(renderer.pages) != len(assembler.frames) {
		t.Fatalf("rendered %d pages but assembled %d frames", len(renderer.pages), len(assembler.frames))
	}

	// frames follow segment priority order
	if !strings.HasPrefix(renderer.pages[0], "title/") {
		t.Fatalf("first frame = %s, want title", renderer.pages[0])
	}
	last := renderer.pages[len(renderer.pages)-1]
	if !strings.HasPrefix(last, "comment_0/") {
		t.Fatalf("last frame = %s, want comment_0", last)
	}

	// total display time matches total narration
	total := 0.0
	for _, frame := range assembler.frames {
		total += frame.Seconds
	}
	if math.Abs(total-17.0) > 1e-3 {
		t.Fatalf("frame total = %v, want 17.0", total)
	}
}

func TestProcessPostDropsFailedSynthesis(t *testing.T) {
	synth := &fakeSynthesizer{
		durations: map[string]float64{"title": 2.0, "body": 3.0},
		failFor:   map[string]bool{"comment_0": true},
	}
	proc, renderer, assembler := newTestProcessor(t, testConfig(t), synth)

	post := types.Post{
		ID:       "abc123",
		Title:    "A short title",
		SelfText: "Body text.",
		Comments: []types.Comment{{Author: "alice", Body: "doomed comment", Score: 5}},
	}

	if err := proc.ProcessPost(context.Background(), post); err != nil {
		t.Fatalf("ProcessPost: %v", err)
	}
	if len(assembler.audio) != 2 {
		t.Fatalf("expected 2 narration clips after drop, got %d", len(assembler.audio))
	}
	for _, page := range renderer.pages {
		if strings.HasPrefix(page, "comment_0/") {
			t.Fatalf("dropped segment still rendered: %s", page)
		}
	}
}

func TestProcessPostFailsWhenAllSynthesisFails(t *testing.T) {
	synth := &fakeSynthesizer{failFor: map[string]bool{"title": true}}
	proc, _, assembler := newTestProcessor(t, testConfig(t), synth)

	post := types.Post{ID: "abc123", Title: "Only a title"}
	if err := proc.ProcessPost(context.Background(), post); err == nil {
		t.Fatalf("expected error when every segment fails")
	}
	if assembler.called {
		t.Fatalf("assembler called with nothing to assemble")
	}
}

func TestProcessPostBudgetExcludesAndCleansAudio(t *testing.T) {
	cfg := testConfig(t)
	cfg.BudgetSeconds = 10

	synth := &fakeSynthesizer{durations: map[string]float64{
		"title":     4.0,
		"body":      4.0,
		"comment_0": 5.0,
	}}
	proc, renderer, assembler := newTestProcessor(t, cfg, synth)

	post := types.Post{
		ID:       "abc123",
		Title:    "A short title",
		SelfText: "Body text.",
		Comments: []types.Comment{{Author: "alice", Body: "too long for budget", Score: 5}},
	}

	if err := proc.ProcessPost(context.Background(), post); err != nil {
		t.Fatalf("ProcessPost: %v", err)
	}

	if len(assembler.audio) != 2 {
		t.Fatalf("excluded segment's audio passed to assembler: %v", assembler.audio)
	}
	for _, page := range renderer.pages {
		if strings.HasPrefix(page, "comment_0/") {
			t.Fatalf("excluded segment rendered: %s", page)
		}
	}

	// the orphaned clip must be deleted from disk
	orphan := cfg.OutputDir + "/audio/abc123/comment_0.mp3"
	if _, err := os.Stat(orphan); !os.IsNotExist(err) {
		t.Fatalf("orphaned audio still on disk: %s", orphan)
	}
}

func TestLayoutForTitleOnly(t *testing.T) {
	proc, _, _ := newTestProcessor(t, testConfig(t), &fakeSynthesizer{})

	large := proc.layoutFor(compose.KindTitle, false)
	if large.FontSize != config.TitleFontSizeLarge {
		t.Fatalf("title-only FontSize = %v, want %v", large.FontSize, config.TitleFontSizeLarge)
	}
	if _, ok := proc.measurers[large.FontSize]; !ok {
		t.Fatalf("no measurer built for the title-only size")
	}

	regular := proc.layoutFor(compose.KindTitle, true)
	if regular.FontSize != config.TitleFontSize {
		t.Fatalf("title-with-body FontSize = %v, want %v", regular.FontSize, config.TitleFontSize)
	}

	body := proc.layoutFor(compose.KindBody, false)
	if body.FontSize != config.BodyFontSize {
		t.Fatalf("body FontSize = %v, want %v", body.FontSize, config.BodyFontSize)
	}
}

func TestProcessPostSkipsEmptyPost(t *testing.T) {
	synth := &fakeSynthesizer{}
	proc, _, assembler := newTestProcessor(t, testConfig(t), synth)

	post := types.Post{ID: "abc123", Title: "https://example.com/only-a-url"}
	if err := proc.ProcessPost(context.Background(), post); err != nil {
		t.Fatalf("ProcessPost: %v", err)
	}
	if assembler.called || len(synth.calls) != 0 {
		t.Fatalf("empty post should short-circuit before synthesis")
	}
}

func TestProcessPostSkipsSeenAndMarksNew(t *testing.T) {
	synth := &fakeSynthesizer{durations: map[string]float64{"title": 1.0}}
	proc, _, assembler := newTestProcessor(t, testConfig(t), synth)

	seen := &fakeSeenStore{seen: map[string]bool{"old111": true}}
	proc.WithSeenStore(seen)

	if err := proc.ProcessPost(context.Background(), types.Post{ID: "old111", Title: "Seen before"}); err != nil {
		t.Fatalf("ProcessPost(seen): %v", err)
	}
	if assembler.called {
		t.Fatalf("seen post was processed")
	}

	if err := proc.ProcessPost(context.Background(), types.Post{ID: "new222", Title: "Fresh post"}); err != nil {
		t.Fatalf("ProcessPost(new): %v", err)
	}
	if len(seen.marked) != 1 || seen.marked[0] != "new222" {
		t.Fatalf("marked = %v, want [new222]", seen.marked)
	}
}

type fakeArchiver struct {
	archived map[string]bool
	stored   []string
}

func (f *fakeArchiver) Archived(ctx context.Context, postID string) (bool, error) {
	return f.archived[postID], nil
}

func (f *fakeArchiver) ArchiveVideo(ctx context.Context, postID, videoPath string) error {
	f.stored = append(f.stored, postID)
	return nil
}

func TestProcessPostSkipsArchivedAndStoresNew(t *testing.T) {
	synth := &fakeSynthesizer{durations: map[string]float64{"title": 1.0}}
	proc, _, assembler := newTestProcessor(t, testConfig(t), synth)

	archiver := &fakeArchiver{archived: map[string]bool{"old111": true}}
	proc.WithArchiver(archiver)

	if err := proc.ProcessPost(context.Background(), types.Post{ID: "old111", Title: "Archived before"}); err != nil {
		t.Fatalf("ProcessPost(archived): %v", err)
	}
	if assembler.called {
		t.Fatalf("archived post was processed")
	}

	if err := proc.ProcessPost(context.Background(), types.Post{ID: "new222", Title: "Fresh post"}); err != nil {
		t.Fatalf("ProcessPost(new): %v", err)
	}
	if len(archiver.stored) != 1 || archiver.stored[0] != "new222" {
		t.Fatalf("stored = %v, want [new222]", archiver.stored)
	}
}

type fakeUploader struct {
	uploaded []string
	metas    []metadata.VideoMetadata
}

func (f *fakeUploader) UploadVideo(videoPath string, meta metadata.VideoMetadata) (string, error) {
	f.uploaded = append(f.uploaded, videoPath)
	f.metas = append(f.metas, meta)
	return "yt123", nil
}

func TestProcessPostUploadsWithDefaultMetadata(t *testing.T) {
	synth := &fakeSynthesizer{durations: map[string]float64{"title": 1.0}}
	proc, _, _ := newTestProcessor(t, testConfig(t), synth)

	uploader := &fakeUploader{}
	proc.WithUploader(uploader)

	post := types.Post{ID: "abc123", Title: "A story worth telling", Subreddit: "tifu"}
	if err := proc.ProcessPost(context.Background(), post); err != nil {
		t.Fatalf("ProcessPost: %v", err)
	}

	if len(uploader.uploaded) != 1 {
		t.Fatalf("expected one upload, got %d", len(uploader.uploaded))
	}
	if uploader.metas[0].Title != post.Title {
		t.Fatalf("upload metadata title = %q", uploader.metas[0].Title)
	}
}
