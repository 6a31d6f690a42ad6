// Package pipeline turns collected posts into narrated short videos: plan
// segments, wrap and paginate text, synthesize narration, fit the duration
// budget, render frames, and assemble the final video.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"shortreel/compose"
	"shortreel/config"
	"shortreel/layout"
	"shortreel/metadata"
	"shortreel/timeline"
	"shortreel/tts"
	"shortreel/types"
	"shortreel/video"
)

// Renderer draws one page of a segment into an image file.
type Renderer interface {
	RenderPage(post types.Post, segment compose.Segment, page layout.Page, outPath string) error
}

// Assembler builds the final video from frames and narration clips.
type Assembler interface {
	Assemble(frames []video.Frame, audioPaths []string, outputPath string) error
}

// Uploader publishes a finished video and returns its remote id.
type Uploader interface {
	UploadVideo(videoPath string, meta metadata.VideoMetadata) (string, error)
}

// SeenStore remembers which posts have already been processed.
type SeenStore interface {
	Seen(ctx context.Context, postID string) (bool, error)
	Mark(ctx context.Context, postID string) error
}

// Archiver stores finished videos in long-term storage.
type Archiver interface {
	ArchiveVideo(ctx context.Context, postID, videoPath string) error
	Archived(ctx context.Context, postID string) (bool, error)
}

// SegmentLayout is the text geometry for one segment kind.
type SegmentLayout struct {
	FontSize    float64
	LineSpacing float64
	// MaxTotalLines caps a segment's wrapped lines; the overflow is cut and
	// the last kept line gets an ellipsis. Zero means unlimited.
	MaxTotalLines int
}

// Config holds the pipeline's layout geometry and duration budget.
type Config struct {
	// MaxWidth is the usable text width of a frame in pixels.
	MaxWidth float64
	// ContentHeight is the usable text height of a frame in pixels.
	ContentHeight float64
	// Layouts maps each segment kind to its text geometry.
	Layouts map[compose.Kind]SegmentLayout
	// TitleOnlyLayout replaces the title geometry when the post has no body
	// text; the title carries the whole frame and is drawn larger.
	TitleOnlyLayout SegmentLayout
	// BreakLongTokens enables rune-level splitting of over-wide tokens.
	BreakLongTokens bool
	// BudgetSeconds is the total narrated duration ceiling.
	BudgetSeconds float64
	// MaxComments caps narrated comments per post.
	MaxComments int
	// OutputDir is the root for frames, audio, and videos.
	OutputDir string
}

// DefaultConfig derives the pipeline geometry from the frame constants.
func DefaultConfig() Config {
	return Config{
		MaxWidth:      config.FrameWidth - 2*config.FramePadding,
		ContentHeight: config.FrameHeight - config.HeaderHeight - config.InfoBarHeight - config.FooterSpace - 2*config.FramePadding,
		Layouts: map[compose.Kind]SegmentLayout{
			compose.KindTitle:   {FontSize: config.TitleFontSize, LineSpacing: config.TitleLineSpacing},
			compose.KindBody:    {FontSize: config.BodyFontSize, LineSpacing: config.BodyLineSpacing},
			compose.KindComment: {FontSize: config.CommentFontSize, LineSpacing: config.CommentLineSpacing, MaxTotalLines: 60},
		},
		TitleOnlyLayout: SegmentLayout{FontSize: config.TitleFontSizeLarge, LineSpacing: config.TitleLineSpacing},
		BudgetSeconds: config.MaxVideoDuration,
		MaxComments:   config.MaxCommentsPerPost,
		OutputDir:     config.OutputDir,
	}
}

// Processor runs the post-to-video pipeline. Synthesizer, Renderer, and
// Assembler are required; the remaining collaborators are optional and
// skipped when nil.
type Processor struct {
	cfg         Config
	synthesizer tts.Synthesizer
	renderer    Renderer
	assembler   Assembler
	generator   metadata.Generator
	uploader    Uploader
	seen        SeenStore
	archiver    Archiver

	measurers map[float64]layout.Measurer
}

// NewProcessor wires the pipeline. fontPath selects the measurement font; an
// empty path uses the first available system font, and when no font loads at
// all, measurement falls back to a fixed per-rune advance.
func NewProcessor(cfg Config, fontPath string, synthesizer tts.Synthesizer, renderer Renderer, assembler Assembler) (*Processor, error) {
	if synthesizer == nil || renderer == nil || assembler == nil {
		return nil, fmt.Errorf("synthesizer, renderer, and assembler are required")
	}

	layouts := make([]SegmentLayout, 0, len(cfg.Layouts)+1)
	for _, sl := range cfg.Layouts {
		layouts = append(layouts, sl)
	}
	layouts = append(layouts, cfg.TitleOnlyLayout)

	measurers := make(map[float64]layout.Measurer, len(layouts))
	for _, sl := range layouts {
		if sl.FontSize <= 0 {
			continue
		}
		if _, ok := measurers[sl.FontSize]; ok {
			continue
		}
		m, err := layout.NewFaceMeasurer(fontPath, sl.FontSize)
		if err != nil {
			log.Printf("font measurement unavailable at size %.0fpx, using fixed advance: %v", sl.FontSize, err)
			measurers[sl.FontSize] = layout.NewFixedAdvance(sl.FontSize)
			continue
		}
		measurers[sl.FontSize] = m
	}

	return &Processor{
		cfg:         cfg,
		synthesizer: synthesizer,
		renderer:    renderer,
		assembler:   assembler,
		measurers:   measurers,
	}, nil
}

// WithMetadata sets the optional metadata generator.
func (p *Processor) WithMetadata(gen metadata.Generator) *Processor {
	p.generator = gen
	return p
}

// WithUploader sets the optional video uploader.
func (p *Processor) WithUploader(up Uploader) *Processor {
	p.uploader = up
	return p
}

// WithSeenStore sets the optional processed-post store.
func (p *Processor) WithSeenStore(seen SeenStore) *Processor {
	p.seen = seen
	return p
}

// WithArchiver sets the optional video archiver.
func (p *Processor) WithArchiver(archiver Archiver) *Processor {
	p.archiver = archiver
	return p
}

// ProcessPosts runs the pipeline over a batch of posts with bounded
// concurrency. Each post fails independently; the batch never aborts.
func (p *Processor) ProcessPosts(ctx context.Context, posts []types.Post) {
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, config.MaxConcurrentPosts)

	for i, post := range posts {
		wg.Add(1)

		go func(idx int, post types.Post) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := p.ProcessPost(ctx, post); err != nil {
				log.Printf("[%d/%d] failed to process post %s: %v", idx+1, len(posts), post.ID, err)
				return
			}

			if idx < len(posts)-1 {
				time.Sleep(config.PostBatchDelay)
			}
		}(i, post)
	}

	wg.Wait()
	log.Println("all posts processed")
}

// ProcessPost turns one post into a video. Posts with no narratable content
// and posts already seen are skipped without error.
func (p *Processor) ProcessPost(ctx context.Context, post types.Post) error {
	if p.seen != nil {
		seen, err := p.seen.Seen(ctx, post.ID)
		if err != nil {
			return fmt.Errorf("seen check failed: %w", err)
		}
		if seen {
			log.Printf("post %s already processed, skipping", post.ID)
			return nil
		}
	}

	if p.archiver != nil {
		archived, err := p.archiver.Archived(ctx, post.ID)
		if err != nil {
			return fmt.Errorf("archive check failed: %w", err)
		}
		if archived {
			log.Printf("post %s already archived, skipping", post.ID)
			return nil
		}
	}

	segments := compose.Plan(post, p.cfg.MaxComments)
	if len(segments) == 0 {
		log.Printf("post %s has no narratable content, skipping", post.ID)
		return nil
	}

	paginated := p.paginate(segments)
	if len(paginated) == 0 {
		log.Printf("post %s has no renderable pages, skipping", post.ID)
		return nil
	}

	timings, assets, err := p.synthesize(ctx, post.ID, paginated)
	if err != nil {
		return err
	}
	if len(timings) == 0 {
		return fmt.Errorf("narration failed for every segment of post %s", post.ID)
	}

	included, excludedIDs := timeline.Enforce(timings, p.cfg.BudgetSeconds)
	p.removeOrphanedAudio(assets, excludedIDs)

	plan, diagnostics := timeline.Build(post.ID, included, p.cfg.BudgetSeconds, excludedIDs)
	for _, d := range diagnostics {
		log.Printf("post %s: %s", post.ID, d)
	}
	if plan.Empty() {
		return fmt.Errorf("empty video plan for post %s", post.ID)
	}
	if len(plan.ExcludedSegments) > 0 {
		log.Printf("post %s: %d segments dropped to fit the %.0fs budget", post.ID, len(plan.ExcludedSegments), plan.BudgetSeconds)
	}
	if plan.TotalSeconds > plan.BudgetSeconds {
		log.Printf("post %s: title and body alone run %.1fs, over the %.0fs budget", post.ID, plan.TotalSeconds, plan.BudgetSeconds)
	}

	videoPath, err := p.produce(ctx, post, plan, included, assets)
	if err != nil {
		return err
	}

	if err := p.publish(ctx, post, videoPath); err != nil {
		return err
	}

	if p.seen != nil {
		if err := p.seen.Mark(ctx, post.ID); err != nil {
			log.Printf("failed to mark post %s as seen: %v", post.ID, err)
		}
	}

	log.Printf("post %s done: %d frames, %.1fs", post.ID, len(plan.Frames), plan.TotalSeconds)
	return nil
}

// paginatedSegment is a segment with its wrapped, paged text.
type paginatedSegment struct {
	segment compose.Segment
	pages   []layout.Page
}

// layoutFor picks a segment's text geometry. The title of a post with no
// body segment uses the title-only geometry so it wraps at the size it is
// drawn at.
func (p *Processor) layoutFor(kind compose.Kind, hasBody bool) SegmentLayout {
	if kind == compose.KindTitle && !hasBody && p.cfg.TitleOnlyLayout.FontSize > 0 {
		return p.cfg.TitleOnlyLayout
	}
	return p.cfg.Layouts[kind]
}

func (p *Processor) paginate(segments []compose.Segment) []paginatedSegment {
	hasBody := false
	for _, seg := range segments {
		if seg.Kind == compose.KindBody {
			hasBody = true
			break
		}
	}

	var out []paginatedSegment
	for _, seg := range segments {
		sl := p.layoutFor(seg.Kind, hasBody)
		m := p.measurers[sl.FontSize]

		lines, err := layout.Wrap(seg.RawText, m, p.cfg.MaxWidth, layout.Options{BreakLongTokens: p.cfg.BreakLongTokens})
		if err != nil {
			log.Printf("segment %s: wrap failed, dropping: %v", seg.ID, err)
			continue
		}

		perPage := layout.LinesPerPage(p.cfg.ContentHeight, sl.FontSize, sl.LineSpacing)
		pages, err := layout.Paginate(seg.ID, lines, perPage, sl.MaxTotalLines, m, p.cfg.MaxWidth, config.Ellipsis)
		if err != nil {
			log.Printf("segment %s: pagination failed, dropping: %v", seg.ID, err)
			continue
		}
		if len(pages) == 0 {
			continue
		}
		out = append(out, paginatedSegment{segment: seg, pages: pages})
	}
	return out
}

// synthesize produces narration for every paginated segment with bounded
// concurrency and allocates each segment's audio time across its pages.
// Segments whose narration fails are dropped; the post proceeds without them.
func (p *Processor) synthesize(ctx context.Context, postID string, segments []paginatedSegment) ([]timeline.SegmentTiming, map[string]tts.Asset, error) {
	audioDir := filepath.Join(p.cfg.OutputDir, config.AudioSubdir, postID)
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create audio directory: %w", err)
	}

	results := make([]tts.Asset, len(segments))
	errs := make([]error, len(segments))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, config.MaxConcurrentSynthesis)

	for i, ps := range segments {
		wg.Add(1)
		go func(idx int, ps paginatedSegment) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			outPath := filepath.Join(audioDir, ps.segment.ID+".mp3")
			asset, err := p.synthesizer.Synthesize(ctx, ps.segment.ID, ps.segment.RawText, outPath)
			results[idx] = asset
			errs[idx] = err
		}(i, ps)
	}
	wg.Wait()

	var timings []timeline.SegmentTiming
	assets := make(map[string]tts.Asset, len(segments))
	for i, ps := range segments {
		if errs[i] != nil {
			log.Printf("dropping segment %s: %v", ps.segment.ID, errs[i])
			continue
		}
		assets[ps.segment.ID] = results[i]
		timings = append(timings, timeline.SegmentTiming{
			Segment:   ps.segment,
			Pages:     ps.pages,
			Durations: timeline.Allocate(len(ps.pages), results[i].Seconds),
		})
	}
	return timings, assets, nil
}

// removeOrphanedAudio deletes narration clips for budget-excluded segments
// so they never leak into the assembled audio track.
func (p *Processor) removeOrphanedAudio(assets map[string]tts.Asset, excludedIDs []string) {
	for _, id := range excludedIDs {
		asset, ok := assets[id]
		if !ok {
			continue
		}
		if err := os.Remove(asset.Path); err != nil {
			log.Printf("failed to remove orphaned audio %s: %v", asset.Path, err)
		}
		delete(assets, id)
	}
}

// produce renders every frame and assembles the video.
func (p *Processor) produce(ctx context.Context, post types.Post, plan timeline.VideoPlan, included []timeline.SegmentTiming, assets map[string]tts.Asset) (string, error) {
	framesDir := filepath.Join(p.cfg.OutputDir, config.FramesSubdir, post.ID)

	segmentsByID := make(map[string]compose.Segment, len(included))
	for _, st := range included {
		segmentsByID[st.Segment.ID] = st.Segment
	}

	frames := make([]video.Frame, 0, len(plan.Frames))
	for _, fd := range plan.Frames {
		framePath := filepath.Join(framesDir, fmt.Sprintf("%s_%d.png", fd.Page.SegmentID, fd.Page.Index))
		if err := p.renderer.RenderPage(post, segmentsByID[fd.Page.SegmentID], fd.Page, framePath); err != nil {
			return "", fmt.Errorf("failed to render frame %s: %w", framePath, err)
		}
		frames = append(frames, video.Frame{Path: framePath, Seconds: fd.Seconds})
	}

	// narration clips follow segment priority order, matching the frames
	audioPaths := make([]string, 0, len(included))
	for _, st := range included {
		if asset, ok := assets[st.Segment.ID]; ok {
			audioPaths = append(audioPaths, asset.Path)
		}
	}

	videoPath := filepath.Join(p.cfg.OutputDir, config.VideosSubdir, post.ID+".mp4")
	if err := p.assembler.Assemble(frames, audioPaths, videoPath); err != nil {
		return "", fmt.Errorf("video assembly failed: %w", err)
	}

	log.Printf("video created: %s", videoPath)
	return videoPath, nil
}

// publish uploads and archives the video when those collaborators are
// configured.
func (p *Processor) publish(ctx context.Context, post types.Post, videoPath string) error {
	if p.uploader != nil {
		meta := metadata.ResolveMetadata(ctx, p.generator, post)
		videoID, err := p.uploader.UploadVideo(videoPath, meta)
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}
		log.Printf("post %s uploaded as %s", post.ID, videoID)
	}

	if p.archiver != nil {
		if err := p.archiver.ArchiveVideo(ctx, post.ID, videoPath); err != nil {
			log.Printf("failed to archive video for post %s: %v", post.ID, err)
		}
	}
	return nil
}
