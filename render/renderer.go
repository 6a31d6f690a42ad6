// Package render draws paginated post pages into fixed-size PNG frames.
package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"

	"shortreel/compose"
	"shortreel/config"
	"shortreel/layout"
	"shortreel/types"
)

// canvas font sizes are in points while frame geometry is in pixels
const pointsPerPixel = 72.0 / 25.4

var (
	colorCyan  = canvas.RGBA(0, 153.0/255.0, 153.0/255.0, 1.0)
	colorRed   = canvas.RGBA(1.0, 51.0/255.0, 51.0/255.0, 1.0)
	colorWhite = canvas.White
	colorBlack = canvas.Black
)

// Renderer rasterizes pages into 720x1280 frames: cyan header with the
// subreddit and author, the page's text lines in the content area, and a
// cyan info bar with the post's score and comment count.
type Renderer struct {
	family *canvas.FontFamily
}

// NewRenderer loads the font used for all frame text. An empty fontPath
// falls back to the first readable system font.
func NewRenderer(fontPath string) (*Renderer, error) {
	family, err := layout.LoadFontFamily(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load frame font: %w", err)
	}
	return &Renderer{family: family}, nil
}

// RenderPage draws one page of a segment and writes it as PNG to outPath.
func (r *Renderer) RenderPage(post types.Post, segment compose.Segment, page layout.Page, outPath string) error {
	c := canvas.New(config.FrameWidth, config.FrameHeight)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.SetFillColor(colorWhite)
	ctx.DrawPath(0, 0, canvas.Rectangle(config.FrameWidth, config.FrameHeight))

	r.drawHeader(ctx, post)
	r.drawBody(ctx, post, segment, page)
	r.drawInfoBar(ctx, post)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("failed to create frame directory: %w", err)
	}
	if err := renderers.Write(outPath, c, canvas.DPMM(1.0)); err != nil {
		return fmt.Errorf("failed to write frame %s: %w", outPath, err)
	}
	return nil
}

func (r *Renderer) drawHeader(ctx *canvas.Context, post types.Post) {
	ctx.SetFillColor(colorCyan)
	ctx.DrawPath(0, 0, canvas.Rectangle(config.FrameWidth, config.HeaderHeight))

	face := r.face(28, colorWhite)
	pad := float64(config.FramePadding)

	subreddit := canvas.NewTextLine(face, "r/"+post.Subreddit, canvas.Left)
	ctx.DrawText(pad, pad+face.Metrics().Ascent, subreddit)

	author := canvas.NewTextLine(face, "u/"+post.Author, canvas.Right)
	ctx.DrawText(config.FrameWidth-pad, pad+face.Metrics().Ascent, author)

	if !post.CreatedAt.IsZero() {
		dateFace := r.face(20, colorWhite)
		date := canvas.NewTextLine(dateFace, post.CreatedAt.Format("2006-01-02 15:04"), canvas.Left)
		ctx.DrawText(pad, pad+28+5+dateFace.Metrics().Ascent, date)
	}
}

func (r *Renderer) drawBody(ctx *canvas.Context, post types.Post, segment compose.Segment, page layout.Page) {
	style := StyleForSegment(post, segment)
	face := r.face(style.FontSize, colorBlack)
	pad := float64(config.FramePadding)

	y := float64(config.HeaderHeight) + pad
	for _, line := range page.Lines {
		text := canvas.NewTextLine(face, line, canvas.Left)
		ctx.DrawText(pad, y+face.Metrics().Ascent, text)
		y += style.FontSize + style.LineSpacing
	}
}

func (r *Renderer) drawInfoBar(ctx *canvas.Context, post types.Post) {
	barY := float64(config.FrameHeight - config.FooterSpace - config.InfoBarHeight)
	ctx.SetFillColor(colorCyan)
	ctx.DrawPath(0, barY, canvas.Rectangle(config.FrameWidth, config.InfoBarHeight))

	face := r.face(28, colorRed)
	pad := float64(config.FramePadding)
	textY := barY + pad/2 + face.Metrics().Ascent

	score := canvas.NewTextLine(face, fmt.Sprintf("▲ %d", post.Score), canvas.Left)
	ctx.DrawText(pad, textY, score)

	commentFace := r.face(28, colorWhite)
	comments := canvas.NewTextLine(commentFace, fmt.Sprintf("%d comments", post.NumComments), canvas.Left)
	ctx.DrawText(pad+160, textY, comments)
}

func (r *Renderer) face(sizePx float64, col color.Color) *canvas.FontFace {
	return r.family.Face(sizePx*pointsPerPixel, col, canvas.FontRegular, canvas.FontNormal)
}
