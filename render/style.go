package render

import (
	"shortreel/compose"
	"shortreel/config"
	"shortreel/types"
)

// SegmentStyle is the text treatment for one segment kind.
type SegmentStyle struct {
	FontSize    float64
	LineSpacing float64
}

// StyleForSegment returns the style used when drawing a segment of the given
// post. The title of a post with no body text carries the whole frame and is
// drawn at the larger title size.
func StyleForSegment(post types.Post, segment compose.Segment) SegmentStyle {
	if segment.Kind == compose.KindTitle && compose.StripURLs(post.SelfText) == "" {
		return SegmentStyle{FontSize: config.TitleFontSizeLarge, LineSpacing: config.TitleLineSpacing}
	}
	return StyleFor(segment.Kind)
}

// StyleFor returns the style used when drawing a segment of the given kind.
func StyleFor(kind compose.Kind) SegmentStyle {
	switch kind {
	case compose.KindTitle:
		return SegmentStyle{FontSize: config.TitleFontSize, LineSpacing: config.TitleLineSpacing}
	case compose.KindComment:
		return SegmentStyle{FontSize: config.CommentFontSize, LineSpacing: config.CommentLineSpacing}
	default:
		return SegmentStyle{FontSize: config.BodyFontSize, LineSpacing: config.BodyLineSpacing}
	}
}
