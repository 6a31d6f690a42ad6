package config

import "time"

// Frame Layout Constants
const (
	// FrameWidth is the output frame width in pixels (9:16 vertical)
	FrameWidth = 720

	// FrameHeight is the output frame height in pixels (9:16 vertical)
	FrameHeight = 1280

	// FramePadding is the horizontal and vertical content padding in pixels
	FramePadding = 30

	// HeaderHeight is the height of the top bar (subreddit, author, date)
	HeaderHeight = 100

	// InfoBarHeight is the height of the bottom bar (score, comment count)
	InfoBarHeight = 100

	// FooterSpace is the reserved space below the info bar
	FooterSpace = 50

	// TitleFontSize is the title text size when a body or image is present
	TitleFontSize = 38

	// TitleFontSizeLarge is the title text size for title-only frames
	TitleFontSizeLarge = 48

	// BodyFontSize is the post body text size
	BodyFontSize = 31

	// CommentFontSize is the comment text size
	CommentFontSize = 36

	// TitleLineSpacing is the extra vertical spacing between title lines
	TitleLineSpacing = 15

	// BodyLineSpacing is the extra vertical spacing between body lines
	BodyLineSpacing = 10

	// CommentLineSpacing is the extra vertical spacing between comment lines
	CommentLineSpacing = 8

	// Ellipsis is appended to the last line of a truncated page
	Ellipsis = "..."
)

// Duration Planning Constants
const (
	// MaxVideoDuration is the hard ceiling on total narrated duration in seconds
	MaxVideoDuration = 180.0

	// MinFrameSeconds is the floor for a single frame's display duration
	MinFrameSeconds = 0.01

	// DurationEpsilon bounds acceptable drift between narration and frame totals
	DurationEpsilon = 1e-3
)

// Post Processing Constants
const (
	// MaxCommentsPerPost caps how many top comments are narrated
	MaxCommentsPerPost = 5

	// MaxConcurrentPosts limits posts processed simultaneously
	MaxConcurrentPosts = 2

	// MaxConcurrentSynthesis limits in-flight narration requests per post
	MaxConcurrentSynthesis = 3

	// PostBatchDelay is the wait time between post batches
	PostBatchDelay = 2 * time.Second
)

// Video Output Constants
const (
	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"

	// VideoFPS is the output frame rate
	VideoFPS = 24
)

// Directory Constants
const (
	// OutputDir is the base directory for generated assets
	OutputDir = "output"

	// FramesSubdir holds rendered page images, one directory per post id
	FramesSubdir = "frames"

	// AudioSubdir holds synthesized narration, one directory per post id
	AudioSubdir = "audio"

	// VideosSubdir holds assembled videos
	VideosSubdir = "videos"
)
