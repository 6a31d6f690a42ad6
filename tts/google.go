package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	translateTTSURL = "https://translate.google.com/translate_tts"

	// the endpoint rejects queries beyond roughly 200 characters
	maxChunkLen = 200

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
)

// GoogleTTS synthesizes narration through the public Google Translate
// endpoint. Long texts are split into chunks and the MP3 frames are
// concatenated into a single clip.
type GoogleTTS struct {
	Client   *http.Client
	Language string

	endpoint string
	probe    func(path string) (float64, error)
}

func NewGoogleTTS() *GoogleTTS {
	return &GoogleTTS{
		Client:   &http.Client{Timeout: 30 * time.Second},
		Language: "en",
		endpoint: translateTTSURL,
		probe:    ProbeDuration,
	}
}

func (g *GoogleTTS) Synthesize(ctx context.Context, segmentID, text, outPath string) (Asset, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Asset{}, &SynthesisError{SegmentID: segmentID, Err: fmt.Errorf("empty text")}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return Asset{}, &SynthesisError{SegmentID: segmentID, Err: err}
	}

	for _, chunk := range splitChunks(text, maxChunkLen) {
		if err := g.fetchChunk(ctx, chunk, out); err != nil {
			out.Close()
			os.Remove(outPath)
			return Asset{}, &SynthesisError{SegmentID: segmentID, Err: err}
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return Asset{}, &SynthesisError{SegmentID: segmentID, Err: err}
	}

	seconds, err := g.probe(outPath)
	if err != nil {
		os.Remove(outPath)
		return Asset{}, &SynthesisError{SegmentID: segmentID, Err: err}
	}

	return Asset{SegmentID: segmentID, Path: outPath, Seconds: seconds}, nil
}

func (g *GoogleTTS) fetchChunk(ctx context.Context, chunk string, w io.Writer) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", g.Language)
	params.Set("q", chunk)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tts endpoint returned status %d", resp.StatusCode)
	}

	_, err = io.Copy(w, resp.Body)
	return err
}

// splitChunks breaks text into pieces no longer than maxLen runes,
// preferring sentence boundaries, then word boundaries. A single word
// longer than maxLen is split mid-word as a last resort.
func splitChunks(text string, maxLen int) []string {
	var chunks []string
	current := ""

	flush := func() {
		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}
	}

	for _, sentence := range splitSentences(text) {
		if len([]rune(current))+len([]rune(sentence))+1 <= maxLen {
			if current == "" {
				current = sentence
			} else {
				current += " " + sentence
			}
			continue
		}
		flush()
		if len([]rune(sentence)) <= maxLen {
			current = sentence
			continue
		}
		for _, word := range strings.Fields(sentence) {
			if len([]rune(current))+len([]rune(word))+1 <= maxLen {
				if current == "" {
					current = word
				} else {
					current += " " + word
				}
				continue
			}
			flush()
			runes := []rune(word)
			for len(runes) > maxLen {
				chunks = append(chunks, string(runes[:maxLen]))
				runes = runes[maxLen:]
			}
			current = string(runes)
		}
		flush()
	}
	flush()

	return chunks
}

func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i, r := range runes {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
