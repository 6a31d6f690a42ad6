// Package metadata produces upload titles and descriptions for finished
// videos.
package metadata

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"shortreel/types"
)

// VideoMetadata is the upload-facing description of one video.
type VideoMetadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
}

// Generator produces metadata for a post's video.
type Generator interface {
	Generate(ctx context.Context, post types.Post) (VideoMetadata, error)
}

// NewDefaultGenerator returns a Cohere-backed generator when COHERE_API_KEY
// is set, nil otherwise. Callers treat nil as "use DefaultMetadata".
func NewDefaultGenerator() Generator {
	apiKey := os.Getenv("COHERE_API_KEY")
	if apiKey == "" {
		return nil
	}
	client := cohereclient.NewClient(cohereclient.WithToken(apiKey))
	return &CohereGenerator{client: client, model: "command-r"}
}

// CohereGenerator rewrites the post title into a short video title via the
// Cohere chat API.
type CohereGenerator struct {
	client *cohereclient.Client
	model  string
}

func (g *CohereGenerator) Generate(ctx context.Context, post types.Post) (VideoMetadata, error) {
	prompt := fmt.Sprintf(
		"Rewrite this post title as a catchy video title under 90 characters. "+
			"Reply with the title only, no quotes.\n\nTitle: %s",
		post.Title,
	)

	resp, err := g.client.Chat(ctx, &cohere.ChatRequest{
		Message: prompt,
		Model:   &g.model,
	})
	if err != nil {
		return VideoMetadata{}, fmt.Errorf("cohere chat error: %w", err)
	}

	title := strings.TrimSpace(resp.Text)
	if title == "" {
		return VideoMetadata{}, fmt.Errorf("cohere returned an empty title")
	}

	meta := DefaultMetadata(post)
	meta.Title = clampTitle(title)
	return meta, nil
}

// DefaultMetadata builds metadata straight from the post, used when no
// generator is configured or generation fails.
func DefaultMetadata(post types.Post) VideoMetadata {
	description := fmt.Sprintf(
		"%s\n\n"+
			"From r/%s\n\n"+
			"Follow for daily stories!\n"+
			"#reddit #stories #shorts",
		post.Title,
		post.Subreddit,
	)

	return VideoMetadata{
		Title:       clampTitle(post.Title),
		Description: description,
		Tags: []string{
			"reddit",
			"reddit stories",
			"askreddit",
			"shorts",
			post.Subreddit,
		},
		CategoryID: "24",
	}
}

// ResolveMetadata runs the generator when present and falls back to
// DefaultMetadata on any failure.
func ResolveMetadata(ctx context.Context, gen Generator, post types.Post) VideoMetadata {
	if gen == nil {
		return DefaultMetadata(post)
	}
	meta, err := gen.Generate(ctx, post)
	if err != nil {
		log.Printf("metadata generation failed for post %s, using default: %v", post.ID, err)
		return DefaultMetadata(post)
	}
	return meta
}

func clampTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= 100 {
		return title
	}
	return string(runes[:97]) + "..."
}
