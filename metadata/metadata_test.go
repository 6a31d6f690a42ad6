package metadata

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"shortreel/types"
)

func TestDefaultMetadata(t *testing.T) {
	post := types.Post{
		ID:        "abc",
		Title:     "My cat learned to open doors",
		Subreddit: "cats",
	}
	meta := DefaultMetadata(post)
	if meta.Title != post.Title {
		t.Fatalf("title = %q", meta.Title)
	}
	if !strings.Contains(meta.Description, "r/cats") {
		t.Fatalf("description missing subreddit: %q", meta.Description)
	}
	if meta.CategoryID != "24" {
		t.Fatalf("category = %q", meta.CategoryID)
	}
}

func TestDefaultMetadataClampsTitle(t *testing.T) {
	post := types.Post{Title: strings.Repeat("a", 150)}
	meta := DefaultMetadata(post)
	if n := len([]rune(meta.Title)); n != 100 {
		t.Fatalf("clamped title length = %d, want 100", n)
	}
	if !strings.HasSuffix(meta.Title, "...") {
		t.Fatalf("clamped title missing ellipsis: %q", meta.Title)
	}
}

type stubGenerator struct {
	meta VideoMetadata
	err  error
}

func (s stubGenerator) Generate(ctx context.Context, post types.Post) (VideoMetadata, error) {
	return s.meta, s.err
}

func TestResolveMetadata(t *testing.T) {
	post := types.Post{ID: "p", Title: "original"}

	meta := ResolveMetadata(context.Background(), nil, post)
	if meta.Title != "original" {
		t.Fatalf("nil generator should default, got %q", meta.Title)
	}

	meta = ResolveMetadata(context.Background(), stubGenerator{meta: VideoMetadata{Title: "generated"}}, post)
	if meta.Title != "generated" {
		t.Fatalf("generator result dropped, got %q", meta.Title)
	}

	meta = ResolveMetadata(context.Background(), stubGenerator{err: fmt.Errorf("api down")}, post)
	if meta.Title != "original" {
		t.Fatalf("failed generator should default, got %q", meta.Title)
	}
}
