package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DeletedAuthor is displayed when a comment's author is missing.
const DeletedAuthor = "[Deleted]"

// Comment represents a single post comment with the fields the pipeline uses.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	Stickied  bool      `json:"stickied,omitempty"`
}

// Post represents a collected social-media post with its ranked comments.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	SelfText    string    `json:"selftext"`
	Author      string    `json:"author"`
	Subreddit   string    `json:"subreddit,omitempty"`
	Score       int       `json:"score"`
	NumComments int       `json:"num_comments"`
	URL         string    `json:"url,omitempty"`
	MediaURL    string    `json:"media_url,omitempty"`
	IsSelf      bool      `json:"is_self"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	FetchedAt   time.Time `json:"fetched_at,omitempty"`
	Comments    []Comment `json:"comments"`
}

// Normalize applies field defaults once at ingestion so downstream code never
// re-checks for missing values: comment authors default to DeletedAuthor and
// posts without an id get a stable one derived from their URL.
func (p *Post) Normalize() {
	if p.ID == "" && p.URL != "" {
		p.ID = GenerateID(p.URL)
	}
	if p.Author == "" {
		p.Author = DeletedAuthor
	}
	for i := range p.Comments {
		if p.Comments[i].Author == "" {
			p.Comments[i].Author = DeletedAuthor
		}
	}
}

// GenerateID creates a short, stable ID by hashing the provided string input.
func GenerateID(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}
