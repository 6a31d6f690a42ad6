package compose

import (
	"fmt"
	"sort"

	"shortreel/types"
)

// Kind identifies what part of the post a segment narrates.
type Kind int

const (
	KindTitle Kind = iota
	KindBody
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindBody:
		return "body"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Segment is one narrated unit of content: the title, the body, or a single
// comment. Segments are immutable once planned.
type Segment struct {
	ID       string
	Kind     Kind
	Priority int
	RawText  string
	// Attribution is the display author for comment segments.
	Attribution string
}

// Plan assembles the ordered segment list for a post: title first, body
// second, then comments by descending score (ties keep collection order).
// Priorities increase strictly in emission order: title 0, body 1, comment k
// at 2+k. Text is URL-stripped before the emptiness check; anything empty
// after cleaning is never turned into a segment. At most maxComments comment
// segments are considered.
func Plan(post types.Post, maxComments int) []Segment {
	var segments []Segment

	if title := StripURLs(post.Title); title != "" {
		segments = append(segments, Segment{ID: "title", Kind: KindTitle, Priority: 0, RawText: title})
	}
	if body := StripURLs(post.SelfText); body != "" {
		segments = append(segments, Segment{ID: "body", Kind: KindBody, Priority: 1, RawText: body})
	}

	ranked := make([]types.Comment, len(post.Comments))
	copy(ranked, post.Comments)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	k := 0
	for _, comment := range ranked {
		if k >= maxComments {
			break
		}
		body := StripURLs(comment.Body)
		if body == "" {
			continue
		}
		author := comment.Author
		if author == "" {
			author = types.DeletedAuthor
		}
		segments = append(segments, Segment{
			ID:          fmt.Sprintf("comment_%d", k),
			Kind:        KindComment,
			Priority:    2 + k,
			RawText:     fmt.Sprintf("%s: %s", author, body),
			Attribution: author,
		})
		k++
	}

	return segments
}
