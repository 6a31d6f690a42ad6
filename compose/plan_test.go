package compose

import (
	"testing"

	"shortreel/types"
)

func TestPlanOrderAndPriorities(t *testing.T) {
	post := types.Post{
		ID:       "abc123",
		Title:    "A title",
		SelfText: "Some body text",
		Comments: []types.Comment{
			{ID: "c1", Author: "alice", Body: "first collected", Score: 10},
			{ID: "c2", Author: "bob", Body: "highest scored", Score: 50},
			{ID: "c3", Author: "carol", Body: "also ten", Score: 10},
		},
	}

	segments := Plan(post, 5)
	if len(segments) != 5 {
		t.Fatalf("expected 5 segments, got %d", len(segments))
	}

	wantIDs := []string{"title", "body", "comment_0", "comment_1", "comment_2"}
	for i, seg := range segments {
		if seg.ID != wantIDs[i] {
			t.Fatalf("segment %d id = %q, want %q", i, seg.ID, wantIDs[i])
		}
		if i > 0 && segments[i].Priority <= segments[i-1].Priority {
			t.Fatalf("priority not strictly increasing at %d: %d then %d", i, segments[i-1].Priority, seg.Priority)
		}
	}

	// highest score first, then ties in collection order
	if segments[2].RawText != "bob: highest scored" {
		t.Fatalf("comment_0 = %q, want bob's", segments[2].RawText)
	}
	if segments[3].RawText != "alice: first collected" {
		t.Fatalf("comment_1 = %q, want alice's (tie broken by collection order)", segments[3].RawText)
	}
	if segments[4].RawText != "carol: also ten" {
		t.Fatalf("comment_2 = %q, want carol's", segments[4].RawText)
	}
}

func TestPlanSkipsEmptySections(t *testing.T) {
	cases := []struct {
		name    string
		post    types.Post
		wantIDs []string
	}{
		{
			name:    "no title",
			post:    types.Post{SelfText: "body only"},
			wantIDs: []string{"body"},
		},
		{
			name:    "title only",
			post:    types.Post{Title: "just a title"},
			wantIDs: []string{"title"},
		},
		{
			name:    "title is only a url",
			post:    types.Post{Title: "https://example.com", SelfText: "body"},
			wantIDs: []string{"body"},
		},
		{
			name:    "nothing at all",
			post:    types.Post{},
			wantIDs: nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			segments := Plan(c.post, 5)
			if len(segments) != len(c.wantIDs) {
				t.Fatalf("got %d segments, want %d", len(segments), len(c.wantIDs))
			}
			for i, seg := range segments {
				if seg.ID != c.wantIDs[i] {
					t.Fatalf("segment %d = %q, want %q", i, seg.ID, c.wantIDs[i])
				}
			}
		})
	}
}

func TestPlanSkipsCommentsEmptyAfterCleaning(t *testing.T) {
	post := types.Post{
		Title: "t",
		Comments: []types.Comment{
			{Author: "spammer", Body: "https://example.com/spam", Score: 100},
			{Author: "alice", Body: "real comment", Score: 1},
		},
	}
	segments := Plan(post, 5)
	if len(segments) != 2 {
		t.Fatalf("expected title plus one comment, got %d segments", len(segments))
	}
	seg := segments[1]
	if seg.ID != "comment_0" || seg.RawText != "alice: real comment" {
		t.Fatalf("empty comment consumed a slot: %+v", seg)
	}
}

func TestPlanCommentCap(t *testing.T) {
	post := types.Post{Title: "t"}
	for i := 0; i < 10; i++ {
		post.Comments = append(post.Comments, types.Comment{Author: "u", Body: "comment body", Score: 10 - i})
	}
	segments := Plan(post, 3)
	comments := 0
	for _, seg := range segments {
		if seg.Kind == KindComment {
			comments++
		}
	}
	if comments != 3 {
		t.Fatalf("expected 3 comment segments, got %d", comments)
	}
}

func TestPlanDeletedAuthorDefault(t *testing.T) {
	post := types.Post{
		Title:    "t",
		Comments: []types.Comment{{Body: "orphaned comment", Score: 1}},
	}
	segments := Plan(post, 5)
	seg := segments[len(segments)-1]
	if seg.Attribution != types.DeletedAuthor {
		t.Fatalf("attribution = %q, want %q", seg.Attribution, types.DeletedAuthor)
	}
	if seg.RawText != "[Deleted]: orphaned comment" {
		t.Fatalf("raw text = %q", seg.RawText)
	}
}
