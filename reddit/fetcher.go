// Package reddit collects posts and their top comments from the public
// Reddit JSON API.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"shortreel/types"
)

const defaultBaseURL = "https://www.reddit.com"

// reddit rejects the default Go user agent
const userAgent = "shortreel/1.0 (short-video pipeline)"

// Options tunes what the fetcher collects.
type Options struct {
	// PostLimit caps how many hot posts are fetched per subreddit.
	PostLimit int
	// CommentLimit caps how many top comments are kept per post.
	CommentLimit int
	// MinScore drops posts below this score.
	MinScore int
	// ExcludeVideos drops native video posts, which the frame renderer
	// cannot represent.
	ExcludeVideos bool
}

// Fetcher pulls hot posts from subreddits.
type Fetcher struct {
	client  *http.Client
	baseURL string
	opts    Options
}

func NewFetcher(opts Options) *Fetcher {
	if opts.PostLimit <= 0 {
		opts.PostLimit = 10
	}
	if opts.CommentLimit <= 0 {
		opts.CommentLimit = 5
	}
	return &Fetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		opts:    opts,
	}
}

// listingEnvelope is the shape shared by post and comment listings.
type listingEnvelope struct {
	Data struct {
		Children []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type postData struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	URL         string  `json:"url"`
	IsSelf      bool    `json:"is_self"`
	IsVideo     bool    `json:"is_video"`
	Stickied    bool    `json:"stickied"`
	CreatedUTC  float64 `json:"created_utc"`
	Overridden  string  `json:"url_overridden_by_dest"`
}

type commentData struct {
	ID         string  `json:"id"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	Score      int     `json:"score"`
	Stickied   bool    `json:"stickied"`
	CreatedUTC float64 `json:"created_utc"`
}

// HotPosts fetches the subreddit's hot listing and each surviving post's top
// comments.
func (f *Fetcher) HotPosts(ctx context.Context, subreddit string) ([]types.Post, error) {
	url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", f.baseURL, subreddit, f.opts.PostLimit)
	var listing listingEnvelope
	if err := f.getJSON(ctx, url, &listing); err != nil {
		return nil, fmt.Errorf("failed to fetch r/%s hot listing: %w", subreddit, err)
	}

	var posts []types.Post
	for _, child := range listing.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		post, ok := f.parsePost(child.Data)
		if !ok {
			continue
		}

		comments, err := f.TopComments(ctx, post.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch comments for post %s: %w", post.ID, err)
		}
		post.Comments = comments

		post.Normalize()
		posts = append(posts, post)
	}
	return posts, nil
}

// FreshPosts discovers post ids from the subreddit's RSS feed and fetches
// each post individually. The feed is a lighter probe than the hot listing
// and surfaces new posts sooner.
func (f *Fetcher) FreshPosts(ctx context.Context, subreddit string) ([]types.Post, error) {
	ids, err := f.DiscoverPostIDs(ctx, subreddit)
	if err != nil {
		return nil, err
	}

	var posts []types.Post
	for _, id := range ids {
		if len(posts) >= f.opts.PostLimit {
			break
		}
		post, ok, err := f.PostByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// PostByID fetches a single post with its top comments through the comments
// endpoint. The second return is false when the post is filtered out by the
// collection options.
func (f *Fetcher) PostByID(ctx context.Context, postID string) (types.Post, bool, error) {
	listings, err := f.fetchCommentListings(ctx, postID)
	if err != nil {
		return types.Post{}, false, fmt.Errorf("failed to fetch post %s: %w", postID, err)
	}
	if len(listings) < 2 {
		return types.Post{}, false, nil
	}

	for _, child := range listings[0].Data.Children {
		if child.Kind != "t3" {
			continue
		}
		post, ok := f.parsePost(child.Data)
		if !ok {
			return types.Post{}, false, nil
		}
		post.Comments = f.parseComments(listings[1])
		post.Normalize()
		return post, true, nil
	}
	return types.Post{}, false, nil
}

// parsePost decodes a t3 child and applies the collection filters. The
// second return is false for filtered or malformed posts.
func (f *Fetcher) parsePost(raw json.RawMessage) (types.Post, bool) {
	var pd postData
	if err := json.Unmarshal(raw, &pd); err != nil {
		return types.Post{}, false
	}
	if pd.Stickied || pd.Score < f.opts.MinScore {
		return types.Post{}, false
	}
	if f.opts.ExcludeVideos && pd.IsVideo {
		return types.Post{}, false
	}

	return types.Post{
		ID:          pd.ID,
		Title:       pd.Title,
		SelfText:    pd.SelfText,
		Author:      pd.Author,
		Subreddit:   pd.Subreddit,
		Score:       pd.Score,
		NumComments: pd.NumComments,
		URL:         pd.URL,
		MediaURL:    pd.Overridden,
		IsSelf:      pd.IsSelf,
		CreatedAt:   time.Unix(int64(pd.CreatedUTC), 0).UTC(),
		FetchedAt:   time.Now().UTC(),
	}, true
}

// TopComments fetches a post's comments and keeps the highest-scored ones,
// skipping stickied mod comments and deleted bodies.
func (f *Fetcher) TopComments(ctx context.Context, postID string) ([]types.Comment, error) {
	listings, err := f.fetchCommentListings(ctx, postID)
	if err != nil {
		return nil, err
	}
	if len(listings) < 2 {
		return nil, nil
	}
	return f.parseComments(listings[1]), nil
}

// fetchCommentListings hits the comments endpoint, which returns
// [postListing, commentListing].
func (f *Fetcher) fetchCommentListings(ctx context.Context, postID string) ([]listingEnvelope, error) {
	url := fmt.Sprintf("%s/comments/%s.json?limit=50&depth=1", f.baseURL, postID)
	var listings []listingEnvelope
	if err := f.getJSON(ctx, url, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (f *Fetcher) parseComments(listing listingEnvelope) []types.Comment {
	var comments []types.Comment
	for _, child := range listing.Data.Children {
		if child.Kind != "t1" {
			continue
		}
		var cd commentData
		if err := json.Unmarshal(child.Data, &cd); err != nil {
			continue
		}
		if cd.Stickied || cd.Body == "" || cd.Body == "[deleted]" || cd.Body == "[removed]" {
			continue
		}
		comments = append(comments, types.Comment{
			ID:        cd.ID,
			Author:    cd.Author,
			Body:      cd.Body,
			Score:     cd.Score,
			Stickied:  cd.Stickied,
			CreatedAt: time.Unix(int64(cd.CreatedUTC), 0).UTC(),
		})
	}

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Score > comments[j].Score
	})
	if len(comments) > f.opts.CommentLimit {
		comments = comments[:f.opts.CommentLimit]
	}
	return comments
}

func (f *Fetcher) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
