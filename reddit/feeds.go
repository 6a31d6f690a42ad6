package reddit

import (
	"context"
	"fmt"
	"regexp"

	"github.com/mmcdole/gofeed"
)

// postIDPattern extracts the post id from a reddit permalink.
var postIDPattern = regexp.MustCompile(`/comments/([a-z0-9]+)/`)

// SubredditPresets maps friendly keys to the subreddits the collector pulls
// from by default.
var SubredditPresets = map[string]string{
	"stories": "tifu",
	"ask":     "AskReddit",
	"advice":  "AmItheAsshole",
	"talk":    "CasualConversation",
}

// ResolveSubreddit maps a preset key to its subreddit. Anything that is not
// a preset key is taken as a subreddit name.
func ResolveSubreddit(key string) string {
	if name, ok := SubredditPresets[key]; ok {
		return name
	}
	return key
}

// DiscoverPostIDs reads a subreddit's RSS feed and returns the post ids it
// links to, in feed order. The feed is lighter than the JSON listing and is
// how FreshPosts finds posts without fetching a full listing.
func (f *Fetcher) DiscoverPostIDs(ctx context.Context, subreddit string) ([]string, error) {
	url := fmt.Sprintf("%s/r/%s/hot.rss", f.baseURL, subreddit)

	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	feed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse r/%s feed: %w", subreddit, err)
	}

	var ids []string
	seen := map[string]bool{}
	for _, item := range feed.Items {
		match := postIDPattern.FindStringSubmatch(item.Link)
		if match == nil || seen[match[1]] {
			continue
		}
		seen[match[1]] = true
		ids = append(ids, match[1])
	}
	return ids, nil
}
