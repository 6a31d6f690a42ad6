package reddit

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"

	"shortreel/types"
)

const (
	extractWorkers   = 5
	extractorTimeout = 30 * time.Second

	// maxExcerptRunes keeps link-post narration within one segment's worth
	// of reading time
	maxExcerptRunes = 1200
)

// ExtractLinkExcerpts fills in SelfText for link posts by pulling a readable
// excerpt from the linked article. Self posts are left untouched. Extraction
// failures are logged and the post keeps an empty body.
func ExtractLinkExcerpts(posts []*types.Post) {
	var wg sync.WaitGroup
	postChan := make(chan *types.Post, len(posts))

	for i := 0; i < extractWorkers; i++ {
		go func(workerID int) {
			for post := range postChan {
				if err := extractExcerpt(post); err != nil {
					log.Printf("[worker %d] failed to extract %s: %v", workerID, post.URL, err)
				}
				wg.Done()
			}
		}(i)
	}

	for _, post := range posts {
		if post.IsSelf || post.SelfText != "" || post.URL == "" {
			continue
		}
		wg.Add(1)
		postChan <- post
	}

	wg.Wait()
	close(postChan)
}

func extractExcerpt(post *types.Post) error {
	article, err := readability.FromURL(post.URL, extractorTimeout)
	if err != nil {
		return fmt.Errorf("readability extraction failed: %w", err)
	}

	excerpt := strings.TrimSpace(article.Excerpt)
	if excerpt == "" {
		excerpt = strings.TrimSpace(article.TextContent)
	}
	post.SelfText = clampExcerpt(excerpt)

	log.Printf("extracted excerpt for post %s", post.ID)
	return nil
}

func clampExcerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= maxExcerptRunes {
		return text
	}
	clipped := string(runes[:maxExcerptRunes])
	if cut := strings.LastIndex(clipped, " "); cut > 0 {
		clipped = clipped[:cut]
	}
	return clipped + "..."
}
