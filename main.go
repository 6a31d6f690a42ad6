package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shortreel/api"
	"shortreel/config"
	"shortreel/dedup"
	"shortreel/kafka"
	"shortreel/metadata"
	"shortreel/pipeline"
	"shortreel/reddit"
	"shortreel/render"
	"shortreel/store"
	"shortreel/tts"
	"shortreel/types"
	"shortreel/upload"
	"shortreel/video"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	mode := flag.String("mode", "collect", "run mode: collect, serve, or consume")
	flag.Parse()

	processor, cleanup, err := buildProcessor()
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}
	defer cleanup()

	switch *mode {
	case "collect":
		runCollect(processor)
	case "serve":
		runServe(processor)
	case "consume":
		runConsume(processor)
	default:
		log.Fatalf("unknown mode %q (want collect, serve, or consume)", *mode)
	}
}

// buildProcessor wires the pipeline from environment configuration. Optional
// collaborators are skipped when their configuration is absent.
func buildProcessor() (*pipeline.Processor, func(), error) {
	cfg := pipeline.DefaultConfig()
	if dir := os.Getenv("OUTPUT_DIR"); dir != "" {
		cfg.OutputDir = dir
	}

	renderer, err := render.NewRenderer(os.Getenv("FONT_PATH"))
	if err != nil {
		return nil, nil, err
	}

	processor, err := pipeline.NewProcessor(cfg, os.Getenv("FONT_PATH"), tts.NewGoogleTTS(), renderer, video.NewAssembler())
	if err != nil {
		return nil, nil, err
	}

	processor.WithMetadata(metadata.NewDefaultGenerator())

	cleanup := func() {}

	if saFile := os.Getenv("YOUTUBE_SERVICE_ACCOUNT_FILE"); saFile != "" {
		uploader, err := upload.NewUploader(context.Background(), saFile)
		if err != nil {
			log.Printf("YouTube uploader not initialized: %v", err)
			log.Println("running in VIDEO-ONLY mode (no upload)")
		} else {
			log.Println("YouTube client initialized")
			processor.WithUploader(uploader)
		}
	}

	if os.Getenv("REDIS_ADDR") != "" {
		seen, err := dedup.NewSeenStoreFromEnv()
		if err != nil {
			log.Printf("seen-post store unavailable, posts may be reprocessed: %v", err)
		} else {
			processor.WithSeenStore(seen)
			cleanup = func() { seen.Close() }
		}
	}

	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		archive, err := store.NewArchive(context.Background(), store.Config{
			Bucket:       bucket,
			Region:       os.Getenv("S3_REGION"),
			UsePathStyle: os.Getenv("S3_USE_PATH_STYLE") == "true",
		})
		if err != nil {
			log.Printf("S3 archive unavailable, skipping archiving: %v", err)
		} else {
			processor.WithArchiver(archive)
		}
	}

	return processor, cleanup, nil
}

// runCollect fetches fresh posts from the configured subreddits and processes
// them as one batch. SUBREDDITS takes subreddit names or preset keys; posts
// are discovered through each subreddit's RSS feed, with the hot listing as a
// fallback when the feed is unavailable.
func runCollect(processor *pipeline.Processor) {
	subreddits := strings.Split(config.Getenv("SUBREDDITS", "stories"), ",")

	fetcher := reddit.NewFetcher(reddit.Options{
		PostLimit:     10,
		CommentLimit:  config.MaxCommentsPerPost,
		MinScore:      100,
		ExcludeVideos: true,
	})

	ctx := context.Background()
	var posts []types.Post
	for _, key := range subreddits {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		subreddit := reddit.ResolveSubreddit(key)

		fetched, err := fetcher.FreshPosts(ctx, subreddit)
		if err != nil {
			log.Printf("feed discovery failed for r/%s, falling back to the hot listing: %v", subreddit, err)
			fetched, err = fetcher.HotPosts(ctx, subreddit)
		}
		if err != nil {
			log.Printf("failed to collect r/%s: %v", subreddit, err)
			continue
		}
		log.Printf("collected %d posts from r/%s", len(fetched), subreddit)
		posts = append(posts, fetched...)
	}

	if len(posts) == 0 {
		log.Println("nothing to process")
		return
	}

	// link posts narrate an article excerpt instead of an empty body
	refs := make([]*types.Post, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	reddit.ExtractLinkExcerpts(refs)

	processor.ProcessPosts(ctx, posts)
}

// runServe exposes the HTTP API and processes submitted posts until
// interrupted.
func runServe(processor *pipeline.Processor) {
	addr := ":" + config.Getenv("PORT", "8080")
	router := api.NewRouter(api.NewServer(processor))

	server := &http.Server{Addr: addr, Handler: router}

	go func() {
		log.Printf("starting API server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	waitForShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	log.Println("server stopped")
}

// runConsume reads posts from Kafka and processes them until interrupted.
func runConsume(processor *pipeline.Processor) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: config.KafkaBrokers(),
		Topic:   config.KafkaTopic(),
		GroupID: config.KafkaGroupID(),
		Handler: processor.ProcessPost,
	})
	if err != nil {
		log.Fatalf("failed to create Kafka consumer: %v", err)
	}
	defer consumer.Close()

	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("failed to start Kafka consumer: %v", err)
	}

	waitForShutdown()
	cancel()
	log.Println("consumer stopped")
}

func waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
}
