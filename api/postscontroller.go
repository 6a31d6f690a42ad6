package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"shortreel/types"
)

// PostProcessor turns one collected post into a finished video.
type PostProcessor interface {
	ProcessPost(ctx context.Context, post types.Post) error
}

// Server handles HTTP requests for post processing.
type Server struct {
	processor PostProcessor
}

// NewServer creates a new API server instance.
func NewServer(processor PostProcessor) *Server {
	return &Server{processor: processor}
}

// RegisterPostRoutes registers post submission routes.
func (s *Server) RegisterPostRoutes(r *gin.Engine) {
	r.POST("/api/posts", s.handlePostSubmission)
}

// RegisterHealthRoutes registers the health check.
func (s *Server) RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}

// handlePostSubmission accepts a JSON post and processes it asynchronously.
// POST /api/posts
func (s *Server) handlePostSubmission(c *gin.Context) {
	var post types.Post
	if err := c.ShouldBindJSON(&post); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post.Normalize()
	if post.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post id or url is required"})
		return
	}
	if post.Title == "" && post.SelfText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post has no narratable content"})
		return
	}

	log.Printf("received processing request for post %s", post.ID)

	// Process asynchronously so the API responds immediately
	go func() {
		if err := s.processor.ProcessPost(context.Background(), post); err != nil {
			log.Printf("processing failed for post %s: %v", post.ID, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"post_id": post.ID,
	})
}
