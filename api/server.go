// Package api exposes the HTTP surface for submitting posts and checking
// pipeline health.
package api

import (
	"github.com/gin-gonic/gin"
)

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	s.RegisterPostRoutes(r)
	s.RegisterHealthRoutes(r)
	return r
}
