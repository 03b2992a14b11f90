package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/shelf/pkg/corpus"
	"github.com/papercomputeco/shelf/pkg/validate"
)

// handleSearch handles GET /v1/search requests.
// Query parameters:
//   - query (required): the search query text
//   - top_k (optional, default 5): number of results to return
func (s *Server) handleSearch(c *fiber.Ctx) error {
	if s.searcher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "search is not configured: vector store and embedder are required",
		})
	}

	query := c.Query("query")

	topK := corpus.DefaultTopK
	if topKStr := c.Query("top_k"); topKStr != "" {
		parsed, err := validate.ParseTopK(topKStr)
		if err != nil {
			return writeError(c, err)
		}
		topK = parsed
	}

	output, err := s.searcher.Search(c.Context(), query, topK)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(output)
}

// writeError maps an error to the right status code: local precondition
// failures are the caller's fault (400); anything else came back from an
// external service and is surfaced verbatim (502).
func writeError(c *fiber.Ctx, err error) error {
	var vErr *validate.Error
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: vErr.Error(),
			Kind:  vErr.Kind.String(),
		})
	}

	return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
		Error: err.Error(),
	})
}
