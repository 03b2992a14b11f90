package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// InsertRequest is the request body for POST /v1/insert.
type InsertRequest struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// InsertResponse is the response body for a successful insert.
type InsertResponse struct {
	ID string `json:"id"`
}

// handleInsert handles POST /v1/insert requests.
func (s *Server) handleInsert(c *fiber.Ctx) error {
	if s.inserter == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "insert is not configured: vector store and embedder are required",
		})
	}

	var req InsertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body: " + err.Error(),
		})
	}

	id, err := s.inserter.Insert(c.Context(), req.Text, req.Metadata)
	if err != nil {
		return writeError(c, err)
	}

	s.logger.Debug("inserted via API", zap.String("id", id))

	return c.JSON(InsertResponse{ID: id})
}
