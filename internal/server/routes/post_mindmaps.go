package routes

import (
	"context"
	"errors"
	"net/http"

	"mindweave/pkg/common"
	"mindweave/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GenerateMindMapHandler builds a mind map from raw text and a query.
// The pipeline is fail-soft: a degraded run still yields a renderable
// fallback graph, so this handler only errors on bad requests or a
// client disconnect.
func (h *Handler) GenerateMindMapHandler(c echo.Context) error {
	type generateBody struct {
		Content   string `json:"content" validate:"required"`
		Query     string `json:"query"`
		MaxLevels int    `json:"max_levels"`
	}

	type generateResponse struct {
		Message string              `json:"message,omitempty"`
		Nodes   []common.RenderNode `json:"nodes"`
		Edges   []common.RenderEdge `json:"edges"`
	}

	data := new(generateBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, generateResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, generateResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	graph, err := h.mindmap.GenerateMindMap(ctx, data.Content, data.Query, data.MaxLevels)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		logger.Error("Failed to generate mind map", "err", err)
		return c.JSON(http.StatusInternalServerError, generateResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, generateResponse{
		Nodes: graph.Nodes,
		Edges: graph.Edges,
	})
}
