package routes

import (
	"context"
	"errors"
	"net/http"

	"mindweave/pkg/common"
	"mindweave/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ExpandNodeHandler grows one node of an already-rendered mind map.
// A failed expansion returns an empty delta, not an error.
func (h *Handler) ExpandNodeHandler(c echo.Context) error {
	type expandBody struct {
		NodeID  string              `json:"node_id" validate:"required"`
		Context string              `json:"context"`
		Nodes   []common.RenderNode `json:"nodes" validate:"required"`
		Edges   []common.RenderEdge `json:"edges"`
	}

	type expandResponse struct {
		Message  string              `json:"message,omitempty"`
		NewNodes []common.RenderNode `json:"new_nodes"`
		NewEdges []common.RenderEdge `json:"new_edges"`
	}

	data := new(expandBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, expandResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, expandResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	graph := &common.RenderGraph{Nodes: data.Nodes, Edges: data.Edges}
	delta, err := h.mindmap.ExpandNode(ctx, data.NodeID, graph, data.Context)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		logger.Error("Failed to expand node", "node_id", data.NodeID, "err", err)
		return c.JSON(http.StatusInternalServerError, expandResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, expandResponse{
		NewNodes: delta.NewNodes,
		NewEdges: delta.NewEdges,
	})
}
