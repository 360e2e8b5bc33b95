package routes

import (
	"mindweave/pkg/mindmap"
)

// Handler bundles the dependencies of the mind map routes.
type Handler struct {
	mindmap *mindmap.Client
}

// NewHandler creates a Handler backed by the given mind map client.
func NewHandler(client *mindmap.Client) *Handler {
	return &Handler{mindmap: client}
}
