package mindmap

import (
	"context"
	"fmt"
	"strings"

	"mindweave/internal/util"
	"mindweave/pkg/ai"
	"mindweave/pkg/common"
	"mindweave/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const maxExpandConcepts = 4

type expandConcept struct {
	Name         string `json:"name" jsonschema_description:"Concept name, at most 3 words"`
	Relationship string `json:"relationship" jsonschema_description:"Phrase describing how the parent relates to this concept, at most 3 words"`
	Description  string `json:"description" jsonschema_description:"At most one sentence describing the concept"`
}

type expandResponse struct {
	Concepts []expandConcept `json:"concepts" jsonschema_description:"Between 2 and 4 child concepts"`
}

// ExpandNode grows one node of an already-rendered graph by 2-4 child
// concepts. New nodes get level = parent.level + 1 and are positioned near
// the parent with a simple spatial offset; the rest of the graph is not
// re-laid out. Failures of any kind yield an empty delta, never an error.
func (c *Client) ExpandNode(
	ctx context.Context,
	nodeID string,
	graph *common.RenderGraph,
	contextText string,
) (*common.RenderDelta, error) {
	empty := &common.RenderDelta{
		NewNodes: []common.RenderNode{},
		NewEdges: []common.RenderEdge{},
	}

	if graph == nil {
		return empty, nil
	}

	var parent *common.RenderNode
	for i := range graph.Nodes {
		if graph.Nodes[i].ID == nodeID {
			parent = &graph.Nodes[i]
			break
		}
	}
	if parent == nil {
		logger.Warn("[Expand] Node not found in graph", "node_id", nodeID)
		return empty, nil
	}

	prompt := fmt.Sprintf(ai.ExpandPrompt, parent.Label, collapseWhitespace(contextText))

	var res expandResponse
	err := util.RetryErrWithContext(ctx, c.maxRetries, func(ctx context.Context) error {
		if err := c.gate.Wait(ctx); err != nil {
			return err
		}
		res = expandResponse{}
		return c.aiClient.GenerateCompletionWithFormat(
			ctx,
			"expand_mindmap_node",
			"Propose child concepts for a mind map node.",
			prompt,
			&res,
		)
	})
	if err != nil {
		logger.Warn("[Expand] Expansion call failed, returning empty delta", "node_id", nodeID, "err", err)
		return empty, nil
	}

	existing := make(map[string]struct{}, len(graph.Nodes))
	for _, n := range graph.Nodes {
		existing[strings.ToLower(n.Label)] = struct{}{}
	}

	var concepts []expandConcept
	for _, concept := range res.Concepts {
		name := collapseWhitespace(concept.Name)
		if name == "" || strings.EqualFold(name, parent.Label) {
			continue
		}
		if _, dup := existing[strings.ToLower(name)]; dup {
			continue
		}
		existing[strings.ToLower(name)] = struct{}{}
		concept.Name = name
		concepts = append(concepts, concept)
		if len(concepts) == maxExpandConcepts {
			break
		}
	}
	if len(concepts) == 0 {
		return empty, nil
	}

	level := parent.Level + 1
	width, height := nodeBox(c.layout, level)

	delta := &common.RenderDelta{}
	for i, concept := range concepts {
		id, err := gonanoid.New()
		if err != nil {
			logger.Warn("[Expand] Failed to generate node id, returning empty delta", "err", err)
			return empty, nil
		}
		id = "expanded_" + id

		offset := (float64(i) - float64(len(concepts)-1)/2) * c.layout.HorizontalGap * 0.6
		delta.NewNodes = append(delta.NewNodes, common.RenderNode{
			ID:    id,
			Label: truncateRunes(concept.Name, maxLabelRunes),
			Level: level,
			Position: common.Position{
				X: parent.Position.X + offset,
				Y: parent.Position.Y + c.layout.VerticalGap,
			},
			Width:  width,
			Height: height,
			Color:  levelColor(level),
		})
		delta.NewEdges = append(delta.NewEdges, common.RenderEdge{
			ID:     fmt.Sprintf("edge_%s_%s", parent.ID, id),
			Source: parent.ID,
			Target: id,
			Label:  truncateRunes(collapseWhitespace(concept.Relationship), maxRelationshipRunes),
		})
	}

	return delta, nil
}
