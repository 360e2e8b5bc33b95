package mindmap

import (
	"fmt"

	"mindweave/pkg/common"
	"mindweave/pkg/logger"
)

const (
	maxLabelRunes        = 25
	maxRelationshipRunes = 20

	defaultMaxNodes = 150
)

// LayoutParams holds the spacing constants of the layered layout engine.
type LayoutParams struct {
	HorizontalGap float64
	VerticalGap   float64
	BaseWidth     float64
	BaseHeight    float64
}

// DefaultLayoutParams returns the spacing used when no overrides are given.
func DefaultLayoutParams() LayoutParams {
	return LayoutParams{
		HorizontalGap: 220,
		VerticalGap:   140,
		BaseWidth:     180,
		BaseHeight:    64,
	}
}

var levelColors = []string{
	"#1d4ed8", // root
	"#2563eb",
	"#3b82f6",
	"#60a5fa",
	"#93c5fd",
}

func levelColor(level int) string {
	if level >= len(levelColors) {
		return levelColors[len(levelColors)-1]
	}
	return levelColors[level]
}

// nodeBox returns box dimensions for a level; boxes shrink with depth so
// deeper concepts read as subordinate.
func nodeBox(params LayoutParams, level int) (float64, float64) {
	shrink := 1.0
	for i := 0; i < level && shrink > 0.55; i++ {
		shrink *= 0.88
	}
	return params.BaseWidth * shrink, params.BaseHeight * shrink
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// convertTree flattens the hierarchical tree into render nodes and edges
// via a depth-first walk, truncating labels and assigning level-derived
// style attributes. If the walk produces more than maxNodes nodes, the
// deepest levels are trimmed first; the root is never removed.
func convertTree(root *common.TreeNode, maxNodes int, params LayoutParams) ([]common.RenderNode, []common.RenderEdge) {
	if maxNodes <= 0 {
		maxNodes = defaultMaxNodes
	}

	var nodes []common.RenderNode
	var edges []common.RenderEdge

	var walk func(node *common.TreeNode, parentID string)
	walk = func(node *common.TreeNode, parentID string) {
		width, height := nodeBox(params, node.Level)
		nodes = append(nodes, common.RenderNode{
			ID:     node.ID,
			Label:  truncateRunes(node.Label, maxLabelRunes),
			Level:  node.Level,
			Width:  width,
			Height: height,
			Color:  levelColor(node.Level),
		})

		if parentID != "" {
			edges = append(edges, common.RenderEdge{
				ID:     fmt.Sprintf("edge_%s_%s", parentID, node.ID),
				Source: parentID,
				Target: node.ID,
				Label:  truncateRunes(node.Relationship, maxRelationshipRunes),
			})
		}

		for _, child := range node.Children {
			walk(child, node.ID)
		}
	}
	walk(root, "")

	if len(nodes) > maxNodes {
		nodes, edges = enforceNodeCap(nodes, edges, maxNodes)
	}

	return nodes, edges
}

// enforceNodeCap removes nodes deepest-level first until the cap holds,
// then drops edges whose endpoint was removed. The root (level 0) is never
// removable.
func enforceNodeCap(
	nodes []common.RenderNode,
	edges []common.RenderEdge,
	maxNodes int,
) ([]common.RenderNode, []common.RenderEdge) {
	removed := len(nodes) - maxNodes

	maxLevel := 0
	for _, n := range nodes {
		if n.Level > maxLevel {
			maxLevel = n.Level
		}
	}

	drop := make(map[string]struct{}, removed)
	for level := maxLevel; level > 0 && removed > 0; level-- {
		// walk backwards so later siblings at a level go first
		for i := len(nodes) - 1; i >= 0 && removed > 0; i-- {
			if nodes[i].Level != level {
				continue
			}
			drop[nodes[i].ID] = struct{}{}
			removed--
		}
	}

	kept := make([]common.RenderNode, 0, maxNodes)
	for _, n := range nodes {
		if _, gone := drop[n.ID]; gone {
			continue
		}
		kept = append(kept, n)
	}

	keptEdges := make([]common.RenderEdge, 0, len(edges))
	for _, e := range edges {
		if _, gone := drop[e.Source]; gone {
			continue
		}
		if _, gone := drop[e.Target]; gone {
			continue
		}
		keptEdges = append(keptEdges, e)
	}

	logger.Debug("[Layout] Node cap enforced", "cap", maxNodes, "dropped", len(drop))

	return kept, keptEdges
}

// applyLayout assigns 2-D coordinates using a top-to-bottom layered
// layout: nodes are ranked by level, each rank is centered horizontally
// around x = 0 and ranks are stacked with the configured vertical gap.
// The placement is deterministic for a given node order and spacing.
func applyLayout(nodes []common.RenderNode, params LayoutParams) []common.RenderNode {
	perLevel := make(map[int]int)
	for _, n := range nodes {
		perLevel[n.Level]++
	}

	placed := make(map[int]int)
	out := make([]common.RenderNode, len(nodes))
	for i, n := range nodes {
		count := perLevel[n.Level]
		index := placed[n.Level]
		placed[n.Level]++

		n.Position = common.Position{
			X: (float64(index) - float64(count-1)/2) * params.HorizontalGap,
			Y: float64(n.Level) * params.VerticalGap,
		}
		out[i] = n
	}

	return out
}
