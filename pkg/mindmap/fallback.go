package mindmap

import (
	"fmt"
	"strings"

	"mindweave/pkg/common"
)

var fallbackBranches = []string{
	"Key Concepts",
	"Main Findings",
	"Applications",
}

// fallbackGraph produces the deterministic minimal graph returned whenever
// the pipeline cannot deliver a real result: one root labeled from the
// query plus three generic branches. It runs through the same converter and
// layout engine as real results, so the caller always receives a valid,
// renderable structure.
func fallbackGraph(query string, params LayoutParams) *common.RenderGraph {
	label := collapseWhitespace(query)
	if label == "" {
		label = "Mind Map"
	}

	root := &common.TreeNode{
		ID:       "fallback_root",
		Label:    label,
		Level:    0,
		NodeType: "Concept",
	}
	for i, branch := range fallbackBranches {
		root.Children = append(root.Children, &common.TreeNode{
			ID:           fmt.Sprintf("fallback_branch_%d", i),
			Label:        branch,
			Relationship: "includes",
			Level:        1,
			NodeType:     "Concept",
		})
	}

	nodes, edges := convertTree(root, defaultMaxNodes, params)
	nodes = applyLayout(nodes, params)

	return &common.RenderGraph{Nodes: nodes, Edges: edges}
}

// isDegenerate reports whether a master graph is unusable for tree
// construction and the run should fall through to the fallback graph.
func isDegenerate(master *common.Graph) bool {
	return master == nil || len(master.Entities) == 0 ||
		strings.TrimSpace(master.Entities[0].Name) == ""
}
