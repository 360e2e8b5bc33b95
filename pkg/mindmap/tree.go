package mindmap

import (
	"mindweave/pkg/common"
	"mindweave/pkg/logger"
)

// buildTree converts the possibly cyclic master graph into a rooted tree
// via breadth-first traversal from the root entity.
//
// An entity becomes a tree node only the first time it is reached; later
// paths to an already-visited entity are dropped, which makes the traversal
// cycle safe and gives every non-root node exactly one parent. Children are
// discovered through relationships whose source is the current entity.
// maxLevels bounds the BFS depth (root is level 0).
//
// Entities unreachable from the root are excluded from the tree. Whether
// that loss is acceptable is an open product question; the count is logged
// so it stays observable.
func buildTree(master *common.Graph, rootID string, maxLevels int) *common.TreeNode {
	entities := master.EntityByID()
	rootEntity, ok := entities[rootID]
	if !ok {
		return nil
	}

	children := make(map[string][]common.Relationship)
	for _, rel := range master.Relationships {
		children[rel.SourceID] = append(children[rel.SourceID], rel)
	}

	root := &common.TreeNode{
		ID:       rootEntity.ID,
		Label:    rootEntity.Name,
		Level:    0,
		Summary:  rootEntity.Description,
		NodeType: rootEntity.Type,
	}

	visited := map[string]struct{}{rootID: {}}
	queue := []*common.TreeNode{root}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if node.Level >= maxLevels {
			continue
		}

		for _, rel := range children[node.ID] {
			if _, seen := visited[rel.TargetID]; seen {
				// first path wins, alternate paths and cycles are dropped
				continue
			}
			target, ok := entities[rel.TargetID]
			if !ok {
				continue
			}
			visited[rel.TargetID] = struct{}{}

			child := &common.TreeNode{
				ID:           target.ID,
				Label:        target.Name,
				Relationship: rel.Label,
				Level:        node.Level + 1,
				Summary:      target.Description,
				NodeType:     target.Type,
			}
			node.Children = append(node.Children, child)
			queue = append(queue, child)
		}
	}

	if unreachable := len(master.Entities) - len(visited); unreachable > 0 {
		logger.Debug("[Tree] Entities unreachable from root were excluded", "count", unreachable, "root", rootEntity.Name)
	}

	return root
}
