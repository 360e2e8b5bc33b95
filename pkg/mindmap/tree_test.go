package mindmap

import (
	"testing"

	"mindweave/pkg/common"
)

func graphFixture() *common.Graph {
	return &common.Graph{
		Entities: []common.Entity{
			{ID: "master_entity_0", Name: "Root", Type: "Concept"},
			{ID: "master_entity_1", Name: "Left", Type: "Concept"},
			{ID: "master_entity_2", Name: "Right", Type: "Concept"},
			{ID: "master_entity_3", Name: "Deep", Type: "Concept"},
		},
		Relationships: []common.Relationship{
			{SourceID: "master_entity_0", TargetID: "master_entity_1", Label: "has"},
			{SourceID: "master_entity_0", TargetID: "master_entity_2", Label: "has"},
			{SourceID: "master_entity_1", TargetID: "master_entity_3", Label: "leads to"},
		},
	}
}

func collectNodes(root *common.TreeNode) map[string]*common.TreeNode {
	nodes := make(map[string]*common.TreeNode)
	var walk func(n *common.TreeNode)
	walk = func(n *common.TreeNode) {
		nodes[n.ID] = n
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
	return nodes
}

func TestBuildTree(t *testing.T) {
	root := buildTree(graphFixture(), "master_entity_0", 4)
	if root == nil {
		t.Fatal("buildTree() = nil, want tree")
	}

	nodes := collectNodes(root)
	if len(nodes) != 4 {
		t.Fatalf("buildTree() produced %d nodes, want 4", len(nodes))
	}

	wantLevels := map[string]int{
		"master_entity_0": 0,
		"master_entity_1": 1,
		"master_entity_2": 1,
		"master_entity_3": 2,
	}
	for id, level := range wantLevels {
		node, ok := nodes[id]
		if !ok {
			t.Fatalf("node %q missing from tree", id)
		}
		if node.Level != level {
			t.Errorf("node %q level = %d, want %d", id, node.Level, level)
		}
	}

	if got := nodes["master_entity_3"].Relationship; got != "leads to" {
		t.Errorf("deep node relationship = %q, want %q", got, "leads to")
	}
}

func TestBuildTreeMissingRoot(t *testing.T) {
	if got := buildTree(graphFixture(), "master_entity_99", 4); got != nil {
		t.Errorf("buildTree() with unknown root = %+v, want nil", got)
	}
}

func TestBuildTreeCycleSafe(t *testing.T) {
	g := &common.Graph{
		Entities: []common.Entity{
			{ID: "master_entity_0", Name: "A", Type: "Concept"},
			{ID: "master_entity_1", Name: "B", Type: "Concept"},
		},
		Relationships: []common.Relationship{
			{SourceID: "master_entity_0", TargetID: "master_entity_1", Label: "to B"},
			{SourceID: "master_entity_1", TargetID: "master_entity_0", Label: "back to A"},
		},
	}

	root := buildTree(g, "master_entity_0", 4)
	nodes := collectNodes(root)
	if len(nodes) != 2 {
		t.Fatalf("buildTree() on cycle produced %d nodes, want 2", len(nodes))
	}
	if len(nodes["master_entity_1"].Children) != 0 {
		t.Errorf("cycle edge created a child, want none")
	}
}

func TestBuildTreeFirstPathWins(t *testing.T) {
	g := graphFixture()
	// second path to Deep through Right; the path through Left is seen first
	g.Relationships = append(g.Relationships, common.Relationship{
		SourceID: "master_entity_2", TargetID: "master_entity_3", Label: "also leads to",
	})

	root := buildTree(g, "master_entity_0", 4)
	nodes := collectNodes(root)
	if len(nodes) != 4 {
		t.Fatalf("buildTree() produced %d nodes, want 4", len(nodes))
	}

	deep := nodes["master_entity_3"]
	if deep.Relationship != "leads to" {
		t.Errorf("deep node relationship = %q, want first-path %q", deep.Relationship, "leads to")
	}
	for _, child := range nodes["master_entity_2"].Children {
		if child.ID == "master_entity_3" {
			t.Error("deep node attached through second path as well")
		}
	}
}

func TestBuildTreeMaxLevels(t *testing.T) {
	root := buildTree(graphFixture(), "master_entity_0", 1)
	nodes := collectNodes(root)

	if _, ok := nodes["master_entity_3"]; ok {
		t.Error("level-2 node present despite maxLevels = 1")
	}
	for id, node := range nodes {
		if node.Level > 1 {
			t.Errorf("node %q at level %d exceeds maxLevels 1", id, node.Level)
		}
	}
}

func TestBuildTreeExcludesUnreachable(t *testing.T) {
	g := graphFixture()
	g.Entities = append(g.Entities, common.Entity{ID: "master_entity_4", Name: "Island", Type: "Concept"})

	root := buildTree(g, "master_entity_0", 4)
	nodes := collectNodes(root)
	if _, ok := nodes["master_entity_4"]; ok {
		t.Error("unreachable entity appeared in tree")
	}
}
