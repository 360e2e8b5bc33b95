package mindmap

import (
	"strings"
	"testing"

	"mindweave/pkg/common"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want string
	}{
		{
			name: "short string untouched",
			s:    "Neural Networks",
			max:  25,
			want: "Neural Networks",
		},
		{
			name: "long string gets ellipsis",
			s:    "A very long mind map node label",
			max:  25,
			want: "A very long mind map n...",
		},
		{
			name: "exact length untouched",
			s:    strings.Repeat("x", 25),
			max:  25,
			want: strings.Repeat("x", 25),
		},
		{
			name: "multi-byte runes counted as runes",
			s:    "思考思考思考思考思考思考思考",
			max:  10,
			want: "思考思考思考思..." ,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateRunes(tt.s, tt.max); got != tt.want {
				t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
			}
		})
	}
}

// wideTree builds a root with `branches` level-1 children, each carrying
// `leaves` level-2 children.
func wideTree(branches, leaves int) *common.TreeNode {
	root := &common.TreeNode{ID: "master_entity_0", Label: "Root", Level: 0}
	n := 1
	for i := 0; i < branches; i++ {
		branch := &common.TreeNode{
			ID:           masterID(n),
			Label:        "Branch",
			Relationship: "has",
			Level:        1,
		}
		n++
		for j := 0; j < leaves; j++ {
			branch.Children = append(branch.Children, &common.TreeNode{
				ID:           masterID(n),
				Label:        "Leaf",
				Relationship: "contains",
				Level:        2,
			})
			n++
		}
		root.Children = append(root.Children, branch)
	}
	return root
}

func TestConvertTree(t *testing.T) {
	root := wideTree(2, 1)
	nodes, edges := convertTree(root, 150, DefaultLayoutParams())

	if len(nodes) != 5 {
		t.Fatalf("convertTree() produced %d nodes, want 5", len(nodes))
	}
	if len(edges) != 4 {
		t.Fatalf("convertTree() produced %d edges, want 4", len(edges))
	}

	byID := make(map[string]common.RenderNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	for _, e := range edges {
		if _, ok := byID[e.Source]; !ok {
			t.Errorf("edge %q references unknown source %q", e.ID, e.Source)
		}
		if _, ok := byID[e.Target]; !ok {
			t.Errorf("edge %q references unknown target %q", e.ID, e.Target)
		}
		if e.ID != "edge_"+e.Source+"_"+e.Target {
			t.Errorf("edge id = %q, want edge_<source>_<target>", e.ID)
		}
	}

	root0 := byID["master_entity_0"]
	leaf := byID["master_entity_2"]
	if leaf.Width >= root0.Width || leaf.Height >= root0.Height {
		t.Errorf("level-2 box (%vx%v) not smaller than root box (%vx%v)", leaf.Width, leaf.Height, root0.Width, root0.Height)
	}
	if root0.Color != "#1d4ed8" {
		t.Errorf("root color = %q, want %q", root0.Color, "#1d4ed8")
	}
}

func TestConvertTreeTruncatesLabels(t *testing.T) {
	root := &common.TreeNode{
		ID:    "master_entity_0",
		Label: "An extremely long central topic label for the map",
		Level: 0,
		Children: []*common.TreeNode{
			{
				ID:           "master_entity_1",
				Label:        "Child",
				Relationship: "is characterized primarily by",
				Level:        1,
			},
		},
	}

	nodes, edges := convertTree(root, 150, DefaultLayoutParams())

	if got := nodes[0].Label; len([]rune(got)) != maxLabelRunes || !strings.HasSuffix(got, "...") {
		t.Errorf("node label = %q, want %d runes ending in ...", got, maxLabelRunes)
	}
	if got := edges[0].Label; len([]rune(got)) != maxRelationshipRunes || !strings.HasSuffix(got, "...") {
		t.Errorf("edge label = %q, want %d runes ending in ...", got, maxRelationshipRunes)
	}
}

func TestConvertTreeNodeCap(t *testing.T) {
	// 1 root + 3 branches + 12 leaves = 16 nodes, capped to 10
	nodes, edges := convertTree(wideTree(3, 4), 10, DefaultLayoutParams())

	if len(nodes) != 10 {
		t.Fatalf("convertTree() kept %d nodes, want cap 10", len(nodes))
	}

	byID := make(map[string]common.RenderNode, len(nodes))
	hasRoot := false
	level1 := 0
	for _, n := range nodes {
		byID[n.ID] = n
		if n.Level == 0 {
			hasRoot = true
		}
		if n.Level == 1 {
			level1++
		}
	}
	if !hasRoot {
		t.Error("root removed by node cap")
	}
	// only level-2 nodes were over budget, all shallower nodes survive
	if level1 != 3 {
		t.Errorf("%d level-1 nodes kept, want all 3", level1)
	}

	for _, e := range edges {
		if _, ok := byID[e.Source]; !ok {
			t.Errorf("dangling edge source %q after cap", e.Source)
		}
		if _, ok := byID[e.Target]; !ok {
			t.Errorf("dangling edge target %q after cap", e.Target)
		}
	}
}

func TestApplyLayout(t *testing.T) {
	params := DefaultLayoutParams()
	nodes := []common.RenderNode{
		{ID: "a", Level: 0},
		{ID: "b", Level: 1},
		{ID: "c", Level: 1},
		{ID: "d", Level: 1},
		{ID: "e", Level: 2},
	}

	got := applyLayout(nodes, params)

	for _, n := range got {
		if want := float64(n.Level) * params.VerticalGap; n.Position.Y != want {
			t.Errorf("node %q y = %v, want %v", n.ID, n.Position.Y, want)
		}
	}

	// single node on a rank sits at the center
	if got[0].Position.X != 0 {
		t.Errorf("root x = %v, want 0", got[0].Position.X)
	}
	if got[4].Position.X != 0 {
		t.Errorf("single level-2 node x = %v, want 0", got[4].Position.X)
	}

	// three nodes on a rank spread symmetrically around the center
	wantX := []float64{-params.HorizontalGap, 0, params.HorizontalGap}
	for i, n := range got[1:4] {
		if n.Position.X != wantX[i] {
			t.Errorf("level-1 node %q x = %v, want %v", n.ID, n.Position.X, wantX[i])
		}
	}

	// deterministic for identical input
	again := applyLayout(nodes, params)
	for i := range got {
		if got[i].Position != again[i].Position {
			t.Errorf("layout not deterministic for node %q: %v vs %v", got[i].ID, got[i].Position, again[i].Position)
		}
	}
}
