package mindmap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mindweave/pkg/ai"
	"mindweave/pkg/common"
)

func renderGraphFixture() *common.RenderGraph {
	return &common.RenderGraph{
		Nodes: []common.RenderNode{
			{
				ID:       "master_entity_0",
				Label:    "Neural Networks",
				Level:    0,
				Position: common.Position{X: 0, Y: 0},
			},
			{
				ID:       "master_entity_1",
				Label:    "Backpropagation",
				Level:    1,
				Position: common.Position{X: -110, Y: 140},
			},
		},
		Edges: []common.RenderEdge{
			{ID: "edge_master_entity_0_master_entity_1", Source: "master_entity_0", Target: "master_entity_1", Label: "uses"},
		},
	}
}

func TestExpandNode(t *testing.T) {
	fake := &fakeAIClient{
		format: func(name, prompt string, out any) error {
			if name != "expand_mindmap_node" {
				t.Fatalf("unexpected format call %q", name)
			}
			if !strings.Contains(prompt, "Backpropagation") {
				t.Error("prompt does not mention the parent label")
			}
			res := out.(*expandResponse)
			res.Concepts = []expandConcept{
				{Name: "Gradient Descent", Relationship: "relies on"},
				{Name: "Chain Rule", Relationship: "applies"},
				{Name: "Learning Rate", Relationship: "tuned by"},
			}
			return nil
		},
	}
	client := newTestClient(fake)
	graph := renderGraphFixture()
	parent := graph.Nodes[1]

	delta, err := client.ExpandNode(context.Background(), parent.ID, graph, "training context")
	if err != nil {
		t.Fatalf("ExpandNode() error = %v", err)
	}

	if len(delta.NewNodes) != 3 {
		t.Fatalf("ExpandNode() produced %d nodes, want 3", len(delta.NewNodes))
	}
	if len(delta.NewEdges) != 3 {
		t.Fatalf("ExpandNode() produced %d edges, want 3", len(delta.NewEdges))
	}

	for i, n := range delta.NewNodes {
		if !strings.HasPrefix(n.ID, "expanded_") {
			t.Errorf("node id = %q, want expanded_ prefix", n.ID)
		}
		if n.Level != parent.Level+1 {
			t.Errorf("node %q level = %d, want %d", n.Label, n.Level, parent.Level+1)
		}
		if n.Position.Y != parent.Position.Y+client.layout.VerticalGap {
			t.Errorf("node %q y = %v, want one rank below parent", n.Label, n.Position.Y)
		}

		e := delta.NewEdges[i]
		if e.Source != parent.ID || e.Target != n.ID {
			t.Errorf("edge %q = %s -> %s, want %s -> %s", e.ID, e.Source, e.Target, parent.ID, n.ID)
		}
	}

	// middle of three children sits directly under the parent
	if got := delta.NewNodes[1].Position.X; got != parent.Position.X {
		t.Errorf("middle child x = %v, want parent x %v", got, parent.Position.X)
	}
}

func TestExpandNodeFiltersAndClamps(t *testing.T) {
	fake := &fakeAIClient{
		format: func(name, prompt string, out any) error {
			res := out.(*expandResponse)
			res.Concepts = []expandConcept{
				{Name: "Backpropagation", Relationship: "duplicate of parent"},
				{Name: "Neural Networks", Relationship: "already in graph"},
				{Name: "  ", Relationship: "empty"},
				{Name: "One", Relationship: "a"},
				{Name: "Two", Relationship: "b"},
				{Name: "Three", Relationship: "c"},
				{Name: "Four", Relationship: "d"},
				{Name: "Five", Relationship: "e"},
			}
			return nil
		},
	}
	client := newTestClient(fake)

	delta, err := client.ExpandNode(context.Background(), "master_entity_1", renderGraphFixture(), "")
	if err != nil {
		t.Fatalf("ExpandNode() error = %v", err)
	}

	if len(delta.NewNodes) != maxExpandConcepts {
		t.Fatalf("ExpandNode() produced %d nodes, want clamp at %d", len(delta.NewNodes), maxExpandConcepts)
	}
	for _, n := range delta.NewNodes {
		if n.Label == "Backpropagation" || n.Label == "Neural Networks" || n.Label == "Five" {
			t.Errorf("node %q should have been filtered or clamped away", n.Label)
		}
	}
}

func TestExpandNodeEmptyDelta(t *testing.T) {
	tests := []struct {
		name   string
		nodeID string
		graph  *common.RenderGraph
		format func(name, prompt string, out any) error
	}{
		{
			name:   "nil graph",
			nodeID: "master_entity_0",
			graph:  nil,
		},
		{
			name:   "unknown node id",
			nodeID: "missing",
			graph:  renderGraphFixture(),
		},
		{
			name:   "reasoning call fails",
			nodeID: "master_entity_0",
			graph:  renderGraphFixture(),
			format: func(name, prompt string, out any) error {
				return errors.New("model unavailable")
			},
		},
		{
			name:   "only unusable concepts",
			nodeID: "master_entity_0",
			graph:  renderGraphFixture(),
			format: func(name, prompt string, out any) error {
				res := out.(*expandResponse)
				res.Concepts = []expandConcept{
					{Name: "", Relationship: "x"},
					{Name: "Neural Networks", Relationship: "dup"},
				}
				return nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(NewClientParams{
				AIClient:   &fakeAIClient{format: tt.format},
				Gate:       ai.NewRateGate(ai.RateGateParams{MinDelay: 0}),
				MaxRetries: 1,
			})

			delta, err := client.ExpandNode(context.Background(), tt.nodeID, tt.graph, "")
			if err != nil {
				t.Fatalf("ExpandNode() error = %v, want nil", err)
			}
			if len(delta.NewNodes) != 0 || len(delta.NewEdges) != 0 {
				t.Errorf("ExpandNode() = %d nodes / %d edges, want empty delta", len(delta.NewNodes), len(delta.NewEdges))
			}
		})
	}
}
