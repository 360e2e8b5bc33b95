package common

// Entity represents a node in the master graph. An entity can be a concept,
// person, organization, location, or event surfaced from the source text.
// Names are kept short (at most three words) and descriptions are a single
// sentence synthesized by the AI model.
//
// Inside a master graph every entity carries a sequential id following the
// master_entity_N scheme. Inside a fragment the id is a chunk-local
// temporary id that is remapped during merging.
type Entity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Relationship represents a directed, labeled edge between two entities,
// referencing both endpoints by their master graph ids.
type Relationship struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Label    string `json:"label"`
}

// NameRelationship is a relationship as it appears inside a fragment,
// referencing its endpoints by entity name rather than id. Name resolution
// happens when the fragment is folded into the master graph.
type NameRelationship struct {
	SourceName string `json:"source_name"`
	TargetName string `json:"target_name"`
	Label      string `json:"label"`
}

// Fragment is the small chunk-local graph returned by a single extraction
// call. Entity ids are temporary and relationships reference entities by
// name.
type Fragment struct {
	Entities      []Entity           `json:"entities"`
	Relationships []NameRelationship `json:"relationships"`
}

// Empty reports whether the fragment carries no entities.
func (f Fragment) Empty() bool {
	return len(f.Entities) == 0
}

// Graph is the master knowledge graph accumulated across all chunks of one
// mind map run. It is created empty, folded chunk by chunk, and discarded
// once the hierarchical tree has been derived from it.
type Graph struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

// EntityByID builds an id-addressable view of the graph's entities.
func (g *Graph) EntityByID() map[string]Entity {
	m := make(map[string]Entity, len(g.Entities))
	for _, e := range g.Entities {
		m[e.ID] = e
	}
	return m
}

// EntityNames returns the entity names in insertion order.
func (g *Graph) EntityNames() []string {
	names := make([]string, 0, len(g.Entities))
	for _, e := range g.Entities {
		names = append(names, e.Name)
	}
	return names
}

// EntityTypes lists the allowed entity type values used in extraction
// prompts and response validation.
var EntityTypes = []string{
	"Concept",
	"Person",
	"Organization",
	"Location",
	"Event",
	"Other",
}

// TreeNode is one node of the rooted hierarchical tree derived from the
// master graph. Children are exclusively owned by their parent; the tree is
// cycle free by construction. Relationship holds the label of the edge that
// connects this node to its parent and is empty for the root.
type TreeNode struct {
	ID           string      `json:"id"`
	Label        string      `json:"label"`
	Relationship string      `json:"relationship"`
	Level        int         `json:"level"`
	Summary      string      `json:"summary"`
	NodeType     string      `json:"node_type"`
	Children     []*TreeNode `json:"children"`
}

// Position is a 2-D coordinate assigned by the layout engine.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RenderNode is the flattened, styled, positioned projection of one tree
// node, ready for an external drawing surface.
type RenderNode struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Level    int      `json:"level"`
	Position Position `json:"position"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Color    string   `json:"color"`
}

// RenderEdge connects two rendered nodes. Both endpoints always exist in
// the accompanying node set.
type RenderEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// RenderGraph is the complete renderable result of a mind map run.
type RenderGraph struct {
	Nodes []RenderNode `json:"nodes"`
	Edges []RenderEdge `json:"edges"`
}

// RenderDelta holds the nodes and edges appended by a node expansion.
type RenderDelta struct {
	NewNodes []RenderNode `json:"new_nodes"`
	NewEdges []RenderEdge `json:"new_edges"`
}
