package mindmap

import (
	"context"
	"time"

	"mindweave/pkg/ai"
	"mindweave/pkg/common"
	"mindweave/pkg/logger"
)

const (
	defaultTokenEncoder   = "cl100k_base"
	defaultMaxChunkTokens = 1200
	defaultChunkOverlap   = 0.15
	defaultMaxLevels      = 4
	defaultMaxRetries     = 3
	defaultMinCallDelay   = time.Second
)

// Client runs the mind map pipeline: chunk the input, extract a fragment
// per chunk, fold the fragments into one master graph, pick a central
// topic, derive a tree and lay it out for rendering.
//
// The master graph is rebuilt for every GenerateMindMap call; the rate
// gate persists for the client's lifetime and spaces every external
// reasoning call, including node expansions.
//
// A Client should be created using NewClient.
type Client struct {
	aiClient ai.MindmapAIClient
	gate     *ai.RateGate

	tokenEncoder   string
	maxChunkTokens int
	chunkOverlap   float64
	maxNodes       int
	maxRetries     int
	layout         LayoutParams
}

// NewClientParams defines the configuration parameters for creating a new
// Client. AIClient is required; everything else has sensible defaults.
//
// MaxChunkTokens bounds the token size of one chunk, ChunkOverlap is the
// fraction of sentences repeated between consecutive chunks, MaxNodes caps
// the rendered node count. When Gate is nil a gate with a one second
// minimum delay is created.
type NewClientParams struct {
	AIClient ai.MindmapAIClient
	Gate     *ai.RateGate

	TokenEncoder   string
	MaxChunkTokens int
	ChunkOverlap   float64
	MaxNodes       int
	MaxRetries     int
	Layout         *LayoutParams
}

// NewClient creates and returns a new Client configured with the provided
// parameters.
//
// Example:
//
//	params := mindmap.NewClientParams{
//		AIClient:       aiClient,
//		MaxChunkTokens: 1200,
//		ChunkOverlap:   0.15,
//	}
//	client := mindmap.NewClient(params)
func NewClient(params NewClientParams) *Client {
	c := &Client{
		aiClient:       params.AIClient,
		gate:           params.Gate,
		tokenEncoder:   params.TokenEncoder,
		maxChunkTokens: params.MaxChunkTokens,
		chunkOverlap:   params.ChunkOverlap,
		maxNodes:       params.MaxNodes,
		maxRetries:     params.MaxRetries,
		layout:         DefaultLayoutParams(),
	}

	if c.gate == nil {
		c.gate = ai.NewRateGate(ai.RateGateParams{MinDelay: defaultMinCallDelay})
	}
	if c.tokenEncoder == "" {
		c.tokenEncoder = defaultTokenEncoder
	}
	if c.maxChunkTokens <= 0 {
		c.maxChunkTokens = defaultMaxChunkTokens
	}
	if c.chunkOverlap <= 0 {
		c.chunkOverlap = defaultChunkOverlap
	}
	if c.maxNodes <= 0 {
		c.maxNodes = defaultMaxNodes
	}
	if c.maxRetries <= 0 {
		c.maxRetries = defaultMaxRetries
	}
	if params.Layout != nil {
		c.layout = *params.Layout
	}

	return c
}

// GenerateMindMap builds a positioned node/edge structure from raw content
// and the user's query. The stages run strictly in order: chunk extraction
// and merging are sequential because every merge step reasons over the
// current master graph state.
//
// The result is always a valid, non-empty renderable graph; whenever a
// stage cannot produce usable output the deterministic fallback graph is
// returned instead. The error return is reserved for a canceled context.
func (c *Client) GenerateMindMap(
	ctx context.Context,
	content string,
	query string,
	maxLevels int,
) (res *common.RenderGraph, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("[Mindmap] Pipeline panicked, returning fallback graph", "panic", r)
			res = fallbackGraph(query, c.layout)
			err = nil
		}
	}()

	if maxLevels <= 0 {
		maxLevels = defaultMaxLevels
	}

	chunks, chunkErr := BuildChunks(content, c.tokenEncoder, c.maxChunkTokens, c.chunkOverlap)
	if chunkErr != nil {
		logger.Error("[Mindmap] Chunking failed, returning fallback graph", "err", chunkErr)
		return fallbackGraph(query, c.layout), nil
	}
	if len(chunks) == 0 {
		logger.Info("[Mindmap] Empty content, returning fallback graph")
		return fallbackGraph(query, c.layout), nil
	}

	logger.Info("[Mindmap] Processing", "chunks", len(chunks), "max_levels", maxLevels)

	var master *common.Graph
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frag := c.extractFromChunk(ctx, chunk, query)
		if frag.Empty() {
			continue
		}

		if master == nil {
			master = adoptFragment(frag)
			logger.Debug("[Mindmap] Adopted first fragment", "entities", len(master.Entities))
			continue
		}
		master = c.mergeFragment(ctx, master, frag)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if isDegenerate(master) {
		logger.Warn("[Mindmap] No usable entities extracted, returning fallback graph")
		return fallbackGraph(query, c.layout), nil
	}

	logger.Info("[Mindmap] Master graph built", "entities", len(master.Entities), "relationships", len(master.Relationships))

	root := c.selectCentralTopic(ctx, master, query)
	tree := buildTree(master, root.ID, maxLevels)
	if tree == nil {
		logger.Warn("[Mindmap] Root could not be resolved, returning fallback graph", "root", root.ID)
		return fallbackGraph(query, c.layout), nil
	}

	nodes, edges := convertTree(tree, c.maxNodes, c.layout)
	nodes = applyLayout(nodes, c.layout)

	logger.Info("[Mindmap] Mind map completed", "nodes", len(nodes), "edges", len(edges))

	return &common.RenderGraph{Nodes: nodes, Edges: edges}, nil
}
