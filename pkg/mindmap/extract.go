package mindmap

import (
	"context"
	"fmt"
	"strings"

	"mindweave/internal/util"
	"mindweave/pkg/ai"
	"mindweave/pkg/common"
	"mindweave/pkg/logger"

	_ "github.com/invopop/jsonschema"
)

type extractEntity struct {
	ID          string `json:"id" jsonschema_description:"Chunk-local temporary id, unique within this response"`
	Name        string `json:"name" jsonschema_description:"Entity name, at most 3 words"`
	Description string `json:"description" jsonschema_description:"One-sentence description of the entity"`
	Type        string `json:"type" jsonschema:"enum=Concept,enum=Person,enum=Organization,enum=Location,enum=Event,enum=Other" jsonschema_description:"Entity type"`
}

type extractRelationship struct {
	SourceName string `json:"sourceName" jsonschema_description:"Name of the source entity, as listed in entities"`
	TargetName string `json:"targetName" jsonschema_description:"Name of the target entity, as listed in entities"`
	Label      string `json:"label" jsonschema_description:"Relationship label, at most 3 words"`
}

type extractResponse struct {
	Entities      []extractEntity       `json:"entities" jsonschema_description:"Entities identified in the text segment"`
	Relationships []extractRelationship `json:"relationships" jsonschema_description:"Directed relationships between the identified entities"`
}

// extractFromChunk turns one chunk plus the original query into a fragment.
// Hard contract: it never returns an error. Call failures, unparsable
// responses and canceled contexts all yield an empty fragment so the
// pipeline can continue with the remaining chunks.
func (c *Client) extractFromChunk(
	ctx context.Context,
	chunk Chunk,
	query string,
) common.Fragment {
	systemPrompt := fmt.Sprintf(
		ai.ExtractPrompt,
		query,
		strings.Join(common.EntityTypes, ", "),
	)

	var res extractResponse
	err := util.RetryErrWithContext(ctx, c.maxRetries, func(ctx context.Context) error {
		if err := c.gate.Wait(ctx); err != nil {
			return err
		}
		res = extractResponse{}
		return c.aiClient.GenerateCompletionWithFormat(
			ctx,
			"extract_entities_and_relationships",
			"Extract entities and relationships from a text segment.",
			chunk.Text,
			&res,
			ai.WithSystemPrompts(systemPrompt),
		)
	})
	if err != nil {
		logger.Warn("[Extract] Chunk extraction failed, continuing with empty fragment", "chunk", chunk.Index, "err", err)
		return common.Fragment{}
	}

	return sanitizeFragment(res, chunk.Index)
}

func sanitizeFragment(res extractResponse, chunkIndex int) common.Fragment {
	var frag common.Fragment
	seen := make(map[string]struct{}, len(res.Entities))

	for i, e := range res.Entities {
		name := collapseWhitespace(e.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		id := strings.TrimSpace(e.ID)
		if id == "" {
			id = fmt.Sprintf("tmp_%d_%d", chunkIndex, i)
		}

		frag.Entities = append(frag.Entities, common.Entity{
			ID:          id,
			Name:        name,
			Description: collapseWhitespace(e.Description),
			Type:        normalizeEntityType(e.Type),
		})
	}

	for _, r := range res.Relationships {
		source := collapseWhitespace(r.SourceName)
		target := collapseWhitespace(r.TargetName)
		if source == "" || target == "" || strings.EqualFold(source, target) {
			continue
		}
		frag.Relationships = append(frag.Relationships, common.NameRelationship{
			SourceName: source,
			TargetName: target,
			Label:      collapseWhitespace(r.Label),
		})
	}

	return frag
}

func normalizeEntityType(t string) string {
	t = strings.TrimSpace(t)
	for _, known := range common.EntityTypes {
		if strings.EqualFold(t, known) {
			return known
		}
	}
	return "Other"
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
