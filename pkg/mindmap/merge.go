package mindmap

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"mindweave/internal/util"
	"mindweave/pkg/ai"
	"mindweave/pkg/common"
	"mindweave/pkg/logger"
)

const masterIDPrefix = "master_entity_"

var masterIDPattern = regexp.MustCompile(`^master_entity_\d+$`)

func masterID(n int) string {
	return fmt.Sprintf("%s%d", masterIDPrefix, n)
}

type mergeEntity struct {
	ID          string `json:"id" jsonschema_description:"Master graph id following the master_entity_N scheme"`
	Name        string `json:"name" jsonschema_description:"Entity name, at most 3 words"`
	Description string `json:"description" jsonschema_description:"One-sentence description, merged when the entity appeared before"`
	Type        string `json:"type" jsonschema:"enum=Concept,enum=Person,enum=Organization,enum=Location,enum=Event,enum=Other" jsonschema_description:"Entity type"`
}

type mergeRelationship struct {
	SourceID string `json:"sourceId" jsonschema_description:"Master id of the source entity"`
	TargetID string `json:"targetId" jsonschema_description:"Master id of the target entity"`
	Label    string `json:"label" jsonschema_description:"Relationship label, at most 3 words"`
}

type mergeResponse struct {
	Entities      []mergeEntity       `json:"entities" jsonschema_description:"The complete updated list of master graph entities"`
	Relationships []mergeRelationship `json:"relationships" jsonschema_description:"The complete updated list of master graph relationships"`
}

// adoptFragment turns the first non-empty fragment into the initial master
// graph: temp ids are remapped to sequential master ids and relationship
// names are resolved against the remapped entities. Unresolvable
// relationships are dropped, never fatal.
func adoptFragment(frag common.Fragment) *common.Graph {
	g := &common.Graph{}
	idByName := make(map[string]string, len(frag.Entities))

	for i, e := range frag.Entities {
		e.ID = masterID(i)
		g.Entities = append(g.Entities, e)
		idByName[strings.ToLower(e.Name)] = e.ID
	}

	for _, r := range frag.Relationships {
		sourceID, okS := idByName[strings.ToLower(r.SourceName)]
		targetID, okT := idByName[strings.ToLower(r.TargetName)]
		if !okS || !okT {
			logger.Debug("[Merge] Dropping relationship with unknown endpoint", "source", r.SourceName, "target", r.TargetName)
			continue
		}
		appendRelationship(g, common.Relationship{
			SourceID: sourceID,
			TargetID: targetID,
			Label:    r.Label,
		})
	}

	return g
}

// appendRelationship adds rel unless an exact duplicate (same endpoints,
// same label ignoring case) is already present.
func appendRelationship(g *common.Graph, rel common.Relationship) {
	for _, existing := range g.Relationships {
		if existing.SourceID == rel.SourceID &&
			existing.TargetID == rel.TargetID &&
			strings.EqualFold(existing.Label, rel.Label) {
			return
		}
	}
	g.Relationships = append(g.Relationships, rel)
}

// mergeFragment folds a fragment into the master graph through a single
// reasoning call that sees the entire current graph. On any call, parse or
// validation failure the master graph is returned unchanged; merge failures
// are never fatal to the pipeline.
func (c *Client) mergeFragment(
	ctx context.Context,
	master *common.Graph,
	frag common.Fragment,
) *common.Graph {
	masterJSON, err := json.Marshal(master)
	if err != nil {
		logger.Warn("[Merge] Failed to encode master graph, skipping fragment", "err", err)
		return master
	}
	fragJSON, err := json.Marshal(frag)
	if err != nil {
		logger.Warn("[Merge] Failed to encode fragment, skipping it", "err", err)
		return master
	}

	prompt := fmt.Sprintf(ai.MergePrompt, string(masterJSON), string(fragJSON))

	var res mergeResponse
	err = util.RetryErrWithContext(ctx, c.maxRetries, func(ctx context.Context) error {
		if err := c.gate.Wait(ctx); err != nil {
			return err
		}
		res = mergeResponse{}
		if err := c.aiClient.GenerateCompletionWithFormat(
			ctx,
			"merge_graph_fragment",
			"Merge a new fragment into the master knowledge graph.",
			prompt,
			&res,
		); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		logger.Warn("[Merge] Merge call failed, keeping master graph unchanged", "err", err)
		return master
	}

	merged, err := validateMergedGraph(master, res)
	if err != nil {
		logger.Warn("[Merge] Merge response rejected, keeping master graph unchanged", "err", err)
		return master
	}
	return merged
}

// validateMergedGraph checks a merge response against the id-scheme
// contract before it replaces the master graph: every id follows the
// master_entity_N scheme, ids are unique, no previously known entity is
// lost, and relationships reference known ids (unknown ones are dropped).
func validateMergedGraph(old *common.Graph, res mergeResponse) (*common.Graph, error) {
	if len(res.Entities) == 0 {
		return nil, fmt.Errorf("merge response has no entities")
	}
	if len(res.Entities) < len(old.Entities) {
		return nil, fmt.Errorf("merge response shrank the graph from %d to %d entities", len(old.Entities), len(res.Entities))
	}

	g := &common.Graph{}
	ids := make(map[string]struct{}, len(res.Entities))
	for _, e := range res.Entities {
		id := strings.TrimSpace(e.ID)
		if !masterIDPattern.MatchString(id) {
			return nil, fmt.Errorf("entity id %q does not follow the master id scheme", e.ID)
		}
		if _, dup := ids[id]; dup {
			return nil, fmt.Errorf("duplicate entity id %q", id)
		}
		ids[id] = struct{}{}

		name := collapseWhitespace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("entity %q has an empty name", id)
		}

		g.Entities = append(g.Entities, common.Entity{
			ID:          id,
			Name:        name,
			Description: collapseWhitespace(e.Description),
			Type:        normalizeEntityType(e.Type),
		})
	}

	for _, prev := range old.Entities {
		if _, ok := ids[prev.ID]; !ok {
			return nil, fmt.Errorf("merge response lost entity %q", prev.ID)
		}
	}

	for _, r := range res.Relationships {
		if _, ok := ids[r.SourceID]; !ok {
			logger.Debug("[Merge] Dropping relationship with unknown source id", "id", r.SourceID)
			continue
		}
		if _, ok := ids[r.TargetID]; !ok {
			logger.Debug("[Merge] Dropping relationship with unknown target id", "id", r.TargetID)
			continue
		}
		if r.SourceID == r.TargetID {
			continue
		}
		appendRelationship(g, common.Relationship{
			SourceID: r.SourceID,
			TargetID: r.TargetID,
			Label:    collapseWhitespace(r.Label),
		})
	}

	return g, nil
}
