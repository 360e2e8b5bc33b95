package mindmap

import (
	"context"
	"fmt"
	"strings"

	"mindweave/internal/util"
	"mindweave/pkg/ai"
	"mindweave/pkg/common"
	"mindweave/pkg/logger"
)

// selectCentralTopic asks the reasoning boundary to name the single most
// central entity for the given query. The returned name is resolved with a
// match ladder (exact, then substring, then first entity by insertion
// order), so a non-empty master graph always yields a root.
func (c *Client) selectCentralTopic(
	ctx context.Context,
	master *common.Graph,
	query string,
) common.Entity {
	names := master.EntityNames()
	prompt := fmt.Sprintf(ai.CentralTopicPrompt, query, strings.Join(names, ", "))

	answer, err := util.RetryWithContext(ctx, c.maxRetries, func(ctx context.Context) (string, error) {
		if err := c.gate.Wait(ctx); err != nil {
			return "", err
		}
		return c.aiClient.GenerateCompletion(ctx, prompt)
	})
	if err != nil {
		logger.Warn("[Topic] Central topic call failed, falling back to first entity", "err", err)
		return master.Entities[0]
	}

	answer = collapseWhitespace(strings.Trim(answer, `"'.`))
	if answer == "" {
		return master.Entities[0]
	}

	// exact match first
	for _, e := range master.Entities {
		if strings.EqualFold(e.Name, answer) {
			return e
		}
	}

	// partial match either direction
	lowered := strings.ToLower(answer)
	for _, e := range master.Entities {
		name := strings.ToLower(e.Name)
		if strings.Contains(name, lowered) || strings.Contains(lowered, name) {
			logger.Debug("[Topic] Using partial name match for central topic", "answer", answer, "entity", e.Name)
			return e
		}
	}

	logger.Debug("[Topic] Central topic answer matched no entity, using first", "answer", answer)
	return master.Entities[0]
}
