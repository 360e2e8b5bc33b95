package main

import (
	"time"

	"mindweave/internal/server"
	"mindweave/internal/util"
	"mindweave/pkg/ai"
	oll "mindweave/pkg/ai/ollama"
	oai "mindweave/pkg/ai/openai"
	"mindweave/pkg/logger"
	"mindweave/pkg/logger/console"
	"mindweave/pkg/mindmap"
)

func main() {
	util.LoadEnv()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	// AI client
	adapter := util.GetEnv("AI_ADAPTER")
	var aiClient ai.MindmapAIClient

	switch adapter {
	case "ollama":
		client, err := oll.NewMindmapOllamaClient(oll.NewMindmapOllamaClientParams{
			CompletionModel: util.GetEnv("AI_CHAT_MODEL"),
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_MAX_CONCURRENT", 1)),
		})
		if err != nil {
			logger.Fatal("Could not create Ollama client", "err", err)
		}
		aiClient = client
	default:
		aiClient = oai.NewMindmapOpenAIClient(oai.NewMindmapOpenAIClientParams{
			CompletionModel: util.GetEnv("AI_CHAT_MODEL"),
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),

			ChatURL: util.GetEnv("AI_CHAT_URL"),
			ChatKey: util.GetEnv("AI_CHAT_KEY"),
		})
	}

	minDelayMs := util.GetEnvNumeric("AI_MIN_CALL_DELAY_MS", 1000)
	gate := ai.NewRateGate(ai.RateGateParams{
		MinDelay: time.Duration(minDelayMs) * time.Millisecond,
	})

	mindmapClient := mindmap.NewClient(mindmap.NewClientParams{
		AIClient: aiClient,
		Gate:     gate,

		TokenEncoder:   util.GetEnvString("TOKEN_ENCODER", "cl100k_base"),
		MaxChunkTokens: int(util.GetEnvNumeric("MAX_CHUNK_TOKENS", 1200)),
		ChunkOverlap:   util.GetEnvNumeric("CHUNK_OVERLAP_PERCENT", 15) / 100,
		MaxNodes:       int(util.GetEnvNumeric("MAX_NODES", 150)),
		MaxRetries:     int(util.GetEnvNumeric("AI_MAX_RETRIES", 3)),
	})

	server.Init(mindmapClient)
}
