package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/cmd/launcher"
	"google.golang.org/adk/cmd/launcher/full"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"

	"wellness-agents/agents"
	"wellness-agents/datasource"
)

func main() {
	ctx := context.Background()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", zap.Error(err))
	}

	// Only the model settings are used here; no pollen key is needed
	config := datasource.DefaultConfig()
	config.ApplyEnv()
	logger.Info("using model", zap.String("model", config.Model))

	llm, err := gemini.NewModel(ctx, config.Model, &genai.ClientConfig{
		APIKey: config.GoogleAPIKey,
	})
	if err != nil {
		logger.Fatal("failed to create model", zap.Error(err))
	}

	root, err := agents.NewCityPulseAgent(llm, logger)
	if err != nil {
		logger.Fatal("failed to create agent", zap.Error(err))
	}

	cfg := &launcher.Config{
		AgentLoader: agent.NewSingleLoader(root),
	}

	l := full.NewLauncher()
	if err = l.Execute(ctx, cfg, os.Args[1:]); err != nil {
		log.Fatalf("Run failed: %v\n\n%s", err, l.CommandLineSyntax())
	}
}
