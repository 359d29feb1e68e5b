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
	"wellness-agents/forecast"
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

	// Arguments belong to the launcher, so the config path comes from the environment
	configFile := os.Getenv("WELLNESS_CONFIG")
	if configFile == "" {
		configFile = "config.json"
	}
	config, err := datasource.LoadConfigWithEnv(configFile)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if err := config.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	llm, err := gemini.NewModel(ctx, config.Model, &genai.ClientConfig{
		APIKey: config.GoogleAPIKey,
	})
	if err != nil {
		logger.Fatal("failed to create model", zap.Error(err))
	}

	services := forecast.NewServices(config, logger)

	root, err := agents.NewWellnessAgent(llm, services.Fetcher, logger)
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
