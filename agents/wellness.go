// Package agents builds the agent trees served by the launchers.
package agents

import (
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/tool"
	"google.golang.org/genai"

	"wellness-agents/tools"
)

const (
	steeringInstruction = `
You are a health and wellness advisor focused on pollen and seasonal allergies.
First find out which city and US state the user is in. Call get_pollen_data
for that place, then use the forecast to answer their allergy questions.
If the place cannot be found, ask the user to check the spelling or pick a
nearby city.
`

	brainstormerInstruction = `
Help the user choose a country for their next trip.
Ask what matters most to them, for example outdoor adventure, relaxing,
culture and history, food, shopping or art.
Suggest two or three countries that fit those priorities and say briefly why.
`

	attractionsInstruction = `
Suggest attractions worth visiting in the country the user picked.
Whenever the user chooses one, record it with save_attractions_to_state and
offer a few more ideas.
When the user asks for their list, show {attractions?} as bullet points and
add some new suggestions.
`
)

// NewWellnessAgent builds the health and wellness tree rooted at "steering"
func NewWellnessAgent(llm model.LLM, fetcher tools.PollenFetcher, logger *zap.Logger) (agent.Agent, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pollenTool, err := tools.NewPollenTool(fetcher, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create pollen tool: %w", err)
	}
	saveTool, err := tools.NewSaveAttractionsTool(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create attractions tool: %w", err)
	}

	brainstormer, err := llmagent.New(llmagent.Config{
		Name:                 "travel_brainstormer",
		Description:          "Help a user decide what country to visit.",
		Model:                llm,
		Instruction:          brainstormerInstruction,
		BeforeModelCallbacks: []llmagent.BeforeModelCallback{LogQueryToModel(logger)},
		AfterModelCallbacks:  []llmagent.AfterModelCallback{LogModelResponse(logger)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create travel_brainstormer: %w", err)
	}

	planner, err := llmagent.New(llmagent.Config{
		Name:                 "attractions_planner",
		Description:          "Build a list of attractions to visit in a country.",
		Model:                llm,
		Instruction:          attractionsInstruction,
		Tools:                []tool.Tool{saveTool},
		BeforeModelCallbacks: []llmagent.BeforeModelCallback{LogQueryToModel(logger)},
		AfterModelCallbacks:  []llmagent.AfterModelCallback{LogModelResponse(logger)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create attractions_planner: %w", err)
	}

	return llmagent.New(llmagent.Config{
		Name:        "steering",
		Description: "Start a user on health and wellness advisory.",
		Model:       llm,
		Instruction: steeringInstruction,
		GenerateContentConfig: &genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0),
		},
		Tools:     []tool.Tool{pollenTool},
		SubAgents: []agent.Agent{brainstormer, planner},
	})
}
