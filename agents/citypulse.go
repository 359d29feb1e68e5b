package agents

import (
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/agent/workflowagents/sequentialagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/tool"
	"google.golang.org/genai"

	"wellness-agents/tools"
)

const (
	greeterInstruction = `
Introduce yourself as a guide to San Francisco 311 service request data who
can surface trends and recurring problems.
Ask whether the user has a particular kind of concern in mind or would rather
explore the data broadly.
Save their answer under the 'concern_type' state key with append_to_state,
then hand over to 'workflow_311_agent'.
`

	dataQueryInstruction = `
Look up 311 service requests for the concern types the user asked about.
User request: {PROMPT?}
Concern types recorded so far: {concern_type?}
Write each result you find to the 'query_results_311' field with append_to_state.
`

	insightInstruction = `
INSTRUCTIONS:
Review the 311 query results below and summarize the patterns you find
for the concern types {concern_type?}.
- Point out the most frequent concerns and where they cluster.
- Keep the summary short and suggest one follow-up question.

QUERY RESULTS:
{query_results_311?}
`
)

// NewCityPulseAgent builds the 311 data tree rooted at "greeter"
func NewCityPulseAgent(llm model.LLM, logger *zap.Logger) (agent.Agent, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	appendTool, err := tools.NewAppendToStateTool(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create append tool: %w", err)
	}

	dataQuery, err := llmagent.New(llmagent.Config{
		Name:                 "data_query_agent",
		Description:          "Queries 311 data for a specific concern type.",
		Model:                llm,
		Instruction:          dataQueryInstruction,
		Tools:                []tool.Tool{appendTool},
		BeforeModelCallbacks: []llmagent.BeforeModelCallback{LogQueryToModel(logger)},
		AfterModelCallbacks:  []llmagent.AfterModelCallback{LogModelResponse(logger)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create data_query_agent: %w", err)
	}

	insights, err := llmagent.New(llmagent.Config{
		Name:                 "insight_generator_agent",
		Description:          "Summarizes patterns in the collected 311 query results.",
		Model:                llm,
		Instruction:          insightInstruction,
		BeforeModelCallbacks: []llmagent.BeforeModelCallback{LogQueryToModel(logger)},
		AfterModelCallbacks:  []llmagent.AfterModelCallback{LogModelResponse(logger)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create insight_generator_agent: %w", err)
	}

	workflow, err := sequentialagent.New(sequentialagent.Config{
		AgentConfig: agent.Config{
			Name:        "workflow_311_agent",
			Description: "End-to-end workflow for querying 311 data and generating insights.",
			SubAgents:   []agent.Agent{dataQuery, insights},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow_311_agent: %w", err)
	}

	return llmagent.New(llmagent.Config{
		Name:        "greeter",
		Description: "Guides user in discovering insights from 311 data.",
		Model:       llm,
		Instruction: greeterInstruction,
		GenerateContentConfig: &genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0),
		},
		Tools:     []tool.Tool{appendTool},
		SubAgents: []agent.Agent{workflow},
	})
}
