package agents

import (
	"context"
	"iter"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"wellness-agents/models"
)

type fakeLLM struct{}

func (fakeLLM) Name() string { return "fake-model" }

func (fakeLLM) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		yield(&model.LLMResponse{Content: genai.NewContentFromText("ok", genai.RoleModel)}, nil)
	}
}

type nopFetcher struct{}

func (nopFetcher) Fetch(ctx context.Context, q models.LocationQuery, days int) (models.PollenForecast, error) {
	return models.PollenForecast{}, nil
}

func subAgentNames(a agent.Agent) []string {
	var names []string
	for _, sub := range a.SubAgents() {
		names = append(names, sub.Name())
	}
	return names
}

func TestNewWellnessAgent(t *testing.T) {
	root, err := NewWellnessAgent(fakeLLM{}, nopFetcher{}, nil)
	if err != nil {
		t.Fatalf("NewWellnessAgent() error = %v", err)
	}
	if root.Name() != "steering" {
		t.Errorf("root name = %q, want steering", root.Name())
	}
	want := []string{"travel_brainstormer", "attractions_planner"}
	if diff := cmp.Diff(want, subAgentNames(root)); diff != "" {
		t.Errorf("sub-agents mismatch (-want +got):\n%s", diff)
	}
}

func TestNewCityPulseAgent(t *testing.T) {
	root, err := NewCityPulseAgent(fakeLLM{}, nil)
	if err != nil {
		t.Fatalf("NewCityPulseAgent() error = %v", err)
	}
	if root.Name() != "greeter" {
		t.Errorf("root name = %q, want greeter", root.Name())
	}
	subs := root.SubAgents()
	if len(subs) != 1 || subs[0].Name() != "workflow_311_agent" {
		t.Fatalf("sub-agents = %v, want [workflow_311_agent]", subAgentNames(root))
	}
	want := []string{"data_query_agent", "insight_generator_agent"}
	if diff := cmp.Diff(want, subAgentNames(subs[0])); diff != "" {
		t.Errorf("workflow steps mismatch (-want +got):\n%s", diff)
	}
}

func TestLastUserText(t *testing.T) {
	req := &model.LLMRequest{
		Contents: []*genai.Content{
			genai.NewContentFromText("first question", genai.RoleUser),
			genai.NewContentFromText("an answer", genai.RoleModel),
			genai.NewContentFromText("Austin, TX please", genai.RoleUser),
			{Role: string(genai.RoleModel), Parts: []*genai.Part{genai.NewPartFromFunctionCall("get_pollen_data", nil)}},
		},
	}
	if got := lastUserText(req); got != "Austin, TX please" {
		t.Errorf("lastUserText() = %q", got)
	}
	if got := lastUserText(nil); got != "" {
		t.Errorf("lastUserText(nil) = %q, want empty", got)
	}
}

func TestResponseParts(t *testing.T) {
	c := &genai.Content{
		Role:  string(genai.RoleModel),
		Parts: []*genai.Part{
			genai.NewPartFromText("checking pollen"),
			genai.NewPartFromFunctionCall("get_pollen_data", map[string]any{"city": "Austin"}),
		},
	}
	if got := contentText(c); got != "checking pollen" {
		t.Errorf("contentText() = %q", got)
	}
	if diff := cmp.Diff([]string{"get_pollen_data"}, functionCalls(c)); diff != "" {
		t.Errorf("functionCalls() mismatch (-want +got):\n%s", diff)
	}
}
