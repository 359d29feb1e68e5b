package agents

import (
	"strings"

	"go.uber.org/zap"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// LogQueryToModel logs the latest user text sent to the model
func LogQueryToModel(logger *zap.Logger) llmagent.BeforeModelCallback {
	return func(ctx agent.CallbackContext, req *model.LLMRequest) (*model.LLMResponse, error) {
		if text := lastUserText(req); text != "" {
			logger.Info("query to model",
				zap.String("agent", ctx.AgentName()),
				zap.String("text", text))
		}
		return nil, nil
	}
}

// LogModelResponse logs the text and function calls the model returned.
// The response itself is left untouched.
func LogModelResponse(logger *zap.Logger) llmagent.AfterModelCallback {
	return func(ctx agent.CallbackContext, resp *model.LLMResponse, respErr error) (*model.LLMResponse, error) {
		if respErr != nil {
			logger.Warn("model call failed", zap.String("agent", ctx.AgentName()), zap.Error(respErr))
			return nil, nil
		}
		if resp == nil {
			return nil, nil
		}
		if text := contentText(resp.Content); text != "" {
			logger.Info("response from model",
				zap.String("agent", ctx.AgentName()),
				zap.String("text", text))
		}
		if calls := functionCalls(resp.Content); len(calls) > 0 {
			logger.Info("function call from model",
				zap.String("agent", ctx.AgentName()),
				zap.Strings("functions", calls))
		}
		return nil, nil
	}
}

func lastUserText(req *model.LLMRequest) string {
	if req == nil {
		return ""
	}
	for i := len(req.Contents) - 1; i >= 0; i-- {
		c := req.Contents[i]
		if c != nil && c.Role == string(genai.RoleUser) {
			return contentText(c)
		}
	}
	return ""
}

func contentText(c *genai.Content) string {
	if c == nil {
		return ""
	}
	var texts []string
	for _, p := range c.Parts {
		if p != nil && p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

func functionCalls(c *genai.Content) []string {
	if c == nil {
		return nil
	}
	var names []string
	for _, p := range c.Parts {
		if p != nil && p.FunctionCall != nil {
			names = append(names, p.FunctionCall.Name)
		}
	}
	return names
}
