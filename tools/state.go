package tools

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/adk/session"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// State keys written by the tools
const (
	AttractionsKey  = "attractions"
	ConcernTypeKey  = "concern_type"
	QueryResultsKey = "query_results_311"
)

// StatusResult is the result of tools that only change state
type StatusResult struct {
	Status string `json:"status"`
}

var success = StatusResult{Status: "success"}

// SaveAttractionsArgs are the arguments of save_attractions_to_state
type SaveAttractionsArgs struct {
	Attractions []string `json:"attractions" jsonschema:"attractions to add to the list of attractions"`
}

// AppendToStateArgs are the arguments of append_to_state
type AppendToStateArgs struct {
	Field    string `json:"field" jsonschema:"the state field to append to"`
	Response string `json:"response" jsonschema:"the text to append to the field"`
}

// NewSaveAttractionsTool creates the save_attractions_to_state tool
func NewSaveAttractionsTool(logger *zap.Logger) (tool.Tool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return functiontool.New(functiontool.Config{
		Name:        "save_attractions_to_state",
		Description: "Saves the list of attractions to state[\"attractions\"].",
	}, func(ctx tool.Context, args SaveAttractionsArgs) (StatusResult, error) {
		return SaveAttractions(ctx.State(), args, logger)
	})
}

// NewAppendToStateTool creates the append_to_state tool
func NewAppendToStateTool(logger *zap.Logger) (tool.Tool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return functiontool.New(functiontool.Config{
		Name:        "append_to_state",
		Description: "Append new output to an existing state key.",
	}, func(ctx tool.Context, args AppendToStateArgs) (StatusResult, error) {
		return AppendToState(ctx.State(), args, logger)
	})
}

// SaveAttractions adds attractions to the end of the attractions list in state
func SaveAttractions(state session.State, args SaveAttractionsArgs, logger *zap.Logger) (StatusResult, error) {
	if err := appendToState(state, AttractionsKey, args.Attractions...); err != nil {
		return StatusResult{}, err
	}
	logger.Info("saved attractions", zap.Strings("attractions", args.Attractions))
	return success, nil
}

// AppendToState adds one response to the end of the list stored under field
func AppendToState(state session.State, args AppendToStateArgs, logger *zap.Logger) (StatusResult, error) {
	if args.Field == "" {
		return StatusResult{}, errors.New("field must not be empty")
	}
	if err := appendToState(state, args.Field, args.Response); err != nil {
		return StatusResult{}, err
	}
	logger.Info("added to state", zap.String("field", args.Field), zap.String("response", args.Response))
	return success, nil
}

// appendToState appends values to the list under key, creating it when absent.
// Lists restored from storage decode as []any, so both forms are accepted.
func appendToState(state session.State, key string, values ...string) error {
	var list []string

	existing, err := state.Get(key)
	switch {
	case errors.Is(err, session.ErrStateKeyNotExist):
	case err != nil:
		return fmt.Errorf("read state %q: %w", key, err)
	default:
		switch v := existing.(type) {
		case nil:
		case []string:
			list = append(list, v...)
		case []any:
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					s = fmt.Sprint(item)
				}
				list = append(list, s)
			}
		case string:
			list = append(list, v)
		default:
			return fmt.Errorf("state %q holds %T, want a list of strings", key, existing)
		}
	}

	list = append(list, values...)
	if err := state.Set(key, list); err != nil {
		return fmt.Errorf("write state %q: %w", key, err)
	}
	return nil
}
