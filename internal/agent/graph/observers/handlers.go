// Package observers wires Eino lifecycle callbacks (prompt, model, tool) into
// structured logging for pipeline visibility.
package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks aggregates all observer handlers into one callbacks.Handler.
func NewAllCallbacks() einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		Tool(newToolHandler()).
		ChatModel(newModelHandler()).
		Prompt(newPromptHandler()).
		Handler()
}
