package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/prompt"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/Nkromin/CustomerCareRAG/pkg/logger"
)

func newPromptHandler() *callbackHelper.PromptCallbackHandler {
	return &callbackHelper.PromptCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *prompt.CallbackInput) context.Context {
			logx.Debug().Str("node", info.Name).Msg("Prompt render start")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *prompt.CallbackOutput) context.Context {
			ev := logx.Debug().Str("node", info.Name)
			if output != nil && len(output.Result) > 0 && output.Result[len(output.Result)-1] != nil {
				ev = ev.Str("rendered", output.Result[len(output.Result)-1].Content)
			}
			ev.Msg("Prompt render end")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Str("node", info.Name).Err(err).Msg("Prompt render failed")
			return ctx
		},
	}
}
