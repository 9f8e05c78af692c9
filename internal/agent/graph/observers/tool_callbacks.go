package observers

import (
	"context"
	"errors"
	"io"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/Nkromin/CustomerCareRAG/pkg/logger"
)

// newToolHandler builds a typed ToolCallbackHandler that logs arguments going
// into each tool call and the text coming back out.
func newToolHandler() *callbackHelper.ToolCallbackHandler {
	return &callbackHelper.ToolCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *tool.CallbackInput) context.Context {
			ev := logx.Debug().Str("tool", info.Name)
			if input != nil {
				ev = ev.Str("arguments", input.ArgumentsInJSON)
			}
			ev.Msg("Tool call start")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *tool.CallbackOutput) context.Context {
			ev := logx.Debug().Str("tool", info.Name)
			if output != nil {
				ev = ev.Str("response", output.Response)
			}
			ev.Msg("Tool call end")
			return ctx
		},
		OnEndWithStreamOutput: func(ctx context.Context, info *einocb.RunInfo, output *schema.StreamReader[*tool.CallbackOutput]) context.Context {
			go func() {
				defer output.Close()
				for {
					chunk, err := output.Recv()
					if errors.Is(err, io.EOF) {
						return
					}
					if err != nil {
						return
					}
					logx.Debug().Str("tool", info.Name).Str("chunk", chunk.Response).Msg("Tool stream chunk")
				}
			}()
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Str("tool", info.Name).Err(err).Msg("Tool call failed")
			return ctx
		},
	}
}
