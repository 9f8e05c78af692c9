package observers

import (
	"context"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/Nkromin/CustomerCareRAG/pkg/logger"
)

// newModelHandler builds a typed ModelCallbackHandler that logs the last user
// message going in and the assistant content coming out of each model call.
func newModelHandler() *callbackHelper.ModelCallbackHandler {
	return &callbackHelper.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			ev := logx.Debug().Str("component", info.Type).Str("node", info.Name)
			if input != nil && len(input.Messages) > 0 {
				if um := lastUserContent(input.Messages); um != "" {
					ev = ev.Str("user", um)
				}
				ev = ev.Int("messages", len(input.Messages))
			}
			ev.Msg("Model call start")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			ev := logx.Debug().Str("component", info.Type).Str("node", info.Name)
			if output != nil && output.Message != nil {
				if content := strings.TrimSpace(output.Message.Content); content != "" {
					ev = ev.Str("assistant", content)
				}
			}
			ev.Msg("Model call end")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Str("component", info.Type).Str("node", info.Name).Err(err).Msg("Model call failed")
			return ctx
		},
	}
}

func lastUserContent(msgs []*schema.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m == nil {
			continue
		}
		if m.Role == schema.User {
			return strings.TrimSpace(m.Content)
		}
	}
	return ""
}
