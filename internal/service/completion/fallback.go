package completion

import (
	"context"
	"errors"
	"strings"
	"travelmail/internal/service/chat"
	"travelmail/internal/service/models"

	"go.uber.org/zap"
)

// completeFixed 依固定模型清單逐一嘗試；連線失敗或非 OK 就換下一個，第一個 OK 的回應照常分類
func (c *Client) completeFixed(ctx context.Context, req Request) Result {
	for _, name := range c.fallbackModels {
		model := models.Descriptor{APIVersion: c.fallbackVersion, ModelID: modelPath(name)}
		resp, err := c.generate(ctx, model, req)
		if err != nil && !errors.Is(err, chat.ErrMalformedResponse) {
			c.logger.Debug("fixed model attempt failed",
				zap.String("model", model.ModelID),
				zap.Error(err),
			)
			if ctx.Err() != nil {
				return Fail(ConnectionError, ctx.Err().Error())
			}
			continue
		}
		return c.classify(model, resp, err, req)
	}
	return Fail(ResolutionUnavailable, MessageResolutionUnavailable)
}

func modelPath(name string) string {
	if strings.HasPrefix(name, "models/") {
		return name
	}
	return "models/" + name
}
