package command

import (
	"context"
	"errors"
	"fmt"
	"travelmail/internal/service/completion"
	"travelmail/internal/service/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type ResolveHandler struct {
	logger   *zap.Logger
	resolver *models.Resolver
}

func NewResolveHandler(logger *zap.Logger, resolver *models.Resolver) *ResolveHandler {
	return &ResolveHandler{logger: logger, resolver: resolver}
}

// Resolve 印出這把金鑰會使用的 API 版本與模型
func (handler *ResolveHandler) Resolve(cmd *cobra.Command, credential string) error {
	if credential == "" {
		return errors.New("--key is required")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	descriptor, err := handler.resolver.Resolve(ctx, credential)
	if errors.Is(err, models.ErrNoModelAvailable) {
		return errors.New(completion.MessageResolutionUnavailable)
	}
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "api_version: %s\n", descriptor.APIVersion)
	fmt.Fprintf(out, "model:       %s\n", descriptor.ModelID)
	return nil
}
