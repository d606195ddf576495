package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"travelmail/internal/service/assistant"
	"travelmail/internal/service/completion"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type AskHandler struct {
	logger    *zap.Logger
	assistant *assistant.Service
}

func NewAskHandler(logger *zap.Logger, assistant *assistant.Service) *AskHandler {
	return &AskHandler{logger: logger, assistant: assistant}
}

// Ask 對檔案（或 "-" 代表 stdin）執行一個助理任務並印出各區塊
func (handler *AskHandler) Ask(cmd *cobra.Command, credential, task, file string) error {
	if credential == "" {
		return errors.New("--key is required")
	}
	text, err := readInput(cmd.InOrStdin(), file)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	reply, err := handler.assistant.Run(ctx, task, credential, text, nil)
	if err != nil {
		var failure *completion.Failure
		if errors.As(err, &failure) {
			return fmt.Errorf("%s", failure.Message)
		}
		return err
	}

	out := cmd.OutOrStdout()
	for i, section := range reply.Sections {
		if len(reply.Sections) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "[%s]\n", strings.ToUpper(section.Name))
		}
		fmt.Fprintln(out, section.Text)
	}
	handler.logger.Debug("ask done",
		zap.String("task", reply.Task),
		zap.String("model", reply.Model.ModelID),
		zap.String("api_version", reply.Model.APIVersion),
	)
	return nil
}

func readInput(stdin io.Reader, file string) (string, error) {
	if file == "" || file == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}
	return string(b), nil
}
