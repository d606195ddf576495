package command

import (
	"time"
	commandHandler "travelmail/internal/command/handler"
	"travelmail/internal/core"

	"github.com/google/wire"
	"github.com/spf13/cobra"
)

var ProviderSet = wire.NewSet(
	NewCommand,
	commandHandler.NewResolveHandler,
	commandHandler.NewAskHandler,
	commandHandler.NewTokenHandler,
)

type Command struct {
	resolveHandler *commandHandler.ResolveHandler
	askHandler     *commandHandler.AskHandler
	tokenHandler   *commandHandler.TokenHandler
}

// NewCommand .
func NewCommand(
	resolveHandler *commandHandler.ResolveHandler,
	askHandler *commandHandler.AskHandler,
	tokenHandler *commandHandler.TokenHandler,
) *Command {
	return &Command{
		resolveHandler: resolveHandler,
		askHandler:     askHandler,
		tokenHandler:   tokenHandler,
	}
}

func Register(rootCmd *cobra.Command, newCmd func() (*Command, func(), error)) {
	var key string

	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "列出金鑰可用的 API 版本與模型",
		RunE: func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()
			return command.resolveHandler.Resolve(cmd, key)
		},
	}
	resolveCmd.Flags().StringVarP(&key, "key", "k", "", "Google API key")

	var task, file string
	askCmd := &cobra.Command{
		Use:   "ask",
		Short: "對郵件檔案執行一個助理任務",
		RunE: func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()
			return command.askHandler.Ask(cmd, key, task, file)
		},
	}
	askCmd.Flags().StringVarP(&key, "key", "k", "", "Google API key")
	askCmd.Flags().StringVarP(&task, "task", "t", "audit", "audit / client-to-supplier / supplier-to-client / manifest")
	askCmd.Flags().StringVarP(&file, "file", "f", "-", "郵件檔案，- 代表 stdin")

	var username, role string
	var ttl time.Duration
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "簽發 /admin 使用的 JWT",
		RunE: func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()
			return command.tokenHandler.Issue(cmd, username, role, ttl)
		},
	}
	tokenCmd.Flags().StringVarP(&username, "username", "u", "", "管理者名稱")
	tokenCmd.Flags().StringVar(&role, "role", string(core.RoleAdmin), "admin / viewer")
	tokenCmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "有效期間")

	rootCmd.AddCommand(resolveCmd, askCmd, tokenCmd)
}
