package command

import (
	"fmt"
	"time"
	"travelmail/config"
	"travelmail/internal/core"
	"travelmail/utils/token"
	"travelmail/utils/validate"

	"github.com/spf13/cobra"
)

type TokenHandler struct {
	config *config.Configuration
}

func NewTokenHandler(config *config.Configuration) *TokenHandler {
	return &TokenHandler{config: config}
}

// Issue 簽發 /admin 路由使用的 JWT
func (handler *TokenHandler) Issue(cmd *cobra.Command, username, role string, ttl time.Duration) error {
	if username == "" {
		return fmt.Errorf("--username is required")
	}
	if !validate.IsValidRole(role) {
		return fmt.Errorf("invalid role %q", role)
	}
	raw, err := token.Issue(handler.config.App.SecretKey, username, core.Role(role), ttl, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), raw)
	return nil
}
