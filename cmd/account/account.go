package account

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/simorq_mobile/config"
	"github.com/Alijeyrad/simorq_mobile/internal/app"
	"github.com/Alijeyrad/simorq_mobile/internal/service/verification"
	"github.com/Alijeyrad/simorq_mobile/pkg/logs"
	"github.com/Alijeyrad/simorq_mobile/pkg/remote"
)

func NewAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account recovery commands",
	}

	cmd.AddCommand(newForgotPasswordCommand())

	return cmd
}

// newForgotPasswordCommand runs the full recovery sequence: request a code,
// collect it through the code-entry controller, then reset the password.
func newForgotPasswordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Recover an account with an emailed verification code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}
			slog.SetDefault(logs.New(cfg))

			email := args[0]

			return app.Run(cfg, func(factory app.VerificationFactory, client *remote.Client) error {
				ctx := cmd.Context()

				if err := client.RequestPasswordReset(ctx, email); err != nil {
					return err
				}
				fmt.Printf("verification code sent to %s\n", email)

				ctrl := factory(email)
				ctrl.Start()
				defer ctrl.Stop()

				reader := bufio.NewReader(os.Stdin)
				fmt.Print("enter the 6-digit code: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read code: %w", err)
				}
				for i, r := range strings.TrimSpace(line) {
					if i >= verification.Slots {
						break
					}
					ctrl.SetDigit(i, string(r))
				}

				sub, err := ctrl.Submit()
				if err != nil {
					return err
				}

				fmt.Print("new password: ")
				pw, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}

				if err := client.ResetPassword(ctx, sub.Code, strings.TrimSpace(pw)); err != nil {
					return err
				}
				fmt.Println("password updated, sign in with your new password")
				return nil
			})
		},
	}

	return cmd
}
