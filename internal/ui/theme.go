package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Versuscsdota/MirrorCRM/internal/db"
	"github.com/Versuscsdota/MirrorCRM/internal/tui/theme"
)

func (a *App) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark]",
		Short: "Show or set the grid theme",
		Long: `Without an argument print the saved theme. With one, save it; the
grid opens with it from then on, overriding [ui] theme in the config.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: theme.Available(),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			ctx := context.Background()

			if len(args) == 0 {
				name, err := store.GetPreference(ctx, db.KeyTheme)
				switch {
				case errors.Is(err, db.ErrNotFound):
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", a.config.UI.Theme, formatMuted("(из конфигурации)"))
					return nil
				case err != nil:
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			}

			name := strings.ToLower(args[0])
			if !theme.IsAvailable(name) {
				return fmt.Errorf("%w: %q (available: %s)", db.ErrInvalidTheme, args[0], strings.Join(theme.Available(), ", "))
			}
			if err := store.SetTheme(ctx, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatSuccess("Тема:"), name)
			return nil
		},
	}
}
