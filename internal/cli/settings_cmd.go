package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/peplaybook/internal/cli/formatter"
	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/llm"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSettings(cmd, app)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return showSettings(cmd, app)
			},
		},
		newSettingsSetCmd(app),
	)

	return cmd
}

func showSettings(cmd *cobra.Command, app *App) error {
	s, err := app.Settings.Get(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSettings(s))

	st, err := app.Playbooks.AIStatus(cmd.Context(), llm.Credentials{})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAIStatus(st))
	return nil
}

func newSettingsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY=VALUE...",
		Short: "Change one or more settings",
		Long: "Change one or more settings. All pairs are applied together or not at all.\n\nKeys: " +
			strings.Join(domain.SettingKeys, ", "),
		Example: `  peplaybook settings set default_grade=6-8 default_duration=60
  peplaybook settings set ai_provider=groq ai_model=llama-3.1-8b-instant`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parsePairs(args)
			if err != nil {
				return err
			}
			s, err := app.Settings.Update(cmd.Context(), values)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSettings(s))
			return nil
		},
	}
}

// parsePairs accepts KEY=VALUE arguments, or a single KEY VALUE pair.
func parsePairs(args []string) (map[string]string, error) {
	if len(args) == 2 && !strings.Contains(args[0], "=") {
		return map[string]string{args[0]: args[1]}, nil
	}
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid setting %q, expected key=value", arg)
		}
		values[strings.TrimSpace(key)] = value
	}
	return values, nil
}
