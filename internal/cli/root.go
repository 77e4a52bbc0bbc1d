// Package cli is the peplaybook command line: cobra commands over the
// service layer, a huh form for interactive generation and a bubbletea
// browser for saved playbooks.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/peplaybook/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Playbooks service.PlaybookService
	Settings  service.SettingsService
	Catalog   service.CatalogService

	Logger   *slog.Logger
	LogLevel *slog.LevelVar
	HTTPAddr string

	// IsInteractive reports whether stdin and stdout are a terminal.
	// Nil means never.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// NewRootCmd creates the top-level "peplaybook" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "peplaybook",
		Short:         "Generate multi-lesson physical education playbooks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose && app.LogLevel != nil {
				app.LogLevel.Set(slog.LevelDebug)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")

	root.AddCommand(
		newGenerateCmd(app),
		newListCmd(app),
		newShowCmd(app),
		newRenameCmd(app),
		newFavoriteCmd(app),
		newTagCmd(app),
		newDeleteCmd(app),
		newExportCmd(app),
		newStandardsCmd(app),
		newActivitiesCmd(app),
		newBackupCmd(app),
		newRestoreCmd(app),
		newSettingsCmd(app),
		newBrowseCmd(app),
		newServeCmd(app),
	)

	return root
}
