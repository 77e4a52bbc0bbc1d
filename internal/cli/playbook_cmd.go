package cli

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/peplaybook/internal/cli/formatter"
	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/export"
)

const idHelp = "ID may be a full playbook ID, a unique prefix, or a list position such as 2 or #2."

func newListCmd(app *App) *cobra.Command {
	var (
		favorites bool
		tag       string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved playbooks, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Playbooks.List(cmd.Context())
			if err != nil {
				return err
			}

			var keep func(*domain.StoredPlaybook) bool
			if favorites || tag != "" {
				want := strings.ToLower(strings.TrimSpace(tag))
				keep = func(sp *domain.StoredPlaybook) bool {
					return (!favorites || sp.Favorite) && (want == "" || slices.Contains(sp.Tags, want))
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlaybookList(list, time.Now(), keep))
			return nil
		},
	}

	cmd.Flags().BoolVar(&favorites, "favorites", false, "Only show favorites")
	cmd.Flags().StringVar(&tag, "tag", "", "Only show playbooks with this tag")

	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	var lesson int

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a saved playbook",
		Long:  "Show a saved playbook. " + idHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := app.Playbooks.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if lesson > 0 {
				if lesson > len(sp.Lessons) {
					return fmt.Errorf("playbook has %d lessons", len(sp.Lessons))
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLesson(sp.Lessons[lesson-1]))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStoredPlaybook(sp))
			return nil
		},
	}

	cmd.Flags().IntVarP(&lesson, "lesson", "l", 0, "Only show this lesson number")

	return cmd
}

func newRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a saved playbook",
		Long:  "Rename a saved playbook. " + idHelp,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := app.Playbooks.Rename(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", formatter.TruncID(sp.ID), formatter.Bold(sp.Name))
			return nil
		},
	}
}

func newFavoriteCmd(app *App) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "favorite ID",
		Short: "Mark a playbook as a favorite so it is never evicted",
		Long:  "Mark a playbook as a favorite so it is never evicted. " + idHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := app.Playbooks.SetFavorite(cmd.Context(), args[0], !off)
			if err != nil {
				return err
			}
			if sp.Favorite {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s is a favorite\n", formatter.FavoriteMark(true), formatter.Bold(sp.DisplayName()))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is no longer a favorite\n", formatter.Bold(sp.DisplayName()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Remove the favorite mark")

	return cmd
}

func newTagCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tag ID [TAG...]",
		Short: "Replace a playbook's tags; no tags clears them",
		Long:  "Replace a playbook's tags; no tags clears them. " + idHelp,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := app.Playbooks.SetTags(cmd.Context(), args[0], args[1:])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", formatter.Bold(sp.DisplayName()), formatter.Tags(sp.Tags))
			return nil
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	var all, yes bool

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a saved playbook",
		Long: "Delete a saved playbook. " + idHelp +
			"\nWith --all, every saved playbook is removed and the settings go back to their defaults.",
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				return clearAll(cmd, app, yes)
			}
			sp, err := app.Playbooks.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := app.Playbooks.Delete(cmd.Context(), sp.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", formatter.Bold(sp.DisplayName()), formatter.Dim("("+sp.ID+")"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove every saved playbook and reset settings")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func clearAll(cmd *cobra.Command, app *App, yes bool) error {
	if !yes && app.interactive() {
		ok, err := confirm("Delete every saved playbook and reset settings?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim("Cancelled."))
			return nil
		}
	}
	n, err := app.Playbooks.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d saved playbooks and reset settings\n", n)
	return nil
}

func newExportCmd(app *App) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Export a saved playbook to a file",
		Long: "Export a saved playbook as markdown, csv, text, print (HTML), json or summary. " + idHelp +
			"\nWith --out set to a directory, the file is named after the playbook title.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return fmt.Errorf("%w (choose one of %s)", err, formatList())
			}
			doc, sp, err := app.Playbooks.Export(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			path := out
			if isDir(path) {
				path = joinPath(path, doc.Filename(&sp.Playbook))
			}
			if err := writeOutput(cmd, path, doc.Body); err != nil {
				return err
			}
			if path != "" && path != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s Wrote %s\n", formatter.StyleGreen.Render("✔"), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatMarkdown), "Export format")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file or directory (default stdout)")

	return cmd
}

func formatList() string {
	names := make([]string, len(export.Formats))
	for i, f := range export.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
