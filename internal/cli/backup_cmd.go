package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/peplaybook/internal/cli/formatter"
	"github.com/alexanderramin/peplaybook/internal/service"
)

func newBackupCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write every saved playbook and the settings to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.Playbooks.Backup(cmd.Context())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(b, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding backup: %w", err)
			}
			data = append(data, '\n')

			path := out
			if isDir(path) {
				path = joinPath(path, "peplaybook-backup-"+b.ExportDate.Format("2006-01-02")+".json")
			}
			if err := writeOutput(cmd, path, data); err != nil {
				return err
			}
			if path != "" && path != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s Backed up %d playbooks to %s\n",
					formatter.StyleGreen.Render("✔"), len(b.Playbooks), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file or directory (default stdout)")

	return cmd
}

func newRestoreCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore FILE",
		Short: "Replace all saved playbooks and settings with a backup",
		Long:  "Replace all saved playbooks and settings with a backup file. Use - to read from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading backup: %w", err)
			}

			var b service.Backup
			if err := json.Unmarshal(data, &b); err != nil {
				return fmt.Errorf("%w: %v", service.ErrInvalidBackup, err)
			}

			if !yes && app.interactive() {
				existing, err := app.Playbooks.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(existing) > 0 {
					ok, err := confirm(fmt.Sprintf("Replace %d saved playbooks with %d from the backup?", len(existing), len(b.Playbooks)))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim("Cancelled."))
						return nil
					}
				}
			}

			n, err := app.Playbooks.Restore(cmd.Context(), &b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Restored %d playbooks\n", formatter.StyleGreen.Render("✔"), n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}
