package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/peplaybook/internal/cli/formatter"
	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/export"
	"github.com/alexanderramin/peplaybook/internal/llm"
	"github.com/alexanderramin/peplaybook/internal/service"
)

func newGenerateCmd(app *App) *cobra.Command {
	var (
		flags       inputFlags
		interactive bool
		useAI       bool
		creds       llm.Credentials
		seed        uint64
		noSave      bool
		name        string
		format      string
		out         string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new playbook",
		Long: `Generate a multi-lesson playbook. Flags that are not given take the
stored defaults (see 'peplaybook settings show'). With --ai the playbook is
written by the configured provider; any section it leaves out is filled from
the built-in catalog.`,
		Example: `  peplaybook generate --grade 3-5 --duration 45 --standards S1,S2
  peplaybook generate --interactive
  peplaybook generate --ai --provider openai --format markdown --out unit.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fs := cmd.Flags()

			defaults, err := app.Settings.Get(ctx)
			if err != nil {
				return err
			}
			in, err := flags.apply(fs, defaults.Input())
			if err != nil {
				return err
			}

			mode := service.ModeDeterministic
			if useAI {
				mode = service.ModeAI
			}

			if interactive {
				if !app.interactive() {
					return errors.New("--interactive needs a terminal")
				}
				values := newGenerateFormValues(in, mode)
				if err := newGenerateForm(app.Catalog.Standards(ctx), values).RunWithContext(ctx); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim("Cancelled."))
						return nil
					}
					return err
				}
				in, mode = values.result()
				if name == "" {
					name = values.Name
				}
			}

			var docFormat export.Format
			if format != "" {
				if docFormat, err = export.ParseFormat(format); err != nil {
					return err
				}
			}

			req := service.GenerateRequest{
				Input:       in,
				Mode:        mode,
				Credentials: creds,
				Save:        optionalBool(fs, "save"),
				Name:        name,
			}
			if noSave {
				req.Save = new(bool)
			}
			if fs.Changed("seed") {
				req.Seed = &seed
			}

			stop := func() {}
			if mode == service.ModeAI && app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Writing lessons with "+providerLabel(creds, defaults)+"...")
			}
			res, err := app.Playbooks.Generate(ctx, req)
			stop()
			if err != nil {
				if errors.Is(err, llm.ErrNotConfigured) {
					return fmt.Errorf("%w (set --api-key or PEPLAYBOOK_AI_API_KEY)", err)
				}
				return err
			}

			if p := res.Playbook; p.Metadata.FallbackReason != "" {
				app.logger().Warn("ai generation fell back to the built-in catalog",
					"reason", p.Metadata.FallbackReason, "sections", p.Metadata.FallbackSections)
			}

			if docFormat != "" {
				doc, err := export.Render(res.Playbook, docFormat)
				if err != nil {
					return err
				}
				if err := writeOutput(cmd, out, doc.Body); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlaybook(res.Playbook))
			}

			if res.Saved != nil {
				fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatSaved(res.Saved))
			}
			return nil
		},
	}

	fs := cmd.Flags()
	flags.register(fs)
	fs.BoolVarP(&interactive, "interactive", "i", false, "Choose options in an interactive form")
	fs.BoolVar(&useAI, "ai", false, "Generate with the AI provider")
	fs.StringVar(&creds.Provider, "provider", "", "AI provider: openai, openrouter, groq, ollama or custom")
	fs.StringVar(&creds.APIKey, "api-key", "", "AI provider API key (overrides configuration)")
	fs.StringVar(&creds.Model, "model", "", "AI model name")
	fs.Uint64Var(&seed, "seed", 0, "Random seed for a repeatable built-in playbook")
	fs.Bool("save", false, "Save the playbook (default: the auto_save setting)")
	fs.BoolVar(&noSave, "no-save", false, "Do not save the playbook")
	fs.StringVar(&name, "name", "", "Name to save the playbook under")
	fs.StringVarP(&format, "format", "f", "", "Write an export instead of the terminal view (markdown, csv, text, print, json, summary)")
	fs.StringVarP(&out, "out", "o", "", "Output file for --format (default stdout)")
	cmd.MarkFlagsMutuallyExclusive("save", "no-save")

	return cmd
}

func providerLabel(creds llm.Credentials, s domain.Settings) string {
	switch {
	case creds.Provider != "":
		return creds.Provider
	case s.AIProvider != "":
		return s.AIProvider
	}
	return "the AI provider"
}
