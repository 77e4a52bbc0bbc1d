package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/peplaybook/internal/catalog"
	"github.com/alexanderramin/peplaybook/internal/cli/formatter"
	"github.com/alexanderramin/peplaybook/internal/domain"
)

func newStandardsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "standards",
		Short: "List curriculum standards in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStandards(app.Catalog.Standards(cmd.Context())))
			return nil
		},
	}
}

func newActivitiesCmd(app *App) *cobra.Command {
	var grade, environment, equipment, category, standard string

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List catalog activities, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				q   catalog.Query
				err error
			)
			if grade != "" {
				if q.Grade, err = domain.ParseGradeBand(grade); err != nil {
					return err
				}
			}
			if environment != "" {
				if q.Environment, err = domain.ParseEnvironment(environment); err != nil {
					return err
				}
			}
			if equipment != "" {
				if q.Equipment, err = domain.ParseEquipmentTier(equipment); err != nil {
					return err
				}
			}
			if category != "" {
				q.Category = domain.ActivityCategory(category)
				if !q.Category.Valid() {
					return fmt.Errorf("%w: unknown category %q (warmup, skill, main, game, cooldown)", domain.ErrInvalidInput, category)
				}
			}
			q.Standard = standard

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatActivities(app.Catalog.Activities(cmd.Context(), q)))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&grade, "grade", "g", "", "Only activities for this grade band")
	fs.StringVarP(&environment, "environment", "e", "", "Only activities usable indoor or outdoor")
	fs.StringVar(&equipment, "equipment", "", "Only activities within this equipment level")
	fs.StringVarP(&category, "category", "c", "", "warmup, skill, main, game or cooldown")
	fs.StringVar(&standard, "standard", "", "Only activities tagged with this standard ID")

	return cmd
}
