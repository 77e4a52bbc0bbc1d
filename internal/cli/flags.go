package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/peplaybook/internal/domain"
)

// inputFlags are the generator input flags. Unset flags fall back to the
// stored defaults, so only changed flags are applied.
type inputFlags struct {
	grade       string
	duration    int
	environment string
	standards   []string
	equipment   string
	team        bool
	competitive bool
	creative    bool
}

func (f *inputFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.grade, "grade", "g", "", "Grade band: K-2, 3-5 or 6-8")
	fs.IntVarP(&f.duration, "duration", "d", 0, "Session length in minutes: 30, 45 or 60")
	fs.StringVarP(&f.environment, "environment", "e", "", "indoor or outdoor")
	fs.StringSliceVarP(&f.standards, "standards", "s", nil, "Standard IDs, comma separated")
	fs.StringVar(&f.equipment, "equipment", "", "Equipment level: minimal, standard or full")
	fs.BoolVar(&f.team, "team", false, "Prefer team-based activities")
	fs.BoolVar(&f.competitive, "competitive", false, "Prefer competitive activities")
	fs.BoolVar(&f.creative, "creative", false, "Prefer creative activities")
}

// apply overlays the changed flags on in.
func (f *inputFlags) apply(fs *pflag.FlagSet, in domain.GeneratorInput) (domain.GeneratorInput, error) {
	var err error
	if fs.Changed("grade") {
		if in.GradeLevel, err = domain.ParseGradeBand(f.grade); err != nil {
			return in, err
		}
	}
	if fs.Changed("duration") {
		in.Duration = domain.Duration(f.duration)
		if !in.Duration.Valid() {
			return in, fmt.Errorf("%w: duration must be 30, 45 or 60 minutes, got %d", domain.ErrInvalidInput, f.duration)
		}
	}
	if fs.Changed("environment") {
		if in.Environment, err = domain.ParseEnvironment(f.environment); err != nil {
			return in, err
		}
	}
	if fs.Changed("equipment") {
		if in.EquipmentLevel, err = domain.ParseEquipmentTier(f.equipment); err != nil {
			return in, err
		}
	}
	if fs.Changed("standards") {
		in.Standards = append([]string(nil), f.standards...)
	}
	if fs.Changed("team") {
		in.Preferences.TeamBased = f.team
	}
	if fs.Changed("competitive") {
		in.Preferences.Competitive = f.competitive
	}
	if fs.Changed("creative") {
		in.Preferences.Creative = f.creative
	}
	return in, nil
}

// optionalBool returns a pointer to the flag value when it was set and nil
// otherwise.
func optionalBool(fs *pflag.FlagSet, name string) *bool {
	if !fs.Changed(name) {
		return nil
	}
	v, err := fs.GetBool(name)
	if err != nil {
		return nil
	}
	return &v
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func isDir(path string) bool {
	if path == "" || path == "-" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func joinPath(dir, name string) string {
	return filepath.Join(dir, name)
}
