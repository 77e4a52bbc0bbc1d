package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type GradeBand string

const (
	GradeK2 GradeBand = "K-2"
	Grade35 GradeBand = "3-5"
	Grade68 GradeBand = "6-8"
)

// GradeBands is the canonical ordering of supported grade bands.
var GradeBands = []GradeBand{GradeK2, Grade35, Grade68}

func (g GradeBand) Valid() bool {
	switch g {
	case GradeK2, Grade35, Grade68:
		return true
	}
	return false
}

// ParseGradeBand accepts the canonical form plus the lowercase "k2"/"35"/"68" shorthands.
func ParseGradeBand(s string) (GradeBand, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "K-2", "K2":
		return GradeK2, nil
	case "3-5", "35":
		return Grade35, nil
	case "6-8", "68":
		return Grade68, nil
	}
	return "", fmt.Errorf("%w: unknown grade level %q", ErrInvalidInput, s)
}

// Duration is a session length in minutes.
type Duration int

const (
	Duration30 Duration = 30
	Duration45 Duration = 45
	Duration60 Duration = 60
)

var Durations = []Duration{Duration30, Duration45, Duration60}

func (d Duration) Valid() bool {
	switch d {
	case Duration30, Duration45, Duration60:
		return true
	}
	return false
}

func ParseDuration(s string) (Duration, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "m"))
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q is not a number of minutes", ErrInvalidInput, s)
	}
	d := Duration(n)
	if !d.Valid() {
		return 0, fmt.Errorf("%w: duration must be 30, 45 or 60 minutes, got %d", ErrInvalidInput, n)
	}
	return d, nil
}

type Environment string

const (
	EnvIndoor  Environment = "indoor"
	EnvOutdoor Environment = "outdoor"
)

var Environments = []Environment{EnvIndoor, EnvOutdoor}

func (e Environment) Valid() bool {
	return e == EnvIndoor || e == EnvOutdoor
}

// Label returns the capitalized form used in titles.
func (e Environment) Label() string {
	if e == EnvOutdoor {
		return "Outdoor"
	}
	return "Indoor"
}

func ParseEnvironment(s string) (Environment, error) {
	e := Environment(strings.ToLower(strings.TrimSpace(s)))
	if !e.Valid() {
		return "", fmt.Errorf("%w: unknown environment %q", ErrInvalidInput, s)
	}
	return e, nil
}

type EquipmentTier string

const (
	EquipmentMinimal  EquipmentTier = "minimal"
	EquipmentStandard EquipmentTier = "standard"
	EquipmentFull     EquipmentTier = "full"
)

var EquipmentTiers = []EquipmentTier{EquipmentMinimal, EquipmentStandard, EquipmentFull}

func (t EquipmentTier) Valid() bool {
	switch t {
	case EquipmentMinimal, EquipmentStandard, EquipmentFull:
		return true
	}
	return false
}

// MaxItems returns the equipment ceiling for the tier, or -1 when unbounded.
func (t EquipmentTier) MaxItems() int {
	switch t {
	case EquipmentMinimal:
		return 2
	case EquipmentStandard:
		return 5
	default:
		return -1
	}
}

// Allows reports whether an activity needing n pieces of equipment fits the tier.
func (t EquipmentTier) Allows(n int) bool {
	max := t.MaxItems()
	return max < 0 || n <= max
}

func ParseEquipmentTier(s string) (EquipmentTier, error) {
	if strings.TrimSpace(s) == "" {
		return EquipmentStandard, nil
	}
	t := EquipmentTier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown equipment level %q", ErrInvalidInput, s)
	}
	return t, nil
}

type ActivityCategory string

const (
	CategoryWarmup   ActivityCategory = "warmup"
	CategorySkill    ActivityCategory = "skill"
	CategoryMain     ActivityCategory = "main"
	CategoryGame     ActivityCategory = "game"
	CategoryCooldown ActivityCategory = "cooldown"
)

func (c ActivityCategory) Valid() bool {
	switch c {
	case CategoryWarmup, CategorySkill, CategoryMain, CategoryGame, CategoryCooldown:
		return true
	}
	return false
}

// Source records which generator produced a playbook.
type Source string

const (
	SourceDeterministic Source = "deterministic"
	SourceAI            Source = "ai"
)
