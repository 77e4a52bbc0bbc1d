package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultRetention is how many playbooks the store keeps.
const DefaultRetention = 10

// Settings are persisted user defaults.
type Settings struct {
	DefaultGrade       GradeBand     `json:"defaultGrade"`
	DefaultDuration    Duration      `json:"defaultDuration"`
	DefaultEnvironment Environment   `json:"defaultEnvironment"`
	DefaultEquipment   EquipmentTier `json:"defaultEquipment"`
	AIProvider         string        `json:"aiProvider,omitempty"`
	AIModel            string        `json:"aiModel,omitempty"`
	AutoSave           bool          `json:"autoSave"`
	RetentionCap       int           `json:"retentionCap"`
}

func DefaultSettings() Settings {
	return Settings{
		DefaultGrade:       Grade35,
		DefaultDuration:    Duration45,
		DefaultEnvironment: EnvIndoor,
		DefaultEquipment:   EquipmentStandard,
		AutoSave:           true,
		RetentionCap:       DefaultRetention,
	}
}

// Validate rejects settings that would produce an invalid generator input.
func (s Settings) Validate() error {
	if !s.DefaultGrade.Valid() {
		return fmt.Errorf("%w: default grade %q", ErrInvalidInput, s.DefaultGrade)
	}
	if !s.DefaultDuration.Valid() {
		return fmt.Errorf("%w: default duration %d", ErrInvalidInput, s.DefaultDuration)
	}
	if !s.DefaultEnvironment.Valid() {
		return fmt.Errorf("%w: default environment %q", ErrInvalidInput, s.DefaultEnvironment)
	}
	if !s.DefaultEquipment.Valid() {
		return fmt.Errorf("%w: default equipment %q", ErrInvalidInput, s.DefaultEquipment)
	}
	if s.RetentionCap < 1 {
		return fmt.Errorf("%w: retention cap must be at least 1", ErrInvalidInput)
	}
	return nil
}

// Input builds a generator input from the defaults.
func (s Settings) Input(standards ...string) GeneratorInput {
	return GeneratorInput{
		GradeLevel:     s.DefaultGrade,
		Duration:       s.DefaultDuration,
		Environment:    s.DefaultEnvironment,
		EquipmentLevel: s.DefaultEquipment,
		Standards:      standards,
	}
}

// Setting keys accepted by Settings.Set.
const (
	KeyDefaultGrade       = "default_grade"
	KeyDefaultDuration    = "default_duration"
	KeyDefaultEnvironment = "default_environment"
	KeyDefaultEquipment   = "default_equipment"
	KeyAIProvider         = "ai_provider"
	KeyAIModel            = "ai_model"
	KeyAutoSave           = "auto_save"
	KeyRetentionCap       = "retention_cap"
)

// SettingKeys lists every key in display order.
var SettingKeys = []string{
	KeyDefaultGrade, KeyDefaultDuration, KeyDefaultEnvironment, KeyDefaultEquipment,
	KeyAIProvider, KeyAIModel, KeyAutoSave, KeyRetentionCap,
}

// Set parses value into the field named by key.
func (s *Settings) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case KeyDefaultGrade:
		g, err := ParseGradeBand(value)
		if err != nil {
			return err
		}
		s.DefaultGrade = g
	case KeyDefaultDuration:
		d, err := ParseDuration(value)
		if err != nil {
			return err
		}
		s.DefaultDuration = d
	case KeyDefaultEnvironment:
		e, err := ParseEnvironment(value)
		if err != nil {
			return err
		}
		s.DefaultEnvironment = e
	case KeyDefaultEquipment:
		t, err := ParseEquipmentTier(value)
		if err != nil {
			return err
		}
		s.DefaultEquipment = t
	case KeyAIProvider:
		s.AIProvider = strings.ToLower(value)
	case KeyAIModel:
		s.AIModel = value
	case KeyAutoSave:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: auto_save must be true or false", ErrInvalidInput)
		}
		s.AutoSave = b
	case KeyRetentionCap:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: retention_cap must be a positive number", ErrInvalidInput)
		}
		s.RetentionCap = n
	default:
		return fmt.Errorf("%w: unknown setting %q", ErrInvalidInput, key)
	}
	return nil
}

// Value formats the field named by key. Unknown keys return "".
func (s Settings) Value(key string) string {
	switch key {
	case KeyDefaultGrade:
		return string(s.DefaultGrade)
	case KeyDefaultDuration:
		return strconv.Itoa(int(s.DefaultDuration))
	case KeyDefaultEnvironment:
		return string(s.DefaultEnvironment)
	case KeyDefaultEquipment:
		return string(s.DefaultEquipment)
	case KeyAIProvider:
		return s.AIProvider
	case KeyAIModel:
		return s.AIModel
	case KeyAutoSave:
		return strconv.FormatBool(s.AutoSave)
	case KeyRetentionCap:
		return strconv.Itoa(s.RetentionCap)
	}
	return ""
}
