package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate_NeverExceedsTotal(t *testing.T) {
	for _, d := range Durations {
		a := Allocate(int(d))
		assert.LessOrEqual(t, a.Allocated(), a.Total, "duration=%d", d)
		assert.Equal(t, a.Total, a.Allocated()+a.Transition, "duration=%d", d)
	}
}

func TestAllocate_FloorsEachShare(t *testing.T) {
	a := Allocate(45)
	assert.Equal(t, 6, a.WarmUp)
	assert.Equal(t, 11, a.SkillFocus)
	assert.Equal(t, 18, a.MainActivity)
	assert.Equal(t, 4, a.Closure)
	assert.Equal(t, 6, a.Transition)

	a = Allocate(30)
	assert.Equal(t, 4, a.WarmUp)
	assert.Equal(t, 7, a.SkillFocus)
	assert.Equal(t, 12, a.MainActivity)
	assert.Equal(t, 3, a.Closure)
}

func TestLessonCount(t *testing.T) {
	assert.Equal(t, 5, LessonCount(Duration30))
	assert.Equal(t, 5, LessonCount(Duration45))
	assert.Equal(t, 10, LessonCount(Duration60))
	assert.Equal(t, "1 week", UnitLength(Duration45))
	assert.Equal(t, "2 weeks", UnitLength(Duration60))
}

func TestEquipmentTier_Allows(t *testing.T) {
	assert.True(t, EquipmentMinimal.Allows(2))
	assert.False(t, EquipmentMinimal.Allows(3))
	assert.True(t, EquipmentStandard.Allows(5))
	assert.False(t, EquipmentStandard.Allows(6))
	assert.True(t, EquipmentFull.Allows(40))
}

func TestGeneratorInput_Validate(t *testing.T) {
	in := GeneratorInput{GradeLevel: Grade35, Duration: Duration45, Environment: EnvIndoor}
	require.NoError(t, in.Validate())

	bad := GeneratorInput{GradeLevel: "9-12", Duration: 50, Environment: "space"}
	err := bad.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "grade level")
	assert.Contains(t, err.Error(), "duration 50")
	assert.Contains(t, err.Error(), "environment")
}

func TestGeneratorInput_NormalizeDoesNotMutate(t *testing.T) {
	in := GeneratorInput{Standards: []string{" S1 ", "S1", "", "S3"}}
	out := in.Normalize()

	assert.Equal(t, []string{"S1", "S3"}, out.Standards)
	assert.Equal(t, EquipmentStandard, out.EquipmentLevel)
	assert.Equal(t, []string{" S1 ", "S1", "", "S3"}, in.Standards)
	assert.Empty(t, in.EquipmentLevel)
}

func TestParseHelpers(t *testing.T) {
	g, err := ParseGradeBand("k2")
	require.NoError(t, err)
	assert.Equal(t, GradeK2, g)

	d, err := ParseDuration("60")
	require.NoError(t, err)
	assert.Equal(t, Duration60, d)

	_, err = ParseDuration("50")
	assert.ErrorIs(t, err, ErrInvalidInput)

	tier, err := ParseEquipmentTier("")
	require.NoError(t, err)
	assert.Equal(t, EquipmentStandard, tier)

	_, err = ParseEnvironment("moon")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewPlaybookID_Format(t *testing.T) {
	now := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	id := NewPlaybookID(now)
	assert.Regexp(t, regexp.MustCompile(`^pb_1756713600000_[0-9a-f]{9}$`), id)
	assert.NotEqual(t, id, NewPlaybookID(now))
}

func TestStoredPlaybook_DisplayName(t *testing.T) {
	sp := &StoredPlaybook{Playbook: Playbook{Title: "3-5 Indoor PE: Motor Skills"}}
	assert.Equal(t, "3-5 Indoor PE: Motor Skills", sp.DisplayName())
	sp.Name = "Week of throwing"
	assert.Equal(t, "Week of throwing", sp.DisplayName())
}

func TestSettings_Validate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	s := DefaultSettings()
	s.RetentionCap = 0
	assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
}

func TestSettings_SetAndValue(t *testing.T) {
	s := DefaultSettings()

	require.NoError(t, s.Set(KeyDefaultGrade, "k2"))
	require.NoError(t, s.Set(KeyDefaultDuration, "60"))
	require.NoError(t, s.Set(KeyAutoSave, "false"))
	require.NoError(t, s.Set(KeyRetentionCap, "15"))

	assert.Equal(t, GradeK2, s.DefaultGrade)
	assert.Equal(t, "60", s.Value(KeyDefaultDuration))
	assert.Equal(t, "false", s.Value(KeyAutoSave))
	assert.Equal(t, 15, s.RetentionCap)

	assert.ErrorIs(t, s.Set(KeyRetentionCap, "0"), ErrInvalidInput)
	assert.ErrorIs(t, s.Set("colour", "blue"), ErrInvalidInput)
	assert.ErrorIs(t, s.Set(KeyDefaultEnvironment, "moon"), ErrInvalidInput)
}
