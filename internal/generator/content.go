package generator

import "github.com/alexanderramin/peplaybook/internal/domain"

// Placeholder text used when the catalog has nothing eligible.
const (
	placeholderWarmUp       = "Dynamic stretching and light jogging around the space"
	placeholderMainName     = "Team Activity"
	placeholderMainDesc     = "Engaging group activity focusing on lesson objectives"
	placeholderSkillDesc    = "Practice fundamental movement skills through structured activities"
	placeholderCooldownDesc = "Group reflection circle discussing today's achievements and challenges"
	formativeAssessment     = "Teacher observation of skill execution and peer interaction"
	summativeAssessment     = "Skill demonstration and self-assessment rubric"
	defaultTitleFocus       = "Movement Foundations"
)

var (
	placeholderRules = []string{
		"Respect all participants",
		"Follow safety guidelines",
		"Rotate positions fairly",
		"Encourage teammates",
	}
	placeholderEquipment = []string{"cones", "balls"}
)

var lessonFocuses = []string{
	"Building Foundations",
	"Skill Development",
	"Application Practice",
	"Game Strategies",
	"Assessment & Review",
}

var reflectionPrompts = []string{
	"What skill did you improve most today?",
	"How did you help your teammates succeed?",
	"What strategy worked best in the main activity?",
	"What would you do differently next time?",
	"How did you show good sportsmanship today?",
}

var socialEmotionalFocuses = []string{
	"Building confidence through skill mastery",
	"Developing empathy by supporting classmates",
	"Practicing emotional regulation during competition",
	"Fostering resilience through challenging activities",
	"Cultivating teamwork and communication skills",
}

var easierModifications = []string{
	"Reduce distance or playing area",
	"Allow additional touches or attempts",
	"Use lighter or softer equipment",
	"Pair with a skilled partner for support",
	"Simplify rules or scoring system",
}

var harderModifications = []string{
	"Increase distance or expand playing area",
	"Add time constraints or speed requirements",
	"Introduce defensive pressure",
	"Require specific techniques or form",
	"Add complex scoring or bonus challenges",
}

var gradeGoals = map[domain.GradeBand][]string{
	domain.GradeK2: {
		"Build fundamental movement patterns",
		"Develop spatial awareness and body control",
	},
	domain.Grade35: {
		"Refine movement skills and combinations",
		"Introduce strategic thinking in activities",
	},
	domain.Grade68: {
		"Apply skills in complex game situations",
		"Develop leadership and teamwork abilities",
	},
}

var tierMaterials = map[domain.EquipmentTier][]string{
	domain.EquipmentMinimal:  {"Cones or markers (5)"},
	domain.EquipmentStandard: {"Cones (10)", "Playground balls (5)"},
	domain.EquipmentFull:     {"Cones (20+)", "Various balls", "Jump ropes", "Mats"},
}

var gradeAssessments = map[domain.GradeBand][]string{
	domain.GradeK2: {
		"Teacher observation of skill performance",
		"Thumbs up/down self-assessment",
		"Simple exit ticket with faces",
		"Peer high-fives for effort",
	},
	domain.Grade35: {
		"Skill demonstration rubric",
		"Peer assessment checklist",
		"Self-reflection journal",
		"Goal-setting worksheet",
	},
	domain.Grade68: {
		"Performance analysis rubric",
		"Video self-assessment",
		"Written strategy reflection",
		"Fitness improvement tracking",
	},
}

var planModifications = []string{
	"Advanced: add complexity to movement patterns and offer leadership roles",
	"Advanced: increase distance, speed or repetitions",
	"Support: reduce distance and speed requirements and allow modified movements",
	"Support: provide visual demonstrations and a supportive partner",
	"English learners: use visual cues, gestures and movement vocabulary cards",
}

var gradeCrossCurricular = map[domain.GradeBand][]string{
	domain.GradeK2: {
		"Math: Counting repetitions and keeping score",
		"Science: Exploring how bodies move",
		"Language: Following multi-step directions",
	},
	domain.Grade35: {
		"Math: Calculating distances and angles",
		"Science: Understanding force and motion",
		"Social Studies: Games from different cultures",
	},
	domain.Grade68: {
		"Math: Analyzing statistics and probability",
		"Science: Biomechanics and physiology",
		"Health: Nutrition and wellness connections",
	},
}

var gradeTakeHome = map[domain.GradeBand]string{
	domain.GradeK2: "Practice your favorite movement from today for 5 minutes each day!",
	domain.Grade35: "Create a new variation of today's game and teach it to your family!",
	domain.Grade68: "Track your physical activity for the week and set a personal goal!",
}

// rotate picks list[(n-1) % len(list)] for a 1-based lesson number.
func rotate(list []string, n int) string {
	if len(list) == 0 {
		return ""
	}
	if n < 1 {
		n = 1
	}
	return list[(n-1)%len(list)]
}
