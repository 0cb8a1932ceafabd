package seed

import (
	"strings"
	"time"

	"github.com/claude/wodforge/internal/models"
	"github.com/google/uuid"
)

// The export carries movement names only; categories, equipment, muscle
// groups, and difficulty are inferred from the name. Rules are checked in
// declaration order and the first match wins, so more specific vocabulary
// comes first.

type equipmentRule struct {
	keywords  []string
	equipment models.Equipment
}

var equipmentRules = []equipmentRule{
	{[]string{"dumbbell", "db "}, models.EquipmentDumbbell},
	{[]string{"kettlebell", "kb "}, models.EquipmentKettlebell},
	{[]string{"wall ball"}, models.EquipmentWallBall},
	{[]string{"pull-up", "pull up", "chin-up", "chin up", "toes-to-bar", "toes to bar", "muscle-up", "muscle up"}, models.EquipmentPullUpBar},
	{[]string{"jump rope", "double under"}, models.EquipmentJumpRope},
	{[]string{"box jump", "box step"}, models.EquipmentBox},
	{[]string{"row"}, models.EquipmentRower},
	{[]string{"bike", "assault"}, models.EquipmentBike},
	// Bodyweight squat variants before the barbell rule claims "squat".
	{[]string{"air squat", "pistol", "jump squat"}, models.EquipmentBodyweight},
	{[]string{"push press", "push jerk", "squat", "deadlift", "bench", "press", "clean", "snatch", "jerk", "thruster", "barbell"}, models.EquipmentBarbell},
}

func inferEquipment(name string) []models.Equipment {
	lower := strings.ToLower(name)
	for _, r := range equipmentRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return []models.Equipment{r.equipment}
			}
		}
	}
	return []models.Equipment{models.EquipmentBodyweight}
}

type categoryRule struct {
	keywords []string
	category models.Category
}

var categoryRules = []categoryRule{
	{[]string{"squat", "deadlift", "bench", "press", "clean", "snatch", "jerk", "thruster"}, models.CategoryCompoundLift},
	{[]string{"run", "row", "bike", "ski", "assault", "jump rope", "double under", "sprint", "swim"}, models.CategoryCardio},
	{[]string{"stretch", "mobility", "foam roll"}, models.CategoryMobility},
	{[]string{"handstand", "muscle-up", "muscle up", "pistol", "rope climb"}, models.CategorySkill},
}

func inferCategories(name string, equipment []models.Equipment) []models.Category {
	lower := strings.ToLower(name)
	for _, r := range categoryRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return []models.Category{r.category}
			}
		}
	}
	if len(equipment) == 1 && equipment[0] == models.EquipmentBodyweight {
		return []models.Category{models.CategoryBodyweight}
	}
	return []models.Category{models.CategoryAccessory}
}

type muscleRule struct {
	keywords []string
	groups   []models.MuscleGroup
}

var muscleRules = []muscleRule{
	{[]string{"squat", "lunge", "pistol", "step-up", "step up", "box jump"}, []models.MuscleGroup{models.MuscleLegs, models.MuscleGlutes}},
	{[]string{"deadlift", "swing", "good morning", "hip thrust"}, []models.MuscleGroup{models.MuscleBack, models.MuscleGlutes, models.MuscleLegs}},
	{[]string{"bench", "push-up", "push up", "dip", "fly"}, []models.MuscleGroup{models.MuscleChest, models.MuscleArms}},
	{[]string{"press", "jerk", "handstand", "raise"}, []models.MuscleGroup{models.MuscleShoulders, models.MuscleArms}},
	{[]string{"pull-up", "pull up", "chin", "row", "pulldown"}, []models.MuscleGroup{models.MuscleBack, models.MuscleArms}},
	{[]string{"curl", "extension"}, []models.MuscleGroup{models.MuscleArms}},
	{[]string{"sit-up", "situp", "plank", "hollow", "toes-to-bar", "toes to bar", "v-up", "crunch"}, []models.MuscleGroup{models.MuscleCore}},
}

func inferMuscleGroups(name string) []models.MuscleGroup {
	lower := strings.ToLower(name)
	for _, r := range muscleRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.groups
			}
		}
	}
	return []models.MuscleGroup{models.MuscleFullBody}
}

var advancedKeywords = []string{"snatch", "muscle-up", "muscle up", "handstand", "pistol", "rope climb"}
var intermediateKeywords = []string{"clean", "jerk", "double under", "toes-to-bar", "toes to bar", "thruster", "kipping"}

func inferDifficulty(name string, isMain bool) models.Difficulty {
	lower := strings.ToLower(name)
	for _, kw := range advancedKeywords {
		if strings.Contains(lower, kw) {
			return models.DifficultyAdvanced
		}
	}
	for _, kw := range intermediateKeywords {
		if strings.Contains(lower, kw) {
			return models.DifficultyIntermediate
		}
	}
	if isMain {
		return models.DifficultyIntermediate
	}
	return models.DifficultyBeginner
}

// MovementFromName builds a catalog entry from a bare movement name.
func MovementFromName(name string, isMain bool, now time.Time) models.Movement {
	equipment := inferEquipment(name)
	return models.Movement{
		ID:           uuid.New(),
		Name:         name,
		Categories:   inferCategories(name, equipment),
		Equipment:    equipment,
		MuscleGroups: inferMuscleGroups(name),
		Difficulty:   inferDifficulty(name, isMain),
		IsMain:       isMain,
		CreatedAt:    now,
	}
}
