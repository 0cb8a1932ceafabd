package models

import (
	"encoding/json"
	"fmt"
)

// Format is the structural pattern governing how movements and time/reps are
// organized within a workout. Stored and serialized as its canonical string
// label; ParseFormat is the only way a string becomes a Format.
type Format string

const (
	FormatEMOM          Format = "emom"
	FormatAMRAP         Format = "amrap"
	FormatTabata        Format = "tabata"
	FormatForTime       Format = "for_time"
	FormatRoundsForTime Format = "rounds_for_time"
	FormatDeathBy       Format = "death_by"
	FormatChipper       Format = "chipper"
	FormatLadder        Format = "ladder"
	FormatPartner       Format = "partner"
	FormatForReps       Format = "for_reps"
)

// ParseFormat maps a stored label to its Format. Unknown labels are an error
// so bad data is caught at the boundary, not deep in generation.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatEMOM, FormatAMRAP, FormatTabata, FormatForTime, FormatRoundsForTime,
		FormatDeathBy, FormatChipper, FormatLadder, FormatPartner, FormatForReps:
		return f, nil
	}
	return "", fmt.Errorf("unknown workout format %q", s)
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	_, err := ParseFormat(string(f))
	return err == nil
}

// Label returns the display name for a format.
func (f Format) Label() string {
	switch f {
	case FormatEMOM:
		return "EMOM"
	case FormatAMRAP:
		return "AMRAP"
	case FormatTabata:
		return "Tabata"
	case FormatForTime:
		return "For Time"
	case FormatRoundsForTime:
		return "Rounds For Time"
	case FormatDeathBy:
		return "Death By"
	case FormatChipper:
		return "Chipper"
	case FormatLadder:
		return "Ladder"
	case FormatPartner:
		return "Partner"
	case FormatForReps:
		return "For Reps"
	}
	return string(f)
}

func (f *Format) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Intensity is the coarse effort classification driving both movement
// selection and rep/time scaling.
type Intensity string

const (
	IntensityHigh   Intensity = "high"
	IntensityMedium Intensity = "medium"
	IntensityLow    Intensity = "low"
)

// ParseIntensity maps a stored label to its Intensity.
func ParseIntensity(s string) (Intensity, error) {
	switch i := Intensity(s); i {
	case IntensityHigh, IntensityMedium, IntensityLow:
		return i, nil
	}
	return "", fmt.Errorf("unknown intensity %q", s)
}

// Valid reports whether i is a known intensity.
func (i Intensity) Valid() bool {
	_, err := ParseIntensity(string(i))
	return err == nil
}

// Label returns the display name for an intensity.
func (i Intensity) Label() string {
	switch i {
	case IntensityHigh:
		return "High"
	case IntensityMedium:
		return "Medium"
	case IntensityLow:
		return "Low"
	}
	return string(i)
}

func (i *Intensity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseIntensity(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Difficulty is the skill level a movement demands.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ParseDifficulty maps a stored label to its Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	_, err := ParseDifficulty(string(d))
	return err == nil
}

// Level returns the ordinal rank of a difficulty, beginner lowest. Used for
// "difficulty ceiling" filtering.
func (d Difficulty) Level() int {
	switch d {
	case DifficultyBeginner:
		return 1
	case DifficultyIntermediate:
		return 2
	case DifficultyAdvanced:
		return 3
	}
	return 0
}

func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDifficulty(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Category classifies what kind of work a movement is.
type Category string

const (
	CategoryCompoundLift Category = "compound_lift"
	CategoryBodyweight   Category = "bodyweight"
	CategoryCardio       Category = "cardio"
	CategoryAccessory    Category = "accessory"
	CategoryMobility     Category = "mobility"
	CategorySkill        Category = "skill"
)

// ParseCategory maps a stored label to its Category.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryCompoundLift, CategoryBodyweight, CategoryCardio,
		CategoryAccessory, CategoryMobility, CategorySkill:
		return c, nil
	}
	return "", fmt.Errorf("unknown movement category %q", s)
}

// Equipment identifies a piece of equipment a movement requires.
// EquipmentBodyweight means no external equipment is needed.
type Equipment string

const (
	EquipmentBarbell    Equipment = "barbell"
	EquipmentDumbbell   Equipment = "dumbbell"
	EquipmentKettlebell Equipment = "kettlebell"
	EquipmentPullUpBar  Equipment = "pull_up_bar"
	EquipmentJumpRope   Equipment = "jump_rope"
	EquipmentBox        Equipment = "box"
	EquipmentRower      Equipment = "rower"
	EquipmentBike       Equipment = "bike"
	EquipmentWallBall   Equipment = "wall_ball"
	EquipmentBodyweight Equipment = "bodyweight"
)

// ParseEquipment maps a stored label to its Equipment.
func ParseEquipment(s string) (Equipment, error) {
	switch e := Equipment(s); e {
	case EquipmentBarbell, EquipmentDumbbell, EquipmentKettlebell,
		EquipmentPullUpBar, EquipmentJumpRope, EquipmentBox,
		EquipmentRower, EquipmentBike, EquipmentWallBall, EquipmentBodyweight:
		return e, nil
	}
	return "", fmt.Errorf("unknown equipment %q", s)
}

// MuscleGroup identifies a muscle group a movement targets.
type MuscleGroup string

const (
	MuscleLegs      MuscleGroup = "legs"
	MuscleGlutes    MuscleGroup = "glutes"
	MuscleBack      MuscleGroup = "back"
	MuscleChest     MuscleGroup = "chest"
	MuscleShoulders MuscleGroup = "shoulders"
	MuscleArms      MuscleGroup = "arms"
	MuscleCore      MuscleGroup = "core"
	MuscleFullBody  MuscleGroup = "full_body"
)

// ParseMuscleGroup maps a stored label to its MuscleGroup.
func ParseMuscleGroup(s string) (MuscleGroup, error) {
	switch m := MuscleGroup(s); m {
	case MuscleLegs, MuscleGlutes, MuscleBack, MuscleChest,
		MuscleShoulders, MuscleArms, MuscleCore, MuscleFullBody:
		return m, nil
	}
	return "", fmt.Errorf("unknown muscle group %q", s)
}

// CategoryStrings converts a category set to its stored labels.
func CategoryStrings(cs []Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

// ParseCategories converts stored labels back to a category set.
func ParseCategories(ss []string) ([]Category, error) {
	out := make([]Category, len(ss))
	for i, s := range ss {
		c, err := ParseCategory(s)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// EquipmentStrings converts an equipment set to its stored labels.
func EquipmentStrings(es []Equipment) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = string(e)
	}
	return out
}

// ParseEquipmentList converts stored labels back to an equipment set.
func ParseEquipmentList(ss []string) ([]Equipment, error) {
	out := make([]Equipment, len(ss))
	for i, s := range ss {
		e, err := ParseEquipment(s)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// MuscleGroupStrings converts a muscle group set to its stored labels.
func MuscleGroupStrings(ms []MuscleGroup) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = string(m)
	}
	return out
}

// ParseMuscleGroups converts stored labels back to a muscle group set.
func ParseMuscleGroups(ss []string) ([]MuscleGroup, error) {
	out := make([]MuscleGroup, len(ss))
	for i, s := range ss {
		m, err := ParseMuscleGroup(s)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}
