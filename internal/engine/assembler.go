package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/claude/wodforge/internal/models"
	"github.com/google/uuid"
)

// GenerateParams are the inputs to workout assembly.
type GenerateParams struct {
	Format      models.Format
	Intensity   models.Intensity
	DurationMin int
	Constraints Constraints
}

// Generator assembles concrete workouts from a movement pool. Randomness is
// used only for selection tie-breaking: no source means no shuffling and a
// fully deterministic result, a seeded source gives reproducible variety, and
// a fresh source per call gives the "regenerate" behavior.
type Generator struct {
	newRNG func() *rand.Rand
	now    func() time.Time
	newID  func() uuid.UUID
}

// NewGenerator creates a Generator that reuses rng for every call. rng may be
// nil for a fully deterministic generator; a non-nil rng must not be shared
// with concurrent callers.
func NewGenerator(rng *rand.Rand) *Generator {
	g := &Generator{now: time.Now, newID: uuid.New}
	if rng != nil {
		g.newRNG = func() *rand.Rand { return rng }
	}
	return g
}

// NewShufflingGenerator creates a Generator that draws a fresh tie-break
// source per call, so repeating a request can produce a different workout.
// *rand.Rand is not goroutine-safe; a per-call source keeps concurrent
// generations independent.
func NewShufflingGenerator() *Generator {
	return &Generator{
		newRNG: func() *rand.Rand { return rand.New(rand.NewSource(rand.Int63())) },
		now:    time.Now,
		newID:  uuid.New,
	}
}

// Generate filters the movement pool by params.Constraints and assembles a
// workout in the requested format. Returns ErrInsufficientCandidates when
// filtering leaves nothing to work with.
func (g *Generator) Generate(movements []models.Movement, cadences map[uuid.UUID]models.MovementCadence, p GenerateParams) (*models.Workout, error) {
	if !p.Format.Valid() {
		return nil, Validationf("generate workout", "format", "unknown format %q", string(p.Format))
	}
	if !p.Intensity.Valid() {
		return nil, Validationf("generate workout", "intensity", "unknown intensity %q", string(p.Intensity))
	}
	if p.DurationMin <= 0 {
		return nil, Validationf("generate workout", "duration_minutes", "must be positive, got %d", p.DurationMin)
	}

	filtered := FilterMovements(movements, cadences, p.Constraints)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("generate workout (format=%s intensity=%s): %w",
			p.Format, p.Intensity, ErrInsufficientCandidates)
	}

	pool := filtered
	if g.newRNG != nil {
		rng := g.newRNG()
		pool = append([]models.Movement(nil), filtered...)
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}

	count := movementCount(p.Intensity, p.DurationMin)
	if count > len(pool) {
		count = len(pool)
	}
	selected := selectDiverse(pool, count)

	w := models.Workout{
		ID:             g.newID(),
		Format:         p.Format,
		Intensity:      p.Intensity,
		DurationMin:    p.DurationMin,
		CreatedAt:      g.now().UTC(),
		FormatSettings: map[string]any{},
	}
	applyFormat(&w, selected, p)
	w.Name = fmt.Sprintf("%s %s", p.Format.Label(), descriptor(p.Intensity))
	w.Description = fmt.Sprintf("%s intensity %s, %d minutes",
		p.Intensity.Label(), p.Format.Label(), p.DurationMin)
	return &w, nil
}

// movementCount picks the target movement count. High intensity favors fewer,
// harder movements; low intensity favors more, lighter ones. Longer workouts
// get one or two extra slots within the band.
func movementCount(intensity models.Intensity, durationMin int) int {
	var count int
	switch intensity {
	case models.IntensityHigh:
		count = 3
		if durationMin >= 20 {
			count++
		}
	case models.IntensityMedium:
		count = 3
		if durationMin >= 20 {
			count++
		}
		if durationMin >= 35 {
			count++
		}
	case models.IntensityLow:
		count = 4
		if durationMin >= 20 {
			count++
		}
		if durationMin >= 35 {
			count++
		}
	}
	return count
}

// selectDiverse picks count movements from pool, preferring movements that
// cover muscle groups not yet represented before filling remaining slots in
// pool order. Deterministic for a given pool order.
func selectDiverse(pool []models.Movement, count int) []models.Movement {
	selected := make([]models.Movement, 0, count)
	used := make(map[uuid.UUID]bool, count)
	covered := make(map[models.MuscleGroup]bool)

	for _, m := range pool {
		if len(selected) == count {
			break
		}
		if used[m.ID] || !addsCoverage(m, covered) {
			continue
		}
		selected = append(selected, m)
		used[m.ID] = true
		for _, mg := range m.MuscleGroups {
			covered[mg] = true
		}
	}
	for _, m := range pool {
		if len(selected) == count {
			break
		}
		if used[m.ID] {
			continue
		}
		selected = append(selected, m)
		used[m.ID] = true
	}
	return selected
}

func addsCoverage(m models.Movement, covered map[models.MuscleGroup]bool) bool {
	for _, mg := range m.MuscleGroups {
		if !covered[mg] {
			return true
		}
	}
	return false
}

// descriptor is the qualitative tag used in generated workout names.
func descriptor(i models.Intensity) string {
	switch i {
	case models.IntensityHigh:
		return "Burner"
	case models.IntensityMedium:
		return "Balanced"
	case models.IntensityLow:
		return "Builder"
	}
	return "Workout"
}

// Rep scaling tables. High intensity means fewer reps per unit of work.
var (
	intervalReps = map[models.Intensity]int{
		models.IntensityHigh: 8, models.IntensityMedium: 12, models.IntensityLow: 15,
	}
	roundReps = map[models.Intensity]int{
		models.IntensityHigh: 10, models.IntensityMedium: 12, models.IntensityLow: 15,
	}
	totalReps = map[models.Intensity]int{
		models.IntensityHigh: 21, models.IntensityMedium: 30, models.IntensityLow: 40,
	}
	ladderStart = map[models.Intensity]int{
		models.IntensityHigh: 1, models.IntensityMedium: 2, models.IntensityLow: 3,
	}
	ladderStep = map[models.Intensity]int{
		models.IntensityHigh: 1, models.IntensityMedium: 1, models.IntensityLow: 2,
	}
)

// secondsPerRep is the pacing assumption used to size rounds.
const secondsPerRep = 4

// applyFormat fills in per-movement reps/time, rounds, and time cap according
// to the format rules, and records the sizing decisions in FormatSettings so
// a generated workout can explain itself.
func applyFormat(w *models.Workout, selected []models.Movement, p GenerateParams) {
	switch p.Format {
	case models.FormatEMOM:
		w.Movements = lineItems(selected, intervalReps[p.Intensity], nil)
		cycles := p.DurationMin / len(selected)
		if cycles < 1 {
			cycles = 1
		}
		w.Rounds = &cycles
		w.FormatSettings["interval_seconds"] = 60
		w.FormatSettings["total_intervals"] = p.DurationMin

	case models.FormatTabata:
		work := 20
		w.Movements = lineItems(selected, 0, &work)
		rounds := 8
		w.Rounds = &rounds
		w.FormatSettings["work_seconds"] = 20
		w.FormatSettings["rest_seconds"] = 10
		w.FormatSettings["rounds_per_movement"] = 8

	case models.FormatAMRAP, models.FormatRoundsForTime, models.FormatPartner:
		reps := roundReps[p.Intensity]
		w.Movements = lineItems(selected, reps, nil)
		roundSeconds := reps * len(selected) * secondsPerRep
		rounds := p.DurationMin * 60 / roundSeconds
		if rounds < 1 {
			rounds = 1
		}
		w.Rounds = &rounds
		timeCap := p.DurationMin
		w.TimeCapMin = &timeCap
		w.FormatSettings["seconds_per_rep"] = secondsPerRep
		w.FormatSettings["round_seconds"] = roundSeconds
		if p.Format == models.FormatPartner {
			w.FormatSettings["partner_split"] = "alternate full rounds"
		}

	case models.FormatChipper:
		// One long pass with inflated rep counts instead of repeated rounds.
		reps := roundReps[p.Intensity] * 3
		w.Movements = lineItems(selected, reps, nil)
		one := 1
		w.Rounds = &one
		timeCap := p.DurationMin
		w.TimeCapMin = &timeCap
		w.FormatSettings["single_pass"] = true

	case models.FormatLadder:
		start := ladderStart[p.Intensity]
		w.Movements = lineItems(selected, start, nil)
		steps := p.DurationMin / 2
		if steps < 3 {
			steps = 3
		}
		w.Rounds = &steps
		w.FormatSettings["start_reps"] = start
		w.FormatSettings["increment"] = ladderStep[p.Intensity]

	case models.FormatDeathBy:
		start := ladderStart[p.Intensity]
		w.Movements = lineItems(selected, start, nil)
		timeCap := p.DurationMin
		w.TimeCapMin = &timeCap
		w.FormatSettings["start_reps"] = start
		w.FormatSettings["increment"] = ladderStep[p.Intensity]
		w.FormatSettings["interval_seconds"] = 60

	case models.FormatForTime:
		w.Movements = lineItems(selected, totalReps[p.Intensity], nil)
		timeCap := p.DurationMin
		w.TimeCapMin = &timeCap

	case models.FormatForReps:
		w.Movements = lineItems(selected, totalReps[p.Intensity], nil)
	}
}

// lineItems builds workout line items with a uniform rep or time target.
func lineItems(selected []models.Movement, reps int, timeSeconds *int) []models.WorkoutMovement {
	out := make([]models.WorkoutMovement, len(selected))
	for i, m := range selected {
		out[i] = models.WorkoutMovement{
			MovementID: m.ID,
			Name:       m.Name,
			Reps:       reps,
		}
		if timeSeconds != nil {
			t := *timeSeconds
			out[i].TimeSeconds = &t
		}
	}
	return out
}
