// Package plan builds workout plans out of the exercise catalog.
package plan

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/2beens/fittrack/internal/errs"
	"github.com/2beens/fittrack/internal/exercises"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/user"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	FocusFullBody = "Full Body"

	maxPlanExercises = 4
	maxFallback      = 3
)

// FocusAreas are the accepted focus areas. Matching is exact.
var FocusAreas = []string{"Chest", "Legs", "Core", "Cardio", FocusFullBody, "Shoulders", "Arms"}

type difficultyBand struct {
	min, max int
}

var bands = map[string]difficultyBand{
	user.LevelBeginner:     {min: 1, max: 4},
	user.LevelIntermediate: {min: 3, max: 7},
	user.LevelAdvanced:     {min: 6, max: 10},
}

type Generator struct {
	catalog *exercises.Catalog
}

func NewGenerator(catalog *exercises.Catalog) *Generator {
	return &Generator{
		catalog: catalog,
	}
}

func (g *Generator) Generate(ctx context.Context, level string, minutes int, focusArea string) (_ *WorkoutPlan, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "plan.generate")
	span.SetAttributes(attribute.String("level", level))
	span.SetAttributes(attribute.Int("minutes", minutes))
	span.SetAttributes(attribute.String("focus", focusArea))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if level == "" || focusArea == "" || minutes <= 0 {
		return nil, fmt.Errorf("%w: level, focus area and a positive duration are required", errs.ErrValidation)
	}
	band, ok := bands[level]
	if !ok {
		return nil, fmt.Errorf("%w: invalid fitness level [%s], must be Beginner, Intermediate or Advanced", errs.ErrValidation, level)
	}
	if !slices.Contains(FocusAreas, focusArea) {
		return nil, fmt.Errorf("%w: invalid focus area [%s], must be one of: %s", errs.ErrValidation, focusArea, strings.Join(FocusAreas, ", "))
	}

	p, err := New(
		focusArea+" Workout",
		fmt.Sprintf("A %d-minute %s workout focusing on %s", minutes, level, focusArea),
		level,
	)
	if err != nil {
		return nil, err
	}

	all := g.catalog.All()
	selected := matching(all, band, focusArea)
	if len(selected) == 0 {
		log.Warnf("plan: no %s exercises for %s, using default exercises", level, focusArea)
		selected = fallback(all, band)
		p.UsedFallback = true
		span.SetAttributes(attribute.Bool("fallback", true))
	}

	count := min(maxPlanExercises, len(selected))
	if count == 0 {
		return nil, fmt.Errorf("%w: nothing fits a %s %s plan", errs.ErrNoExercises, level, focusArea)
	}

	base := minutes / count
	extra := minutes % count
	for i, ex := range selected[:count] {
		exMinutes := base
		if i < extra {
			exMinutes++
		}
		if exMinutes <= 0 {
			continue
		}
		if err := p.AddExercise(ex.Name, exMinutes, ex.CaloriesPerMinute); err != nil {
			return nil, err
		}
	}

	log.Debugf("plan: generated [%s] with %d exercises, %.1f kcal", p.Name, len(p.Items), p.TotalCalories)
	return p, nil
}

func matching(all []exercises.Exercise, band difficultyBand, focusArea string) []exercises.Exercise {
	focus := strings.ToLower(focusArea)
	var selected []exercises.Exercise
	for _, ex := range all {
		if ex.Difficulty < band.min || ex.Difficulty > band.max {
			continue
		}
		if focusArea == FocusFullBody || strings.Contains(strings.ToLower(ex.MuscleGroup), focus) {
			selected = append(selected, ex)
		}
	}
	return selected
}

// fallback takes the first exercises, in catalog order, that are not
// harder than the band allows.
func fallback(all []exercises.Exercise, band difficultyBand) []exercises.Exercise {
	var selected []exercises.Exercise
	for _, ex := range all {
		if ex.Difficulty > band.max {
			continue
		}
		selected = append(selected, ex)
		if len(selected) >= maxFallback {
			break
		}
	}
	return selected
}
