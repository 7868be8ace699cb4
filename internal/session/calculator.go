package session

import (
	"github.com/2beens/fittrack/internal/exercises"
	"github.com/2beens/fittrack/internal/plan"
	"github.com/2beens/fittrack/internal/user"
)

const (
	MinIntensity = 1
	MaxIntensity = 10

	// intensity 5 counts as the nominal effort
	nominalIntensity = 5.0
	// plan CO2 is estimated from burned calories
	planCO2PerCalorie = 0.3

	minExercisePoints = 1
	minPlanPoints     = 3
)

var planBasePoints = map[string]int{
	user.LevelBeginner:     5,
	user.LevelIntermediate: 8,
	user.LevelAdvanced:     12,
}

// Result holds what a finished workout is worth.
type Result struct {
	Calories float64
	CO2      float64
	Points   int
}

// ClampIntensity forces intensity into [MinIntensity, MaxIntensity].
func ClampIntensity(intensity int) int {
	return max(MinIntensity, min(MaxIntensity, intensity))
}

func intensityFactor(intensity int) float64 {
	return float64(intensity) / nominalIntensity
}

func ForExercise(ex exercises.Exercise, intensity, minutes int) Result {
	return Result{
		Calories: ex.CaloriesPerMinute * float64(minutes) * intensityFactor(intensity),
		CO2:      ex.CO2PerMinute * float64(minutes),
		Points:   max(minExercisePoints, ex.PointsReward*minutes/10),
	}
}

func ForPlan(p *plan.WorkoutPlan, intensity, minutes int) Result {
	calories := p.TotalCalories * intensityFactor(intensity)
	basePoints, ok := planBasePoints[p.Difficulty]
	if !ok {
		basePoints = planBasePoints[user.LevelBeginner]
	}
	return Result{
		Calories: calories,
		CO2:      calories * planCO2PerCalorie,
		Points:   max(minPlanPoints, basePoints*minutes/15),
	}
}
