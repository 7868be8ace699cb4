package plan

import (
	"fmt"

	"github.com/2beens/fittrack/internal/errs"
)

// Item is one exercise of a plan with its allocated minutes.
type Item struct {
	Exercise          string  `json:"exercise"`
	Minutes           int     `json:"minutes"`
	CaloriesPerMinute float64 `json:"caloriesPerMinute"`
}

type WorkoutPlan struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Difficulty    string  `json:"difficulty"`
	Items         []Item  `json:"items"`
	TotalMinutes  int     `json:"totalMinutes"`
	TotalCalories float64 `json:"totalCalories"`
	// UsedFallback is set when no exercise matched the focus area and
	// the plan was filled with default exercises instead.
	UsedFallback bool `json:"usedFallback"`
}

func New(name, description, difficulty string) (*WorkoutPlan, error) {
	if name == "" || description == "" || difficulty == "" {
		return nil, fmt.Errorf("%w: plan name, description and difficulty are required", errs.ErrValidation)
	}
	return &WorkoutPlan{
		Name:        name,
		Description: description,
		Difficulty:  difficulty,
	}, nil
}

// AddExercise appends an exercise and updates the plan totals.
func (p *WorkoutPlan) AddExercise(exercise string, minutes int, caloriesPerMinute float64) error {
	if minutes <= 0 || caloriesPerMinute < 0 {
		return fmt.Errorf("%w: invalid exercise parameters for %s", errs.ErrValidation, exercise)
	}
	p.Items = append(p.Items, Item{
		Exercise:          exercise,
		Minutes:           minutes,
		CaloriesPerMinute: caloriesPerMinute,
	})
	p.TotalMinutes += minutes
	p.TotalCalories += float64(minutes) * caloriesPerMinute
	return nil
}
