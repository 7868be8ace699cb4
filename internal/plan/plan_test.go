package plan_test

import (
	"testing"

	"github.com/2beens/fittrack/internal/errs"
	"github.com/2beens/fittrack/internal/plan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p, err := plan.New("Core Workout", "desc", "Advanced")
	require.NoError(t, err)
	assert.Equal(t, "Core Workout", p.Name)
	assert.Zero(t, p.TotalMinutes)
	assert.Zero(t, p.TotalCalories)

	for _, args := range [][3]string{
		{"", "desc", "Beginner"},
		{"name", "", "Beginner"},
		{"name", "desc", ""},
	} {
		p, err := plan.New(args[0], args[1], args[2])
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Nil(t, p)
	}
}

func TestWorkoutPlan_AddExercise(t *testing.T) {
	p, err := plan.New("Legs Workout", "desc", "Beginner")
	require.NoError(t, err)

	require.NoError(t, p.AddExercise("Squats", 10, 8.5))
	require.NoError(t, p.AddExercise("Cycling", 5, 10))
	assert.Equal(t, 15, p.TotalMinutes)
	assert.Equal(t, 135.0, p.TotalCalories)
	assert.Len(t, p.Items, 2)

	assert.ErrorIs(t, p.AddExercise("Plank", 0, 5), errs.ErrValidation)
	assert.ErrorIs(t, p.AddExercise("Plank", 5, -1), errs.ErrValidation)
	assert.Len(t, p.Items, 2)
	assert.Equal(t, 15, p.TotalMinutes)
}
