package user_test

import (
	"testing"
	"time"

	"github.com/2beens/fittrack/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	today := time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)
	u := user.New(101, "serj", "hash", "runner", today)
	require.NotNil(t, u)

	assert.Equal(t, 101, u.ID)
	assert.Equal(t, "serj", u.Username)
	assert.Equal(t, "Beginner", u.Badge)
	assert.Equal(t, user.LevelBeginner, u.FitnessLevel)
	assert.Equal(t, 1, u.ConsecutiveLoginDays)
	assert.Equal(t, "2024-03-09", u.LastLoginDate)
	assert.Equal(t, []string{"Push-ups", "Squats"}, u.UnlockedExercises)

	// seeding must not share the package level slice
	u.Unlock("Running")
	assert.Equal(t, []string{"Push-ups", "Squats"}, user.DefaultUnlocks)
}

func TestUser_Unlock_Idempotent(t *testing.T) {
	u := user.New(101, "serj", "hash", "", time.Now())
	assert.True(t, u.Unlock("Plank"))
	assert.False(t, u.Unlock("Plank"))
	assert.False(t, u.Unlock("Squats"))
	assert.Len(t, u.UnlockedExercises, 3)
	assert.True(t, u.HasUnlocked("Plank"))
}

func TestUser_BMI(t *testing.T) {
	u := &user.User{}
	assert.Zero(t, u.BMI())

	for _, tc := range []struct {
		weight, height float64
		category       string
	}{
		{weight: 50, height: 1.80, category: "Underweight"},
		{weight: 70, height: 1.80, category: "Normal"},
		{weight: 90, height: 1.80, category: "Overweight"},
		{weight: 110, height: 1.80, category: "Obese"},
	} {
		u.Weight = tc.weight
		u.Height = tc.height
		assert.InDelta(t, tc.weight/(tc.height*tc.height), u.BMI(), 0.0001)
		assert.Equal(t, tc.category, u.BMICategory())
	}
}

func TestWorkoutEntry_String(t *testing.T) {
	entry := user.WorkoutEntry{
		Name:      "Push-ups",
		Minutes:   10,
		Intensity: 5,
		Calories:  80,
		At:        time.Date(2024, 1, 2, 7, 8, 9, 0, time.UTC),
	}
	assert.Equal(t, "Push-ups (10 min, intensity 5/10) - 80.00 kcal on 2024-01-02 at 07:08:09", entry.String())
}

func TestUser_PersonalBest(t *testing.T) {
	u := &user.User{}
	_, found := u.PersonalBest("Plank")
	assert.False(t, found)

	u.PersonalBests = append(u.PersonalBests, user.PersonalBest{Exercise: "Plank", Value: 12})
	v, found := u.PersonalBest("Plank")
	assert.True(t, found)
	assert.Equal(t, 12.0, v)
}

func TestUser_Clone(t *testing.T) {
	u := user.New(101, "serj", "hash", "", time.Now())
	u.AddGoal("run 5k")
	u.LogWorkout(user.WorkoutEntry{Name: "Squats", Minutes: 10})
	u.PersonalBests = append(u.PersonalBests, user.PersonalBest{Exercise: "Squats", Value: 10})

	c := u.Clone()
	require.Equal(t, u, c)

	c.Goals[0] = "swim"
	c.WorkoutHistory[0].Minutes = 99
	c.PersonalBests[0].Value = 99
	c.Unlock("Plank")
	c.Points = 50

	assert.Equal(t, []string{"run 5k"}, u.Goals)
	assert.Equal(t, 10, u.WorkoutHistory[0].Minutes)
	assert.Equal(t, 10.0, u.PersonalBests[0].Value)
	assert.False(t, u.HasUnlocked("Plank"))
	assert.Zero(t, u.Points)
}

func TestCleanBackground(t *testing.T) {
	for in, want := range map[string]string{
		"":                 "",
		"_":                "",
		"cross_fit":        "cross fit",
		" padded ":         "padded",
		"office\tworker\n": "office worker",
		"long  distance":   "long  distance",
		"runner":           "runner",
	} {
		assert.Equal(t, want, user.CleanBackground(in), "%q", in)
	}

	u := user.New(101, "serj", "hash", " cross_fit ", time.Now())
	assert.Equal(t, "cross fit", u.Background)
}
