package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/fittrack/internal/errs"
	"github.com/2beens/fittrack/internal/exercises"
	"github.com/2beens/fittrack/internal/plan"
	"github.com/2beens/fittrack/internal/session"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/user"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var testNow = time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func pushUps(t *testing.T) exercises.Exercise {
	t.Helper()
	ex, err := exercises.NewCatalog().Get("Push-ups")
	require.NoError(t, err)
	return ex
}

func TestTracker_OneActiveSession(t *testing.T) {
	tracker := session.NewTracker(metrics.NewTestManager())

	_, active := tracker.Active()
	assert.False(t, active)

	s, err := tracker.StartExercise(pushUps(t), 15, testNow)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, 10, s.Intensity, "intensity clamped")
	assert.Equal(t, "Push-ups", s.Name())
	assert.Equal(t, testNow, s.StartedAt)

	_, err = tracker.StartExercise(pushUps(t), 5, testNow)
	assert.ErrorIs(t, err, session.ErrSessionActive)
	assert.ErrorIs(t, err, errs.ErrValidation)

	current, active := tracker.Active()
	require.True(t, active)
	assert.Equal(t, s.ID, current.ID)

	assert.True(t, tracker.Cancel())
	assert.False(t, tracker.Cancel())
	_, active = tracker.Active()
	assert.False(t, active)
}

func TestTracker_End_NoSession(t *testing.T) {
	tracker := session.NewTracker(metrics.NewTestManager())
	_, err := tracker.End(&user.User{}, 10, testNow, nil)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestTracker_End_Exercise(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	tracker := session.NewTracker(metricsManager)
	u := user.New(101, "serj", "4336", "", testNow)
	u.Points = 20
	u.Badge = "Beginner"
	u.MaxStreak = 3

	s, err := tracker.StartExercise(pushUps(t), 5, testNow)
	require.NoError(t, err)

	_, err = tracker.End(u, -1, testNow, nil)
	assert.ErrorIs(t, err, errs.ErrValidation)

	summary, err := tracker.End(u, 10, testNow.Add(10*time.Minute), nil)
	require.NoError(t, err)

	assert.Equal(t, s.ID, summary.SessionID)
	assert.Equal(t, session.KindExercise, summary.Kind)
	assert.InDelta(t, 80.0, summary.Calories, 0.0001)
	assert.InDelta(t, 25.0, summary.CO2, 0.0001)
	assert.Equal(t, 5, summary.Points)
	assert.True(t, summary.NewPersonalBest)
	assert.Equal(t, []string{"Running"}, summary.Unlocked)
	assert.Equal(t, 1, summary.Streak)
	assert.Equal(t, 25, summary.TotalPoints)

	assert.InDelta(t, 80.0, u.TotalCalories, 0.0001)
	assert.InDelta(t, 25.0, u.TotalCO2, 0.0001)
	assert.Equal(t, 1, u.Streak)
	assert.Equal(t, 3, u.MaxStreak)
	assert.Equal(t, 25, u.Points)
	assert.Equal(t, "Intermediate", u.Badge)
	assert.True(t, u.HasUnlocked("Running"))
	require.Len(t, u.WorkoutHistory, 1)
	assert.Equal(t, "Push-ups", u.WorkoutHistory[0].Name)
	assert.Equal(t, 10, u.WorkoutHistory[0].Minutes)
	best, ok := u.PersonalBest("Push-ups")
	require.True(t, ok)
	assert.Equal(t, 10.0, best)

	_, active := tracker.Active()
	assert.False(t, active)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterSessions.WithLabelValues("exercise")))
	assert.Equal(t, 5.0, testutil.ToFloat64(metricsManager.CounterPointsAwarded))

	// shorter session: no new personal best, streak keeps growing
	_, err = tracker.StartExercise(pushUps(t), 5, testNow)
	require.NoError(t, err)
	summary, err = tracker.End(u, 4, testNow, nil)
	require.NoError(t, err)
	assert.False(t, summary.NewPersonalBest)
	assert.Equal(t, 2, u.Streak)
	assert.Equal(t, 3, u.MaxStreak)
	best, _ = u.PersonalBest("Push-ups")
	assert.Equal(t, 10.0, best)
}

func TestTracker_End_ZeroMinutesNoPersonalBest(t *testing.T) {
	tracker := session.NewTracker(metrics.NewTestManager())
	u := user.New(101, "serj", "4336", "", testNow)

	_, err := tracker.StartExercise(pushUps(t), 5, testNow)
	require.NoError(t, err)
	summary, err := tracker.End(u, 0, testNow, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Points)
	assert.False(t, summary.NewPersonalBest)
	assert.Empty(t, u.PersonalBests)
}

func TestTracker_End_Plan(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	tracker := session.NewTracker(metricsManager)
	u := user.New(101, "serj", "4336", "", testNow)

	p, err := plan.NewGenerator(exercises.NewCatalog()).Generate(context.Background(), "Advanced", 30, "Core")
	require.NoError(t, err)

	_, err = tracker.StartPlan(nil, 5, testNow)
	assert.ErrorIs(t, err, errs.ErrValidation)

	s, err := tracker.StartPlan(p, 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Intensity)
	assert.Equal(t, "Core Workout", s.Name())

	summary, err := tracker.End(u, 30, testNow, nil)
	require.NoError(t, err)
	assert.Equal(t, session.KindPlan, summary.Kind)
	assert.InDelta(t, p.TotalCalories/5, summary.Calories, 0.0001)
	assert.InDelta(t, summary.Calories*0.3, summary.CO2, 0.0001)
	assert.Equal(t, 24, summary.Points)
	assert.False(t, summary.NewPersonalBest)
	assert.Empty(t, u.PersonalBests)
	require.Len(t, u.WorkoutHistory, 1)
	assert.Equal(t, "Core Workout", u.WorkoutHistory[0].Name)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterSessions.WithLabelValues("plan")))
}

func TestTracker_End_CommitFailureRestores(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	tracker := session.NewTracker(metricsManager)
	u := user.New(101, "serj", "4336", "", testNow)
	u.AddGoal("run 5k")
	before := u.Clone()

	s, err := tracker.StartExercise(pushUps(t), 5, testNow)
	require.NoError(t, err)

	diskFull := errors.New("disk full")
	_, err = tracker.End(u, 30, testNow, func() error { return diskFull })
	assert.ErrorIs(t, err, diskFull)
	assert.Equal(t, before, u)

	active, ok := tracker.Active()
	require.True(t, ok, "session must survive a failed commit")
	assert.Equal(t, s.ID, active.ID)
	assert.Zero(t, testutil.ToFloat64(metricsManager.CounterSessions.WithLabelValues("exercise")))

	committed := false
	summary, err := tracker.End(u, 30, testNow, func() error {
		committed = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, 15, summary.Points)
	assert.Equal(t, 15, u.Points)
	require.Len(t, u.WorkoutHistory, 1)
	_, ok = tracker.Active()
	assert.False(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterSessions.WithLabelValues("exercise")))
}
