// Package session tracks the active workout session and applies its
// results to the user when it ends.
package session

import (
	"fmt"
	"time"

	"github.com/2beens/fittrack/internal/errs"
	"github.com/2beens/fittrack/internal/exercises"
	"github.com/2beens/fittrack/internal/gamification"
	"github.com/2beens/fittrack/internal/plan"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/user"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrSessionActive = fmt.Errorf("%w: a workout session is already active", errs.ErrValidation)
	ErrNoSession     = fmt.Errorf("%w: no active workout session", errs.ErrValidation)
)

type Kind string

const (
	KindExercise Kind = "exercise"
	KindPlan     Kind = "plan"
)

type Session struct {
	ID        uuid.UUID
	Kind      Kind
	Exercise  exercises.Exercise
	Plan      *plan.WorkoutPlan
	Intensity int
	StartedAt time.Time
}

// Name is the exercise or plan name, as logged in the workout history.
func (s Session) Name() string {
	if s.Kind == KindPlan {
		return s.Plan.Name
	}
	return s.Exercise.Name
}

type Summary struct {
	SessionID       uuid.UUID
	Kind            Kind
	Name            string
	Minutes         int
	Intensity       int
	Calories        float64
	CO2             float64
	Points          int
	NewPersonalBest bool
	Unlocked        []string
	Streak          int
	TotalPoints     int
}

// Tracker holds at most one active session.
type Tracker struct {
	active  *Session
	metrics *metrics.Manager
}

func NewTracker(metricsManager *metrics.Manager) *Tracker {
	return &Tracker{
		metrics: metricsManager,
	}
}

func (t *Tracker) StartExercise(ex exercises.Exercise, intensity int, now time.Time) (Session, error) {
	return t.start(Session{
		Kind:      KindExercise,
		Exercise:  ex,
		Intensity: intensity,
		StartedAt: now,
	})
}

func (t *Tracker) StartPlan(p *plan.WorkoutPlan, intensity int, now time.Time) (Session, error) {
	if p == nil {
		return Session{}, fmt.Errorf("%w: no workout plan", errs.ErrValidation)
	}
	return t.start(Session{
		Kind:      KindPlan,
		Plan:      p,
		Intensity: intensity,
		StartedAt: now,
	})
}

func (t *Tracker) start(s Session) (Session, error) {
	if t.active != nil {
		return Session{}, ErrSessionActive
	}
	s.ID = uuid.New()
	s.Intensity = ClampIntensity(s.Intensity)
	t.active = &s
	log.Debugf("session %s started: %s [%s], intensity %d", s.ID, s.Kind, s.Name(), s.Intensity)
	return s, nil
}

func (t *Tracker) Active() (Session, bool) {
	if t.active == nil {
		return Session{}, false
	}
	return *t.active, true
}

// Cancel drops the active session without recording anything.
func (t *Tracker) Cancel() bool {
	if t.active == nil {
		return false
	}
	log.Debugf("session %s cancelled", t.active.ID)
	t.active = nil
	return true
}

// End finishes the active session, lasting the given minutes, and applies
// it to the user: totals, workout streak, history, personal best (exercises
// only) and finally points with unlocks.
//
// commit, when not nil, persists the updated user. If it fails, the user is
// restored and the session stays active so ending it can be retried.
func (t *Tracker) End(u *user.User, minutes int, now time.Time, commit func() error) (Summary, error) {
	if t.active == nil {
		return Summary{}, ErrNoSession
	}
	if u == nil {
		return Summary{}, fmt.Errorf("%w: no user for the session", errs.ErrValidation)
	}
	if minutes < 0 {
		return Summary{}, fmt.Errorf("%w: duration cannot be negative", errs.ErrValidation)
	}

	s := *t.active
	snapshot := u.Clone()

	var res Result
	switch s.Kind {
	case KindPlan:
		res = ForPlan(s.Plan, s.Intensity, minutes)
	default:
		res = ForExercise(s.Exercise, s.Intensity, minutes)
	}

	u.TotalCalories += res.Calories
	u.TotalCO2 += res.CO2
	u.Streak++
	u.MaxStreak = max(u.MaxStreak, u.Streak)

	u.LogWorkout(user.WorkoutEntry{
		Name:      s.Name(),
		Minutes:   minutes,
		Intensity: s.Intensity,
		Calories:  res.Calories,
		At:        now,
	})
	gamification.RefreshFitnessLevel(u)

	newBest := false
	if s.Kind == KindExercise && minutes > 0 {
		newBest = gamification.UpdatePersonalBest(u, s.Exercise.Name, float64(minutes))
	}

	unlocked := gamification.AwardPoints(u, res.Points)

	if commit != nil {
		if err := commit(); err != nil {
			*u = *snapshot
			log.Debugf("session %s kept active, commit failed: %s", s.ID, err)
			return Summary{}, err
		}
	}

	t.active = nil
	t.metrics.CounterSessions.WithLabelValues(string(s.Kind)).Inc()
	t.metrics.CounterPointsAwarded.Add(float64(res.Points))
	log.Debugf("session %s ended after %d min: %.2f kcal, %d points", s.ID, minutes, res.Calories, res.Points)

	return Summary{
		SessionID:       s.ID,
		Kind:            s.Kind,
		Name:            s.Name(),
		Minutes:         minutes,
		Intensity:       s.Intensity,
		Calories:        res.Calories,
		CO2:             res.CO2,
		Points:          res.Points,
		NewPersonalBest: newBest,
		Unlocked:        unlocked,
		Streak:          u.Streak,
		TotalPoints:     u.Points,
	}, nil
}
