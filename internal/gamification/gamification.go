// Package gamification maps accumulated points to badges, fitness levels
// and exercise unlocks.
package gamification

import (
	"github.com/2beens/fittrack/internal/user"
)

const (
	BadgeBeginner     = "Beginner"
	BadgeIntermediate = "Intermediate"
	BadgePro          = "Pro"
	BadgeElite        = "Elite"
	BadgeLegend       = "Legend"
)

type threshold struct {
	points int
	name   string
}

// badges are ordered from the highest tier down
var badges = []threshold{
	{points: 100, name: BadgeLegend},
	{points: 75, name: BadgeElite},
	{points: 50, name: BadgePro},
	{points: 25, name: BadgeIntermediate},
}

// unlocks are ordered by required points
var unlocks = []threshold{
	{points: 25, name: "Running"},
	{points: 50, name: "Cycling"},
	{points: 75, name: "Jumping Jacks"},
	{points: 100, name: "Plank"},
	{points: 125, name: "Mountain Climbers"},
}

// Badge returns the badge tier for the given points.
func Badge(points int) string {
	for _, b := range badges {
		if points >= b.points {
			return b.name
		}
	}
	return BadgeBeginner
}

// FitnessLevel derives the level from points and the number of logged workouts.
func FitnessLevel(points, workouts int) string {
	switch {
	case points >= 100 && workouts >= 20:
		return user.LevelAdvanced
	case points >= 50 && workouts >= 10:
		return user.LevelIntermediate
	default:
		return user.LevelBeginner
	}
}

// UnlocksFor returns every exercise unlocked at the given points, in threshold order.
func UnlocksFor(points int) []string {
	var names []string
	for _, u := range unlocks {
		if points >= u.points {
			names = append(names, u.name)
		}
	}
	return names
}

type LockedExercise struct {
	Name           string
	RequiredPoints int
}

// Locked lists the unlock thresholds the points have not reached yet.
func Locked(points int) []LockedExercise {
	var locked []LockedExercise
	for _, u := range unlocks {
		if points < u.points {
			locked = append(locked, LockedExercise{Name: u.name, RequiredPoints: u.points})
		}
	}
	return locked
}

// ApplyUnlocks adds every exercise the user's points qualify for and
// returns the ones that were newly unlocked.
func ApplyUnlocks(u *user.User) []string {
	var unlocked []string
	for _, name := range UnlocksFor(u.Points) {
		if u.Unlock(name) {
			unlocked = append(unlocked, name)
		}
	}
	return unlocked
}

// AwardPoints adds points, refreshes the badge and applies unlocks.
// Non-positive awards are ignored; points never decrease.
func AwardPoints(u *user.User, points int) []string {
	if points > 0 {
		u.Points += points
	}
	u.Badge = Badge(u.Points)
	return ApplyUnlocks(u)
}

// RefreshFitnessLevel recomputes the level after a logged workout.
func RefreshFitnessLevel(u *user.User) {
	u.FitnessLevel = FitnessLevel(u.Points, len(u.WorkoutHistory))
}

// UpdatePersonalBest records value for the exercise when there is no previous
// record or the value is strictly greater. Reports whether a record was written.
func UpdatePersonalBest(u *user.User, exercise string, value float64) bool {
	for i := range u.PersonalBests {
		if u.PersonalBests[i].Exercise != exercise {
			continue
		}
		if value > u.PersonalBests[i].Value {
			u.PersonalBests[i].Value = value
			return true
		}
		return false
	}
	u.PersonalBests = append(u.PersonalBests, user.PersonalBest{Exercise: exercise, Value: value})
	return true
}
