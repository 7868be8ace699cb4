package user

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for the last login date.
const DateLayout = "2006-01-02"

// Fitness levels, derived from points and workout count.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

const defaultBadge = "Beginner"

// DefaultUnlocks are the exercises every new account starts with.
var DefaultUnlocks = []string{"Push-ups", "Squats"}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Background   string `json:"background"`

	// profile
	Weight float64 `json:"weight"` // kg
	Height float64 `json:"height"` // m
	Age    int     `json:"age"`

	// progress
	Points               int    `json:"points"`
	Streak               int    `json:"streak"`
	MaxStreak            int    `json:"maxStreak"`
	Badge                string `json:"badge"`
	FitnessLevel         string `json:"fitnessLevel"`
	ConsecutiveLoginDays int    `json:"consecutiveLoginDays"`
	LastLoginDate        string `json:"lastLoginDate"`

	TotalCalories float64 `json:"totalCalories"`
	TotalCO2      float64 `json:"totalCO2"`

	UnlockedExercises []string       `json:"unlockedExercises"`
	WorkoutHistory    []WorkoutEntry `json:"workoutHistory"`
	Goals             []string       `json:"goals"`
	PersonalBests     []PersonalBest `json:"personalBests"`
}

// backgroundReplacer maps what the stored record cannot carry to spaces
var backgroundReplacer = strings.NewReplacer("_", " ", "\t", " ", "\r", " ", "\n", " ")

// CleanBackground normalises the free text background to the form that
// survives a save and load unchanged: no underscores or control whitespace,
// no leading or trailing spaces.
func CleanBackground(background string) string {
	return strings.TrimSpace(backgroundReplacer.Replace(background))
}

// New creates a freshly registered user, as of the given day.
func New(id int, username, passwordHash, background string, today time.Time) *User {
	return &User{
		ID:                   id,
		Username:             username,
		PasswordHash:         passwordHash,
		Background:           CleanBackground(background),
		Badge:                defaultBadge,
		FitnessLevel:         LevelBeginner,
		ConsecutiveLoginDays: 1,
		LastLoginDate:        today.Format(DateLayout),
		UnlockedExercises:    slices.Clone(DefaultUnlocks),
	}
}

// Clone returns a deep copy of the user, slices included.
func (u *User) Clone() *User {
	c := *u
	c.UnlockedExercises = slices.Clone(u.UnlockedExercises)
	c.WorkoutHistory = slices.Clone(u.WorkoutHistory)
	c.Goals = slices.Clone(u.Goals)
	c.PersonalBests = slices.Clone(u.PersonalBests)
	return &c
}

// PersonalBest is the best recorded value for one exercise.
type PersonalBest struct {
	Exercise string  `json:"exercise"`
	Value    float64 `json:"value"`
}

type WorkoutEntry struct {
	Name      string    `json:"name"`
	Minutes   int       `json:"minutes"`
	Intensity int       `json:"intensity"`
	Calories  float64   `json:"calories"`
	At        time.Time `json:"at"`
}

func (e WorkoutEntry) String() string {
	return fmt.Sprintf(
		"%s (%d min, intensity %d/10) - %.2f kcal on %s at %s",
		e.Name, e.Minutes, e.Intensity, e.Calories, e.At.Format(DateLayout), e.At.Format("15:04:05"),
	)
}

// HasUnlocked reports whether the exercise is in the unlocked set.
func (u *User) HasUnlocked(exercise string) bool {
	return slices.Contains(u.UnlockedExercises, exercise)
}

// Unlock adds the exercise to the unlocked set, returning false if it was already there.
func (u *User) Unlock(exercise string) bool {
	if u.HasUnlocked(exercise) {
		return false
	}
	u.UnlockedExercises = append(u.UnlockedExercises, exercise)
	return true
}

func (u *User) LogWorkout(entry WorkoutEntry) {
	u.WorkoutHistory = append(u.WorkoutHistory, entry)
}

func (u *User) AddGoal(goal string) {
	u.Goals = append(u.Goals, goal)
}

// PersonalBest returns the recorded best for the exercise, if any.
func (u *User) PersonalBest(exercise string) (float64, bool) {
	for _, pb := range u.PersonalBests {
		if pb.Exercise == exercise {
			return pb.Value, true
		}
	}
	return 0, false
}

// BMI returns weight / height^2, or 0 when the profile is incomplete.
func (u *User) BMI() float64 {
	if u.Weight <= 0 || u.Height <= 0 {
		return 0
	}
	return u.Weight / (u.Height * u.Height)
}

func (u *User) BMICategory() string {
	bmi := u.BMI()
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}
