package internal

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/errs"
	"github.com/2beens/fittrack/internal/exercises"
	"github.com/2beens/fittrack/internal/export"
	"github.com/2beens/fittrack/internal/gamification"
	"github.com/2beens/fittrack/internal/leaderboard"
	"github.com/2beens/fittrack/internal/misc"
	"github.com/2beens/fittrack/internal/plan"
	"github.com/2beens/fittrack/internal/session"
	"github.com/2beens/fittrack/internal/streak"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/user"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
)

const (
	defaultBoardCacheSize = 1024 * 1024 // bytes, freecache minimum is 512KB

	maxAge = 120
)

var (
	ErrNotLoggedIn    = fmt.Errorf("%w: not logged in", errs.ErrAuth)
	ErrExerciseLocked = fmt.Errorf("%w: exercise is locked", errs.ErrValidation)
	ErrNoPlan         = fmt.Errorf("%w: no workout plan generated yet", errs.ErrNotFound)
)

// Profile fields that can be changed with UpdateProfile.
const (
	FieldWeight     = "weight"
	FieldHeight     = "height"
	FieldAge        = "age"
	FieldBackground = "background"
)

// App is the operation surface used by the command line shell. It keeps
// the logged in user and the active workout session.
type App struct {
	authService    *auth.Service
	catalog        *exercises.Catalog
	generator      *plan.Generator
	tracker        *session.Tracker
	boardCache     *leaderboard.Cache
	quotesManager  *misc.QuotesManager
	metricsManager *metrics.Manager
	now            func() time.Time
	exportDir      string

	current  *user.User
	lastPlan *plan.WorkoutPlan
}

type NewAppParams struct {
	AuthService    *auth.Service
	Catalog        *exercises.Catalog
	QuotesManager  *misc.QuotesManager
	MetricsManager *metrics.Manager
	Now            func() time.Time
	ExportDir      string
	BoardCacheSize int
}

func NewApp(params NewAppParams) (*App, error) {
	if params.AuthService == nil {
		return nil, fmt.Errorf("%w: auth service is required", errs.ErrValidation)
	}
	if params.MetricsManager == nil {
		return nil, fmt.Errorf("%w: metrics manager is required", errs.ErrValidation)
	}

	catalog := params.Catalog
	if catalog == nil {
		catalog = exercises.NewCatalog()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	cacheSize := params.BoardCacheSize
	if cacheSize <= 0 {
		cacheSize = defaultBoardCacheSize
	}

	return &App{
		authService:    params.AuthService,
		catalog:        catalog,
		generator:      plan.NewGenerator(catalog),
		tracker:        session.NewTracker(params.MetricsManager),
		boardCache:     leaderboard.NewCache(cacheSize),
		quotesManager:  params.QuotesManager,
		metricsManager: params.MetricsManager,
		now:            now,
		exportDir:      params.ExportDir,
	}, nil
}

func (a *App) CurrentUser() (*user.User, bool) {
	return a.current, a.current != nil
}

func (a *App) requireUser() (*user.User, error) {
	if a.current == nil {
		return nil, ErrNotLoggedIn
	}
	return a.current, nil
}

// persist saves the current user and drops the cached leaderboard.
func (a *App) persist(ctx context.Context) error {
	a.boardCache.Invalidate()
	return a.authService.Update(ctx, a.current)
}

// mutate applies change to the current user and saves it. When change or
// the save fails, the user is restored to what it was before.
func (a *App) mutate(ctx context.Context, change func(u *user.User) error) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}

	snapshot := u.Clone()
	if err := change(u); err != nil {
		*u = *snapshot
		return err
	}
	if err := a.persist(ctx); err != nil {
		*u = *snapshot
		log.Errorf("app: save of [%s] failed, changes reverted: %s", u.Username, err)
		return err
	}
	return nil
}

func (a *App) Login(ctx context.Context, username, password string) (*user.User, streak.Result, error) {
	u, res, err := a.authService.Login(ctx, username, password)
	if err != nil {
		return nil, streak.Result{}, err
	}
	if a.current != nil && a.current.Username != username {
		a.Logout()
	}
	a.current = u
	a.boardCache.Invalidate()
	return u, res, nil
}

func (a *App) Register(ctx context.Context, username, password, background string) (*user.User, error) {
	u, err := a.authService.Register(ctx, username, password, background)
	if err != nil {
		return nil, err
	}
	a.boardCache.Invalidate()
	return u, nil
}

func (a *App) ResetPassword(ctx context.Context, username, newPassword string) error {
	return a.authService.ResetPassword(ctx, username, newPassword)
}

// Logout ends the user's session. An active workout is dropped unrecorded.
func (a *App) Logout() {
	if a.tracker.Cancel() {
		log.Debugf("app: active workout of [%s] dropped on logout", a.current.Username)
	}
	a.current = nil
	a.lastPlan = nil
}

func (a *App) Leaderboard(_ context.Context) (leaderboard.Board, error) {
	if board, ok := a.boardCache.Get(); ok {
		return board, nil
	}
	board, err := leaderboard.Rank(a.authService.Users())
	if err != nil {
		return nil, err
	}
	a.boardCache.Set(board)
	return board, nil
}

type Profile struct {
	User        user.User
	BMI         float64
	BMICategory string
	Locked      []gamification.LockedExercise
	Rank        int
}

func (a *App) Profile(ctx context.Context) (*Profile, error) {
	u, err := a.requireUser()
	if err != nil {
		return nil, err
	}

	p := &Profile{
		User:   *u,
		BMI:    u.BMI(),
		Locked: gamification.Locked(u.Points),
	}
	if p.BMI > 0 {
		p.BMICategory = u.BMICategory()
	}
	if board, err := a.Leaderboard(ctx); err == nil {
		if entry, ok := board.Position(u.Username); ok {
			p.Rank = entry.Position
		}
	}
	return p, nil
}

// UpdateProfile sets one profile field from its text value.
func (a *App) UpdateProfile(ctx context.Context, field, value string) error {
	value = strings.TrimSpace(value)
	return a.mutate(ctx, func(u *user.User) error {
		switch strings.ToLower(field) {
		case FieldWeight:
			weight, err := strconv.ParseFloat(value, 64)
			if err != nil || weight <= 0 {
				return fmt.Errorf("%w: weight must be a positive number of kg", errs.ErrValidation)
			}
			u.Weight = weight
		case FieldHeight:
			height, err := strconv.ParseFloat(value, 64)
			if err != nil || height <= 0 {
				return fmt.Errorf("%w: height must be a positive number of meters", errs.ErrValidation)
			}
			u.Height = height
		case FieldAge:
			age, err := strconv.Atoi(value)
			if err != nil || age < 1 || age > maxAge {
				return fmt.Errorf("%w: age must be between 1 and %d", errs.ErrValidation, maxAge)
			}
			u.Age = age
		case FieldBackground:
			u.Background = user.CleanBackground(value)
		default:
			return fmt.Errorf("%w: unknown profile field [%s]", errs.ErrValidation, field)
		}
		return nil
	})
}

func (a *App) ActiveSession() (session.Session, bool) {
	return a.tracker.Active()
}

// quote picks a quote of the genre, or any quote when the genre has none.
func (a *App) quote(genre string) *misc.Quote {
	if a.quotesManager == nil {
		return nil
	}
	if q := a.quotesManager.RandomGenreQuote(genre); q != nil {
		return q
	}
	return a.quotesManager.RandomQuote()
}

// exerciseGenre is endurance for cardio exercises, strength otherwise.
func exerciseGenre(ex exercises.Exercise) string {
	if strings.Contains(ex.MuscleGroup, "Cardio") {
		return misc.GenreEndurance
	}
	return misc.GenreStrength
}

func planGenre(focusArea string) string {
	switch focusArea {
	case "Cardio":
		return misc.GenreEndurance
	case "Full Body":
		return misc.GenreMotivation
	default:
		return misc.GenreStrength
	}
}

// StartExerciseSession starts a workout of one unlocked exercise. The
// returned quote may be nil.
func (a *App) StartExerciseSession(exerciseName string, intensity int) (session.Session, *misc.Quote, error) {
	u, err := a.requireUser()
	if err != nil {
		return session.Session{}, nil, err
	}

	ex, err := a.catalog.Get(exerciseName)
	if err != nil {
		return session.Session{}, nil, err
	}
	if !u.HasUnlocked(ex.Name) {
		return session.Session{}, nil, fmt.Errorf("%w: %s", ErrExerciseLocked, ex.Name)
	}

	s, err := a.tracker.StartExercise(ex, intensity, a.now())
	if err != nil {
		return session.Session{}, nil, err
	}
	return s, a.quote(exerciseGenre(ex)), nil
}

// StartPlanSession generates a plan and starts a workout with it. An empty
// level means the user's own fitness level.
func (a *App) StartPlanSession(
	ctx context.Context,
	level string,
	minutes int,
	focusArea string,
	intensity int,
) (session.Session, *misc.Quote, error) {
	u, err := a.requireUser()
	if err != nil {
		return session.Session{}, nil, err
	}
	if _, active := a.tracker.Active(); active {
		return session.Session{}, nil, session.ErrSessionActive
	}
	if level == "" {
		level = u.FitnessLevel
	}

	p, err := a.GeneratePlan(ctx, level, minutes, focusArea)
	if err != nil {
		return session.Session{}, nil, err
	}

	s, err := a.tracker.StartPlan(p, intensity, a.now())
	if err != nil {
		return session.Session{}, nil, err
	}
	return s, a.quote(planGenre(focusArea)), nil
}

// EndSession records the active workout for the current user and saves it.
func (a *App) EndSession(ctx context.Context, minutes int) (session.Summary, error) {
	u, err := a.requireUser()
	if err != nil {
		return session.Summary{}, err
	}

	summary, err := a.tracker.End(u, minutes, a.now(), func() error {
		return a.persist(ctx)
	})
	if err != nil {
		return session.Summary{}, err
	}
	for _, name := range summary.Unlocked {
		log.Infof("app: user [%s] unlocked %s", u.Username, name)
	}
	return summary, nil
}

func (a *App) WorkoutHistory() ([]user.WorkoutEntry, error) {
	u, err := a.requireUser()
	if err != nil {
		return nil, err
	}
	return slices.Clone(u.WorkoutHistory), nil
}

func (a *App) Goals() ([]string, error) {
	u, err := a.requireUser()
	if err != nil {
		return nil, err
	}
	return slices.Clone(u.Goals), nil
}

func (a *App) AddGoal(ctx context.Context, goal string) error {
	goal = strings.TrimSpace(goal)
	return a.mutate(ctx, func(u *user.User) error {
		if goal == "" {
			return fmt.Errorf("%w: goal cannot be empty", errs.ErrValidation)
		}
		u.AddGoal(goal)
		return nil
	})
}

func (a *App) PersonalBests() ([]user.PersonalBest, error) {
	u, err := a.requireUser()
	if err != nil {
		return nil, err
	}
	return slices.Clone(u.PersonalBests), nil
}

func (a *App) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}
	return a.authService.ChangePassword(ctx, u.Username, oldPassword, newPassword)
}

// DeleteAccount removes the current user after checking the password, and logs out.
func (a *App) DeleteAccount(ctx context.Context, password string) error {
	u, err := a.requireUser()
	if err != nil {
		return err
	}
	if !pkg.CheckPasswordHash(password, u.PasswordHash) {
		return fmt.Errorf("%w: password does not match", errs.ErrAuth)
	}
	if err := a.authService.DeleteUser(ctx, u.Username); err != nil {
		return err
	}
	a.boardCache.Invalidate()
	a.Logout()
	return nil
}

// GeneratePlan builds a plan and remembers it for a later export.
func (a *App) GeneratePlan(ctx context.Context, level string, minutes int, focusArea string) (*plan.WorkoutPlan, error) {
	p, err := a.generator.Generate(ctx, level, minutes, focusArea)
	if err != nil {
		return nil, err
	}
	a.lastPlan = p
	return p, nil
}

func (a *App) Exercises() []exercises.Exercise {
	return a.catalog.All()
}

func (a *App) Exercise(name string) (exercises.Exercise, error) {
	return a.catalog.Get(name)
}

func (a *App) ExercisesByMuscleGroup(muscleGroup string) []exercises.Exercise {
	return a.catalog.ByMuscleGroup(muscleGroup)
}

func (a *App) ExercisesByDifficulty(minDifficulty, maxDifficulty int) ([]exercises.Exercise, error) {
	if minDifficulty > maxDifficulty {
		return nil, fmt.Errorf("%w: min difficulty %d is above max %d", errs.ErrValidation, minDifficulty, maxDifficulty)
	}
	return a.catalog.ByDifficulty(minDifficulty, maxDifficulty), nil
}

func (a *App) exportOwner() string {
	if a.current == nil {
		return "guest"
	}
	return a.current.Username
}

// ExportPlan writes the last generated plan to the export dir and returns the file path.
func (a *App) ExportPlan() (string, error) {
	if a.lastPlan == nil {
		return "", ErrNoPlan
	}
	f, err := export.ExportPlan(a.lastPlan)
	if err != nil {
		return "", err
	}
	return export.Save(f, a.exportDir, export.FileName("plan", a.exportOwner(), a.now()))
}

func (a *App) ExportLeaderboard(ctx context.Context) (string, error) {
	board, err := a.Leaderboard(ctx)
	if err != nil {
		return "", err
	}
	f, err := export.ExportLeaderboard(board)
	if err != nil {
		return "", err
	}
	return export.Save(f, a.exportDir, export.FileName("leaderboard", a.exportOwner(), a.now()))
}

func (a *App) ExportHistory() (string, error) {
	u, err := a.requireUser()
	if err != nil {
		return "", err
	}
	f, err := export.ExportHistory(u)
	if err != nil {
		return "", err
	}
	return export.Save(f, a.exportDir, export.FileName("history", u.Username, a.now()))
}
