package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/2beens/fittrack/internal"
	"github.com/2beens/fittrack/internal/errs"
	"github.com/2beens/fittrack/internal/exercises"
	"github.com/2beens/fittrack/internal/misc"
	"github.com/2beens/fittrack/internal/plan"
	"github.com/2beens/fittrack/internal/session"
	"github.com/2beens/fittrack/internal/streak"

	log "github.com/sirupsen/logrus"
)

const helpText = `commands:
  login <user> <password>               register <user> <password> [background...]
  reset <user> <new password>           leaderboard
  profile                               update <weight|height|age|background> <value...>
  start <exercise...> <intensity>       plan <level|-> <minutes> <intensity> <focus...>
  generate <level> <minutes> <focus...> end <minutes>
  history                               goals
  goal <text...>                        bests
  passwd <old> <new>                    delete-account <password>
  exercises [muscle group | <min>-<max>]
  export plan|leaderboard|history       logout
  help                                  exit`

type command func(ctx context.Context, args []string) error

// shell reads one command per line and runs it against the app.
type shell struct {
	app      *internal.App
	in       io.Reader
	out      io.Writer
	commands map[string]command
}

func newShell(app *internal.App, in io.Reader, out io.Writer) *shell {
	s := &shell{app: app, in: in, out: out}
	s.commands = map[string]command{
		"login":          s.login,
		"register":       s.register,
		"reset":          s.reset,
		"leaderboard":    s.leaderboard,
		"profile":        s.profile,
		"update":         s.update,
		"start":          s.start,
		"plan":           s.plan,
		"generate":       s.generate,
		"end":            s.end,
		"history":        s.history,
		"goals":          s.goals,
		"goal":           s.goal,
		"bests":          s.bests,
		"passwd":         s.passwd,
		"delete-account": s.deleteAccount,
		"exercises":      s.exercises,
		"export":         s.export,
		"logout":         s.logout,
	}
	return s
}

func (s *shell) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(s.out, format, args...); err != nil {
		log.Errorf("shell: write output: %s", err)
	}
}

// run reads commands until exit, EOF or ctx cancellation.
func (s *shell) run(ctx context.Context) error {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)

	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	s.printf("FitTrack. Type 'help' for commands.\n")
	for {
		select {
		case <-ctx.Done():
			log.Debugf("shell: %s", ctx.Err())
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			if quit := s.exec(ctx, line); quit {
				return nil
			}
		}
	}
}

// exec runs one command line and reports whether the shell should quit.
func (s *shell) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	switch name {
	case "exit", "quit":
		if _, active := s.app.ActiveSession(); active {
			s.printf("Active workout dropped.\n")
		}
		s.app.Logout()
		s.printf("Bye!\n")
		return true
	case "help":
		s.printf("%s\n", helpText)
		return false
	}

	cmd, ok := s.commands[name]
	if !ok {
		s.printf("Unknown command [%s], type 'help' for the list.\n", name)
		return false
	}
	if err := cmd(ctx, args); err != nil {
		log.Debugf("shell: %s: %s", name, err)
		s.printf("%s\n", userMessage(err))
	}
	return false
}

var errUsage = errors.New("usage")

func usage(text string) error {
	return fmt.Errorf("%w: %s", errUsage, text)
}

// userMessage maps an error kind to what the user sees.
func userMessage(err error) string {
	switch {
	case errors.Is(err, errUsage):
		return "Usage" + strings.TrimPrefix(err.Error(), errUsage.Error())
	case errors.Is(err, internal.ErrNotLoggedIn):
		return "Please log in first."
	case errors.Is(err, errs.ErrAuth):
		return "Authentication failed: wrong username or password."
	case errors.Is(err, errs.ErrDuplicateUser):
		return "Username already exists."
	case errors.Is(err, session.ErrSessionActive):
		return "A workout is already in progress, end it first."
	case errors.Is(err, session.ErrNoSession):
		return "No workout in progress."
	case errors.Is(err, internal.ErrExerciseLocked):
		return "That exercise is still locked, earn more points to unlock it."
	case errors.Is(err, errs.ErrNoExercises):
		return "No suitable exercises found for that plan."
	case errors.Is(err, errs.ErrValidation):
		return "Invalid input: " + detail(err, errs.ErrValidation)
	case errors.Is(err, exercises.ErrExerciseNotFound):
		return "Unknown exercise: " + detail(err, exercises.ErrExerciseNotFound)
	case errors.Is(err, errs.ErrNotFound):
		return "Not found: " + detail(err, errs.ErrNotFound)
	case errors.Is(err, errs.ErrPersistence):
		return "Could not save your data: " + detail(err, errs.ErrPersistence)
	default:
		return "Error: " + err.Error()
	}
}

// detail is the error message without the "<kind>: " prefix of its sentinel.
func detail(err, kind error) string {
	return strings.TrimPrefix(err.Error(), kind.Error()+": ")
}

func parseInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number", errs.ErrValidation, name)
	}
	return n, nil
}

func (s *shell) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("login <user> <password>")
	}
	u, res, err := s.app.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	s.printf("Welcome back, %s! Login streak: %d day(s).\n", u.Username, u.ConsecutiveLoginDays)
	switch res.Outcome {
	case streak.Reset:
		s.printf("Your login streak was reset after %d days away.\n", res.DiffDays)
	case streak.Unparseable:
		s.printf("Could not read your last login date, streak restarted.\n")
	}
	if res.BonusPoints > 0 {
		s.printf("Streak bonus: +%d points!\n", res.BonusPoints)
	}
	for _, name := range res.Unlocked {
		s.printf("Unlocked: %s\n", name)
	}
	return nil
}

func (s *shell) register(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("register <user> <password> [background...]")
	}
	u, err := s.app.Register(ctx, args[0], args[1], strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	s.printf("Registered %s (id %d). You can log in now.\n", u.Username, u.ID)
	return nil
}

func (s *shell) reset(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("reset <user> <new password>")
	}
	if err := s.app.ResetPassword(ctx, args[0], args[1]); err != nil {
		return err
	}
	s.printf("Password reset.\n")
	return nil
}

func (s *shell) leaderboard(ctx context.Context, _ []string) error {
	board, err := s.app.Leaderboard(ctx)
	if err != nil {
		return err
	}
	for _, e := range board {
		s.printf("%3d. %-2s %-20s %6d pts  streak %-3d %s\n", e.Position, e.Medal, e.Username, e.Points, e.Streak, e.Badge)
	}
	return nil
}

func (s *shell) profile(ctx context.Context, _ []string) error {
	p, err := s.app.Profile(ctx)
	if err != nil {
		return err
	}

	u := p.User
	s.printf("%s (id %d), rank #%d\n", u.Username, u.ID, p.Rank)
	if u.Background != "" {
		s.printf("  background:  %s\n", u.Background)
	}
	s.printf("  badge:       %s, level %s\n", u.Badge, u.FitnessLevel)
	s.printf("  points:      %d\n", u.Points)
	s.printf("  streak:      %d (best %d), logins in a row: %d\n", u.Streak, u.MaxStreak, u.ConsecutiveLoginDays)
	s.printf("  calories:    %.2f kcal, CO2 saved: %.2f g\n", u.TotalCalories, u.TotalCO2)
	if p.BMI > 0 {
		s.printf("  body:        %.1f kg, %.2f m, age %d, BMI %.1f (%s)\n", u.Weight, u.Height, u.Age, p.BMI, p.BMICategory)
	}
	s.printf("  unlocked:    %s\n", strings.Join(u.UnlockedExercises, ", "))
	for _, l := range p.Locked {
		s.printf("  locked:      %s (%d points)\n", l.Name, l.RequiredPoints)
	}
	return nil
}

func (s *shell) update(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("update <weight|height|age|background> <value...>")
	}
	if err := s.app.UpdateProfile(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
		return err
	}
	s.printf("Profile updated.\n")
	return nil
}

func (s *shell) printQuote(q *misc.Quote) {
	if q != nil {
		s.printf("\"%s\"\n", q)
	}
}

// start takes the exercise name first, since it may contain spaces.
func (s *shell) start(_ context.Context, args []string) error {
	if len(args) < 2 {
		return usage("start <exercise...> <intensity>")
	}
	intensity, err := parseInt("intensity", args[len(args)-1])
	if err != nil {
		return err
	}
	sess, quote, err := s.app.StartExerciseSession(strings.Join(args[:len(args)-1], " "), intensity)
	if err != nil {
		return err
	}
	s.printf("Started %s at intensity %d/10.\n", sess.Name(), sess.Intensity)
	for i, step := range sess.Exercise.Steps {
		s.printf("  %d. %s\n", i+1, step)
	}
	s.printQuote(quote)
	return nil
}

func (s *shell) plan(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return usage("plan <level|-> <minutes> <intensity> <focus...>")
	}
	level := args[0]
	if level == "-" {
		level = ""
	}
	minutes, err := parseInt("minutes", args[1])
	if err != nil {
		return err
	}
	intensity, err := parseInt("intensity", args[2])
	if err != nil {
		return err
	}

	sess, quote, err := s.app.StartPlanSession(ctx, level, minutes, strings.Join(args[3:], " "), intensity)
	if err != nil {
		return err
	}
	s.printPlan(sess.Plan)
	s.printf("Started plan at intensity %d/10.\n", sess.Intensity)
	s.printQuote(quote)
	return nil
}

func (s *shell) printPlan(p *plan.WorkoutPlan) {
	s.printf("%s - %s\n", p.Name, p.Description)
	for _, item := range p.Items {
		s.printf("  %-20s %3d min  %.2f kcal\n", item.Exercise, item.Minutes, item.CaloriesPerMinute*float64(item.Minutes))
	}
	s.printf("  total: %d min, %.2f kcal\n", p.TotalMinutes, p.TotalCalories)
}

func (s *shell) generate(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return usage("generate <level> <minutes> <focus...>")
	}
	minutes, err := parseInt("minutes", args[1])
	if err != nil {
		return err
	}
	p, err := s.app.GeneratePlan(ctx, args[0], minutes, strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	s.printPlan(p)
	return nil
}

func (s *shell) end(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("end <minutes>")
	}
	minutes, err := parseInt("minutes", args[0])
	if err != nil {
		return err
	}
	summary, err := s.app.EndSession(ctx, minutes)
	if err != nil {
		return err
	}

	s.printf("Finished %s: %d min, %.2f kcal, %.2f g CO2, +%d points (total %d).\n",
		summary.Name, summary.Minutes, summary.Calories, summary.CO2, summary.Points, summary.TotalPoints)
	s.printf("Workout streak: %d\n", summary.Streak)
	if summary.NewPersonalBest {
		s.printf("New personal best!\n")
	}
	for _, name := range summary.Unlocked {
		s.printf("Unlocked: %s\n", name)
	}
	return nil
}

func (s *shell) history(_ context.Context, _ []string) error {
	entries, err := s.app.WorkoutHistory()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		s.printf("No workouts yet.\n")
	}
	for _, e := range entries {
		s.printf("%s\n", e)
	}
	return nil
}

func (s *shell) goals(_ context.Context, _ []string) error {
	goals, err := s.app.Goals()
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		s.printf("No goals yet.\n")
	}
	for i, g := range goals {
		s.printf("%d. %s\n", i+1, g)
	}
	return nil
}

func (s *shell) goal(ctx context.Context, args []string) error {
	if err := s.app.AddGoal(ctx, strings.Join(args, " ")); err != nil {
		return err
	}
	s.printf("Goal added.\n")
	return nil
}

func (s *shell) bests(_ context.Context, _ []string) error {
	bests, err := s.app.PersonalBests()
	if err != nil {
		return err
	}
	if len(bests) == 0 {
		s.printf("No personal bests yet.\n")
	}
	for _, pb := range bests {
		s.printf("%-20s %.0f min\n", pb.Exercise, pb.Value)
	}
	return nil
}

func (s *shell) passwd(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("passwd <old> <new>")
	}
	if err := s.app.ChangePassword(ctx, args[0], args[1]); err != nil {
		return err
	}
	s.printf("Password changed.\n")
	return nil
}

func (s *shell) deleteAccount(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delete-account <password>")
	}
	if err := s.app.DeleteAccount(ctx, args[0]); err != nil {
		return err
	}
	s.printf("Account deleted.\n")
	return nil
}

// exercises accepts no filter, a difficulty range like 3-6, or muscle group text.
func (s *shell) exercises(_ context.Context, args []string) error {
	var list []exercises.Exercise
	filter := strings.Join(args, " ")
	switch {
	case filter == "":
		list = s.app.Exercises()
	default:
		var minDifficulty, maxDifficulty int
		if n, _ := fmt.Sscanf(filter, "%d-%d", &minDifficulty, &maxDifficulty); n == 2 {
			var err error
			if list, err = s.app.ExercisesByDifficulty(minDifficulty, maxDifficulty); err != nil {
				return err
			}
		} else {
			list = s.app.ExercisesByMuscleGroup(filter)
		}
	}

	if len(list) == 0 {
		s.printf("No exercises match.\n")
	}
	for _, ex := range list {
		s.printf("%-20s difficulty %2d  %-32s %.1f kcal/min\n", ex.Name, ex.Difficulty, ex.MuscleGroup, ex.CaloriesPerMinute)
	}
	return nil
}

func (s *shell) export(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("export plan|leaderboard|history")
	}

	var (
		path string
		err  error
	)
	switch strings.ToLower(args[0]) {
	case "plan":
		path, err = s.app.ExportPlan()
	case "leaderboard":
		path, err = s.app.ExportLeaderboard(ctx)
	case "history":
		path, err = s.app.ExportHistory()
	default:
		return usage("export plan|leaderboard|history")
	}
	if err != nil {
		return err
	}
	s.printf("Exported to %s\n", path)
	return nil
}

func (s *shell) logout(_ context.Context, _ []string) error {
	if _, ok := s.app.CurrentUser(); !ok {
		return internal.ErrNotLoggedIn
	}
	if _, active := s.app.ActiveSession(); active {
		s.printf("Active workout dropped.\n")
	}
	s.app.Logout()
	s.printf("Logged out.\n")
	return nil
}
