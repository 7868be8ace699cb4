package export_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/2beens/fittrack/internal/errs"
	"github.com/2beens/fittrack/internal/export"
	"github.com/2beens/fittrack/internal/leaderboard"
	"github.com/2beens/fittrack/internal/plan"
	"github.com/2beens/fittrack/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testPlan(t *testing.T) *plan.WorkoutPlan {
	t.Helper()
	p, err := plan.New("Full Body Workout", "A 30-minute Beginner workout focusing on Full Body", "Beginner")
	require.NoError(t, err)
	require.NoError(t, p.AddExercise("Squats", 15, 8.5))
	require.NoError(t, p.AddExercise("Jumping Jacks", 15, 8))
	return p
}

func TestExportPlan(t *testing.T) {
	f, err := export.ExportPlan(testPlan(t))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetPlan}, f.GetSheetList())

	rows, err := f.GetRows(export.SheetPlan)
	require.NoError(t, err)
	require.Len(t, rows, 9)
	assert.Equal(t, []string{"Name", "Full Body Workout"}, rows[0])
	assert.Equal(t, []string{"Total minutes", "30"}, rows[3])
	assert.Equal(t, []string{"Total calories", "247.5"}, rows[4])
	assert.Equal(t, []string{"#", "Exercise", "Minutes", "kcal/min", "kcal"}, rows[6])
	assert.Equal(t, []string{"1", "Squats", "15", "8.5", "127.5"}, rows[7])
	assert.Equal(t, []string{"2", "Jumping Jacks", "15", "8", "120"}, rows[8])

	_, err = export.ExportPlan(nil)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestExportLeaderboard(t *testing.T) {
	board, err := leaderboard.Rank([]user.User{
		{Username: "ana", Points: 80, Streak: 2, Badge: "Elite"},
		{Username: "bob", Points: 10, Badge: "Beginner"},
	})
	require.NoError(t, err)

	f, err := export.ExportLeaderboard(board)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetLeaderboard)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Rank", "Medal", "User", "Points", "Streak", "Badge"}, rows[0])
	assert.Equal(t, []string{"1", "🥇", "ana", "80", "2", "Elite"}, rows[1])
	assert.Equal(t, []string{"2", "🥈", "bob", "10", "0", "Beginner"}, rows[2])

	_, err = export.ExportLeaderboard(nil)
	assert.ErrorIs(t, err, leaderboard.ErrNoUsers)
}

func TestExportHistory(t *testing.T) {
	u := user.New(101, "serj", "4336", "", time.Now())
	u.LogWorkout(user.WorkoutEntry{
		Name:      "Push-ups",
		Minutes:   10,
		Intensity: 5,
		Calories:  80,
		At:        time.Date(2024, 5, 10, 7, 8, 9, 0, time.UTC),
	})

	f, err := export.ExportHistory(u)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetHistory)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-05-10", "07:08:09", "Push-ups", "10", "5", "80"}, rows[1])

	_, err = export.ExportHistory(nil)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestSave(t *testing.T) {
	f, err := export.ExportPlan(testPlan(t))
	require.NoError(t, err)

	name := export.FileName("plan", "serj", time.Date(2024, 5, 10, 15, 4, 5, 0, time.UTC))
	assert.Equal(t, "fittrack_plan_serj_20240510_150405.xlsx", name)

	dir := filepath.Join(t.TempDir(), "exports")
	path, err := export.Save(f, dir, name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, name), path)

	saved, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer saved.Close()
	v, err := saved.GetCellValue(export.SheetPlan, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Full Body Workout", v)
}
