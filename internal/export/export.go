// Package export writes plans, leaderboards and workout history to xlsx workbooks.
package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/errs"
	"github.com/2beens/fittrack/internal/leaderboard"
	"github.com/2beens/fittrack/internal/plan"
	"github.com/2beens/fittrack/internal/user"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"
)

const (
	SheetPlan        = "Plan"
	SheetLeaderboard = "Leaderboard"
	SheetHistory     = "History"

	defaultSheet = "Sheet1"
)

func newWorkbook(sheet string) (*excelize.File, int, error) {
	f := excelize.NewFile()
	f.SetSheetName(defaultSheet, sheet)
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, 0, multierr.Append(fmt.Errorf("create header style: %w", err), f.Close())
	}
	return f, headerStyle, nil
}

func setHeader(f *excelize.File, sheet string, row int, style int, titles ...string) error {
	values := make([]interface{}, 0, len(titles))
	for _, t := range titles {
		values = append(values, t)
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(titles), row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, first, &values); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func ExportPlan(p *plan.WorkoutPlan) (_ *excelize.File, err error) {
	if p == nil {
		return nil, fmt.Errorf("%w: no plan to export", errs.ErrValidation)
	}

	f, headerStyle, err := newWorkbook(SheetPlan)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, f.Close())
		}
	}()

	sheet := SheetPlan
	info := [][]interface{}{
		{"Name", p.Name},
		{"Description", p.Description},
		{"Difficulty", p.Difficulty},
		{"Total minutes", p.TotalMinutes},
		{"Total calories", round2(p.TotalCalories)},
	}
	for i, values := range info {
		if err := setRow(f, sheet, i+1, values...); err != nil {
			return nil, err
		}
	}

	headerRow := len(info) + 2
	if err := setHeader(f, sheet, headerRow, headerStyle, "#", "Exercise", "Minutes", "kcal/min", "kcal"); err != nil {
		return nil, err
	}
	for i, it := range p.Items {
		err := setRow(f, sheet, headerRow+1+i,
			i+1, it.Exercise, it.Minutes, it.CaloriesPerMinute, round2(float64(it.Minutes)*it.CaloriesPerMinute),
		)
		if err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 16); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "B", 40); err != nil {
		return nil, err
	}

	return f, nil
}

func ExportLeaderboard(board leaderboard.Board) (_ *excelize.File, err error) {
	if len(board) == 0 {
		return nil, leaderboard.ErrNoUsers
	}

	f, headerStyle, err := newWorkbook(SheetLeaderboard)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, f.Close())
		}
	}()

	sheet := SheetLeaderboard
	if err := setHeader(f, sheet, 1, headerStyle, "Rank", "Medal", "User", "Points", "Streak", "Badge"); err != nil {
		return nil, err
	}
	for i, e := range board {
		if err := setRow(f, sheet, i+2, e.Position, e.Medal, e.Username, e.Points, e.Streak, e.Badge); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheet, "C", "C", 24); err != nil {
		return nil, err
	}

	return f, nil
}

func ExportHistory(u *user.User) (_ *excelize.File, err error) {
	if u == nil {
		return nil, fmt.Errorf("%w: no user to export", errs.ErrValidation)
	}

	f, headerStyle, err := newWorkbook(SheetHistory)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, f.Close())
		}
	}()

	sheet := SheetHistory
	if err := setHeader(f, sheet, 1, headerStyle, "Date", "Time", "Workout", "Minutes", "Intensity", "Calories"); err != nil {
		return nil, err
	}
	for i, entry := range u.WorkoutHistory {
		err := setRow(f, sheet, i+2,
			entry.At.Format(user.DateLayout), entry.At.Format("15:04:05"),
			entry.Name, entry.Minutes, entry.Intensity, round2(entry.Calories),
		)
		if err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheet, "C", "C", 32); err != nil {
		return nil, err
	}

	return f, nil
}

// FileName builds a file name like fittrack_plan_serj_20240510_150405.xlsx.
func FileName(kind, username string, now time.Time) string {
	name := strings.Join([]string{"fittrack", kind, username, now.Format("20060102_150405")}, "_")
	return name + ".xlsx"
}

// Save writes the workbook into dir, creating dir if needed, and closes it.
func Save(f *excelize.File, dir, fileName string) (_ string, err error) {
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create export dir %s: %w", errs.ErrPersistence, dir, err)
	}

	path := filepath.Join(dir, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("%w: save %s: %w", errs.ErrPersistence, path, err)
	}

	log.Infof("export: workbook saved to %s", path)
	return path, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
