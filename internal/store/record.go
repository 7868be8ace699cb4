package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/2beens/fittrack/internal/errs"
	"github.com/2beens/fittrack/internal/gamification"
	"github.com/2beens/fittrack/internal/user"
)

// A record is one line of space separated fields, in this order:
//
//	id username passwordHash background points streak maxStreak
//	totalCalories totalCO2 weight height age fitnessLevel
//	consecutiveLoginDays lastLoginDate
//
// Spaces in background and fitnessLevel are stored as underscores.
// lastLoginDate takes the rest of the line, so it may contain spaces.
// Floats keep two decimals; anything finer is lost on save.
const prefixFields = 14

// emptyText keeps field positions stable when a text field is empty
const emptyText = "_"

func EncodeUser(u *user.User) string {
	var sb strings.Builder
	fields := []string{
		strconv.Itoa(u.ID),
		u.Username,
		u.PasswordHash,
		encodeText(u.Background),
		strconv.Itoa(u.Points),
		strconv.Itoa(u.Streak),
		strconv.Itoa(u.MaxStreak),
		formatFloat(u.TotalCalories),
		formatFloat(u.TotalCO2),
		formatFloat(u.Weight),
		formatFloat(u.Height),
		strconv.Itoa(u.Age),
		encodeText(u.FitnessLevel),
		strconv.Itoa(u.ConsecutiveLoginDays),
	}
	for _, f := range fields {
		sb.WriteString(f)
		sb.WriteByte(' ')
	}
	sb.WriteString(u.LastLoginDate)
	return sb.String()
}

// DecodeLine parses a single record. Pipe characters are removed first.
func DecodeLine(line string) (*user.User, error) {
	line = strings.ReplaceAll(line, "|", "")
	line = strings.TrimSuffix(line, "\r")

	fields := make([]string, 0, prefixFields)
	rest := line
	for len(fields) < prefixFields {
		var field string
		field, rest = nextField(rest)
		if field == "" {
			return nil, fmt.Errorf("%w: expected %d fields, got %d", errs.ErrParse, prefixFields, len(fields))
		}
		fields = append(fields, field)
	}
	lastLoginDate := strings.TrimPrefix(rest, " ")

	p := fieldParser{fields: fields}
	id := p.int(0, "id")
	points := p.int(4, "points")
	streakDays := p.int(5, "streak")
	maxStreak := p.int(6, "maxStreak")
	totalCalories := p.float(7, "totalCalories")
	totalCO2 := p.float(8, "totalCO2")
	weight := p.float(9, "weight")
	height := p.float(10, "height")
	age := p.int(11, "age")
	consecutive := p.int(13, "consecutiveLoginDays")
	if p.err != nil {
		return nil, p.err
	}

	u := &user.User{
		ID:                   id,
		Username:             fields[1],
		PasswordHash:         fields[2],
		Background:           decodeText(fields[3]),
		Weight:               weight,
		Height:               height,
		Age:                  age,
		Points:               points,
		Streak:               streakDays,
		MaxStreak:            maxStreak,
		Badge:                gamification.Badge(points),
		FitnessLevel:         decodeText(fields[12]),
		ConsecutiveLoginDays: consecutive,
		LastLoginDate:        lastLoginDate,
		TotalCalories:        totalCalories,
		TotalCO2:             totalCO2,
		UnlockedExercises:    append([]string{}, user.DefaultUnlocks...),
	}
	// unlocks only depend on points, so they can be rebuilt instead of stored
	gamification.ApplyUnlocks(u)

	return u, nil
}

// validateRecord checks that the fields which are stored verbatim
// cannot break the line layout.
func validateRecord(u *user.User) error {
	if u.Username == "" || strings.ContainsAny(u.Username, " \t\r\n|") {
		return fmt.Errorf("%w: username [%s] cannot be stored", errs.ErrValidation, u.Username)
	}
	if u.PasswordHash == "" || strings.ContainsAny(u.PasswordHash, " \t\r\n|") {
		return fmt.Errorf("%w: password hash of [%s] cannot be stored", errs.ErrValidation, u.Username)
	}
	if strings.ContainsAny(u.LastLoginDate, "\r\n") {
		return fmt.Errorf("%w: last login date of [%s] cannot be stored", errs.ErrValidation, u.Username)
	}
	return nil
}

func nextField(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	end := strings.IndexAny(s, " \t")
	if end < 0 {
		return s, ""
	}
	return s[:end], s[end:]
}

func encodeText(s string) string {
	if s == "" {
		return emptyText
	}
	s = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(s)
	return strings.ReplaceAll(s, " ", "_")
}

func decodeText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

type fieldParser struct {
	fields []string
	err    error
}

func (p *fieldParser) int(i int, name string) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(p.fields[i])
	if err != nil {
		p.err = fmt.Errorf("%w: field %s [%s] is not an integer", errs.ErrParse, name, p.fields[i])
	}
	return v
}

func (p *fieldParser) float(i int, name string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(p.fields[i], 64)
	if err != nil {
		p.err = fmt.Errorf("%w: field %s [%s] is not a number", errs.ErrParse, name, p.fields[i])
	}
	return v
}
