// Package streak keeps the consecutive login day counter up to date.
package streak

import (
	"fmt"
	"time"

	"github.com/2beens/fittrack/internal/gamification"
	"github.com/2beens/fittrack/internal/user"
)

const secondsPerDay = 24 * 60 * 60

type Outcome int

const (
	FirstLogin  Outcome = iota // no previous login date stored
	SameDay                    // already logged in today
	Continued                  // logged in yesterday
	Reset                      // gap of more than one day
	Unparseable                // stored date could not be read
	Future                     // stored date is after today
)

func (o Outcome) String() string {
	switch o {
	case FirstLogin:
		return "first_login"
	case SameDay:
		return "same_day"
	case Continued:
		return "continued"
	case Reset:
		return "reset"
	case Unparseable:
		return "unparseable"
	case Future:
		return "future"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// milestones award bonus points when the counter hits the exact value
var milestones = map[int]int{
	7:  10,
	30: 50,
}

type Result struct {
	Outcome     Outcome
	DiffDays    int
	BonusPoints int
	Unlocked    []string
}

// Apply updates the user's login streak for a login at now and sets
// the last login date to now's calendar date.
//
// Days are counted as the difference between calendar dates: the stored
// date against the date of now in now's location. Both are projected to
// UTC midnight before subtracting, so DST changes never shift the count.
func Apply(u *user.User, now time.Time) Result {
	res := Result{Outcome: FirstLogin}
	defer func() {
		u.LastLoginDate = now.Format(user.DateLayout)
	}()

	if u.LastLoginDate == "" {
		return res
	}

	last, err := ParseDate(u.LastLoginDate)
	if err != nil {
		u.ConsecutiveLoginDays = 1
		res.Outcome = Unparseable
		return res
	}

	res.DiffDays = DaysBetween(last, now)
	switch {
	case res.DiffDays == 0:
		res.Outcome = SameDay
	case res.DiffDays == 1:
		res.Outcome = Continued
		u.ConsecutiveLoginDays++
		if bonus, ok := milestones[u.ConsecutiveLoginDays]; ok {
			res.BonusPoints = bonus
			res.Unlocked = gamification.AwardPoints(u, bonus)
		}
	case res.DiffDays > 1:
		res.Outcome = Reset
		u.ConsecutiveLoginDays = 1
	default:
		res.Outcome = Future
	}

	return res
}

// ParseDate reads a YYYY-MM-DD date leniently: single digit months and days
// are accepted and out of range values roll over (2024-02-30 is March 1st).
func ParseDate(s string) (time.Time, error) {
	var year, month, day int
	if n, err := fmt.Sscanf(s, "%d-%d-%d", &year, &month, &day); err != nil || n != 3 {
		return time.Time{}, fmt.Errorf("invalid date [%s]", s)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// DaysBetween returns the number of calendar days from the date of from
// to the date of to, each taken in its own location.
func DaysBetween(from, to time.Time) int {
	return int((civilDay(to) - civilDay(from)) / secondsPerDay)
}

func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
}
