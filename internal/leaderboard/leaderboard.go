// Package leaderboard ranks users by points.
package leaderboard

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/2beens/fittrack/internal/errs"
	"github.com/2beens/fittrack/internal/user"
)

var ErrNoUsers = fmt.Errorf("%w: no users, leaderboard is empty", errs.ErrNotFound)

var medals = []string{"🥇", "🥈", "🥉"}

type Entry struct {
	Position int    `json:"position"`
	Medal    string `json:"medal,omitempty"`
	Username string `json:"username"`
	Points   int    `json:"points"`
	Streak   int    `json:"streak"`
	Badge    string `json:"badge"`
}

type Board []Entry

// Rank orders users by points, highest first. Users with equal points are
// ordered by username, so the result never depends on the input order.
func Rank(users []user.User) (Board, error) {
	if len(users) == 0 {
		return nil, ErrNoUsers
	}

	ranked := slices.Clone(users)
	slices.SortStableFunc(ranked, func(a, b user.User) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})

	board := make(Board, 0, len(ranked))
	for i, u := range ranked {
		entry := Entry{
			Position: i + 1,
			Username: u.Username,
			Points:   u.Points,
			Streak:   u.Streak,
			Badge:    u.Badge,
		}
		if i < len(medals) {
			entry.Medal = medals[i]
		}
		board = append(board, entry)
	}

	return board, nil
}

// Position returns the entry of the given user, if present.
func (b Board) Position(username string) (Entry, bool) {
	for _, e := range b {
		if e.Username == username {
			return e, true
		}
	}
	return Entry{}, false
}
