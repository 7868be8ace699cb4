package auth

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/errs"
	"github.com/2beens/fittrack/internal/streak"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/user"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 4

	// first registered user gets this id, the rest follow the user count
	firstUserID = 101
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=auth_test

type usersRepo interface {
	Load(ctx context.Context) (map[string]*user.User, error)
	Save(ctx context.Context, users map[string]*user.User) error
}

// Service owns the in-memory copy of all users and persists it through the
// repo after every change.
type Service struct {
	repo    usersRepo
	users   map[string]*user.User
	now     func() time.Time
	metrics *metrics.Manager
}

func NewService(
	repo usersRepo,
	now func() time.Time,
	metricsManager *metrics.Manager,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:    repo,
		users:   make(map[string]*user.User),
		now:     now,
		metrics: metricsManager,
	}
}

// Load replaces the in-memory users with the ones from the repo.
func (s *Service) Load(ctx context.Context) error {
	users, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if users == nil {
		users = make(map[string]*user.User)
	}
	s.users = users
	log.Debugf("auth: %d users loaded", len(users))
	return nil
}

func ValidateUsername(username string) bool {
	return len(username) >= MinUsernameLength && len(username) <= MaxUsernameLength
}

func ValidatePassword(password string) bool {
	return len(password) >= MinPasswordLength
}

func (s *Service) Register(ctx context.Context, username, password, background string) (_ *user.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.register")
	span.SetAttributes(attribute.String("username", username))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !ValidateUsername(username) {
		s.metrics.CounterRegistrations.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: username must be %d to %d characters long", errs.ErrValidation, MinUsernameLength, MaxUsernameLength)
	}
	if !ValidatePassword(password) {
		s.metrics.CounterRegistrations.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: password must be at least %d characters long", errs.ErrValidation, MinPasswordLength)
	}
	if strings.ContainsAny(username, " \t\r\n|") {
		s.metrics.CounterRegistrations.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: username cannot contain whitespace or '|'", errs.ErrValidation)
	}
	if _, ok := s.users[username]; ok {
		s.metrics.CounterRegistrations.WithLabelValues("duplicate").Inc()
		return nil, fmt.Errorf("%w: %s", errs.ErrDuplicateUser, username)
	}

	u := user.New(len(s.users)+firstUserID, username, pkg.HashPassword(password), background, s.now())
	s.users[username] = u
	if err := s.repo.Save(ctx, s.users); err != nil {
		delete(s.users, username)
		s.metrics.CounterRegistrations.WithLabelValues("error").Inc()
		return nil, err
	}

	s.metrics.CounterRegistrations.WithLabelValues("ok").Inc()
	log.Infof("auth: user [%s] registered with id %d", username, u.ID)
	return u, nil
}

// Login checks the credentials, updates the login streak of the stored
// record and persists it. The returned user is the stored record itself.
func (s *Service) Login(ctx context.Context, username, password string) (_ *user.User, _ streak.Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.login")
	span.SetAttributes(attribute.String("username", username))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	u, ok := s.users[username]
	if !ok {
		s.metrics.CounterLogins.WithLabelValues("unknown_user").Inc()
		return nil, streak.Result{}, fmt.Errorf("%w: user %s", errs.ErrNotFound, username)
	}
	if !pkg.CheckPasswordHash(password, u.PasswordHash) {
		s.metrics.CounterLogins.WithLabelValues("bad_password").Inc()
		return nil, streak.Result{}, fmt.Errorf("%w: wrong password for %s", errs.ErrAuth, username)
	}

	snapshot := u.Clone()
	res := streak.Apply(u, s.now())
	span.SetAttributes(attribute.String("streak", res.Outcome.String()))
	if res.Outcome == streak.Unparseable {
		log.Warnf("auth: user [%s] had an unreadable last login date, streak reset", username)
	}

	if err := s.repo.Save(ctx, s.users); err != nil {
		*u = *snapshot
		s.metrics.CounterLogins.WithLabelValues("error").Inc()
		return nil, streak.Result{}, err
	}

	s.metrics.CounterLogins.WithLabelValues("ok").Inc()
	if res.BonusPoints > 0 {
		s.metrics.CounterPointsAwarded.Add(float64(res.BonusPoints))
	}
	log.Debugf("auth: user [%s] logged in, streak %s", username, res.Outcome)
	return u, res, nil
}

func (s *Service) ResetPassword(ctx context.Context, username, newPassword string) error {
	if !ValidatePassword(newPassword) {
		return fmt.Errorf("%w: password must be at least %d characters long", errs.ErrValidation, MinPasswordLength)
	}
	u, ok := s.users[username]
	if !ok {
		return fmt.Errorf("%w: user %s", errs.ErrNotFound, username)
	}
	return s.setPasswordHash(ctx, u, pkg.HashPassword(newPassword))
}

func (s *Service) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	u, ok := s.users[username]
	if !ok {
		return fmt.Errorf("%w: user %s", errs.ErrNotFound, username)
	}
	if !pkg.CheckPasswordHash(oldPassword, u.PasswordHash) {
		return fmt.Errorf("%w: current password does not match", errs.ErrAuth)
	}
	if !ValidatePassword(newPassword) {
		return fmt.Errorf("%w: password must be at least %d characters long", errs.ErrValidation, MinPasswordLength)
	}
	return s.setPasswordHash(ctx, u, pkg.HashPassword(newPassword))
}

func (s *Service) setPasswordHash(ctx context.Context, u *user.User, hash string) error {
	previous := u.PasswordHash
	u.PasswordHash = hash
	if err := s.repo.Save(ctx, s.users); err != nil {
		u.PasswordHash = previous
		return err
	}
	log.Infof("auth: password of [%s] changed", u.Username)
	return nil
}

func (s *Service) DeleteUser(ctx context.Context, username string) error {
	u, ok := s.users[username]
	if !ok {
		return fmt.Errorf("%w: user %s", errs.ErrNotFound, username)
	}
	delete(s.users, username)
	if err := s.repo.Save(ctx, s.users); err != nil {
		s.users[username] = u
		return err
	}
	log.Infof("auth: user [%s] deleted", username)
	return nil
}

// Update stores the given user under its username and persists all users.
// The user must already exist. On a failed save the previously stored
// record is put back; callers that edited the stored record in place
// restore it themselves.
func (s *Service) Update(ctx context.Context, u *user.User) error {
	if u == nil {
		return fmt.Errorf("%w: nil user", errs.ErrValidation)
	}
	previous, ok := s.users[u.Username]
	if !ok {
		return fmt.Errorf("%w: user %s", errs.ErrNotFound, u.Username)
	}
	s.users[u.Username] = u
	if err := s.repo.Save(ctx, s.users); err != nil {
		s.users[u.Username] = previous
		return err
	}
	return nil
}

func (s *Service) Get(username string) (*user.User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", errs.ErrNotFound, username)
	}
	return u, nil
}

func (s *Service) Count() int {
	return len(s.users)
}

// Users returns copies of all users, ordered by username.
func (s *Service) Users() []user.User {
	usernames := make([]string, 0, len(s.users))
	for username := range s.users {
		usernames = append(usernames, username)
	}
	slices.Sort(usernames)

	users := make([]user.User, 0, len(usernames))
	for _, username := range usernames {
		users = append(users, *s.users[username])
	}
	return users
}
