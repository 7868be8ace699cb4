package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/errs"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/user"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

const maxLineSize = 64 * 1024

// FileStore keeps all users in one flat text file, one record per line.
// Every Save rewrites the whole file.
type FileStore struct {
	path    string
	metrics *metrics.Manager
}

func NewFileStore(path string, metricsManager *metrics.Manager) *FileStore {
	return &FileStore{
		path:    path,
		metrics: metricsManager,
	}
}

func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether the store file is present. A missing file is how
// callers recognize the very first run.
func (s *FileStore) Exists() (bool, error) {
	exists, err := pkg.PathExists(s.path, false)
	if err != nil {
		return false, fmt.Errorf("%w: stat %s: %w", errs.ErrPersistence, s.path, err)
	}
	return exists, nil
}

// Load reads every record from the file. Lines that do not parse are
// logged and skipped. When a username repeats, the later line wins.
func (s *FileStore) Load(ctx context.Context) (_ map[string]*user.User, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "store.file.load")
	span.SetAttributes(attribute.String("path", s.path))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", errs.ErrPersistence, s.path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Errorf("store: close %s: %s", s.path, closeErr)
		}
	}()

	users := make(map[string]*user.User)
	skipped := 0
	lineNum := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		u, err := DecodeLine(line)
		if err != nil {
			log.Warnf("store: skipping line %d of %s: %s", lineNum, s.path, err)
			s.metrics.CounterStoreLinesSkipped.Inc()
			skipped++
			continue
		}

		if _, ok := users[u.Username]; ok {
			log.Warnf("store: duplicate user [%s] on line %d, keeping the later record", u.Username, lineNum)
		}
		users[u.Username] = u
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", errs.ErrPersistence, s.path, err)
	}

	span.SetAttributes(attribute.Int("users", len(users)))
	span.SetAttributes(attribute.Int("skipped", skipped))
	s.metrics.GaugeUsers.Set(float64(len(users)))
	log.Debugf("store: loaded %d users from %s (%d lines skipped)", len(users), s.path, skipped)

	return users, nil
}

// Save writes all users, sorted by username, truncating the previous
// content. Records are encoded before the file is touched, so a user
// that cannot be stored leaves the file as it was.
func (s *FileStore) Save(ctx context.Context, users map[string]*user.User) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "store.file.save")
	span.SetAttributes(attribute.String("path", s.path))
	span.SetAttributes(attribute.Int("users", len(users)))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	start := time.Now()
	defer func() {
		s.metrics.HistStoreSaveDuration.Observe(time.Since(start).Seconds())
	}()

	usernames := make([]string, 0, len(users))
	for username := range users {
		usernames = append(usernames, username)
	}
	slices.Sort(usernames)

	lines := make([]string, 0, len(usernames))
	for _, username := range usernames {
		u := users[username]
		if u == nil {
			return fmt.Errorf("%w: nil record for [%s]", errs.ErrPersistence, username)
		}
		if err := validateRecord(u); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrPersistence, err)
		}
		lines = append(lines, EncodeUser(u))
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", errs.ErrPersistence, s.path, err)
	}

	w := bufio.NewWriter(f)
	var writeErr error
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			writeErr = err
			break
		}
		if err := w.WriteByte('\n'); err != nil {
			writeErr = err
			break
		}
	}
	if writeErr == nil {
		writeErr = w.Flush()
	}

	if err := multierr.Combine(writeErr, f.Close()); err != nil {
		return fmt.Errorf("%w: write %s: %w", errs.ErrPersistence, s.path, err)
	}

	s.metrics.GaugeUsers.Set(float64(len(users)))
	return nil
}

// IsNotExist reports whether a Load error was caused by a missing file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
