// Package backup persists the configuration of services before they are
// removed. Records are TOML files in the backup directory and are never
// deleted by winslim; restoring them is left to the operator.
package backup

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/logging"
	"github.com/arthur-debert/winslim/pkg/types"
)

// Record is one saved service configuration
type Record struct {
	CreatedAt time.Time           `toml:"created_at"`
	Service   types.ServiceConfig `toml:"service"`
}

// FileStore writes one record per backup into dir
type FileStore struct {
	fs       types.FS
	dir      string
	services types.ServiceManager
	now      func() time.Time
}

// NewFileStore creates a store reading configuration from services
func NewFileStore(fsys types.FS, dir string, services types.ServiceManager) *FileStore {
	return &FileStore{fs: fsys, dir: dir, services: services, now: time.Now}
}

// WithClock replaces the time source, for deterministic file names
func (s *FileStore) WithClock(now func() time.Time) *FileStore {
	s.now = now
	return s
}

// Dir returns the backup directory
func (s *FileStore) Dir() string { return s.dir }

// Backup implements types.BackupStore. It returns the service manager's
// NOT_FOUND error unchanged so callers can treat missing services as no-ops.
func (s *FileStore) Backup(ctx context.Context, service string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrBackup, "backup cancelled")
	}

	cfg, err := s.services.Config(service)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrNotFound) {
			return err
		}
		return errors.Wrapf(err, errors.ErrBackup, "cannot read configuration of %s", service)
	}
	if cfg.Name == "" {
		cfg.Name = service
	}

	record := Record{CreatedAt: s.now().UTC().Truncate(time.Second), Service: cfg}
	data, err := toml.Marshal(record)
	if err != nil {
		return errors.Wrapf(err, errors.ErrBackup, "cannot encode backup of %s", service)
	}

	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrBackup, "cannot create %s", s.dir)
	}

	path, err := s.freePath(service, record.CreatedAt)
	if err != nil {
		return err
	}
	if err := s.fs.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrBackup, "cannot write %s", path).WithDetail("service", service)
	}

	logger := logging.GetLogger("backup")
	logger.Info().Str("service", service).Str("path", path).Msg("Service backed up")
	return nil
}

// freePath never returns the path of an existing backup, older records are
// kept.
func (s *FileStore) freePath(service string, at time.Time) (string, error) {
	base := filepath.Join(s.dir, service+".toml")
	if _, err := s.fs.Stat(base); stderrors.Is(err, fs.ErrNotExist) {
		return base, nil
	}

	stamped := filepath.Join(s.dir, fmt.Sprintf("%s-%s.toml", service, at.Format("20060102T150405Z")))
	for i := 1; ; i++ {
		_, err := s.fs.Stat(stamped)
		if stderrors.Is(err, fs.ErrNotExist) {
			return stamped, nil
		}
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrBackup, "cannot check %s", stamped)
		}
		stamped = filepath.Join(s.dir, fmt.Sprintf("%s-%s-%d.toml", service, at.Format("20060102T150405Z"), i))
	}
}

// Load reads one record
func (s *FileStore) Load(path string) (Record, error) {
	var record Record
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return record, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
	}
	if err := toml.Unmarshal(data, &record); err != nil {
		return record, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", path)
	}
	return record, nil
}

// List returns the backup files in the store, sorted by name
func (s *FileStore) List() ([]string, error) {
	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", s.dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		files = append(files, filepath.Join(s.dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

var _ types.BackupStore = (*FileStore)(nil)
