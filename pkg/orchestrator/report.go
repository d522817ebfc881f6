package orchestrator

import (
	"bytes"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/types"
)

// Report records what a run did
type Report struct {
	StartedAt  time.Time     `yaml:"started_at"`
	FinishedAt time.Time     `yaml:"finished_at"`
	Groups     []GroupReport `yaml:"groups"`

	// Cancelled is set when the context ended the run between groups
	Cancelled bool `yaml:"cancelled,omitempty"`

	// Aborted holds the error that ended the run early
	Aborted string `yaml:"aborted,omitempty"`
}

// GroupReport is the result for one requested group
type GroupReport struct {
	Name    string                   `yaml:"name"`
	Unknown bool                     `yaml:"unknown,omitempty"`
	Units   []types.RemovalOutcome   `yaml:"units,omitempty"`
	Result  types.GroupRemovalResult `yaml:"result"`

	// ReportedErrors counts error lines from the app removal layer
	ReportedErrors int `yaml:"reported_errors,omitempty"`

	PostRemoval *ProcedureReport `yaml:"post_removal,omitempty"`

	// Err is set for unknown groups
	Err error `yaml:"-"`
}

// ProcedureReport describes the post-removal procedure of a group
type ProcedureReport struct {
	Ran   bool                   `yaml:"ran"`
	Steps []types.RemovalOutcome `yaml:"steps,omitempty"`
}

// Totals counts unit outcomes across every group, procedure steps excluded
func (r *Report) Totals() (removed, skipped, failed int) {
	for _, g := range r.Groups {
		for _, u := range g.Units {
			switch u.Kind {
			case types.OutcomeRemoved:
				removed++
			case types.OutcomeSkipped:
				skipped++
			case types.OutcomeFailed:
				failed++
			}
		}
	}
	return removed, skipped, failed
}

// HasFailures is true when any unit or procedure step failed or a requested
// group was unknown
func (r *Report) HasFailures() bool {
	if r.Aborted != "" {
		return true
	}
	for _, g := range r.Groups {
		if g.Unknown || g.Result.HadError {
			return true
		}
		if g.PostRemoval == nil {
			continue
		}
		for _, s := range g.PostRemoval.Steps {
			if s.IsFailed() {
				return true
			}
		}
	}
	return false
}

// YAML encodes the report
func (r *Report) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot encode report")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot encode report")
	}
	return buf.Bytes(), nil
}

// Save writes the report as YAML to path
func (r *Report) Save(fsys types.FS, path string) error {
	data, err := r.YAML()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dir)
		}
	}
	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write report %s", path)
	}
	return nil
}
