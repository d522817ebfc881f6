package sink

import (
	"strings"

	"github.com/arthur-debert/winslim/pkg/types"
)

// Level tags a recorded line
type Level string

const (
	LevelInfo   Level = "info"
	LevelWarn   Level = "warn"
	LevelError  Level = "error"
	LevelOutput Level = "output"
)

// Line is one recorded message
type Line struct {
	Level Level
	Text  string
}

// Recorder keeps every message in order. It is what tests assert against and
// what the report writer uses to keep a transcript.
type Recorder struct {
	Lines []Line

	// Next, when set, also receives every message.
	Next types.MessageSink
}

// NewRecorder returns an empty recorder, optionally teeing to next
func NewRecorder(next types.MessageSink) *Recorder {
	return &Recorder{Next: next}
}

func (r *Recorder) add(level Level, text string) {
	r.Lines = append(r.Lines, Line{Level: level, Text: text})
}

// Info implements types.MessageSink
func (r *Recorder) Info(msg string) {
	r.add(LevelInfo, msg)
	if r.Next != nil {
		r.Next.Info(msg)
	}
}

// Warn implements types.MessageSink
func (r *Recorder) Warn(msg string) {
	r.add(LevelWarn, msg)
	if r.Next != nil {
		r.Next.Warn(msg)
	}
}

// Error implements types.MessageSink
func (r *Recorder) Error(msg string) {
	r.add(LevelError, msg)
	if r.Next != nil {
		r.Next.Error(msg)
	}
}

// Output implements types.MessageSink
func (r *Recorder) Output(line string) {
	r.add(LevelOutput, line)
	if r.Next != nil {
		r.Next.Output(line)
	}
}

// Texts returns the recorded texts at the given level
func (r *Recorder) Texts(level Level) []string {
	var out []string
	for _, l := range r.Lines {
		if l.Level == level {
			out = append(out, l.Text)
		}
	}
	return out
}

// Contains reports whether any recorded line contains substr
func (r *Recorder) Contains(substr string) bool {
	for _, l := range r.Lines {
		if strings.Contains(l.Text, substr) {
			return true
		}
	}
	return false
}

// Count returns how many lines contain substr
func (r *Recorder) Count(substr string) int {
	n := 0
	for _, l := range r.Lines {
		if strings.Contains(l.Text, substr) {
			n++
		}
	}
	return n
}

var _ types.MessageSink = (*Recorder)(nil)
