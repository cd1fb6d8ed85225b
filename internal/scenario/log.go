package scenario

import (
	"fmt"
	"strings"
)

// Entry is one recorded event during a headless scenario run.
type Entry struct {
	Step     int
	Subject  string  // label e.g. "B0", "BALL", or "--" for scene-wide events
	Category string  // cluster, shadow, deadzone, trajectory, sweep, scene
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[S=004] --   trajectory collision       block by B1 at t=0.538
func (e Entry) String() string {
	return fmt.Sprintf("[S=%03d] %-4s %-10s %-16s %s",
		e.Step, e.Subject, e.Category, e.Key, e.Value)
}

// Log collects structured events from a scenario run. It is unbounded and
// machine-readable, unlike the board's on-screen EventLog.
type Log struct {
	entries []Entry
	verbose bool
}

// NewLog creates a Log. If verbose is true, per-polygon entries are recorded
// as well.
func NewLog(verbose bool) *Log {
	return &Log{verbose: verbose}
}

// Add records a new entry.
func (l *Log) Add(step int, subject, category, key, value string, numVal float64) {
	l.entries = append(l.entries, Entry{
		Step:     step,
		Subject:  subject,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (l *Log) AddVerbose(step int, subject, category, key, value string, numVal float64) {
	if !l.verbose {
		return
	}
	l.Add(step, subject, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (l *Log) Entries() []Entry {
	return l.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l *Log) Filter(category, key string) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterSubject returns entries for a specific subject label.
func (l *Log) FilterSubject(label string) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.Subject == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterStepRange returns entries within [from, to] inclusive.
func (l *Log) FilterStepRange(from, to int) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.Step >= from && e.Step <= to {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (l *Log) CountCategory(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (l *Log) LastOf(category, key string) (Entry, bool) {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (l *Log) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (l *Log) Format() string {
	return formatEntries(l.entries)
}

// FormatRange returns a log string filtered to a step range.
func (l *Log) FormatRange(from, to int) string {
	return formatEntries(l.FilterStepRange(from, to))
}

func formatEntries(entries []Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
