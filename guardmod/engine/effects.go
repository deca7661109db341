package engine

import (
	"github.com/chathaven/warden/guardmod/strikes"
)

type CounterRef struct {
	Name string
	Val  string
}

type CounterDistinctRef struct {
	Name   string
	Bucket string
	Val    string
}

// Mutable container for the side effects of rule execution on one event.
// Collected while rules run, persisted in bulk afterwards.
type Effects struct {
	// At most one violation per message: the first matching rule wins and
	// rule dispatch stops.
	Violation *strikes.Violation
	// Counters to increment once the event is fully processed.
	CounterIncrements []CounterRef
	// Same, for "distinct value" counters.
	CounterDistinctIncrements []CounterDistinctRef
	// Private flags to attach to the account.
	AccountFlags []string
}

func (e *Effects) RecordViolation(v strikes.Violation) {
	if e.Violation != nil {
		return
	}
	e.Violation = &v
}

// Enqueues the named counter to be incremented at the end of all rule
// processing. Will automatically increment for all time periods.
func (e *Effects) Increment(name, val string) {
	e.CounterIncrements = append(e.CounterIncrements, CounterRef{Name: name, Val: val})
}

// Enqueues the named "distinct value" counter based on the supplied string
// value to be incremented at the end of all rule processing.
func (e *Effects) IncrementDistinct(name, bucket, val string) {
	e.CounterDistinctIncrements = append(e.CounterDistinctIncrements, CounterDistinctRef{Name: name, Bucket: bucket, Val: val})
}

// Enqueues the provided flag (string value) to be attached to the account at
// the end of rule processing.
func (e *Effects) AddAccountFlag(val string) {
	e.AccountFlags = append(e.AccountFlags, val)
}
