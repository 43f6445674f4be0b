// Package schederr holds the failure kinds shared by the scheduling engine.
//
// Every error returned by the engine wraps exactly one of the sentinel kinds,
// so callers branch with errors.Is and print the message as-is.
package schederr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks a malformed or contradictory network definition.
	ErrConfiguration = errors.New("configuration error")
	// ErrCycle marks a precedence cycle reachable from the start activity.
	ErrCycle = errors.New("cycle detected")
	// ErrCapacity marks an enumeration that outgrew its configured ceiling.
	ErrCapacity = errors.New("capacity exceeded")
	// ErrSequencing marks execution events that are out of order or repeat a day.
	ErrSequencing = errors.New("sequencing error")
)

// Error wraps one of the sentinel kinds with a message naming the offender.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Configf builds an ErrConfiguration error.
func Configf(format string, args ...any) error {
	return &Error{Kind: ErrConfiguration, Msg: fmt.Sprintf(format, args...)}
}

// Capacityf builds an ErrCapacity error.
func Capacityf(format string, args ...any) error {
	return &Error{Kind: ErrCapacity, Msg: fmt.Sprintf(format, args...)}
}

// Sequencingf builds an ErrSequencing error.
func Sequencingf(format string, args ...any) error {
	return &Error{Kind: ErrSequencing, Msg: fmt.Sprintf(format, args...)}
}

// Cycle builds an ErrCycle error from the repeated segment of a walk.
func Cycle(segment []string) error {
	msg := "cycle"
	if len(segment) > 0 {
		msg = "cycle: " + strings.Join(segment, " -> ")
	}
	return &Error{Kind: ErrCycle, Msg: msg}
}
