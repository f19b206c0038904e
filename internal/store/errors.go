package store

import (
	"errors"
	"fmt"
)

// Op names the store operation that failed.
type Op string

const (
	// OpConnect is the first connection attempt. Fatal to an ingest run.
	OpConnect Op = "connect"

	// OpProbe is a duplicate lookup.
	OpProbe Op = "probe"

	// OpInsert is a record append.
	OpInsert Op = "insert"
)

// Error wraps a driver error with the operation and table it came from.
// Error() carries the driver's diagnostic text.
type Error struct {
	Op    Op
	Table string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConnectError returns true if err is a failed first connection.
// Uses errors.As to handle wrapped errors.
func IsConnectError(err error) bool {
	return opOf(err) == OpConnect
}

// IsProbeError returns true if err is a failed duplicate lookup.
func IsProbeError(err error) bool {
	return opOf(err) == OpProbe
}

// IsInsertError returns true if err is a failed append.
func IsInsertError(err error) bool {
	return opOf(err) == OpInsert
}

func opOf(err error) Op {
	var se *Error
	if errors.As(err, &se) {
		return se.Op
	}
	return ""
}
