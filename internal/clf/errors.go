package clf

import (
	"errors"
	"fmt"
)

// Kind identifies which field rejected a line.
type Kind string

const (
	KindInvalidIPAddress  Kind = "INVALID_IP_ADDRESS"
	KindMalformedDateTime Kind = "MALFORMED_DATE_TIME"
	KindInvalidMethod     Kind = "INVALID_METHOD"
	KindInvalidStatus     Kind = "INVALID_STATUS"
	KindInvalidPageSize   Kind = "INVALID_PAGE_SIZE"
	KindMalformedReferer  Kind = "MALFORMED_REFERER"
	KindMalformedAgent    Kind = "MALFORMED_AGENT"
)

// ParseError is returned for every rejected line.
type ParseError struct {
	Kind   Kind
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// KindOf returns the Kind carried by err, or "" if err is not a ParseError.
func KindOf(err error) Kind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

func reject(kind Kind, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
