package scheduler

import (
	"strings"

	"github.com/vango-dev/fibre/internal/errors"
)

// Policy decides what Render does while another render is in flight.
type Policy uint8

const (
	PolicySupersede Policy = iota // Abandon the in-flight render
	PolicyReject                  // Fail the new render
	PolicyQueue                   // Run the new render after the current one
)

// String returns the string representation of the Policy.
func (p Policy) String() string {
	switch p {
	case PolicySupersede:
		return "supersede"
	case PolicyReject:
		return "reject"
	case PolicyQueue:
		return "queue"
	default:
		return "unknown"
	}
}

// ParsePolicy parses "supersede", "reject" or "queue".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "supersede":
		return PolicySupersede, nil
	case "reject":
		return PolicyReject, nil
	case "queue":
		return PolicyQueue, nil
	default:
		return 0, errors.New(errors.CodeConfigScheduler).
			WithDetailf("unknown render policy %q", s).
			WithSuggestion(`Use "supersede", "reject" or "queue"`)
	}
}
