package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrTaskIDRequired indicates no task id was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseTaskID parses the task id from the first positional argument.
// Accepted forms are "7" and "#7"; ids are positive integers.
func ParseTaskID(args []string) (int, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return 0, ErrTaskIDRequired
	}

	raw := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")
	if !isAllDigits(raw) {
		return 0, fmt.Errorf("invalid task id: %s", args[0])
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id: %s", args[0])
	}
	return id, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
