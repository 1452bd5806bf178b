package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Completed bool   // true for c<n>
	Num       int    // 1-based position as listed, 0 for a literal ID
	ID        string // literal task ID when Num is 0
}

// IsLiteral reports whether the reference names a task ID directly.
func (r TaskRef) IsLiteral() bool {
	return r.Num == 0
}

func (r TaskRef) String() string {
	switch {
	case r.IsLiteral():
		return r.ID
	case r.Completed:
		return fmt.Sprintf("c%d", r.Num)
	default:
		return strconv.Itoa(r.Num)
	}
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the task reference in args[0].
//
// Parsing rules:
//  1. all digits → n-th To-Do task as listed
//  2. c<digits> → n-th completed task as listed
//  3. anything else non-blank → literal task ID
//
// A position of 0 is rejected; extra arguments are an error.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := strings.TrimSpace(args[0])

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil || num < 1 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}

	if len(arg) > 1 && arg[0] == 'c' && isAllDigits(arg[1:]) {
		num, err := strconv.Atoi(arg[1:])
		if err != nil || num < 1 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Completed: true, Num: num}, nil
	}

	return TaskRef{ID: arg}, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
