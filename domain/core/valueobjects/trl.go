package valueobjects

import (
	"fmt"
	"strconv"
)

// TRL is a Technology Readiness Level. The zero value means "not assessed".
type TRL int

const (
	MinTRL TRL = 1
	MaxTRL TRL = 9
)

// NewTRL validates a readiness level; 0 is accepted as unknown.
func NewTRL(level int) (TRL, error) {
	if level == 0 {
		return 0, nil
	}
	if level < int(MinTRL) || level > int(MaxTRL) {
		return 0, fmt.Errorf("TRL must be between %d and %d, got %d", MinTRL, MaxTRL, level)
	}
	return TRL(level), nil
}

// Known reports whether a level was assessed.
func (t TRL) Known() bool {
	return t != 0
}

// String renders the level, or "N/A" when unknown.
func (t TRL) String() string {
	if !t.Known() {
		return "N/A"
	}
	return strconv.Itoa(int(t))
}
