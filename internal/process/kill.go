// Package process terminates the headless browser and its renderer children.
package process

import (
	"errors"
	"fmt"
)

// ErrInvalidPID is returned for PIDs that would target the caller's own group.
var ErrInvalidPID = errors.New("invalid process id")

// KillTree kills pid and every process it spawned.
// Failures to signal are ignored: the caller's launcher cleanup is the fallback.
func KillTree(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	killTree(pid)
	return nil
}
