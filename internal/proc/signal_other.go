//go:build !unix && !windows

package proc

import (
	"errors"
	"fmt"
)

func signalProcess(pid int, _ bool) error {
	return fmt.Errorf("terminate pid %d: %w", pid, errors.ErrUnsupported)
}
