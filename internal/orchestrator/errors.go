package orchestrator

import (
	"fmt"
	"strings"
)

// DeadlockError indicates the plan cannot make progress: steps remain
// unfinished but none of them has all dependencies completed. This
// covers both dependency cycles and steps stranded behind a failed
// dependency.
type DeadlockError struct {
	// Blocked lists the ids of the unfinished steps, in plan order.
	Blocked []string
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("plan deadlocked: %d steps cannot run: %s",
		len(e.Blocked), strings.Join(e.Blocked, ", "))
}

// MaxIterationsError indicates the iterative planning loop hit its
// configured ceiling without the planner declaring completion.
type MaxIterationsError struct {
	// Limit is the configured maximum number of iterations.
	Limit int
}

func (e *MaxIterationsError) Error() string {
	return fmt.Sprintf("iterative planning exceeded %d iterations without completing", e.Limit)
}
