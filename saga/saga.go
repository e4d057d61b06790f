// Package saga runs a short ordered sequence of remote steps where a
// failure partway through must undo the side effects of the steps that
// already succeeded. It exists for the upload-then-create and
// update-then-cleanup sequences; there is no persistence or resumption.
package saga

import (
	"context"
	"fmt"
	"log"
)

// Step is one remote action and, optionally, the action that undoes it.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
	// Compensate undoes Run's side effect. Nil for steps with nothing
	// to undo (reads, the final step of a sequence).
	Compensate func(ctx context.Context) error
}

// Error reports which step failed and whether any compensations ran.
type Error struct {
	Step        string
	Cause       error
	Compensated int // number of compensations that executed
}

func (e *Error) Error() string {
	return fmt.Sprintf("saga step %q: %v", e.Step, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Run executes steps in order. When step n fails, the compensations of
// steps n-1..1 run in reverse order, each exactly once. Compensation
// failures are logged and do not mask the original cause.
func Run(ctx context.Context, steps []Step) error {
	for i, step := range steps {
		if err := step.Run(ctx); err != nil {
			compensated := 0
			for j := i - 1; j >= 0; j-- {
				if steps[j].Compensate == nil {
					continue
				}
				if cerr := steps[j].Compensate(ctx); cerr != nil {
					log.Printf("saga: compensation %q failed: %v", steps[j].Name, cerr)
				}
				compensated++
			}
			return &Error{Step: step.Name, Cause: err, Compensated: compensated}
		}
	}
	return nil
}
