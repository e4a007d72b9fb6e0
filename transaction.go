package cam

import (
	"errors"
	"fmt"
)

// Command is one atomic, reversible mutation of shared drawing state.
// Commands are validated, executed and (on failure of a later command)
// undone by the TransactionManager.
type Command interface {
	// Execute applies the mutation.
	Execute() error
	// Undo reverts a previously executed mutation.
	Undo() error
	// CanExecute reports whether the command is currently applicable.
	// Checked for every command before any command runs.
	CanExecute() bool
	// Description names the command for diagnostics and failure reports.
	Description() string
}

// ErrRollbackIncomplete wraps rollback failures: the transaction failed AND
// one or more undos failed while unwinding, so the drawing may be in a
// partially rolled back state. Distinct from a clean rollback, where only
// the original command error is returned.
var ErrRollbackIncomplete = errors.New("cam: rollback completed with errors")

// ErrNotExecutable is returned when up-front validation rejects a command.
var ErrNotExecutable = errors.New("cam: command cannot execute")

// TransactionManager applies command sequences atomically: all commands
// validate before any runs, execution is sequential, and any failure
// unwinds the already-executed prefix in reverse order.
//
// Atomicity here is about sequencing and rollback, not concurrency; the
// engine is single-threaded and the manager takes no locks.
type TransactionManager struct{}

// NewTransactionManager creates a transaction manager.
func NewTransactionManager() *TransactionManager {
	return &TransactionManager{}
}

// Run executes the commands as one transaction.
//
// Every command's CanExecute is checked before the first Execute, so a
// statically rejectable sequence never mutates anything. On an Execute
// failure the already-executed commands are undone in reverse; secondary
// errors raised by Undo are collected (not swallowed) and joined into an
// ErrRollbackIncomplete alongside the original failure.
func (tm *TransactionManager) Run(cmds []Command) error {
	for _, c := range cmds {
		if !c.CanExecute() {
			return fmt.Errorf("%w: %s", ErrNotExecutable, c.Description())
		}
	}

	for i, c := range cmds {
		err := c.Execute()
		if err == nil {
			continue
		}
		cause := fmt.Errorf("command %q failed: %w", c.Description(), err)
		Logger().Warn("transaction failed, rolling back",
			"command", c.Description(), "executed", i, "err", err)

		var undoErrs []error
		for j := i - 1; j >= 0; j-- {
			if undoErr := cmds[j].Undo(); undoErr != nil {
				undoErrs = append(undoErrs,
					fmt.Errorf("undo of %q failed: %w", cmds[j].Description(), undoErr))
			}
		}
		if len(undoErrs) > 0 {
			return errors.Join(append([]error{ErrRollbackIncomplete, cause}, undoErrs...)...)
		}
		return cause
	}
	return nil
}
