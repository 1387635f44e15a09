package infra

import "os/exec"

// CommandRunner abstracts command execution for testing
type CommandRunner interface {
	Output(name string, args ...string) ([]byte, error)
}

// RealCommandRunner executes real system commands
type RealCommandRunner struct{}

// Output executes a command and returns its stdout
func (r *RealCommandRunner) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}
