package process

import "testing"

// Only a PID that cannot exist is safe here: 0 targets the test's own process
// group. Real cleanup is covered by the browser integration tests.
func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}
