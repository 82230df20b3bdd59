//go:build !windows

package console

// IsRunningFromConsole is always true outside Windows.
func IsRunningFromConsole() bool {
	return true
}

// SetupConsoleHandler is a no-op outside Windows, where os.Interrupt is
// delivered normally.
func SetupConsoleHandler(shutdown chan struct{}) func() {
	return func() {}
}
