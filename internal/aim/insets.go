package aim

// Insets is the window chrome around the client area in windowed mode.
type Insets struct {
	TitleBar float64
	Shadow   float64
}

// InsetsFor returns the chrome insets for a runtime.GOOS value.
func InsetsFor(goos string) Insets {
	if goos == "windows" {
		return Insets{TitleBar: 32, Shadow: 10}
	}
	return Insets{TitleBar: 2, Shadow: 2}
}
