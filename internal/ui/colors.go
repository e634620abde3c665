package ui

// Color helpers return the escape code of a role in the active theme, or
// the empty string when colors are disabled.

func ColorPrimary() string { return GetCurrentTheme().Primary }
func ColorDim() string     { return GetCurrentTheme().Secondary }
func ColorGreen() string   { return GetCurrentTheme().Success }
func ColorYellow() string  { return GetCurrentTheme().Warning }
func ColorRed() string     { return GetCurrentTheme().Error }
func ColorBold() string    { return GetCurrentTheme().Bold }
func ColorReset() string   { return GetCurrentTheme().Reset }
