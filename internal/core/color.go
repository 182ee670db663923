package core

// Color is a foreground color for a screen cell.
// The platform maps each value to an ANSI 256-color code.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorDarkGray // floor tiles, cone shading
)

// AlertColor picks the meter color for an alert level in [0,1].
func AlertColor(level float64) Color {
	switch {
	case level >= 0.75:
		return ColorBrightRed
	case level >= 0.4:
		return ColorOrange
	case level > 0:
		return ColorYellow
	default:
		return ColorGreen
	}
}
