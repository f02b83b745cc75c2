package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Base terminal colors.
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
)

// Keyfall palette.
const (
	ColorLetter    = ColorBrightCyan   // Approaching letter
	ColorRising    = ColorBrightYellow // Rising letter
	ColorDanger    = ColorBrightRed    // Rising letter near the top edge
	ColorMeteorite = ColorOrange
	ColorShot      = ColorBrightMagenta // Boss projectile
	ColorBoss      = ColorRed
	ColorBossHead  = ColorBrightRed
	ColorAbsorbed  = ColorGray
	ColorShip      = ColorBrightWhite
	ColorField     = ColorBlue
	ColorPopup     = ColorBrightGreen
	ColorHUD       = ColorWhite
)
