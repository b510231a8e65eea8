package tui

// Color constants for the tempo TUI theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Labels, project name
	ColorSecondaryText = "#B1B8C7" // Purple-tinted grey
	ColorDisabledText  = "#6D7383" // Missing values
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Logo, ids, active borders
	ColorAccentBright = "#A78BFA" // Clock digits, header
	ColorAccentGlow   = "#EAE6FF" // Shimmer peak

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
)
