package tui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// ShimmerConfig controls the highlight that sweeps across the timer header.
type ShimmerConfig struct {
	ReduceMotion bool          // render a static highlight instead
	Step         time.Duration // time between frames
	WidthRatio   float64       // highlight width as a share of the text
	Cycle        time.Duration // one sweep from left to right
	Pause        time.Duration // rest between sweeps
}

// DefaultShimmerConfig returns the header shimmer settings.
func DefaultShimmerConfig() ShimmerConfig {
	return ShimmerConfig{
		Step:       125 * time.Millisecond,
		WidthRatio: 0.25,
		Cycle:      1800 * time.Millisecond,
		Pause:      500 * time.Millisecond,
	}
}

// Shimmer is the position of the sweep. It advances one frame per Advance
// call so the caller's tick drives it.
type Shimmer struct {
	cfg        ShimmerConfig
	center     float64
	pausedFor  time.Duration
	paused     bool
	base, peak colorful.Color
}

// NewShimmer creates a shimmer parked just before the text.
func NewShimmer(cfg ShimmerConfig) *Shimmer {
	base, _ := colorful.Hex(ColorSecondaryText)
	peak, _ := colorful.Hex(ColorAccentGlow)
	return &Shimmer{cfg: cfg, base: base, peak: peak}
}

// Interval is how often Advance should be called.
func (s *Shimmer) Interval() time.Duration {
	if s.cfg.Step <= 0 {
		return DefaultShimmerConfig().Step
	}
	return s.cfg.Step
}

// Advance moves the sweep one frame across text of length n.
func (s *Shimmer) Advance(n int) {
	if s.cfg.ReduceMotion || n <= 0 {
		return
	}

	lead := float64(n) * s.cfg.WidthRatio
	if s.paused {
		s.pausedFor += s.Interval()
		if s.pausedFor >= s.cfg.Pause {
			s.paused = false
			s.pausedFor = 0
			s.center = -lead
		}
		return
	}

	frames := float64(s.cfg.Cycle) / float64(s.Interval())
	if frames < 1 {
		frames = 1
	}
	s.center += (float64(n) + 2*lead) / frames

	if end := float64(n) + lead; s.center >= end {
		s.center = end
		s.paused = true
	}
}

// Render colors text with the sweep at its current position. lipgloss
// degrades the colors on terminals without truecolor.
func (s *Shimmer) Render(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	if s.cfg.ReduceMotion {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(text)
	}

	sigma := math.Max(1, s.cfg.WidthRatio*float64(len(runes))/2)

	var b strings.Builder
	for i, r := range runes {
		dx := float64(i) - s.center
		w := math.Exp(-(dx * dx) / (2 * sigma * sigma))
		c := s.base.BlendRgb(s.peak, w).Clamped()
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}
