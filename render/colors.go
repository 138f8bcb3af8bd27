package render

import "github.com/gdamore/tcell/v2"

var (
	RgbBackground   = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbWall         = tcell.NewRGBColor(180, 180, 180) // Light gray
	RgbOutside      = tcell.NewRGBColor(15, 15, 22)    // Darker than background
	RgbStatusBar    = tcell.NewRGBColor(255, 255, 255) // White
	RgbReadout      = tcell.NewRGBColor(255, 165, 0)   // Orange
	RgbBallFallback = tcell.NewRGBColor(100, 150, 255) // Normal Blue
)

var (
	StyleBackground = tcell.StyleDefault.Background(RgbBackground)
	StyleWall       = StyleBackground.Foreground(RgbWall)
	StyleOutside    = tcell.StyleDefault.Background(RgbOutside)
	StyleStatus     = StyleBackground.Foreground(RgbStatusBar)
	StyleReadout    = StyleBackground.Foreground(RgbReadout).Bold(true)
)

// TagColor resolves a body tag (a color name or #rrggbb) to a terminal color
func TagColor(tag string) tcell.Color {
	c := tcell.GetColor(tag)
	if c == tcell.ColorDefault {
		return RgbBallFallback
	}
	return c
}
