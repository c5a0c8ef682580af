package outwriter

import (
	"os"

	"github.com/huangsam/devevent/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableTitleWidth calculates the width available to the title column
// based on terminal width. The location column gets the same budget.
func GetMaxTableTitleWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Date + Time + Slug with borders/padding
	baseWidth := 60

	available := (termWidth - baseWidth) / 2
	if available < 12 {
		return 12
	}
	if available > 50 {
		return 50
	}
	return available
}
