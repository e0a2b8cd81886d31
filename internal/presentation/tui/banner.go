package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown when a call panel starts.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Indigo-to-rose gradient, line by line.
	s1 := termenv.String("  ____  _ _       _     _ _").Foreground(p.Color("#818cf8"))
	s2 := termenv.String(" |  _ \\(_) |_ ___| |__ | (_)_ __   ___").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(" | |_) | | __/ __| '_ \\| | | '_ \\ / _ \\").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(" |  __/| | || (__| | | | | | | | |  __/").Foreground(p.Color("#e879f9"))
	s5 := termenv.String(" |_|   |_|\\__\\___|_| |_|_|_|_| |_|\\___|").Foreground(p.Color("#f472b6"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
