package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dalali/dalali-cli/internal/config"
	"github.com/dalali/dalali-cli/internal/tui"
)

func main() {
	baseDir := flag.String("dir", "", "base directory for the .dalali folder (default: home)")
	flag.Parse()

	dir := *baseDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			// No resolvable home: fall back to the working directory.
			home = "."
		}
		dir = home
	}

	if err := config.Init(dir); err != nil {
		fmt.Fprintf(os.Stderr, "dalali: %v\n", err)
		os.Exit(1)
	}

	app, err := tui.NewApp(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dalali: %v\n", err)
		os.Exit(1)
	}

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "dalali: %v\n", err)
		os.Exit(1)
	}
}
