// Package cmd command line
package cmd

import (
	"fmt"
	"os"

	"github.com/Laisky/supabuilder-api/cmd/tui"

	errors "github.com/Laisky/errors/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var tuiCMD = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive chat TUI",
	Long: `Launch an interactive Terminal User Interface (TUI) chat client
for a running supabuilder-api server.

Type a request like "build an app like Notion" or "clone
https://github.com/acme/widgets" and the server replies with its plan.

The interface uses the Charm Bubble Tea framework for a beautiful,
responsive terminal experience.

Example:
  go run main.go tui --server http://localhost:8080

Keyboard shortcuts:
  Enter       Send message
  Esc         Quit`,
	Args: gcmd.NoExtraArgs,
	Run: func(cmd *cobra.Command, args []string) {
		serverURL, err := cmd.Flags().GetString("server")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading server flag: %v\n", err)
			os.Exit(1)
		}

		if err := runTUI(serverURL); err != nil {
			fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	tuiCMD.Flags().String("server", "http://localhost:8080", "supabuilder-api server URL")
	rootCMD.AddCommand(tuiCMD)
}

// runTUI starts the interactive chat client and returns any start/run error.
func runTUI(serverURL string) error {
	model := tui.NewModel(serverURL)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return errors.WithStack(err)
}
