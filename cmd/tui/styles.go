// Package tui provides an interactive terminal chat client for supabuilder-api.
// It uses the Charm Bubble Tea framework to create a conversational interface.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the TUI based on modern design principles
var (
	// Primary colors
	primaryColor   = lipgloss.Color("#7C3AED") // Violet
	secondaryColor = lipgloss.Color("#10B981") // Emerald
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	successColor   = lipgloss.Color("#22C55E") // Green

	// Neutral colors
	fgColor     = lipgloss.Color("#CDD6F4") // Light foreground
	mutedColor  = lipgloss.Color("#6C7086") // Muted text
	borderColor = lipgloss.Color("#45475A") // Border
)

// headerStyle creates the header/banner style
var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(fgColor).
	Background(primaryColor).
	Padding(0, 2).
	MarginBottom(1)

// subtitleStyle creates the subtitle/description style
var subtitleStyle = lipgloss.NewStyle().
	Foreground(mutedColor).
	Italic(true)

// userStyle creates the style for user turns in the transcript
var userStyle = lipgloss.NewStyle().
	Foreground(secondaryColor).
	Bold(true)

// assistantStyle creates the style for assistant turns in the transcript
var assistantStyle = lipgloss.NewStyle().
	Foreground(fgColor)

// actionStyle creates the style for the action line under a reply
var actionStyle = lipgloss.NewStyle().
	Foreground(accentColor)

// helpStyle creates the style for help text at the bottom
var helpStyle = lipgloss.NewStyle().
	Foreground(mutedColor).
	MarginTop(1)

// boxStyle creates a bordered box style
var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(borderColor).
	Padding(1, 2)

// successStyle creates style for success messages
var successStyle = lipgloss.NewStyle().
	Foreground(successColor).
	Bold(true)

// errorStyle creates style for error messages
var errorStyle = lipgloss.NewStyle().
	Foreground(errorColor).
	Bold(true)

// inputLabelStyle creates the style for the prompt label
var inputLabelStyle = lipgloss.NewStyle().
	Foreground(secondaryColor).
	Bold(true)

// progressStyle creates the style for progress indicators
var progressStyle = lipgloss.NewStyle().
	Foreground(accentColor)

// GetHeaderStyle returns the header style
func GetHeaderStyle() lipgloss.Style {
	return headerStyle
}

// GetSubtitleStyle returns the subtitle style
func GetSubtitleStyle() lipgloss.Style {
	return subtitleStyle
}

// GetUserStyle returns the user transcript style
func GetUserStyle() lipgloss.Style {
	return userStyle
}

// GetAssistantStyle returns the assistant transcript style
func GetAssistantStyle() lipgloss.Style {
	return assistantStyle
}

// GetActionStyle returns the action line style
func GetActionStyle() lipgloss.Style {
	return actionStyle
}

// GetHelpStyle returns the help style
func GetHelpStyle() lipgloss.Style {
	return helpStyle
}

// GetBoxStyle returns the box style
func GetBoxStyle() lipgloss.Style {
	return boxStyle
}

// GetSuccessStyle returns the success style
func GetSuccessStyle() lipgloss.Style {
	return successStyle
}

// GetErrorStyle returns the error style
func GetErrorStyle() lipgloss.Style {
	return errorStyle
}

// GetInputLabelStyle returns the prompt label style
func GetInputLabelStyle() lipgloss.Style {
	return inputLabelStyle
}

// GetProgressStyle returns the progress style
func GetProgressStyle() lipgloss.Style {
	return progressStyle
}
