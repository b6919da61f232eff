package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color Palette - Monokai-inspired theme
var (
	ColorPrimary   = lipgloss.Color("#A6E22E") // Green
	ColorSecondary = lipgloss.Color("#66D9EF") // Cyan
	ColorAccent    = lipgloss.Color("#F92672") // Magenta/Pink
	ColorWarning   = lipgloss.Color("#FD971F") // Orange
	ColorError     = lipgloss.Color("#F92672") // Red/Pink
	ColorMuted     = lipgloss.Color("#75715E") // Gray
	ColorHighlight = lipgloss.Color("#E6DB74") // Yellow
	ColorWhite     = lipgloss.Color("#F8F8F2") // White
	ColorDark      = lipgloss.Color("#272822") // Dark background
)

// Base Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMuted)

	// Section header
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHighlight).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorMuted).
			MarginTop(1).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// File path style
	FilePathStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	// Destination path style
	DestStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	ArrowStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// Deleted file style
	DeleteStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Strikethrough(true)

	// Count/number style
	CountStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	// Summary box
	SummaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(1, 2).
			MarginTop(1)
)

// Icons
const (
	IconSuccess    = "✓"
	IconError      = "✗"
	IconWarning    = "⚠"
	IconInfo       = "ℹ"
	IconMovie      = "🎬"
	IconSubtitle   = "💬"
	IconFolder     = "📁"
	IconDelete     = "🗑️"
	IconSearch     = "🔍"
	IconUncheck    = "☐"
	IconArrowRight = "→"
	IconDot        = "•"
	IconClean      = "🧹"
	IconSkip       = "↷"
)

// Helper functions
func RenderSuccess(msg string) string {
	return SuccessStyle.Render(IconSuccess+" ") + msg
}

func RenderError(msg string) string {
	return ErrorStyle.Render(IconError+" ") + msg
}

func RenderWarning(msg string) string {
	return WarningStyle.Render(IconWarning+" ") + msg
}

func RenderInfo(msg string) string {
	return InfoStyle.Render(IconInfo+" ") + msg
}

// RenderFileMove renders a source → destination pair.
func RenderFileMove(from, to string) string {
	return FilePathStyle.Render(from) + " " +
		ArrowStyle.Render(IconArrowRight) + " " +
		DestStyle.Render(to)
}

func RenderFileDelete(name string) string {
	return DeleteStyle.Render(name)
}

func RenderSkip(name, reason string) string {
	return MutedStyle.Render(IconSkip+" "+name) + " " + MutedStyle.Render("("+reason+")")
}

func RenderCount(count int) string {
	return CountStyle.Render(fmt.Sprintf("%d", count))
}
