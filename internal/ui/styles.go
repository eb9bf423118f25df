package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorWarn      = lipgloss.Color("214") // Orange
	colorError     = lipgloss.Color("196") // Red
)

// TabActive style for the selected feed tab.
var TabActive = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// TabInactive style for the other tabs.
var TabInactive = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// Navbar style for the top bar.
var Navbar = lipgloss.NewStyle().
	Background(lipgloss.Color("236"))

// Card style for the Byte card frame.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// CardTitle style for the Byte title.
var CardTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// CardSummary style for the Byte summary.
var CardSummary = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252"))

// KeyPoint style for key point bullets.
var KeyPoint = lipgloss.NewStyle().
	Foreground(lipgloss.Color("250"))

// PlatformBadge style for the platform label.
var PlatformBadge = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Background(lipgloss.Color("236")).
	Padding(0, 1).
	MarginRight(1)

// CreatorName style for the creator.
var CreatorName = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// Meta style for timestamps and industry.
var Meta = lipgloss.NewStyle().
	Foreground(colorSecondary)

// FollowingBadge marks a followed creator.
var FollowingBadge = lipgloss.NewStyle().
	Foreground(colorSuccess)

// PendingBadge marks a follow change awaiting the server.
var PendingBadge = lipgloss.NewStyle().
	Foreground(colorWarn).
	Italic(true)

// SavedBadge marks a saved Byte.
var SavedBadge = lipgloss.NewStyle().
	Foreground(colorHighlight)

// Sentiment styles keyed by sentiment value.
var Sentiment = map[string]lipgloss.Style{
	"positive": lipgloss.NewStyle().Foreground(colorSuccess),
	"negative": lipgloss.NewStyle().Foreground(colorError),
	"neutral":  lipgloss.NewStyle().Foreground(colorSecondary),
}

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true).
	Padding(0, 1)

// HelpStyle for help and empty-state text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// InputBar style for the category and search prompts.
var InputBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("240")).
	Padding(0, 1)

// InputPrompt style for the prompt label.
var InputPrompt = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// DetailHeader style for the profile and source pane headings.
var DetailHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	MarginBottom(1)

// NoticePanel style for the notification history overlay.
var NoticePanel = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(colorMuted).
	Padding(1, 2)

// Toast styles keyed by notice level.
var (
	ToastInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(colorPrimary).Padding(0, 1)
	ToastSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(colorSuccess).Padding(0, 1)
	ToastWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(colorWarn).Padding(0, 1)
	ToastError   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(colorError).Padding(0, 1)
)
