// package formatter renders track listings and outcomes for the CLI
package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/requeue/internal/models"
	"github.com/desertthunder/requeue/internal/shared"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954")).Bold(true).MarginBottom(1)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// RecentTracksList renders recently played tracks as a numbered list,
// newest first, with artist, title, album, and duration.
func RecentTracksList(tracks []models.Track) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Recently played (%d tracks)", len(tracks))))
	b.WriteString("\n")

	for i, track := range tracks {
		line := fmt.Sprintf("%2d. %s - %s", i+1, track.Artist, track.Title)
		if track.Album != "" {
			line += dimStyle.Render(fmt.Sprintf(" (%s)", track.Album))
		}
		if track.Duration > 0 {
			line += dimStyle.Render(fmt.Sprintf(" [%s]", shared.FormatDuration(track.Duration)))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// OutcomeBanner renders a terminal outcome as a single styled line.
func OutcomeBanner(outcome *models.Outcome) string {
	if outcome.Kind == models.OutcomeSuccess {
		return okStyle.Render("✓ " + outcome.Message)
	}
	return errStyle.Render("✗ " + outcome.Message)
}

// PlaylistSummary renders a created playlist handle for display.
func PlaylistSummary(handle *models.PlaylistHandle, tracks int) string {
	return fmt.Sprintf("%s %s", titleStyle.Render(handle.Name), dimStyle.Render(fmt.Sprintf("(ID: %s, %d tracks)", handle.ID, tracks)))
}
