package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))             // green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))             // red
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))            // blue
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))            // cyan
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))           // light grey
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")) // purple
)

// Status symbols
const (
	symbolSuccess = "✓"
	symbolError   = "✗"
	symbolPending = "→"
	symbolInfo    = "•"
)

func FSuccess(text string) string { return successStyle.Render(symbolSuccess + " " + text) }
func FError(text string) string   { return errorStyle.Render(symbolError + " " + text) }
func FPending(text string) string { return pendingStyle.Render(symbolPending + " " + text) }
func FInfo(text string) string    { return infoStyle.Render(symbolInfo + " " + text) }
func FDetail(text string) string  { return detailStyle.Render(text) }
func FHeader(text string) string  { return headerStyle.Render(text) }

func PrintSuccess(text string) { fmt.Println(FSuccess(text)) }
func PrintError(text string)   { fmt.Println(FError(text)) }
func PrintInfo(text string)    { fmt.Println(FInfo(text)) }

// summaryTable renders the final per-download outcome
func summaryTable(rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(detailStyle).
		Headers("Title", "Status", "Location").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Align(lipgloss.Center).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.String()
}
