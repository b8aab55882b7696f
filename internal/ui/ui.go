// Package ui holds the terminal styles shared by the CLI commands.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// RenderAccent highlights identifiers and headings.
func RenderAccent(s string) string { return accentStyle.Render(s) }

// RenderPass marks success output.
func RenderPass(s string) string { return passStyle.Render(s) }

// RenderWarn marks warnings.
func RenderWarn(s string) string { return warnStyle.Render(s) }

// RenderError marks failures.
func RenderError(s string) string { return errorStyle.Render(s) }

// RenderDim de-emphasizes secondary detail.
func RenderDim(s string) string { return dimStyle.Render(s) }
