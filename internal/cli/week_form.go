package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/workweek/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// workweekHuhTheme returns a custom huh theme using the Gruvbox palette.
func workweekHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// weekForm asks for an ISO year and week, prefilled with the given values.
func weekForm(year, week *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("ISO year").
				Placeholder(*year).
				Value(year).
				Validate(validateYear),
			huh.NewInput().
				Title("ISO week (1-53)").
				Description("Weeks start on Monday; week 1 holds the year's first Thursday.").
				Placeholder(*week).
				Value(week).
				Validate(validateWeekNumber),
		),
	).WithTheme(workweekHuhTheme()).WithShowHelp(false)
}

// pickWeek runs weekForm starting from the ISO week of now.
func pickWeek(now time.Time) (int, int, error) {
	y, w := now.ISOWeek()
	year, week := strconv.Itoa(y), strconv.Itoa(w)
	if err := weekForm(&year, &week).Run(); err != nil {
		return 0, 0, err
	}
	return parsePickedWeek(year, week)
}

func parsePickedWeek(year, week string) (int, int, error) {
	if err := validateYear(year); err != nil {
		return 0, 0, err
	}
	if err := validateWeekNumber(week); err != nil {
		return 0, 0, err
	}
	y, _ := strconv.Atoi(year)
	w, _ := strconv.Atoi(week)
	return y, w, nil
}

func validateYear(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > 9999 {
		return fmt.Errorf("enter a year between 1 and 9999")
	}
	return nil
}

// validateWeekNumber accepts 1..53; whether week 53 exists in the chosen
// year is checked when the report is built.
func validateWeekNumber(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > 53 {
		return fmt.Errorf("enter a week between 1 and 53")
	}
	return nil
}
