package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"jbcram/internal/domain"
	"jbcram/internal/storage"
)

// Lines of stderr or diff shown before the details pane truncates
const maxDetailLines = 200

// FailureViewer displays the failures of the last run in an interactive TUI
type FailureViewer struct {
	storage storage.Storage
}

// NewFailureViewer creates a new FailureViewer. Resolved marks are persisted through st.
func NewFailureViewer(st storage.Storage) *FailureViewer {
	return &FailureViewer{storage: st}
}

// View displays the report's failures. r toggles the resolved mark of the selected failure.
func (fv *FailureViewer) View(report *domain.RunReport) error {
	if len(report.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i := range report.Details {
		list.AddItem(listItemText(report.Details[i], i), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(false).
		SetScrollable(true)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsView, 0, 1, false)

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		headerView.SetText(fmt.Sprintf(
			" %s | %d failures, %d unresolved | ↑↓ navigate, [yellow]r[white] resolve, → details, ← back, Ctrl+C exit ",
			report.Meta.RunID, len(report.Details), countUnresolved(report.Details)))
	}

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= len(report.Details) {
			return
		}
		statsView.SetText(formatFailureStats(report.Details[index]))
		detailsView.SetText(formatFailureDetails(report.Details[index])).ScrollToBeginning()
	}

	var saveErr error
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() != 'r' && event.Rune() != 'R' {
				return event
			}
			index := list.GetCurrentItem()
			if index < 0 || index >= len(report.Details) {
				return nil
			}
			report.Details[index].Resolved = !report.Details[index].Resolved
			list.SetItemText(index, listItemText(report.Details[index], index), "")
			updateHeader()
			if err := fv.storage.SaveOutput(report); err != nil {
				saveErr = err
				app.Stop()
			}
			return nil
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})

	updateHeader()
	updateDetails()

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)

	if err := app.SetRoot(layout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("save resolved status: %w", saveErr)
	}
	return nil
}

func countUnresolved(failures []domain.TestFailure) int {
	n := 0
	for _, f := range failures {
		if !f.Resolved {
			n++
		}
	}
	return n
}

func listItemText(f domain.TestFailure, index int) string {
	label := fmt.Sprintf("%s (%s)", tview.Escape(f.TestName), f.Kind)
	if f.Resolved {
		return fmt.Sprintf("[gray]✓ %d. %s[white]", index+1, label)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, label)
}

// formatFailureStats renders the one-line header above the details pane
func formatFailureStats(f domain.TestFailure) string {
	path := f.SourcePath
	if path == "" {
		path = "unknown source"
	}
	return fmt.Sprintf("[cyan]source:[white] [yellow]%s[white]  [cyan]allocator:[white] [yellow]%s[white]\n",
		tview.Escape(path), f.Allocator)
}

// formatFailureDetails renders a failure with tview color tags. Captured text is escaped
// since C code is full of square brackets.
func formatFailureDetails(f domain.TestFailure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ %s[white]\n\n", tview.Escape(f.Message))

	if len(f.Diagnostics) > 0 {
		b.WriteString("[yellow]Diagnostics:[white]\n")
		for _, d := range f.Diagnostics {
			loc := ""
			if d.Line > 0 {
				loc = fmt.Sprintf(" %s:%d:%d", d.File, d.Line, d.Column)
				if d.File == "" {
					loc = fmt.Sprintf(" line %d:%d", d.Line, d.Column)
				}
			}
			fmt.Fprintf(&b, "  [red]%s[white] %s%s: %s\n", d.Severity, d.Category, loc, tview.Escape(d.Message))
		}
		b.WriteString("\n")
	}

	if len(f.Details) > 0 {
		if f.Kind == domain.FailureMismatch {
			b.WriteString("[yellow]Diff:[white]\n")
		} else {
			b.WriteString("[yellow]Output:[white]\n")
		}
		for i, line := range f.Details {
			if i == maxDetailLines {
				fmt.Fprintf(&b, "[gray]... and %d more lines[white]\n", len(f.Details)-maxDetailLines)
				break
			}
			fmt.Fprintf(&b, "%s%s[-:-:-]\n", diffTag(f.Kind, line), tview.Escape(line))
		}
	}

	return b.String()
}

func diffTag(kind domain.FailureKind, line string) string {
	if kind != domain.FailureMismatch {
		return ""
	}
	switch {
	case strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
		return "[white::b]"
	case strings.HasPrefix(line, "@@"):
		return "[cyan]"
	case strings.HasPrefix(line, "+"):
		return "[green]"
	case strings.HasPrefix(line, "-"):
		return "[red]"
	}
	return ""
}
