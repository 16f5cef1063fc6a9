package debugger

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is the text user interface front end, a structural trim of the
// teacher's debugger/tui.go down to these panels: registers, call stack,
// breakpoints, command output, and a command line. There is no separate
// source or memory panel; the current line and "mem" dumps appear in the
// output panel.
// Both this and the CLI front end (RunCLI) drive the same Debugger core.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	RegisterView    *tview.TextView
	StackView       *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField
}

// NewTUI builds the panel layout and wires the command input to the
// debugger's command core.
func NewTUI(d *Debugger) *TUI {
	t := &TUI{
		Debugger: d,
		App:      tview.NewApplication(),
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.StackView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.StackView.SetBorder(true).SetTitle(" Call Stack ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleInput)
}

func (t *TUI) buildLayout() {
	rightPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 0, 2, false).
		AddItem(t.StackView, 0, 1, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.OutputView, 0, 2, false).
		AddItem(rightPanel, 0, 1, false)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.App.SetRoot(layout, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			t.execute("run")
			return nil
		case tcell.KeyF11:
			t.execute("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		}
		return event
	})
}

func (t *TUI) handleInput(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd == "" {
		return
	}
	t.execute(cmd)
	t.CommandInput.SetText("")
}

func (t *TUI) execute(cmd string) {
	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()

	if output != "" {
		fmt.Fprint(t.OutputView, output)
	}
	if err != nil {
		fmt.Fprintf(t.OutputView, "[red]error:[white] %v\n", err)
	}
	t.OutputView.ScrollToEnd()
	t.refresh()
}

func (t *TUI) refresh() {
	t.RegisterView.SetText(t.Debugger.VM.Regs.Dump())

	t.StackView.Clear()
	frames := t.Debugger.VM.CallStack.Frames()
	for i := len(frames) - 1; i >= 0; i-- {
		fmt.Fprintf(t.StackView, "%s (line %d)\n", frames[i].FunctionName, frames[i].Line)
	}

	t.BreakpointsView.Clear()
	lines := t.Debugger.BreakpointLines()
	sort.Ints(lines)
	for _, line := range lines {
		fmt.Fprintf(t.BreakpointsView, "line %d\n", line)
	}

	t.App.Draw()
}

// Run starts the TUI event loop. It blocks until the user quits.
func (t *TUI) Run() error {
	t.refresh()
	return t.App.SetFocus(t.CommandInput).Run()
}
