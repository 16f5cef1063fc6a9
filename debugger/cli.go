package debugger

import (
	"bufio"
	"fmt"
	"io"
)

// RunCLI drives a Debugger from an interactive REPL, reading commands from
// in and writing prompts/output to out, until "exit" or EOF — the CLI front
// end the teacher's debugger/debugger.go pairs with its TUI, here reduced to
// spec.md §4.7's command set.
func RunCLI(d *Debugger, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "(rvsim) ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()

		err := d.ExecuteCommand(line)
		if output := d.GetOutput(); output != "" {
			fmt.Fprint(out, output)
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}

		if isExitCommand(line) {
			return nil
		}
	}
}

func isExitCommand(line string) bool {
	switch line {
	case "exit", "quit", "q":
		return true
	default:
		return false
	}
}
