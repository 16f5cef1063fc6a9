// Command rvsim is the simulator stage of the toolchain: it loads the hex
// stream rvasm produced (plus the original source, to recover labels and
// the data image per spec.md §2) and either runs the program directly to
// completion or drops into the interactive debugger (spec.md §4.7).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/arcrv/rv64i-toolchain/config"
	"github.com/arcrv/rv64i-toolchain/debugger"
	"github.com/arcrv/rv64i-toolchain/isa"
	"github.com/arcrv/rv64i-toolchain/loader"
	"github.com/arcrv/rv64i-toolchain/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Start in CLI debugger mode")
		tuiMode     = flag.Bool("tui", false, "Start in TUI debugger mode")
		maxCycles   = flag.Uint64("max-cycles", 0, "Maximum cycles before halt (0 = use config default)")
		a0Value     = flag.Int64("a0", 0, "Seed register a0 before running (used for scenario scripting, e.g. factorial input)")
		configPath  = flag.String("config", "", "Config file path (default: platform config dir)")
		verboseMode = flag.Bool("verbose", false, "Verbose output (direct-run mode only)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("rvsim %s (%s)\n", Version, Commit)
		os.Exit(0)
	}
	if *showHelp || flag.NArg() < 2 {
		printHelp()
		if *showHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	hexPath := flag.Arg(0)
	sourcePath := flag.Arg(1)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	machine := vm.NewVM()
	machine.CallStack = vm.NewCallStack()
	if *maxCycles > 0 {
		machine.CycleLimit = *maxCycles
	} else {
		machine.CycleLimit = cfg.Execution.MaxCycles
	}

	sourceLines, err := loader.Load(machine, hexPath, sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	machine.Regs.Write(isa.MustResolve("a0"), uint64(*a0Value))

	switch {
	case *tuiMode:
		d := debugger.NewDebugger(machine, sourceLines)
		t := debugger.NewTUI(d)
		if err := t.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			os.Exit(1)
		}

	case *debugMode:
		d := debugger.NewDebugger(machine, sourceLines)
		if err := debugger.RunCLI(d, os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Debugger error: %v\n", err)
			os.Exit(1)
		}

	default:
		if err := machine.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Execution error: %v\n", err)
			fmt.Fprintf(os.Stderr, "%s\n", machine.DumpState())
			os.Exit(1)
		}
		if *verboseMode {
			fmt.Println(machine.DumpState())
			fmt.Print(machine.Regs.Dump())
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func printHelp() {
	fmt.Printf(`rvsim %s - RV64I simulator

Usage: rvsim [options] <input.hex> <input.s>

The original source file is required alongside the hex so the simulator
can rebuild the label table and source-line map.

Options:
  -debug           Start in CLI debugger mode (run, step, regs, mem, break, ...)
  -tui             Start in TUI debugger mode
  -a0 N            Seed register a0 before running
  -max-cycles N    Maximum cycles before halt (0 = use config default)
  -config FILE     Config file path (default: platform config dir)
  -verbose         Print final register dump on clean exit (direct-run mode only)
  -version         Show version information
  -help            Show this help message
`, Version)
}
