// Command rvasm is the assembler stage of the toolchain: it reads a labeled
// RV64I assembly source file and writes the encoded hex stream the
// simulator (rvsim) consumes (spec.md §2, "the assembler runs C4 ... writes
// C5's output hex to an artifact").
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arcrv/rv64i-toolchain/encoder"
	"github.com/arcrv/rv64i-toolchain/parser"
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
		outPath     = flag.String("o", "", "Output hex file (default: input with .hex extension, \"-\" for stdout)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("rvasm %s (%s)\n", Version, Commit)
		os.Exit(0)
	}
	if *showHelp || flag.NArg() == 0 {
		printHelp()
		if *showHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	srcPath := flag.Arg(0)
	if _, err := os.Stat(srcPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: file not found: %s\n", srcPath)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Assembling %s\n", srcPath)
	}

	program, err := parser.ParseFile(srcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Assembly failed:\n%v\n", err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Parsed %d instructions, %d data directives, %d labels\n",
			len(program.Instructions), len(program.Directives), len(program.SymbolTable.All()))
	}

	var lines []string
	for _, inst := range program.Instructions {
		word, err := encoder.Encode(inst, inst.Address, program.SymbolTable)
		if err != nil {
			fmt.Fprintf(os.Stderr, "line %d: %v (%q)\n", inst.Line, err, strings.TrimSpace(inst.RawLine))
			os.Exit(1)
		}
		lines = append(lines, fmt.Sprintf("%08x", word))
	}

	dest := *outPath
	if dest == "" {
		dest = defaultOutputPath(srcPath)
	}

	if err := writeHex(dest, lines); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Wrote %d words to %s\n", len(lines), dest)
	}
}

func defaultOutputPath(srcPath string) string {
	ext := filepath.Ext(srcPath)
	if ext == "" {
		return srcPath + ".hex"
	}
	return strings.TrimSuffix(srcPath, ext) + ".hex"
}

func writeHex(dest string, lines []string) error {
	if dest == "-" {
		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		for _, l := range lines {
			fmt.Fprintln(w, l)
		}
		return nil
	}

	f, err := os.Create(dest) // #nosec G304 -- user-specified output path
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	return w.Flush()
}

func printHelp() {
	fmt.Printf(`rvasm %s - RV64I assembler

Usage: rvasm [options] <input.s>

Options:
  -o FILE       Output hex file (default: input with .hex extension)
  -o -          Write to stdout
  -verbose      Enable verbose output
  -version      Show version information
  -help         Show this help message

Every error is reported with a 1-based source line number and the
offending text; the file is rejected (non-zero exit) on any error.
`, Version)
}
