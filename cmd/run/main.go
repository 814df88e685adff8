package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/function-runtime/engine"
)

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to function wasm file")
		inputFile   = flag.String("input", "", "Path to input JSON file (- for stdin)")
		outputFile  = flag.String("output", "", "Path to write output JSON (default stdout)")
		msgpackIn   = flag.Bool("msgpack", false, "Treat input as msgpack instead of JSON")
		list        = flag.Bool("list", false, "Show detected revision and imports, then exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose engine logging")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -wasm <file.wasm> -input <input.json> [-output out.json]")
		fmt.Fprintln(os.Stderr, "       run -wasm <file.wasm> -list")
		fmt.Fprintln(os.Stderr, "       run -wasm <file.wasm> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		engine.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*wasmFile, *inputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*wasmFile, *inputFile, *outputFile, *msgpackIn, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(wasmFile, inputFile, outputFile string, msgpackIn, listOnly bool) error {
	ctx := context.Background()

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	eng, err := engine.New(ctx)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer eng.Close(ctx)

	fn, err := eng.LoadFunction(ctx, data)
	if err != nil {
		return fmt.Errorf("load function: %w", err)
	}
	defer fn.Close(ctx)

	if listOnly {
		fmt.Printf("Function: %s\n", wasmFile)
		fmt.Printf("Revision: %d\n", fn.Revision())
		fmt.Printf("\nImports:\n")
		for _, imp := range fn.Imports() {
			fmt.Printf("  %s\n", imp)
		}
		return nil
	}

	if inputFile == "" {
		return fmt.Errorf("missing -input (use - for stdin)")
	}
	var input []byte
	if inputFile == "-" {
		input, err = io.ReadAll(os.Stdin)
	} else {
		input, err = os.ReadFile(inputFile)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var res *engine.Result
	if msgpackIn {
		res, err = fn.InvokeMsgpack(ctx, input)
	} else {
		res, err = fn.Invoke(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("invoke: %w", err)
	}

	for _, line := range res.Logs {
		fmt.Fprintln(os.Stderr, line)
	}
	if len(res.Stderr) > 0 {
		os.Stderr.Write(res.Stderr)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, res.Output, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	fmt.Printf("%s\n", res.Output)
	return nil
}
