package main

import (
	"flag"
	"fmt"
	"os"

	"tinyjvm/internal/logger"
	"tinyjvm/internal/runner"
	"tinyjvm/pkg/color"

	"github.com/charmbracelet/log"
)

// Main entry point for the tinyjvm interpreter.
func main() {
	options := runner.Runner{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode (disassembly and debug logging)")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.BoolVar(&options.CheckBounds, "b", false, "Fault on out-of-range local or array access")

	flag.Parse()
	args := flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] <class file>\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) == 0 {
		log.Fatal("No class file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	options.ClassFile = args[0]

	err := options.Run()
	if err != nil {
		log.Fatal("Execution failed", "error", err)
	}
}
