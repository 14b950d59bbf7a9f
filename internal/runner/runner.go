package runner

import (
	"fmt"
	"io"
	"os"

	"tinyjvm/pkg/classfile"
	"tinyjvm/pkg/color"
	"tinyjvm/pkg/heap"
	"tinyjvm/pkg/jvm"

	"github.com/charmbracelet/log"
)

// The entry method every class file is expected to declare. The descriptor
// encodes main()'s signature: it takes a String[] and returns void.
const (
	mainName       = "main"
	mainDescriptor = "([Ljava/lang/String;)V"
)

type Runner struct {
	Help        bool   // Show help message
	Verbose     bool   // Enable verbose output
	NoColor     bool   // Disable colored output
	CheckBounds bool   // Fault on out-of-range local/array access
	ClassFile   string // Path to the class file
	Out         io.Writer
}

// Run parses the class file, locates main, and interprets it to completion.
func (opts *Runner) Run() error {
	log.Info("Loading class file", "file", opts.ClassFile)

	f, err := os.Open(opts.ClassFile)
	if err != nil {
		return fmt.Errorf("opening class file: %w", err)
	}
	defer f.Close()

	class, err := classfile.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing class file: %w", err)
	}

	log.Debug("Parsed class file",
		"constants", len(class.ConstPool), "methods", len(class.Methods))

	entry, err := class.MethodByName(mainName, mainDescriptor)
	if err != nil {
		return fmt.Errorf("locating entry method: %w", err)
	}

	if opts.Verbose {
		fmt.Println(color.GreenText("\n=== Disassembly ==="))
		for _, m := range class.Methods {
			fmt.Printf("%s%s  %s\n",
				color.CyanText(m.Name),
				color.GrayText(m.Descriptor),
				color.YellowText(fmt.Sprintf("stack=%d locals=%d", m.MaxStack, m.MaxLocals)))
			for _, line := range jvm.Disassemble(m.Code) {
				fmt.Println(color.GrayText(line))
			}
		}
		fmt.Println(color.GreenText("\n=== Program Output ==="))
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	in := jvm.New(class, heap.New(),
		jvm.WithWriter(out),
		jvm.WithBoundsChecks(opts.CheckBounds))

	// locals[0] would hold the String[] args reference, but argument objects
	// are unsupported, so every slot starts at zero.
	locals := make([]int32, entry.MaxLocals)

	if res := in.Execute(entry, locals); res.HasValue {
		return fmt.Errorf("entry method returned a value: %d", res.Value)
	}

	return nil
}
