// Command rorth is a compiler and interpreter for a small stack-based
// language: "interpret" runs a source file directly over the bytecode
// interpreter, "compile" lowers it to x86-64 NASM assembly and drives
// an external nasm/ld toolchain to produce (and optionally run) a
// native executable.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/helderTZ/rorth/internal/codegen"
	"github.com/helderTZ/rorth/internal/dump"
	"github.com/helderTZ/rorth/internal/fileinput"
	"github.com/helderTZ/rorth/internal/flushio"
	"github.com/helderTZ/rorth/internal/interp"
	"github.com/helderTZ/rorth/internal/lexer"
	"github.com/helderTZ/rorth/internal/logio"
	"github.com/helderTZ/rorth/internal/parser"
	"github.com/helderTZ/rorth/internal/program"
	"github.com/helderTZ/rorth/internal/toolchain"
)

var log logio.Logger

// bytecode, when set by the global -b/--bytecode flag, tees a bytecode
// listing to stdout and to "<source>.bytecode" before execution, for
// either subcommand.
var bytecode bool

// trace, when set by the global -trace/--trace flag, enables the
// interpreter's per-instruction trace hook, logged at TRACE level.
var trace bool

func main() {
	flag.BoolVar(&bytecode, "b", false, "print a bytecode listing before running")
	flag.BoolVar(&bytecode, "bytecode", false, "print a bytecode listing before running")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&interpretCmd{}, "")
	subcommands.Register(&compileCmd{}, "")

	flag.Parse()

	log.SetOutput(os.Stderr)
	defer os.Exit(log.ExitCode())

	ctx := context.Background()
	subcommands.Execute(ctx)
}

// loadProgram reads, lexes, and parses path, reporting any failure
// through log and returning ok=false without a partial program.
func loadProgram(path string) (program.Program, bool) {
	src, err := fileinput.Read(path)
	if err != nil {
		log.ErrorIf(err)
		return nil, false
	}

	tokens := lexer.Lex(src.Text)

	prog, err := parser.Parse(src.Name, tokens)
	if err != nil {
		log.ErrorIf(err)
		return nil, false
	}

	if bytecode {
		sinks := []flushio.WriteFlusher{flushio.NewWriteFlusher(os.Stdout)}
		if f, err := os.Create(path + ".bytecode"); err != nil {
			log.Errorf("cannot create bytecode listing: %v", err)
		} else {
			defer f.Close()
			sinks = append(sinks, flushio.NewWriteFlusher(f))
		}

		out := flushio.Tee(sinks...)
		if err := dump.Write(out, prog); err != nil {
			log.ErrorIf(err)
		}
		out.Flush()
	}

	return prog, true
}

type interpretCmd struct{}

func (*interpretCmd) Name() string     { return "interpret" }
func (*interpretCmd) Synopsis() string { return "run a source file on the bytecode interpreter" }
func (*interpretCmd) Usage() string {
	return "interpret <file>:\n  execute a source file directly, without compiling it.\n"
}
func (*interpretCmd) SetFlags(*flag.FlagSet) {}

func (c *interpretCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		log.Errorf("interpret: expected exactly one source file")
		return subcommands.ExitFailure
	}

	prog, ok := loadProgram(f.Arg(0))
	if !ok {
		return subcommands.ExitFailure
	}

	in := interp.New(os.Stdout, interp.WithTrace(traceHook()))
	if err := in.Run(ctx, prog); err != nil {
		log.ErrorIf(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type compileCmd struct {
	run    bool
	output string
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "compile a source file to a native executable" }
func (*compileCmd) Usage() string {
	return "compile [-r] [-o output] <file>:\n" +
		"  emit NASM assembly for a source file, assemble and link it with\n" +
		"  nasm/ld, and optionally run the result.\n"
}

func (c *compileCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.run, "r", false, "run the executable after a successful build")
	f.BoolVar(&c.run, "run", false, "run the executable after a successful build")
	f.StringVar(&c.output, "o", "out", "output executable name")
	f.StringVar(&c.output, "output", "out", "output executable name")
}

func (c *compileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		log.Errorf("compile: expected exactly one source file")
		return subcommands.ExitFailure
	}

	prog, ok := loadProgram(f.Arg(0))
	if !ok {
		return subcommands.ExitFailure
	}

	asm := codegen.Emit(prog)
	asmFile := c.output + ".asm"
	if err := os.WriteFile(asmFile, []byte(asm), 0o644); err != nil {
		log.Errorf("cannot write %s: %v", asmFile, err)
		return subcommands.ExitFailure
	}

	if err := toolchain.Build(ctx, c.output); err != nil {
		log.ErrorIf(err)
		if dumpErr := dump.Write(os.Stderr, prog); dumpErr != nil {
			log.ErrorIf(dumpErr)
		}
		return subcommands.ExitFailure
	}

	if c.run {
		if err := toolchain.Run(ctx, c.output); err != nil {
			log.ErrorIf(err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

// traceHook returns nil unless -trace/--trace was given, keeping the
// interpreter's per-instruction trace hook off the hot path by
// default.
func traceHook() func(ip int, op program.Opcode, stack []int64) {
	if !trace {
		return nil
	}
	tracef := log.Leveledf("TRACE")
	return func(ip int, op program.Opcode, stack []int64) {
		tracef("@%d %v %v", ip, op, stack)
	}
}
