// Package toolchain shells out to an installed NASM assembler and GNU
// linker to turn emitted assembly into a runnable ELF64 executable, and
// runs the result. Neither step is reimplemented in Go: the compile
// subcommand is a thin, inheriting-stdio wrapper around two external
// commands, matching the original tool's own build()/execute() shape.
package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Build assembles the file base+".asm" with nasm and links the
// resulting object base+".o" into base using ld. Both commands
// inherit this process's stdout/stderr so assembler and linker
// diagnostics reach the user unmodified. A non-nil error names which
// step failed and wraps the underlying *exec.ExitError when available.
func Build(ctx context.Context, base string) error {
	asmFile := base + ".asm"
	objFile := base + ".o"

	nasm := exec.CommandContext(ctx, "nasm", "-felf64", asmFile)
	nasm.Stdout = os.Stdout
	nasm.Stderr = os.Stderr
	if err := nasm.Run(); err != nil {
		return fmt.Errorf("nasm: %w", err)
	}

	ld := exec.CommandContext(ctx, "ld", "-o", base, objFile)
	ld.Stdout = os.Stdout
	ld.Stderr = os.Stderr
	if err := ld.Run(); err != nil {
		return fmt.Errorf("ld: %w", err)
	}

	return nil
}

// Run executes the freshly built executable at base (relative to the
// current directory, hence the "./" prefix), inheriting stdio so its
// own DUMP output and exit behavior are visible to the caller.
func Run(ctx context.Context, base string) error {
	cmd := exec.CommandContext(ctx, "./"+base)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", base, err)
	}
	return nil
}
