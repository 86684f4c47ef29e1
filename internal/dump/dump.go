// Package dump renders a resolved program.Program as human-readable
// bytecode listings, one line per instruction, for the -b/--bytecode
// CLI flag and for diagnostics when a build step fails.
package dump

import (
	"fmt"
	"io"

	"github.com/helderTZ/rorth/internal/program"
)

// Write renders prog to w as a two-line header followed by
// "ip  OPCODE  operands" lines, one per instruction, e.g.:
//
//	Bytecode:
//	[ip | opcode  | operands]
//	  0   PUSH    [2]
//	  1   PUSH    [3]
//	  2   ADD     []
//	  3   DUMP    []
func Write(w io.Writer, prog program.Program) error {
	if _, err := fmt.Fprintln(w, "Bytecode:\n[ip | opcode  | operands]"); err != nil {
		return err
	}
	for _, ins := range prog {
		if _, err := fmt.Fprintf(w, "%3d   %-7v %v\n", ins.IP, ins.Op, ins.Operands); err != nil {
			return err
		}
	}
	return nil
}
