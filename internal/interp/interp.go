// Package interp executes a resolved program.Program directly, without
// generating machine code. It is the reference semantics the code
// emitter is meant to match.
package interp

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/helderTZ/rorth/internal/flushio"
	"github.com/helderTZ/rorth/internal/panicerr"
	"github.com/helderTZ/rorth/internal/program"
)

// Option configures an Interpreter.
type Option interface{ apply(*Interpreter) }

type optionFunc func(*Interpreter)

func (f optionFunc) apply(in *Interpreter) { f(in) }

// WithTrace installs a callback invoked once per executed instruction,
// after the instruction runs, with its ip, opcode, and the resulting
// stack contents. Intended for a --trace CLI flag backed by
// internal/logio's leveled logger.
func WithTrace(fn func(ip int, op program.Opcode, stack []int64)) Option {
	return optionFunc(func(in *Interpreter) { in.trace = fn })
}

// Interpreter holds the operand stack and instruction pointer for one
// run of a Program. Its output sink is modeled as the capability
// "accepts a UTF-8 byte stream and reports I/O failure," so tests can
// bind a growable in-memory buffer instead of a real file or terminal.
type Interpreter struct {
	out   flushio.WriteFlusher
	trace func(ip int, op program.Opcode, stack []int64)

	prog  program.Program
	stack []int64
	ip    int
}

// New creates an Interpreter that writes DUMP output to out.
func New(out io.Writer, opts ...Option) *Interpreter {
	in := &Interpreter{out: flushio.NewWriteFlusher(out)}
	for _, opt := range opts {
		opt.apply(in)
	}
	return in
}

// RuntimeError reports a fatal condition raised while executing the
// instruction at IP.
type RuntimeError struct {
	IP      int
	Op      program.Opcode
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("@ip %d (%v): %s", e.IP, e.Op, e.Message)
}

// Run executes prog to completion (or until ctx is done), dispatching
// by opcode with an instruction pointer that starts at 0 and advances
// by one after every instruction unless the instruction itself sets it
// (the control-flow opcodes). The first fatal condition — an empty-stack
// pop, a non-boolean NOT operand, or a divide-by-zero — aborts the run
// and is returned as an error; ctx cancellation is reported as ctx.Err().
func (in *Interpreter) Run(ctx context.Context, prog program.Program) error {
	in.prog = prog
	in.stack = in.stack[:0]
	in.ip = 0

	err := panicerr.Recover("interp", func() error {
		return in.run(ctx)
	})
	if ferr := in.out.Flush(); err == nil {
		err = ferr
	}
	if rt, ok := asRuntimeError(err); ok {
		return rt
	}
	return err
}

func asRuntimeError(err error) (*RuntimeError, bool) {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if rt, ok := err.(*RuntimeError); ok {
			return rt, true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}

func (in *Interpreter) run(ctx context.Context) error {
	for in.ip < len(in.prog) {
		if err := ctx.Err(); err != nil {
			return err
		}
		in.step()
	}
	return nil
}

func (in *Interpreter) fatal(ins program.Instruction, mess string, args ...interface{}) {
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	panic(&RuntimeError{IP: ins.IP, Op: ins.Op, Message: mess})
}

func (in *Interpreter) push(v int64) {
	in.stack = append(in.stack, v)
}

// pop removes and returns the top of the stack, halting with a
// diagnostic naming ins' ip if the stack is empty.
func (in *Interpreter) pop(ins program.Instruction) int64 {
	n := len(in.stack)
	if n == 0 {
		in.fatal(ins, "pop from empty stack")
	}
	v := in.stack[n-1]
	in.stack = in.stack[:n-1]
	return v
}

func (in *Interpreter) step() {
	ins := in.prog[in.ip]

	switch ins.Op {
	case program.PUSH:
		in.push(ins.Operand())

	case program.ADD:
		a, b := in.pop(ins), in.pop(ins)
		in.push(a + b)
	case program.SUB:
		a, b := in.pop(ins), in.pop(ins)
		in.push(b - a)
	case program.MUL:
		a, b := in.pop(ins), in.pop(ins)
		in.push(a * b)
	case program.DIV:
		a, b := in.pop(ins), in.pop(ins)
		if a == 0 {
			in.fatal(ins, "division by zero")
		}
		in.push(b / a)

	case program.NOT:
		a := in.pop(ins)
		if a != 0 && a != 1 {
			in.fatal(ins, "expected a boolean on the stack, found %d", a)
		}
		in.push(1 - a)

	case program.EQ:
		a, b := in.pop(ins), in.pop(ins)
		in.push(boolInt(a == b))
	case program.NE:
		a, b := in.pop(ins), in.pop(ins)
		in.push(boolInt(a != b))
	case program.GT:
		a, b := in.pop(ins), in.pop(ins)
		in.push(boolInt(b > a))
	case program.GE:
		a, b := in.pop(ins), in.pop(ins)
		in.push(boolInt(b >= a))
	case program.LT:
		a, b := in.pop(ins), in.pop(ins)
		in.push(boolInt(b < a))
	case program.LE:
		a, b := in.pop(ins), in.pop(ins)
		in.push(boolInt(b <= a))

	case program.DUP:
		a := in.pop(ins)
		in.push(a)
		in.push(a)

	case program.DUMP:
		a := in.pop(ins)
		in.writeLine(strconv.FormatInt(a, 10))

	case program.IF:
		a := in.pop(ins)
		if a == 0 {
			in.ip = int(ins.Operand())
		}

	case program.ELSE:
		in.ip = int(ins.Operand())

	case program.END:
		if len(ins.Operands) == 1 {
			in.ip = int(ins.Operand())
		}

	case program.WHILE:
		// no-op

	case program.DO:
		a := in.pop(ins)
		if a == 0 {
			in.ip = int(ins.Operand())
		}

	default:
		in.fatal(ins, "unhandled opcode")
	}

	if in.trace != nil {
		in.trace(ins.IP, ins.Op, in.stack)
	}

	in.ip++
}

func (in *Interpreter) writeLine(s string) {
	if _, err := io.WriteString(in.out, s+"\n"); err != nil {
		panic(&RuntimeError{IP: in.ip, Op: program.DUMP, Message: err.Error()})
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
