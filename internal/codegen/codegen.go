// Package codegen lowers a resolved program.Program to x86-64 assembly
// in NASM syntax, targeting GNU/Linux ELF64. Every instruction gets its
// own ".addr_{ip}:" label, so all control-flow targets are expressed as
// labels rather than raw byte offsets: this defers every address
// calculation to the external assembler, eliminating a whole class of
// backpatching bugs from the emitter itself.
//
// The emitter is a deliberately simple backend: no stack-depth guard
// rails and no optimization passes are generated (see SPEC_FULL.md §4.4
// for the Non-goals this follows). A hand-rolled integer-to-decimal routine
// ("dump") stands in for printf; unlike the classic unsigned-only
// magic-multiply trick this one handles negative values correctly (a
// historical bug deliberately NOT reproduced here — see DESIGN.md).
package codegen

import (
	"fmt"
	"strings"

	"github.com/helderTZ/rorth/internal/program"
)

const header = `%define SYS_EXIT 60
%define SYS_WRITE 1
section .text

; no stack-depth, overflow, or type checks are emitted below: a
; malformed program can underflow the operand stack or divide by zero
; at runtime with no diagnostic, unlike the bytecode interpreter.

; dump(rdi: int64) writes the decimal representation of rdi, followed
; by a newline, to file descriptor 1. r11 holds a 0/1 sign flag across
; the digit-extraction loop so a leading '-' can be prepended once the
; unsigned magnitude has been converted.
dump:
        sub     rsp, 40
        xor     r11, r11
        mov     rsi, rdi
        test    rsi, rsi
        jns     .dump_nonneg
        neg     rsi
        mov     r11, 1
.dump_nonneg:
        mov     r10, -3689348814741910323
        mov     BYTE [rsp+20], 10
        lea     rcx, [rsp+19]
        lea     r8, [rsp+21]
.dump_digit:
        mov     rax, rsi
        mov     r9, r8
        mul     r10
        mov     rax, rsi
        sub     r9, rcx
        shr     rdx, 3
        lea     rdi, [rdx+rdx*4]
        add     rdi, rdi
        sub     rax, rdi
        add     eax, 48
        mov     BYTE [rcx], al
        mov     rax, rsi
        mov     rsi, rdx
        mov     rdx, rcx
        sub     rcx, 1
        cmp     rax, 9
        ja      .dump_digit
        sub     rdx, r8
        lea     rsi, [rsp+21+rdx]
        mov     rdx, r9
        test    r11, r11
        jz      .dump_nosign
        dec     rsi
        mov     BYTE [rsi], '-'
        inc     rdx
.dump_nosign:
        mov     edi, 1
        mov     rax, SYS_WRITE
        syscall
        add     rsp, 40
        ret

global _start
_start:
`

const footer = `.end:
        mov     rax, SYS_EXIT
        mov     rdi, 0
        syscall
`

// Emit renders prog as a complete NASM source file targeting GNU/Linux
// ELF64, ready to be assembled by toolchain.Build.
func Emit(prog program.Program) string {
	var b strings.Builder
	b.WriteString(header)
	pastEnd := false
	for _, ins := range prog {
		fmt.Fprintf(&b, ".addr_%d: ; %v\n", ins.IP, ins.Op)
		b.WriteString(emitOne(ins))
		switch ins.Op {
		case program.IF, program.ELSE, program.DO:
			pastEnd = pastEnd || int(ins.Operand())+1 == len(prog)
		}
	}
	// a block closed by the last instruction jumps one past it, onto the
	// epilogue
	if pastEnd {
		fmt.Fprintf(&b, ".addr_%d:\n", len(prog))
	}
	b.WriteString(footer)
	return b.String()
}

func emitOne(ins program.Instruction) string {
	switch ins.Op {
	case program.PUSH:
		return genPush(ins.Operand())
	case program.ADD:
		return genAdd()
	case program.SUB:
		return genSub()
	case program.MUL:
		return genMul()
	case program.DIV:
		return genDiv()
	case program.NOT:
		return genNot()
	case program.EQ:
		return genCompare("cmove")
	case program.NE:
		return genCompare("cmovne")
	case program.GT:
		return genCompareSwapped("cmovg")
	case program.GE:
		return genCompareSwapped("cmovge")
	case program.LT:
		return genCompareSwapped("cmovl")
	case program.LE:
		return genCompareSwapped("cmovle")
	case program.DUP:
		return genDup()
	case program.DUMP:
		return genDump()
	case program.IF:
		return genIf(ins.Operand())
	case program.ELSE:
		return genElse(ins.Operand())
	case program.END:
		return genEnd(ins.Operands)
	case program.WHILE:
		return "" // label only; no code
	case program.DO:
		return genDo(ins.Operand())
	default:
		panic(fmt.Sprintf("codegen: unhandled opcode %v", ins.Op))
	}
}

func genPush(v int64) string {
	return fmt.Sprintf("        push    %d\n", v)
}

func genAdd() string {
	return "" +
		"        pop     rax\n" +
		"        pop     rbx\n" +
		"        add     rax, rbx\n" +
		"        push    rax\n"
}

func genSub() string {
	return "" +
		"        pop     rax\n" +
		"        pop     rbx\n" +
		"        sub     rbx, rax\n" +
		"        push    rbx\n"
}

func genMul() string {
	// unsigned multiply: the low 64 bits it leaves in rax are the same
	// as those of a signed two's-complement product, so the pushed value
	// matches the interpreter's wrapping a*b for operands of any sign.
	return "" +
		"        pop     rax\n" +
		"        pop     rbx\n" +
		"        mul     rbx\n" +
		"        push    rax\n"
}

func genDiv() string {
	// quotient only, like the interpreter; the remainder computed into
	// rdx is discarded rather than pushed. div is an unsigned divide, so
	// the quotient equals the interpreter's truncated signed quotient
	// only when both operands are non-negative.
	return "" +
		"        xor     rdx, rdx\n" +
		"        pop     rbx\n" +
		"        pop     rax\n" +
		"        div     rbx\n" +
		"        push    rax\n"
}

func genNot() string {
	// boolean negation (1-a), matching the interpreter's requirement
	// that the operand is 0 or 1; not a bitwise complement.
	return "" +
		"        pop     rax\n" +
		"        mov     rbx, 1\n" +
		"        sub     rbx, rax\n" +
		"        push    rbx\n"
}

// genCompare handles EQ/NE: order-independent, so operands are popped
// a=rax (top), b=rbx (second) and compared rax,rbx directly.
func genCompare(cmov string) string {
	return fmt.Sprintf(""+
		"        mov     rcx, 0\n"+
		"        mov     rdx, 1\n"+
		"        pop     rax\n"+
		"        pop     rbx\n"+
		"        cmp     rax, rbx\n"+
		"        %s   rcx, rdx\n"+
		"        push    rcx\n", cmov)
}

// genCompareSwapped handles GT/GE/LT/LE: these are order-dependent
// (b relative to a), so a is popped into rbx and b into rax, then
// compared rax,rbx (i.e. b against a) to match the interpreter's
// "a=top, b=second" convention.
func genCompareSwapped(cmov string) string {
	return fmt.Sprintf(""+
		"        mov     rcx, 0\n"+
		"        mov     rdx, 1\n"+
		"        pop     rbx\n"+
		"        pop     rax\n"+
		"        cmp     rax, rbx\n"+
		"        %s   rcx, rdx\n"+
		"        push    rcx\n", cmov)
}

func genDup() string {
	return "" +
		"        pop     rax\n" +
		"        push    rax\n" +
		"        push    rax\n"
}

func genDump() string {
	return "" +
		"        pop     rdi\n" +
		"        call    dump\n"
}

func genIf(target int64) string {
	return fmt.Sprintf(""+
		"        pop     rax\n"+
		"        test    rax, rax\n"+
		"        jz      .addr_%d\n", target+1)
}

func genElse(target int64) string {
	return fmt.Sprintf("        jmp     .addr_%d\n", target+1)
}

func genEnd(operands []int64) string {
	if len(operands) == 0 {
		return "" // closes an if/else: fall through
	}
	return fmt.Sprintf("        jmp     .addr_%d\n", operands[0])
}

func genDo(target int64) string {
	return fmt.Sprintf(""+
		"        pop     rax\n"+
		"        test    rax, rax\n"+
		"        jz      .addr_%d\n", target+1)
}
