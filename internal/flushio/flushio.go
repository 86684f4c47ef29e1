// Package flushio implements the output-sink capability the interpreter
// and bytecode dumper write through: "accepts a UTF-8 byte stream and
// reports I/O failure," buffered where the underlying writer needs it
// and tee-able to more than one destination at once (used by -b/
// --bytecode, which must write the same dump to stdout and to a file).
package flushio

import (
	"bufio"
	"io"
)

// WriteFlusher is a flush-able io.Writer.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

// NewWriteFlusher wraps w so it can be flushed. In-memory buffers and
// writers that already implement WriteFlusher are returned unwrapped;
// anything else is wrapped in a bufio.Writer.
func NewWriteFlusher(w io.Writer) WriteFlusher {
	if wf, ok := w.(WriteFlusher); ok {
		return wf
	}

	// in-memory buffers, as implemented by types like bytes.Buffer and
	// strings.Builder, never need flushing
	type buffer interface {
		io.Writer
		Len() int
		Grow(n int)
		Reset()
	}
	if _, isBuffer := w.(buffer); isBuffer {
		return nopFlusher{w}
	}

	return bufio.NewWriter(w)
}

type nopFlusher struct{ io.Writer }

func (nopFlusher) Flush() error { return nil }

// Tee combines any number of WriteFlushers into one that writes to and
// flushes all of them, in order. Write stops at the first error; Flush
// flushes every one of them and returns the first error.
func Tee(wfs ...WriteFlusher) WriteFlusher {
	switch flat := flatten(nil, wfs...); len(flat) {
	case 0:
		return nopFlusher{io.Discard}
	case 1:
		return flat[0]
	default:
		return teeWriteFlusher(flat)
	}
}

type teeWriteFlusher []WriteFlusher

func (wfs teeWriteFlusher) Write(p []byte) (n int, err error) {
	for _, wf := range wfs {
		n, err = wf.Write(p)
		if err != nil {
			return n, err
		}
		if n != len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

func (wfs teeWriteFlusher) Flush() (err error) {
	for _, wf := range wfs {
		if ferr := wf.Flush(); err == nil {
			err = ferr
		}
	}
	return err
}

func flatten(all teeWriteFlusher, some ...WriteFlusher) teeWriteFlusher {
	for _, one := range some {
		if many, ok := one.(teeWriteFlusher); ok {
			all = append(all, many...)
		} else if one != nil {
			all = append(all, one)
		}
	}
	return all
}
