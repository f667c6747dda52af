package fasta

import (
	"bufio"
	"io"

	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

// DefaultLineWidth is the number of bases per line written by default.
const DefaultLineWidth = 60

type indexEntry struct {
	name      string
	length    int64
	offset    int64
	lineBase  int64
	lineWidth int64
}

// Writer writes FASTA records, wrapping sequences at a fixed line width.  It
// remembers where each record was written so that a .fai index can be
// produced without re-reading the output.
type Writer struct {
	w         *bufio.Writer
	lineWidth int
	off       int64
	index     []indexEntry
}

// NewWriter creates a Writer.  lineWidth <= 0 writes each sequence on a
// single line.
func NewWriter(w io.Writer, lineWidth int) *Writer {
	return &Writer{w: bufio.NewWriter(w), lineWidth: lineWidth}
}

func (w *Writer) write(p []byte) error {
	n, err := w.w.Write(p)
	w.off += int64(n)
	return err
}

// Write appends one record.
func (w *Writer) Write(name string, seq []byte) error {
	if err := w.write([]byte(">" + name + "\n")); err != nil {
		return errors.Wrapf(err, "writing FASTA header for %s", name)
	}
	lineBase := len(seq)
	if w.lineWidth > 0 && lineBase > w.lineWidth {
		lineBase = w.lineWidth
	}
	ent := indexEntry{
		name:     name,
		length:   int64(len(seq)),
		offset:   w.off,
		lineBase: int64(lineBase),
	}
	if lineBase > 0 {
		ent.lineWidth = int64(lineBase) + 1
	}
	w.index = append(w.index, ent)
	for len(seq) > 0 {
		n := lineBase
		if n > len(seq) {
			n = len(seq)
		}
		if err := w.write(seq[:n]); err != nil {
			return errors.Wrapf(err, "writing FASTA sequence for %s", name)
		}
		if err := w.write([]byte{'\n'}); err != nil {
			return errors.Wrapf(err, "writing FASTA sequence for %s", name)
		}
		seq = seq[n:]
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// WriteIndex writes a .fai index of the records written so far.
//
// The index format is defined by "samtool faidx"
// (http://www.htslib.org/doc/faidx.html): one tab-separated line per
// sequence, "<name>\t<length>\t<offset>\t<bases per line>\t<bytes per line>".
func (w *Writer) WriteIndex(out io.Writer) error {
	tsvOut := tsv.NewWriter(out)
	for _, ent := range w.index {
		tsvOut.WriteString(ent.name)
		tsvOut.WriteInt64(ent.length)
		tsvOut.WriteInt64(ent.offset)
		tsvOut.WriteInt64(ent.lineBase)
		tsvOut.WriteInt64(ent.lineWidth)
		if err := tsvOut.EndLine(); err != nil {
			return err
		}
	}
	return tsvOut.Flush()
}
