// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package pileup

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
)

// BaseFreqOpts describes the column layout of a base-frequency table.
//
// A row always starts with the position and always contains the A, C, G, T
// and gap counts, in that order:
//   position, [reference base], A, C, G, T, gap, [N]
type BaseFreqOpts struct {
	// Separator is the field delimiter.  Zero means ','.
	Separator rune
	// RefColumn is true if the second column holds the mapping-reference base.
	RefColumn bool
	// NCountColumn is true if the last column holds the N count.
	NCountColumn bool
}

// DefaultBaseFreqOpts matches tables produced by shiver's AnalysePileup.
var DefaultBaseFreqOpts = BaseFreqOpts{
	Separator:    ',',
	RefColumn:    true,
	NCountColumn: true,
}

// NumFields returns the number of fields every row must have.
func (o *BaseFreqOpts) NumFields() int {
	n := 1 + NBaseEnum
	if o.RefColumn {
		n++
	}
	if o.NCountColumn {
		n++
	}
	return n
}

// ReadBaseFreq reads the base-frequency table at path.  Compressed input is
// detected and decompressed.  The first line is a header and is skipped.
//
// Any malformed row aborts the read; the error names the path and the 1-based
// line number, and no rows are returned.
func ReadBaseFreq(ctx context.Context, path string, opts BaseFreqOpts) (bf *BaseFreq, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return nil, errors.E(err, "couldn't open base frequency file", path)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	reader, _ := compress.NewReader(in.Reader(ctx))
	defer func() {
		if e := reader.Close(); e != nil && err == nil {
			err = e
		}
	}()
	if bf, err = ParseBaseFreq(reader, path, opts); err != nil {
		return nil, err
	}
	log.Debug.Printf("%s: read %d positions", path, len(bf.Rows))
	return bf, nil
}

// quoteMask stands in for '"' while the csv reader tokenizes a table.
const quoteMask = '\x00'

// tableReader passes a table through to the csv reader with quotes masked,
// since the format has no quoting and a quoted field must keep its raw text.
// It also counts lines, which lets blank lines be reported: the csv reader
// skips them.
type tableReader struct {
	r       io.Reader
	lines   int
	partial bool
}

func (t *tableReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	for i, c := range p[:n] {
		switch c {
		case '"':
			p[i] = quoteMask
		case '\n':
			t.lines++
		}
	}
	if n > 0 {
		t.partial = p[n-1] != '\n'
	}
	return n, err
}

// numLines returns the number of lines read so far, counting an unterminated
// last line.
func (t *tableReader) numLines() int {
	if t.partial {
		return t.lines + 1
	}
	return t.lines
}

func rowError(path string, line int, err error) error {
	return errors.E(errors.Invalid, fmt.Sprintf("%s:%d: %v", path, line, err))
}

// ParseBaseFreq parses a base-frequency table from r.  path is only used to
// label errors.
//
// Every line after the header must be a row with the expected number of
// fields.  Blank lines and quoted fields are errors.
func ParseBaseFreq(r io.Reader, path string, opts BaseFreqOpts) (*BaseFreq, error) {
	if opts.Separator == 0 {
		opts.Separator = ','
	}
	in := &tableReader{r: r}
	scanner := tsv.NewReader(bufio.NewReaderSize(in, 64<<10))
	scanner.Comma = opts.Separator
	// Field counts are checked below so that the error carries the line.
	scanner.FieldsPerRecord = -1

	bf := &BaseFreq{Path: path, HasRef: opts.RefColumn}
	emptyRow := fmt.Errorf("row is empty; expected %d fields", opts.NumFields())
	prevLine := 0
	for {
		fields, err := scanner.Reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.E(errors.Invalid, err, path)
		}
		line, _ := scanner.Reader.FieldPos(0)
		if line > prevLine+1 {
			return nil, rowError(path, prevLine+1, emptyRow)
		}
		prevLine = line
		if line == 1 {
			continue
		}
		var rec PositionRecord
		if err := parseRow(fields, &opts, &rec); err != nil {
			return nil, rowError(path, line, err)
		}
		bf.Rows = append(bf.Rows, rec)
	}
	if in.numLines() > prevLine {
		return nil, rowError(path, prevLine+1, emptyRow)
	}
	return bf, nil
}

func parseRow(fields []string, opts *BaseFreqOpts, rec *PositionRecord) error {
	for i, f := range fields {
		if strings.IndexByte(f, quoteMask) >= 0 {
			fields[i] = strings.ReplaceAll(f, string(quoteMask), `"`)
		}
	}
	if n := opts.NumFields(); len(fields) != n {
		return fmt.Errorf("row contains %d fields; expected %d", len(fields), n)
	}
	counts := fields[1:]
	if opts.RefColumn {
		refBase := fields[1]
		if len(refBase) != 1 {
			return fmt.Errorf("reference base is %q; one character only was expected", refBase)
		}
		rec.RefBase = refBase[0]
		counts = fields[2:]
	}
	for b := range rec.Counts {
		n, err := parseCount(counts[b])
		if err != nil {
			return err
		}
		rec.Counts[b] = n
	}
	if opts.NCountColumn {
		n, err := parseCount(counts[NBaseEnum])
		if err != nil {
			return err
		}
		rec.NCount = n
	}
	return nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("could not understand base count %q as an integer", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative base count %d", n)
	}
	return n, nil
}
