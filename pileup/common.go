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

// Package pileup contains the base alphabet and per-position count types
// shared by the consensus caller, along with a reader for base-frequency
// tables.
package pileup

// Common pileup components.

// The enum order matches the column order of a base-frequency table, so
// Counts can be filled directly from fields [A, C, G, T, gap].
const (
	// BaseA represents an A base.
	BaseA byte = iota
	// BaseC represents an C base.
	BaseC
	// BaseG represents an G base.
	BaseG
	// BaseT represents an T base.
	BaseT
	// BaseGap represents a deletion relative to the mapping reference.
	BaseGap
)

const (
	// NBase is the number of regular base types.
	NBase = 4
	// NBaseEnum counts BaseGap as well as the regular base types.
	NBaseEnum = 5
)

const (
	// GapChar is the ASCII rendering of BaseGap.
	GapChar byte = '-'
	// MissingChar marks a position without enough coverage to call anything.
	MissingChar byte = '?'
	// AmbiguousChar is the IUPAC code for "any base".
	AmbiguousChar byte = 'N'
)

// EnumToASCIITable is the A/C/G/T/gap -> ASCII mapping.
var EnumToASCIITable = [NBaseEnum]byte{'A', 'C', 'G', 'T', GapChar}

// ASCIIToEnum returns the enum value for an upper-case base or the gap
// character.  ok is false for anything else.
func ASCIIToEnum(c byte) (b byte, ok bool) {
	switch c {
	case 'A':
		return BaseA, true
	case 'C':
		return BaseC, true
	case 'G':
		return BaseG, true
	case 'T':
		return BaseT, true
	case GapChar:
		return BaseGap, true
	}
	return 0, false
}

// Counts holds the number of reads supporting each of A, C, G, T and gap at a
// single position, indexed by the Base* constants.
type Counts [NBaseEnum]int

// Coverage returns the sum of all five counts.
func (c *Counts) Coverage() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Max returns the largest count.
func (c *Counts) Max() int {
	max := c[0]
	for _, n := range c[1:] {
		if n > max {
			max = n
		}
	}
	return max
}

// PositionRecord is one row of a base-frequency table.
type PositionRecord struct {
	// RefBase is the base of the mapping reference at this position, or 0 when
	// the table has no reference column.
	RefBase byte
	Counts  Counts
	// NCount is the number of reads with an N here.  It is never part of
	// coverage.
	NCount int
}

// BaseFreq is a fully parsed base-frequency table.
type BaseFreq struct {
	// Path is the file the table was read from; used in error messages.
	Path string
	// HasRef is true iff every row carries a RefBase.
	HasRef bool
	Rows   []PositionRecord
}

// RefSeq returns the reference bases of all rows, or nil if the table has no
// reference column.
func (bf *BaseFreq) RefSeq() []byte {
	if !bf.HasRef {
		return nil
	}
	seq := make([]byte, len(bf.Rows))
	for i := range bf.Rows {
		seq[i] = bf.Rows[i].RefBase
	}
	return seq
}
