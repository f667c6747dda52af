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
package consensus

import (
	"math/bits"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/consensus/pileup"
)

// BaseSet is a set of pileup base enum values (pileup.BaseA ... pileup.BaseGap).
// Bit b is set iff base b is a member.
type BaseSet uint8

const acgtMask BaseSet = 1<<pileup.NBase - 1

// NewBaseSet returns the set containing the given pileup base enum values.
func NewBaseSet(bases ...byte) BaseSet {
	var s BaseSet
	for _, b := range bases {
		s |= 1 << b
	}
	return s
}

// Has returns true iff b is in the set.
func (s BaseSet) Has(b byte) bool {
	return s&(1<<b) != 0
}

// Len returns the number of bases in the set.
func (s BaseSet) Len() int {
	return bits.OnesCount8(uint8(s))
}

// String renders the members in ASCII order, e.g. "-AG".
func (s BaseSet) String() string {
	out := make([]byte, 0, pileup.NBaseEnum)
	if s.Has(pileup.BaseGap) {
		out = append(out, pileup.GapChar)
	}
	for b := byte(0); b < pileup.NBase; b++ {
		if s.Has(b) {
			out = append(out, pileup.EnumToASCIITable[b])
		}
	}
	return string(out)
}

// ambiguityTable maps an A/C/G/T bitmask (bit0=A, bit1=C, bit2=G, bit3=T) to
// its IUPAC code.  Index 0 has no code.
var ambiguityTable = [acgtMask + 1]byte{
	0,   // {}
	'A', // A
	'C', // C
	'M', // A/C
	'G', // G
	'R', // A/G
	'S', // C/G
	'V', // A/C/G
	'T', // T
	'W', // A/T
	'Y', // C/T
	'H', // A/C/T
	'K', // G/T
	'D', // A/G/T
	'B', // C/G/T
	'N', // A/C/G/T
}

// AmbiguityCode returns the upper-case IUPAC code for a non-empty set of
// A/C/G/T bases.  A singleton yields the base itself.
//
// Sets containing the gap, and the empty set, have no code; the error is of
// kind errors.Integrity.  Callers collapse gap-containing sets to 'N'
// themselves (see CollapseWithGap).
func AmbiguityCode(s BaseSet) (byte, error) {
	if s&^acgtMask != 0 || s == 0 {
		return 0, errors.E(errors.Integrity, "unexpected set of bases", s.String(),
			"has no ambiguity code")
	}
	return ambiguityTable[s], nil
}

// CollapseWithGap returns the symbol for a called set of bases: the base
// itself for a singleton, 'N' for any larger set containing the gap, and the
// IUPAC code otherwise.
func CollapseWithGap(s BaseSet) (byte, error) {
	if s.Len() == 1 && s.Has(pileup.BaseGap) {
		return pileup.GapChar, nil
	}
	if s.Len() > 1 && s.Has(pileup.BaseGap) {
		return pileup.AmbiguousChar, nil
	}
	return AmbiguityCode(s)
}
