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
	"github.com/grailbio/consensus/pileup"
)

// PropagateMissing returns a copy of seq in which every run of gaps touching
// a missing-coverage character on either side is replaced by missing-coverage
// characters, e.g. "ACTG---?---ACTG" becomes "ACTG???????ACTG".  A deletion is
// only called when the bases on both sides of it are known.
//
// Runs are maximal, so their neighbours are never gaps and one pass reaches
// the fixed point; PropagateMissing(PropagateMissing(s)) == PropagateMissing(s).
func PropagateMissing(seq []byte) []byte {
	out := make([]byte, len(seq))
	copy(out, seq)
	for start := 0; start < len(out); {
		if out[start] != pileup.GapChar {
			start++
			continue
		}
		end := start + 1
		for end < len(out) && out[end] == pileup.GapChar {
			end++
		}
		if (start > 0 && out[start-1] == pileup.MissingChar) ||
			(end < len(out) && out[end] == pileup.MissingChar) {
			for i := start; i < end; i++ {
				out[i] = pileup.MissingChar
			}
		}
		start = end
	}
	return out
}
