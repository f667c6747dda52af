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
	"sort"

	"github.com/grailbio/consensus/pileup"
)

// countOrder returns the base enum values sorted by decreasing count.  Equal
// counts are ordered by decreasing ASCII symbol (T, G, C, A, then gap).
func countOrder(counts *pileup.Counts) [pileup.NBaseEnum]byte {
	order := [pileup.NBaseEnum]byte{pileup.BaseA, pileup.BaseC, pileup.BaseG, pileup.BaseT, pileup.BaseGap}
	sort.Slice(order[:], func(i, j int) bool {
		bi, bj := order[i], order[j]
		if counts[bi] != counts[bj] {
			return counts[bi] > counts[bj]
		}
		return pileup.EnumToASCIITable[bi] > pileup.EnumToASCIITable[bj]
	})
	return order
}

// SelectBases returns the smallest set of most-supported bases whose combined
// count reaches required.
//
// Bases are taken in countOrder.  A base whose count equals that of the last
// base taken is always taken too, even once the threshold is met, so a tie is
// never split.  If nothing stops the scan before the last base, every base is
// selected.
func SelectBases(counts pileup.Counts, required float64) BaseSet {
	order := countOrder(&counts)
	var (
		set   BaseSet
		total int
	)
	for i, b := range order {
		set |= NewBaseSet(b)
		if i == len(order)-1 {
			break
		}
		total += counts[b]
		if counts[b] == counts[order[i+1]] {
			continue
		}
		if float64(total) >= required {
			break
		}
	}
	return set
}
