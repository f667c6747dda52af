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
package consensus_test

import (
	"math/rand"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/consensus/consensus"
	"github.com/grailbio/consensus/pileup"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestAmbiguityCode(t *testing.T) {
	for _, test := range []struct {
		bases []byte
		want  byte
	}{
		{[]byte{pileup.BaseA}, 'A'},
		{[]byte{pileup.BaseC}, 'C'},
		{[]byte{pileup.BaseG}, 'G'},
		{[]byte{pileup.BaseT}, 'T'},
		{[]byte{pileup.BaseA, pileup.BaseC}, 'M'},
		{[]byte{pileup.BaseA, pileup.BaseG}, 'R'},
		{[]byte{pileup.BaseA, pileup.BaseT}, 'W'},
		{[]byte{pileup.BaseC, pileup.BaseG}, 'S'},
		{[]byte{pileup.BaseC, pileup.BaseT}, 'Y'},
		{[]byte{pileup.BaseG, pileup.BaseT}, 'K'},
		{[]byte{pileup.BaseA, pileup.BaseC, pileup.BaseG}, 'V'},
		{[]byte{pileup.BaseA, pileup.BaseC, pileup.BaseT}, 'H'},
		{[]byte{pileup.BaseA, pileup.BaseG, pileup.BaseT}, 'D'},
		{[]byte{pileup.BaseC, pileup.BaseG, pileup.BaseT}, 'B'},
		{[]byte{pileup.BaseA, pileup.BaseC, pileup.BaseG, pileup.BaseT}, 'N'},
	} {
		s := consensus.NewBaseSet(test.bases...)
		got, err := consensus.AmbiguityCode(s)
		assert.NoError(t, err)
		expect.EQ(t, string(got), string(test.want), s.String())

		// Order of the input does not matter.
		r := rand.New(rand.NewSource(int64(len(test.bases))))
		for i := 0; i < 5; i++ {
			shuffled := append([]byte{}, test.bases...)
			r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
			got, err = consensus.AmbiguityCode(consensus.NewBaseSet(shuffled...))
			assert.NoError(t, err)
			expect.EQ(t, string(got), string(test.want))
		}
	}
}

func TestAmbiguityCodeUnrecognized(t *testing.T) {
	for _, s := range []consensus.BaseSet{
		0,
		consensus.NewBaseSet(pileup.BaseGap),
		consensus.NewBaseSet(pileup.BaseA, pileup.BaseGap),
	} {
		_, err := consensus.AmbiguityCode(s)
		expect.True(t, errors.Is(errors.Integrity, err), s.String())
	}
}

func TestCollapseWithGap(t *testing.T) {
	// Every superset of the gap collapses to N; the gap alone stays a gap.
	for mask := 1; mask < 1<<pileup.NBaseEnum; mask++ {
		s := consensus.BaseSet(mask)
		got, err := consensus.CollapseWithGap(s)
		assert.NoError(t, err)
		switch {
		case s == consensus.NewBaseSet(pileup.BaseGap):
			expect.EQ(t, got, pileup.GapChar)
		case s.Has(pileup.BaseGap):
			expect.EQ(t, got, pileup.AmbiguousChar, s.String())
		default:
			want, err := consensus.AmbiguityCode(s)
			assert.NoError(t, err)
			expect.EQ(t, got, want)
		}
	}
}

func TestBaseSet(t *testing.T) {
	s := consensus.NewBaseSet(pileup.BaseT, pileup.BaseGap, pileup.BaseA, pileup.BaseA)
	expect.EQ(t, s.Len(), 3)
	expect.EQ(t, s.String(), "-AT")
	expect.True(t, s.Has(pileup.BaseA))
	expect.False(t, s.Has(pileup.BaseC))
}
