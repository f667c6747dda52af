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

	"github.com/grailbio/consensus/consensus"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestPropagateMissing(t *testing.T) {
	for _, test := range []struct {
		in, want string
	}{
		{"", ""},
		{"ACGT", "ACGT"},
		{"A-?C", "A??C"},
		{"A?-C", "A??C"},
		{"ACTG---?---ACTG", "ACTG???????ACTG"},
		{"--?", "???"},
		{"?--", "???"},
		{"A--C?", "A--C?"},
		{"A-C-?-G-T", "A-C???G-T"},
		{"-", "-"},
		{"?", "?"},
		{"a-n-?", "a-n??"},
	} {
		in := []byte(test.in)
		got := consensus.PropagateMissing(in)
		expect.EQ(t, string(got), test.want, test.in)
		expect.EQ(t, string(in), test.in, "input must not be modified")
	}
}

func randomSeq(r *rand.Rand, alphabet string, n int) []byte {
	seq := make([]byte, n)
	for i := range seq {
		seq[i] = alphabet[r.Intn(len(alphabet))]
	}
	return seq
}

func TestPropagateMissingIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 2000; i++ {
		seq := randomSeq(r, "AC--?", r.Intn(30))
		once := consensus.PropagateMissing(seq)
		twice := consensus.PropagateMissing(once)
		assert.EQ(t, string(twice), string(once), string(seq))
		assert.EQ(t, len(once), len(seq))
		// No gap may be left next to missing coverage.
		for j := 1; j < len(once); j++ {
			pair := string(once[j-1 : j+1])
			assert.True(t, pair != "-?" && pair != "?-", string(once))
		}
	}
}

func TestTrimAlignment(t *testing.T) {
	for _, test := range []struct {
		cons, ref         string
		wantCons, wantRef string
	}{
		{"", "", "", ""},
		{"ACGT", "ACGT", "ACGT", "ACGT"},
		{"A-C", "A-C", "AC", "AC"},
		{"A?C", "A-C", "AC", "AC"},
		{"AGC", "A-C", "AGC", "A-C"},
		{"A-C", "AGC", "A-C", "AGC"},
		{"A?C", "AGC", "A?C", "AGC"},
		{"AnC", "A-C", "AnC", "A-C"},
		{"--??", "----", "", ""},
	} {
		cons, ref, err := consensus.TrimAlignment([]byte(test.cons), []byte(test.ref))
		assert.NoError(t, err)
		expect.EQ(t, string(cons), test.wantCons, test.cons, test.ref)
		expect.EQ(t, string(ref), test.wantRef, test.cons, test.ref)
	}

	_, _, err := consensus.TrimAlignment([]byte("AC"), []byte("A"))
	expect.True(t, err != nil)
}

func TestTrimAlignmentLengths(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 2000; i++ {
		n := r.Intn(40)
		cons := randomSeq(r, "ACa-?N", n)
		ref := randomSeq(r, "ACG-", n)
		tc, tr, err := consensus.TrimAlignment(cons, ref)
		assert.NoError(t, err)
		assert.EQ(t, len(tc), len(tr))
		assert.True(t, len(tc) <= n)
		for j := range tr {
			assert.False(t, tr[j] == '-' && (tc[j] == '-' || tc[j] == '?'))
		}
	}
}
