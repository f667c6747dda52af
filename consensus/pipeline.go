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

// Package consensus calls a consensus sequence from per-position base counts.
//
// Each position is called independently (CallBase).  Two passes then run over
// the whole sequence: gaps bordering missing coverage become missing coverage
// (PropagateMissing), and columns where both the reference and the consensus
// are uninformative are removed from the pairwise alignment (TrimAlignment).
package consensus

import (
	"bytes"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/consensus/pileup"
)

// Opts configures a full consensus run.
type Opts struct {
	CallOpts
	// KeepGapsByMissing disables PropagateMissing.
	KeepGapsByMissing bool
	// UseNForMissing writes 'N' instead of '?' for missing coverage.  It is
	// applied after trimming, so it does not change which columns are removed.
	UseNForMissing bool
	// SkipRefInOutput drops the reference and strips all gaps from the
	// consensus.
	SkipRefInOutput bool
	// Parallelism is the number of shards positions are called in.  Values
	// below 2 call sequentially.  The result does not depend on it.
	Parallelism int
}

// Stats summarizes a run.
type Stats struct {
	// Positions is the number of rows called.
	Positions int
	// Missing is the number of rows below the minimum coverage.
	Missing int
	// Ambiguous is the number of rows called as an ambiguity code, N
	// included.
	Ambiguous int
	// LowerCase is the number of rows called in lower case.
	LowerCase int
	// Propagated is the number of gaps turned into missing coverage.
	Propagated int
	// Trimmed is the number of alignment columns removed.
	Trimmed int
}

// Result holds the output sequences of a run.
type Result struct {
	Consensus []byte
	// Reference is aligned to Consensus.  It is nil if the input had no
	// reference column or Opts.SkipRefInOutput is set.
	Reference []byte
	Stats     Stats
}

// Call runs the whole pipeline on a base-frequency table: per-position calls,
// then PropagateMissing (unless disabled), then TrimAlignment (when the table
// has a reference), then the optional N substitution and gap stripping.
func Call(bf *pileup.BaseFreq, opts *Opts) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	raw, err := callAll(bf.Rows, &opts.CallOpts, opts.Parallelism)
	if err != nil {
		return Result{}, errors.E(err, bf.Path)
	}
	res := Result{Stats: rawStats(raw)}

	cons := raw
	if !opts.KeepGapsByMissing {
		cons = PropagateMissing(raw)
		res.Stats.Propagated = bytes.Count(cons, []byte{pileup.MissingChar}) - res.Stats.Missing
	}
	var ref []byte
	if bf.HasRef {
		n := len(cons)
		if cons, ref, err = TrimAlignment(cons, bf.RefSeq()); err != nil {
			return Result{}, err
		}
		res.Stats.Trimmed = n - len(cons)
	}
	if opts.UseNForMissing {
		for i, c := range cons {
			if c == pileup.MissingChar {
				cons[i] = pileup.AmbiguousChar
			}
		}
	}
	if opts.SkipRefInOutput {
		cons = bytes.ReplaceAll(cons, []byte{pileup.GapChar}, nil)
		ref = nil
	}
	res.Consensus = cons
	res.Reference = ref
	log.Debug.Printf("%s: %+v", bf.Path, res.Stats)
	return res, nil
}

// callAll calls every row, splitting the rows into parallelism contiguous
// shards.  Each shard writes only its own range of the result.
func callAll(rows []pileup.PositionRecord, opts *CallOpts, parallelism int) ([]byte, error) {
	seq := make([]byte, len(rows))
	if parallelism < 1 || len(rows) < parallelism {
		parallelism = 1
	}
	shardSize := (len(rows) + parallelism - 1) / parallelism
	err := traverse.Each(parallelism, func(shard int) error {
		start := shard * shardSize
		end := start + shardSize
		if end > len(rows) {
			end = len(rows)
		}
		for i := start; i < end; i++ {
			sym, err := CallBase(rows[i].Counts, opts)
			if err != nil {
				return errors.E(err, fmt.Sprintf("row %d", i+1))
			}
			seq[i] = sym
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seq, nil
}

func rawStats(raw []byte) Stats {
	s := Stats{Positions: len(raw)}
	for _, c := range raw {
		switch {
		case c == pileup.MissingChar:
			s.Missing++
			continue
		case c >= 'a' && c <= 'z':
			s.LowerCase++
		}
		switch c {
		case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't', pileup.GapChar:
		default:
			s.Ambiguous++
		}
	}
	return s
}
