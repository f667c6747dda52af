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
	"fmt"
	"math"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/consensus/pileup"
)

// fracTolerance is how close to zero MinFracToCall may get before it is
// rejected.
const fracTolerance = 1e-5

// CallOpts holds the per-position calling thresholds.
type CallOpts struct {
	// MinCoverage is the minimum coverage needed to call anything.  Below it,
	// pileup.MissingChar is called.
	MinCoverage int
	// MinCovForUpper is the minimum coverage for the call to be upper case.
	MinCovForUpper int
	// MinFracToCall is the fraction of coverage the called bases must jointly
	// reach, in (0, 1].  A negative value selects most-common mode: the
	// joint-most-common bases are called regardless of their fraction.
	MinFracToCall float64
}

// Validate checks that the thresholds are usable.  Errors are of kind
// errors.Invalid.
func (o *CallOpts) Validate() error {
	if o.MinCoverage < 1 {
		return errors.E(errors.Invalid,
			fmt.Sprintf("the minimum coverage to call a base, %d, is less than 1", o.MinCoverage))
	}
	if o.MinCovForUpper < o.MinCoverage {
		return errors.E(errors.Invalid,
			fmt.Sprintf("the minimum coverage to use upper case, %d, is less than the minimum coverage to call a base, %d",
				o.MinCovForUpper, o.MinCoverage))
	}
	if o.MinFracToCall > 1 {
		return errors.E(errors.Invalid,
			fmt.Sprintf("the minimum fraction to call, %v, is greater than 1", o.MinFracToCall))
	}
	if math.Abs(o.MinFracToCall) < fracTolerance {
		return errors.E(errors.Invalid, "the minimum fraction to call must not be zero")
	}
	return nil
}

// MostCommonMode returns true if calls ignore fractions and take the
// joint-most-common bases.
func (o *CallOpts) MostCommonMode() bool {
	return o.MinFracToCall < 0
}

// leaders returns the set of bases sharing the maximum count.
func leaders(counts *pileup.Counts, max int) BaseSet {
	var set BaseSet
	for b, n := range counts {
		if n == max {
			set |= NewBaseSet(byte(b))
		}
	}
	return set
}

// CallBase calls the symbol for one position.
//
// The result is pileup.MissingChar when coverage is below opts.MinCoverage.
// Otherwise it is a base, an IUPAC ambiguity code, 'N' for any ambiguity
// involving a gap, or the gap itself; lower case iff coverage is below
// opts.MinCovForUpper.
//
// CallBase is a pure function of its arguments and may be called
// concurrently.
func CallBase(counts pileup.Counts, opts *CallOpts) (byte, error) {
	coverage := counts.Coverage()
	if coverage < opts.MinCoverage {
		return pileup.MissingChar, nil
	}
	max := counts.Max()
	called := leaders(&counts, max)
	if !opts.MostCommonMode() {
		required := float64(coverage) * opts.MinFracToCall
		// Every leader has count max, so this is the leaders' sum.
		if float64(max*called.Len()) < required {
			called = SelectBases(counts, required)
		}
	}
	sym, err := CollapseWithGap(called)
	if err != nil {
		return 0, err
	}
	return applyCase(sym, coverage, opts.MinCovForUpper), nil
}

func applyCase(sym byte, coverage, minCovForUpper int) byte {
	if coverage < minCovForUpper {
		if 'A' <= sym && sym <= 'Z' {
			return sym + 'a' - 'A'
		}
		return sym
	}
	if 'a' <= sym && sym <= 'z' {
		return sym - ('a' - 'A')
	}
	return sym
}
