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

	"github.com/grailbio/base/errors"
	"github.com/grailbio/consensus/pileup"
)

// TrimAlignment removes the columns of a consensus/reference alignment that
// carry no information: a reference gap aligned to a consensus gap or to
// missing coverage.  Everything else, including a reference gap aligned to a
// called base, is kept.  The outputs are new slices of equal length.
//
// cons and ref must have equal length; otherwise an error of kind
// errors.Precondition is returned.
func TrimAlignment(cons, ref []byte) (trimmedCons, trimmedRef []byte, err error) {
	if len(cons) != len(ref) {
		return nil, nil, errors.E(errors.Precondition,
			fmt.Sprintf("consensus length %d differs from reference length %d", len(cons), len(ref)))
	}
	trimmedCons = make([]byte, 0, len(cons))
	trimmedRef = make([]byte, 0, len(ref))
	for i, r := range ref {
		c := cons[i]
		if r == pileup.GapChar && (c == pileup.GapChar || c == pileup.MissingChar) {
			continue
		}
		trimmedCons = append(trimmedCons, c)
		trimmedRef = append(trimmedRef, r)
	}
	return trimmedCons, trimmedRef, nil
}
