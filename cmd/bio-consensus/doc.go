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

/*
Given a base frequency file, bio-consensus calls a consensus sequence and
prints it, together with the reference used for mapping as a pairwise
alignment, in FASTA format.

A base frequency file has a header line, then one comma-separated line per
position: position, reference base, and the counts of A, C, G, T, gap and N.
The reference-base column and the N column are optional (-ref-seq-missing,
-n-count-missing).  The N count never contributes to coverage.

At each position, bases are called as follows.  Below min-coverage, '?' is
called.  Otherwise the most common base is called if it reaches
min-frac-to-call of the coverage; if it doesn't, further bases are added in
order of decreasing count until their combined count does, and the IUPAC
ambiguity code for the set is called.  For example, with 60% A, 30% C and 10%
G: a fraction of 0.6 or lower calls A, 0.6-0.9 calls M ("A or C"), 0.9-1 calls
V ("A, C or G").  Any ambiguity involving a gap is called as N.  Bases with
equal counts are always called together.  A negative min-frac-to-call calls
the most common base regardless of its fraction, or the ambiguity code for the
joint-most-common bases.  Calls with coverage below min-cov-for-upper are
lower case.

Deletions ("-") that border missing coverage are replaced by missing coverage,
since a deletion should only be called when both sides are known
(-keep-gaps-by-missing disables this).  Alignment columns where the reference
has a gap and the consensus has a gap or missing coverage are removed.

Sample usage:
bio-consensus \
    -out consensus.fasta \
    sample_BaseFreqs.csv 15 30 0.6
*/
package main
