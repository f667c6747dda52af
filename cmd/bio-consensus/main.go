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
package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/consensus/consensus"
	"github.com/grailbio/consensus/encoding/fasta"
	"v.io/x/lib/cmdline"
)

// defaultOpts holds the flag defaults.
var defaultOpts = Opts{
	ConsensusName: "consensus",
	RefName:       "MappingReference",
	Separator:     ",",
	LineWidth:     fasta.DefaultLineWidth,
	Consensus: consensus.Opts{
		Parallelism: 1,
	},
}

func newCmdConsensus() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "bio-consensus",
		Short:    "Call a consensus sequence from a base frequency file",
		Long:     "Run \"go doc github.com/grailbio/consensus/cmd/bio-consensus\" for a description of the calling rules.",
		ArgsName: "basefreq-path min-coverage min-cov-for-upper min-frac-to-call",
		ArgsLong: `
basefreq-path is the base frequency file; it may be compressed.

min-coverage is the minimum number of reads at a position before a base is
called.  Below it, "?" is called.

min-cov-for-upper is the minimum coverage before upper case is used instead of
lower case, to signal increased confidence.  It cannot be less than
min-coverage.

min-frac-to-call is the minimum fraction of reads the called base (or bases)
must reach, in (0, 1].  A negative value always calls the most common base (or
the ambiguity code of the joint-most-common bases).  Flags must precede the
positional arguments, so a negative value is not mistaken for a flag.`,
	}
	opts := defaultOpts
	cmd.Flags.StringVar(&opts.ConsensusName, "consensus-name", opts.ConsensusName, "Name of the consensus in the FASTA output")
	cmd.Flags.StringVar(&opts.RefName, "ref-name", opts.RefName, "Name of the reference in the FASTA output")
	cmd.Flags.StringVar(&opts.Separator, "separator", opts.Separator, `Field separator of the base frequency file; a single character, or "tab"`)
	cmd.Flags.BoolVar(&opts.RefSeqMissing, "ref-seq-missing", false, "The base frequency file has no reference-base (second) column")
	cmd.Flags.BoolVar(&opts.NCountMissing, "n-count-missing", false, "The base frequency file has no N-count (last) column")
	cmd.Flags.BoolVar(&opts.Consensus.KeepGapsByMissing, "keep-gaps-by-missing", false,
		"Keep deletions that neighbour missing coverage, instead of replacing them with missing coverage (not recommended)")
	cmd.Flags.BoolVar(&opts.Consensus.UseNForMissing, "use-n-for-missing", false, `Use "N" for missing coverage instead of "?"`)
	cmd.Flags.BoolVar(&opts.Consensus.SkipRefInOutput, "skip-ref-in-output", false, "Omit the reference from the output and remove gaps from the consensus")
	cmd.Flags.IntVar(&opts.Consensus.Parallelism, "parallelism", opts.Consensus.Parallelism, "Number of shards positions are called in")
	cmd.Flags.StringVar(&opts.Out, "out", "", `Output FASTA path; stdout if empty or "-".  A ".gz" suffix gzips the output`)
	cmd.Flags.IntVar(&opts.LineWidth, "line-width", opts.LineWidth, "Bases per FASTA line; 0 writes each sequence on one line")
	cmd.Flags.BoolVar(&opts.Index, "index", false, "Also write a samtools-style index to <out>.fai")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 4 {
			return fmt.Errorf("bio-consensus takes 4 positional arguments, but got %v", argv)
		}
		if err := parseThresholds(argv[1:], &opts.Consensus.CallOpts); err != nil {
			return err
		}
		return Run(context.Background(), argv[0], env.Stdout, &opts)
	})
	return cmd
}

// parseThresholds fills opts from the min-coverage, min-cov-for-upper and
// min-frac-to-call arguments.
func parseThresholds(args []string, opts *consensus.CallOpts) (err error) {
	if opts.MinCoverage, err = strconv.Atoi(args[0]); err != nil {
		return fmt.Errorf("min-coverage %q is not an integer", args[0])
	}
	if opts.MinCovForUpper, err = strconv.Atoi(args[1]); err != nil {
		return fmt.Errorf("min-cov-for-upper %q is not an integer", args[1])
	}
	if opts.MinFracToCall, err = strconv.ParseFloat(args[2], 64); err != nil {
		return fmt.Errorf("min-frac-to-call %q is not a number", args[2])
	}
	return nil
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdConsensus())
}
