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
	"io"
	"strings"
	"unicode/utf8"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/consensus/consensus"
	"github.com/grailbio/consensus/encoding/fasta"
	"github.com/grailbio/consensus/pileup"
	"github.com/klauspost/compress/gzip"
)

// Opts holds the command-line options of bio-consensus.
type Opts struct {
	ConsensusName string
	RefName       string
	Separator     string
	RefSeqMissing bool
	NCountMissing bool
	Out           string
	LineWidth     int
	Index         bool
	Consensus     consensus.Opts
}

func (o *Opts) toStdout() bool {
	return o.Out == "" || o.Out == "-"
}

func parseSeparator(s string) (rune, error) {
	switch s {
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("separator %q must be a single character", s))
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// Run reads the base frequency file at path, calls the consensus and writes
// it in FASTA format to opts.Out, or to stdout.  Nothing is written unless the
// whole file is read and called successfully.
func Run(ctx context.Context, path string, stdout io.Writer, opts *Opts) error {
	if err := opts.Consensus.Validate(); err != nil {
		return err
	}
	sep, err := parseSeparator(opts.Separator)
	if err != nil {
		return err
	}
	if opts.Index && (opts.toStdout() || strings.HasSuffix(opts.Out, ".gz")) {
		return errors.E(errors.Invalid, "-index needs an uncompressed -out file")
	}
	bf, err := pileup.ReadBaseFreq(ctx, path, pileup.BaseFreqOpts{
		Separator:    sep,
		RefColumn:    !opts.RefSeqMissing,
		NCountColumn: !opts.NCountMissing,
	})
	if err != nil {
		return err
	}
	res, err := consensus.Call(bf, &opts.Consensus)
	if err != nil {
		return err
	}
	if err := writeOutput(ctx, res, stdout, opts); err != nil {
		return err
	}
	log.Printf("%s: called %d positions (%d below minimum coverage, %d ambiguous, %d lower case); consensus length %d",
		path, res.Stats.Positions, res.Stats.Missing, res.Stats.Ambiguous, res.Stats.LowerCase, len(res.Consensus))
	return nil
}

func writeOutput(ctx context.Context, res consensus.Result, stdout io.Writer, opts *Opts) (err error) {
	dst := stdout
	if !opts.toStdout() {
		var out file.File
		if out, err = file.Create(ctx, opts.Out); err != nil {
			return errors.E(err, "couldn't create output file", opts.Out)
		}
		defer file.CloseAndReport(ctx, out, &err)
		dst = out.Writer(ctx)
		if strings.HasSuffix(opts.Out, ".gz") {
			gz := gzip.NewWriter(dst)
			defer func() {
				if e := gz.Close(); e != nil && err == nil {
					err = e
				}
			}()
			dst = gz
		}
	}
	w := fasta.NewWriter(dst, opts.LineWidth)
	if err = w.Write(opts.ConsensusName, res.Consensus); err != nil {
		return err
	}
	if res.Reference != nil {
		if err = w.Write(opts.RefName, res.Reference); err != nil {
			return err
		}
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if opts.Index {
		err = writeIndex(ctx, w, opts.Out+".fai")
	}
	return err
}

func writeIndex(ctx context.Context, w *fasta.Writer, path string) (err error) {
	var out file.File
	if out, err = file.Create(ctx, path); err != nil {
		return errors.E(err, "couldn't create index file", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	return w.WriteIndex(out.Writer(ctx))
}
