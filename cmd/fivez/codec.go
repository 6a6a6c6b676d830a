// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"io"

	"github.com/cosnicolaou/fivez/bwlz3"
	"github.com/cosnicolaou/fivez/bwlzhd"
	"github.com/cosnicolaou/fivez/lza"
	"github.com/cosnicolaou/fivez/lzb"
	"github.com/cosnicolaou/fivez/mra"
	"github.com/cosnicolaou/fivez/rlh"
)

// codec binds one of the five container formats' Compress/Decompress pair
// and magic header to its CLI name and file extension (spec.md S6.1/S6.4).
type codec struct {
	name       string
	ext        string
	magic      []byte
	compress   func(w io.Writer, r io.Reader) error
	decompress func(w io.Writer, r io.Reader) error
}

var codecs = []codec{
	{"lzb", ".lzb", lzb.Magic, lzb.Compress, lzb.Decompress},
	{"lza", ".lza", lza.Magic, lza.Compress, lza.Decompress},
	{"rlh", ".rlh", rlh.Magic, rlh.Compress, rlh.Decompress},
	{"bwlzhd", ".bwlzhd", bwlzhd.Magic, bwlzhd.Compress, bwlzhd.Decompress},
	{"bwlz3", ".bwlz3", bwlz3.Magic, bwlz3.Compress, bwlz3.Decompress},
	{"mra", ".mra", mra.Magic, mra.Compress, mra.Decompress},
}

func codecByName(name string) (codec, bool) {
	for _, c := range codecs {
		if c.name == name {
			return c, true
		}
	}
	return codec{}, false
}
