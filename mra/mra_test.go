// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package mra

import (
	"bytes"
	"math/rand"
	"testing"
)

func roundTrip(t *testing.T, data []byte) []byte {
	t.Helper()
	var compressed bytes.Buffer
	if err := Compress(&compressed, bytes.NewReader(data)); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	var out bytes.Buffer
	if err := Decompress(&out, bytes.NewReader(compressed.Bytes())); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	return out.Bytes()
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	randomBytes := make([]byte, 4000)
	rnd.Read(randomBytes)

	for i, data := range [][]byte{
		{},
		{17},
		bytes.Repeat([]byte{0}, 2000),
		[]byte("mississippi river, mississippi mud"),
		randomBytes,
	} {
		got := roundTrip(t, data)
		if !bytes.Equal(got, data) {
			t.Errorf("case %v: round trip mismatch, got len %v want len %v", i, len(got), len(data))
		}
	}
}

func TestRoundTripAcrossChunkBoundary(t *testing.T) {
	data := bytes.Repeat([]byte("banana"), ChunkSize)
	got := roundTrip(t, data)
	if !bytes.Equal(got, data) {
		t.Errorf("chunk-spanning round trip mismatch, got len %v want len %v", len(got), len(data))
	}
}

func TestDecompressBadMagic(t *testing.T) {
	var out bytes.Buffer
	err := Decompress(&out, bytes.NewReader([]byte("XXXX")))
	if err == nil {
		t.Fatalf("expected an error for bad magic")
	}
}
