// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bwlzhd

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
	rnd := rand.New(rand.NewSource(4))
	randomBytes := make([]byte, 4000)
	rnd.Read(randomBytes)

	for i, data := range [][]byte{
		{},
		{3},
		bytes.Repeat([]byte{9}, 2000),
		[]byte("abracadabra abracadabra, the quick brown fox"),
		randomBytes,
	} {
		got := roundTrip(t, data)
		if !bytes.Equal(got, data) {
			t.Errorf("case %v: round trip mismatch, got len %v want len %v", i, len(got), len(data))
		}
	}
}

// TestUncompressedFallback exercises the mode-byte fallback path: random
// bytes should not compress smaller than the raw chunk, tripping the
// RANDOM_DATA_THRESHOLD check in compressChunk.
func TestUncompressedFallback(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	randomBytes := make([]byte, ChunkSize/4)
	rnd.Read(randomBytes)
	got := roundTrip(t, randomBytes)
	if !bytes.Equal(got, randomBytes) {
		t.Errorf("round trip mismatch on incompressible data")
	}
}

func TestRoundTripAcrossChunkBoundary(t *testing.T) {
	data := bytes.Repeat([]byte("mississippi"), ChunkSize)
	got := roundTrip(t, data)
	if !bytes.Equal(got, data) {
		t.Errorf("chunk-spanning round trip mismatch, got len %v want len %v", len(got), len(data))
	}
}

func TestDecompressBadMagic(t *testing.T) {
	var out bytes.Buffer
	err := Decompress(&out, bytes.NewReader([]byte("XXXXXXX")))
	if err == nil {
		t.Fatalf("expected an error for bad magic")
	}
}
