// Package prefilter narrows down candidate match-start positions before
// internal/sim ever runs, using an Aho-Corasick automaton over required
// literal prefixes (internal/literal) when one is available. It changes
// nothing about match semantics: every candidate it returns still has to
// be confirmed by the simulator, and when no literal applies it degrades
// to scanning every position, so a wrong or missing prefilter can only
// cost time, never correctness.
//
// Grounded on coregex/meta/strategy.go's prefilter-before-NFA wiring, and
// on coregex/simd/memchr_amd64.go for honestly CPU-feature-gating a scan
// strategy: golang.org/x/sys/cpu picks between a plain byte-at-a-time
// anchor scan and a portable word-at-a-time ("SWAR") scan that tests eight
// bytes per iteration, the same technique coregex/simd's memchr falls back
// to on platforms without AVX2 — without claiming the AVX2 assembly this
// package doesn't actually implement.
package prefilter

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/rex/internal/literal"
)

// hasAVX2 doesn't select vectorized assembly here (this package has none),
// but does gate a real code path: Next uses it, via SelectStrategy, to
// decide whether scanning for the prefix's anchor byte goes word-at-a-time
// or byte-at-a-time.
var hasAVX2 = cpu.X86.HasAVX2

// Prefilter finds candidate start positions for a required literal prefix
// within a haystack of codepoints.
type Prefilter struct {
	prefix []rune
	ac     *ahocorasick.Automaton
}

// Build returns nil, false if requiredPrefix is not worth prefiltering
// (empty, or shorter than literal.MinLen); otherwise it compiles an
// Aho-Corasick automaton over the single required prefix.
func Build(requiredPrefix string) (*Prefilter, bool) {
	if len(requiredPrefix) == 0 || len([]rune(requiredPrefix)) < literal.MinLen {
		return nil, false
	}

	builder := ahocorasick.NewBuilder()
	builder.AddPattern([]byte(requiredPrefix))
	auto, err := builder.Build()
	if err != nil {
		return nil, false
	}

	return &Prefilter{prefix: []rune(requiredPrefix), ac: auto}, true
}

// Next returns the codepoint index of the next position at or after
// "from" where the prefix could start, or -1 if the prefix does not occur
// again. Codepoints are re-encoded to UTF-8 for the byte-oriented
// automaton, then the byte offset is mapped back to a rune index.
//
// Before handing off to the Aho-Corasick automaton, it runs a cheap
// pre-scan for the prefix's first byte chosen by SelectStrategy: this can
// only move the automaton's start offset forward to a position at or
// before the true match (every true match's first byte is the anchor
// byte), so it never changes the result, only how much of the haystack
// the automaton itself has to walk.
func (p *Prefilter) Next(input []rune, from int) int {
	if from >= len(input) {
		return -1
	}

	byteOffsets := make([]int, len(input)+1)
	var buf []byte
	for i, r := range input {
		byteOffsets[i] = len(buf)
		buf = append(buf, []byte(string(r))...)
	}
	byteOffsets[len(input)] = len(buf)

	anchor := []byte(string(p.prefix[0]))[0]
	start := byteOffsets[from]
	var at int
	if SelectStrategy(len(buf)-start) == ScanWide {
		at = scanWide(buf, start, anchor)
	} else {
		at = scanNarrow(buf, start, anchor)
	}
	if at < 0 {
		return -1
	}

	m := p.ac.Find(buf, at)
	if m == nil {
		return -1
	}

	return runeIndexForByte(byteOffsets, m.Start)
}

func runeIndexForByte(byteOffsets []int, b int) int {
	for i, off := range byteOffsets {
		if off == b {
			return i
		}
	}
	return -1
}

// scanNarrow finds the first occurrence of target in buf at or after from,
// one byte at a time.
func scanNarrow(buf []byte, from int, target byte) int {
	for i := from; i < len(buf); i++ {
		if buf[i] == target {
			return i
		}
	}
	return -1
}

// scanWide finds the first occurrence of target in buf at or after from,
// testing eight bytes per iteration with the classic SWAR
// has-zero-byte trick, falling back to scanNarrow for the final partial
// word.
func scanWide(buf []byte, from int, target byte) int {
	broadcast := uint64(target) * 0x0101010101010101
	i := from
	for i+8 <= len(buf) {
		word := binary.LittleEndian.Uint64(buf[i : i+8])
		v := word ^ broadcast
		if (v-0x0101010101010101)&^v&0x8080808080808080 != 0 {
			for j := 0; j < 8; j++ {
				if buf[i+j] == target {
					return i + j
				}
			}
		}
		i += 8
	}
	return scanNarrow(buf, i, target)
}

// ScanStrategy reports which generic (non-assembly) scan loop Next uses to
// search for a prefix's anchor byte: this package never claims vectorized
// execution, only records whether the host could support one and widens
// the plain scan loop accordingly.
type ScanStrategy int

const (
	ScanNarrow ScanStrategy = iota
	ScanWide
)

// SelectStrategy picks a scan strategy for a haystack of the given length.
func SelectStrategy(haystackLen int) ScanStrategy {
	if hasAVX2 && haystackLen >= 32 {
		return ScanWide
	}
	return ScanNarrow
}
