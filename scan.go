package rowintern

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// Word-parallel "has zero byte" trick (SWAR), the same shape used by
// Abseil-style flat hash tables and by the striped CLHT map in the
// reference pack (maypok86/otter's internal/hashmap, which SWAR-scans a
// packed metadata word for empty/matching slots). XORing the haystack
// word against a byte-broadcast of the needle turns "byte equals target"
// into "byte is zero", which this trick detects for all 8 lanes in O(1).
const (
	loBits64 = 0x0101010101010101
	hiBits64 = 0x8080808080808080
	loBits32 = 0x01010101
	hiBits32 = 0x80808080
)

// wideStride is chosen once at init based on CPU feature flags reported by
// golang.org/x/sys/cpu. It does not change scanSignatures' output, only
// how many signature bytes it inspects per comparison — the spec requires
// the scanner to be a "correctness-neutral accelerator", and scanNaive is
// kept as the byte-by-byte oracle that both strides must agree with.
var wideStride = detectStride()

func detectStride() int {
	if cpu.X86.HasSSE42 || cpu.ARM64.HasASIMD {
		return 8
	}
	return 4
}

// scanSignatures returns, in ascending order, the indices within sigs
// whose byte equals target. It scans machine-word chunks (wideStride
// bytes at a time) to reject whole spans with one comparison, falling
// back to a per-byte test only within spans that might contain a match.
func scanSignatures(sigs []byte, target byte) []int {
	if wideStride == 8 {
		return scanSignatures8(sigs, target)
	}
	return scanSignatures4(sigs, target)
}

func scanSignatures8(sigs []byte, target byte) []int {
	var out []int

	broadcast := uint64(target) * loBits64

	n := len(sigs)
	i := 0

	for ; i+8 <= n; i += 8 {
		word := binary.LittleEndian.Uint64(sigs[i : i+8])
		x := word ^ broadcast

		if (x-loBits64)&^x&hiBits64 == 0 {
			continue
		}

		for j := 0; j < 8; j++ {
			if sigs[i+j] == target {
				out = append(out, i+j)
			}
		}
	}

	for ; i < n; i++ {
		if sigs[i] == target {
			out = append(out, i)
		}
	}

	return out
}

func scanSignatures4(sigs []byte, target byte) []int {
	var out []int

	broadcast := uint32(target) * loBits32

	n := len(sigs)
	i := 0

	for ; i+4 <= n; i += 4 {
		word := binary.LittleEndian.Uint32(sigs[i : i+4])
		x := word ^ broadcast

		if (x-loBits32)&^x&hiBits32 == 0 {
			continue
		}

		for j := 0; j < 4; j++ {
			if sigs[i+j] == target {
				out = append(out, i+j)
			}
		}
	}

	for ; i < n; i++ {
		if sigs[i] == target {
			out = append(out, i)
		}
	}

	return out
}

// scanNaive is the byte-by-byte reference scanner. It exists purely as a
// test oracle for the word-parallel scanners above (spec §8, testable
// property 5: "signature-scan equivalence").
func scanNaive(sigs []byte, target byte) []int {
	var out []int

	for i, s := range sigs {
		if s == target {
			out = append(out, i)
		}
	}

	return out
}
