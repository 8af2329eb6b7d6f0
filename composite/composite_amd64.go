//go:build amd64 && !purego

package composite

import "golang.org/x/sys/cpu"

var hasVector = cpu.X86.HasAVX2

// interleaveAVX2 interleaves blocks*32 pixels. Implemented in composite_amd64.s.
//
//go:noescape
func interleaveAVX2(r, gp, b, a, dst *byte, blocks int)

func interleaveVector(dst, r, g, b, a []uint8) {
	blocks := len(r) / BlockPixels
	if blocks > 0 {
		interleaveAVX2(&r[0], &g[0], &b[0], &a[0], &dst[0], blocks)
	}
	done := blocks * BlockPixels
	if done < len(r) {
		interleaveScalar(dst[4*done:], r[done:], g[done:], b[done:], a[done:])
	}
}
