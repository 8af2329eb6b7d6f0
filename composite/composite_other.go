//go:build !amd64 || purego

package composite

const hasVector = false

func interleaveVector(dst, r, g, b, a []uint8) {
	interleaveScalar(dst, r, g, b, a)
}
