package generator

import "github.com/minirds/minirds/pkg/group"

// groupBits flattens one 104-bit RDS group into its transmission
// order: each block's 16 info bits (MSB first), then its 10
// checkword bits (MSB first), blocks A, B, C, D in order.
func groupBits(g group.Group) []int {
	bits := make([]int, 0, 104)
	for _, blk := range []group.Block{g.A, g.B, g.C, g.D} {
		bits = appendBits(bits, uint32(blk.Info), 16)
		bits = appendBits(bits, uint32(blk.Checkword), 10)
	}
	return bits
}

func appendBits(dst []int, v uint32, n int) []int {
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, int(v>>uint(i))&1)
	}
	return dst
}
