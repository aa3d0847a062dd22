package utils

import "sort"

// PermutationStable returns the permutation p such that visiting elements in
// the order p[0], p[1], ... yields a sorted sequence. Equal elements keep
// their original relative order.
func PermutationStable(n int, less func(int, int) bool) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	sort.SliceStable(p, func(i, j int) bool {
		return less(p[i], p[j])
	})
	return p
}
