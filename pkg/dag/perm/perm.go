// Package perm provides small permutation utilities used by the exact
// decrossing search and its tests.
package perm

import "slices"

// Seq returns the identity permutation [0, 1, ..., n-1]. A non-positive n
// yields an empty slice.
func Seq(n int) []int {
	if n < 0 {
		n = 0
	}
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

// Factorial returns n!, with n <= 1 mapping to 1. The result overflows a
// 32-bit int from n = 13 on, so callers sizing buffers should clamp n first.
func Factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}

// Generate enumerates permutations of [0, 1, ..., n-1] via Heap's algorithm,
// each in its own backing array. A positive limit caps the count; limit <= 0
// produces all n! permutations, so keep n small or pass a limit. The first
// permutation emitted is always the identity; the rest follow Heap's
// single-swap order, not lexicographic order.
//
// Generate(0, ...) returns the single empty permutation.
func Generate(n, limit int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	if n == 1 {
		return [][]int{{0}}
	}

	cur := Seq(n)
	counters := make([]int, n)

	capacity := limit
	if capacity <= 0 || n <= 12 {
		capacity = Factorial(min(n, 12))
	}
	out := make([][]int, 0, capacity)
	out = append(out, slices.Clone(cur))

	for i := 0; i < n && (limit <= 0 || len(out) < limit); {
		if counters[i] < i {
			if i&1 == 0 {
				cur[0], cur[i] = cur[i], cur[0]
			} else {
				cur[counters[i]], cur[i] = cur[i], cur[counters[i]]
			}
			out = append(out, slices.Clone(cur))
			counters[i]++
			i = 0
		} else {
			counters[i] = 0
			i++
		}
	}
	return out
}
