package lumen

// radixSortByMorton reorders the first n lights by ascending Morton key.
// Least-significant-digit radix sort, four passes of eight bits, stable
// within equal keys, ping-ponging between the pool and its scratch twin.
// Four passes is an even number so the result lands back in the primary
// slice; the final copy guard stays in case the pass count ever changes.
//
// O(n) per pass and strictly sequential access, which is why it beats a
// comparison sort here: thousands of lights re-sorted without branching on
// key comparisons.
func radixSortByMorton[L any, P lightPtr[L]](a *lightArray[L]) {
	n := a.count
	if n < 2 {
		return
	}

	src := a.items
	dst := a.scratch

	for pass, shift := 0, 0; pass < 4; pass, shift = pass+1, shift+8 {
		var hist [256]int
		for i := 0; i < n; i++ {
			hist[(P(&src[i]).core().Morton>>shift)&0xFF]++
		}
		sum := 0
		for i := range hist {
			c := hist[i]
			hist[i] = sum
			sum += c
		}
		for i := 0; i < n; i++ {
			b := (P(&src[i]).core().Morton >> shift) & 0xFF
			dst[hist[b]] = src[i]
			hist[b]++
		}
		src, dst = dst, src
	}

	if &src[0] != &a.items[0] {
		copy(a.items[:n], src[:n])
	}
}
