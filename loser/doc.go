// Package loser merges sorted sequences with a tournament tree that keeps
// the loser of each match, after Bryan Boreham's go-loser.
//
// Every internal node records which of its two subtrees lost the last
// comparison, so when the winning sequence advances only the matches on its
// path to the root are replayed: one comparison per level.
//
// Unlike a plain heap merge the tree needs no sentinel maximum value. An
// exhausted sequence simply loses every match, and elements that compare
// equal come out in the order of the sequences that produced them, which
// makes the merge stable.
//
//	merged := loser.Merge(func(a, b int) bool { return a < b },
//	    slices.Values([]int{1, 4, 7}),
//	    slices.Values([]int{2, 5}),
//	)
//	for v := range merged {
//	    fmt.Println(v) // 1 2 4 5 7
//	}
package loser
