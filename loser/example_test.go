package loser_test

import (
	"fmt"
	"iter"
	"slices"

	"github.com/PotentialStyx/wpilog/loser"
)

// ExampleNew merges three sorted sequences.
func ExampleNew() {
	tree := loser.New(
		[]iter.Seq[int]{
			slices.Values([]int{1, 4, 7}),
			slices.Values([]int{2, 5, 8}),
			slices.Values([]int{3, 6, 9}),
		},
		func(a, b int) bool { return a < b },
	)

	for v := range tree.All() {
		fmt.Printf("%d ", v)
	}

	// Output: 1 2 3 4 5 6 7 8 9
}

// ExampleMerge shows that ties keep the order of the input sequences.
func ExampleMerge() {
	type sample struct {
		ts     int
		source string
	}
	byTime := func(a, b sample) bool { return a.ts < b.ts }

	merged := loser.Merge(byTime,
		slices.Values([]sample{{1, "left"}, {3, "left"}}),
		slices.Values([]sample{}),
		slices.Values([]sample{{1, "right"}, {2, "right"}}),
	)
	for s := range merged {
		fmt.Println(s.ts, s.source)
	}

	// Output:
	// 1 left
	// 1 right
	// 2 right
	// 3 left
}
