package loser_test

import (
	"iter"
	"slices"
	"sort"
	"testing"

	"github.com/PotentialStyx/wpilog/loser"
	"github.com/stretchr/testify/assert"
)

func lessInt(a, b int) bool { return a < b }

func values(lists ...[]int) []iter.Seq[int] {
	seqs := make([]iter.Seq[int], 0, len(lists))
	for _, l := range lists {
		seqs = append(seqs, slices.Values(l))
	}
	return seqs
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		args []iter.Seq[int]
		want []int
	}{
		{
			name: "empty input",
			want: nil,
		},
		{
			name: "one list",
			args: values([]int{1, 2, 3, 4}),
			want: []int{1, 2, 3, 4},
		},
		{
			name: "two lists",
			args: values([]int{3, 4, 5}, []int{1, 2}),
			want: []int{1, 2, 3, 4, 5},
		},
		{
			name: "two lists, first empty",
			args: values(nil, []int{1, 2}),
			want: []int{1, 2},
		},
		{
			name: "two lists, second empty",
			args: values([]int{1, 2}, nil),
			want: []int{1, 2},
		},
		{
			name: "interleaved",
			args: values([]int{1, 3}, []int{2, 4, 5}),
			want: []int{1, 2, 3, 4, 5},
		},
		{
			name: "three lists",
			args: values([]int{1, 3}, []int{2, 4}, []int{5}),
			want: []int{1, 2, 3, 4, 5},
		},
		{
			name: "all empty",
			args: values(nil, nil, nil),
			want: nil,
		},
		{
			name: "duplicates",
			args: values([]int{1, 1, 2}, []int{1, 2, 2}),
			want: []int{1, 1, 1, 2, 2, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(loser.New(tt.args, lessInt).All())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeManySequences(t *testing.T) {
	// Odd counts exercise trees whose leaves sit on different levels.
	for _, n := range []int{1, 2, 3, 5, 7, 16, 33} {
		var (
			lists [][]int
			want  []int
		)
		for i := range n {
			var l []int
			for v := i; v < 200; v += n + i%3 {
				l = append(l, v)
			}
			lists = append(lists, l)
			want = append(want, l...)
		}
		sort.Ints(want)

		got := slices.Collect(loser.Merge(lessInt, values(lists...)...))
		assert.Equal(t, want, got, "%d sequences", n)
	}
}

type tagged struct {
	key int
	seq int
}

func TestMergeIsStable(t *testing.T) {
	seqs := make([]iter.Seq[tagged], 0, 5)
	for s := range 5 {
		seqs = append(seqs, slices.Values([]tagged{{0, s}, {1, s}, {1, s}}))
	}

	var got []tagged
	for v := range loser.Merge(func(a, b tagged) bool { return a.key < b.key }, seqs...) {
		got = append(got, v)
	}

	assert.Len(t, got, 15)
	assert.True(t, slices.IsSortedFunc(got, func(a, b tagged) int {
		if a.key != b.key {
			return a.key - b.key
		}
		return a.seq - b.seq
	}))
}

func TestMergeStopsSequences(t *testing.T) {
	stopped := 0
	counting := func(vals ...int) iter.Seq[int] {
		return func(yield func(int) bool) {
			defer func() { stopped++ }()
			for _, v := range vals {
				if !yield(v) {
					return
				}
			}
		}
	}

	var got []int
	for v := range loser.Merge(lessInt, counting(1, 4), counting(2, 3)) {
		got = append(got, v)
		if len(got) == 2 {
			break
		}
	}

	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 2, stopped)
}
