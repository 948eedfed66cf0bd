package loser

import (
	"iter"
)

// Tree merges sorted sequences. Leaves hold the head of each sequence and
// every internal node remembers the loser of the match played there, so
// advancing the merge costs one comparison per level.
//
// Leaves live at positions M..2M-1 and internal nodes at 1..M-1, with the
// parent of node N at N/2. Node 0 holds the overall winner.
type Tree[E any] struct {
	sequences []iter.Seq[E]
	less      func(E, E) bool
	nodes     []node[E]
}

type node[E any] struct {
	index int // leaf index of the loser, or of the winner for node 0
	value E
	done  bool
	next  func() (E, bool)
}

// New builds a tree over sequences, each sorted by less.
func New[E any](sequences []iter.Seq[E], less func(E, E) bool) *Tree[E] {
	return &Tree[E]{
		sequences: sequences,
		less:      less,
	}
}

// Merge returns the merged ordering of sequences. Equal elements keep the
// order of the sequences they came from.
func Merge[E any](less func(E, E) bool, sequences ...iter.Seq[E]) iter.Seq[E] {
	return New(sequences, less).All()
}

// All yields every element of every sequence in ascending order. Each
// sequence is pulled lazily and stopped when iteration ends.
func (t *Tree[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		m := len(t.sequences)
		if m == 0 {
			return
		}

		t.nodes = make([]node[E], 2*m)
		for i, s := range t.sequences {
			next, stop := iter.Pull(s)
			//nolint:gocritic // stopped when the merge returns.
			defer stop()
			t.nodes[m+i].next = next
			t.advance(m + i)
		}

		t.nodes[0].index = t.play(1)
		for {
			winner := t.nodes[0].index
			leaf := &t.nodes[winner]
			if leaf.done || !yield(leaf.value) {
				return
			}
			t.advance(winner)
			t.replay(winner)
		}
	}
}

func (t *Tree[E]) advance(leaf int) {
	n := &t.nodes[leaf]
	v, ok := n.next()
	n.value, n.done = v, !ok
}

// beats reports whether leaf a should be emitted before leaf b. Exhausted
// leaves lose to everything and ties go to the earlier sequence.
func (t *Tree[E]) beats(a, b int) bool {
	na, nb := &t.nodes[a], &t.nodes[b]
	switch {
	case na.done:
		return false
	case nb.done:
		return true
	case t.less(na.value, nb.value):
		return true
	case t.less(nb.value, na.value):
		return false
	default:
		return a < b
	}
}

// play runs the tournament below pos and returns the winning leaf.
func (t *Tree[E]) play(pos int) int {
	if pos >= len(t.nodes)/2 {
		return pos
	}
	left := t.play(pos * 2)
	right := t.play(pos*2 + 1)
	if t.beats(left, right) {
		t.nodes[pos].index = right
		return left
	}
	t.nodes[pos].index = left
	return right
}

// replay walks from a leaf that just advanced up to the root, swapping in
// any stored loser that now beats it.
func (t *Tree[E]) replay(winner int) {
	for n := winner >> 1; n != 0; n >>= 1 {
		if loser := t.nodes[n].index; t.beats(loser, winner) {
			t.nodes[n].index, winner = winner, loser
		}
	}
	t.nodes[0].index = winner
}
