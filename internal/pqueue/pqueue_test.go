package pqueue

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intLess(a, b int) bool {
	return a < b
}

func drain(q *Queue[int]) []int {
	result := []int{}
	for {
		item, ok := q.Pop()
		if !ok {
			break
		}
		result = append(result, item)
	}
	return result
}

func TestEmpty(t *testing.T) {
	q := New(intLess)
	assert.True(t, q.IsEmpty())
	assert.Equal(t, 0, q.Len())
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestOrdering(t *testing.T) {
	q := New(intLess, 5, 1, 4, 1, 3)
	assert.Equal(t, 5, q.Len())
	assert.Equal(t, []int{1, 1, 3, 4, 5}, drain(q))
	assert.True(t, q.IsEmpty())
}

func TestInterleaved(t *testing.T) {
	q := New(intLess, 3, 7)
	item, _ := q.Pop()
	assert.Equal(t, 3, item)

	q.Push(1).Push(9)
	assert.Equal(t, []int{1, 7, 9}, drain(q))
}

func TestRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 20; round++ {
		items := make([]int, rng.Intn(100))
		for i := range items {
			items[i] = rng.Intn(50)
		}

		got := drain(New(intLess, items...))
		sort.Ints(items)
		assert.Equal(t, items, got)
	}
}
