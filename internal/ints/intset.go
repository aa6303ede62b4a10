// Package ints implements a bit set over small non-negative integers.
package ints

const wordShift = 6
const wordSize = 1 << wordShift

type Set struct {
	words []uint64
}

func NewSet(items ...int) *Set {
	result := &Set{}
	for _, item := range items {
		result.Add(item)
	}
	return result
}

func (s *Set) Add(item int) *Set {
	index := item >> wordShift
	for index >= len(s.words) {
		s.words = append(s.words, 0)
	}
	s.words[index] |= 1 << (uint(item) & (wordSize - 1))
	return s
}

func (s *Set) Remove(item int) *Set {
	index := item >> wordShift
	if index < len(s.words) {
		s.words[index] &^= 1 << (uint(item) & (wordSize - 1))
	}
	return s
}

func (s *Set) Contains(item int) bool {
	if item < 0 {
		return false
	}

	index := item >> wordShift
	return index < len(s.words) && s.words[index]&(1<<(uint(item)&(wordSize-1))) != 0
}

func (s *Set) IsEmpty() bool {
	for _, word := range s.words {
		if word != 0 {
			return false
		}
	}
	return true
}

func (s *Set) Len() int {
	result := 0
	for _, word := range s.words {
		for word != 0 {
			result++
			word &= word - 1
		}
	}
	return result
}

func (s *Set) ToSlice() []int {
	result := make([]int, 0, s.Len())
	for i, word := range s.words {
		for j := 0; j < wordSize; j++ {
			if word&(1<<uint(j)) != 0 {
				result = append(result, i<<wordShift+j)
			}
		}
	}
	return result
}

func (s *Set) Copy() *Set {
	words := make([]uint64, len(s.words))
	copy(words, s.words)
	return &Set{words}
}
