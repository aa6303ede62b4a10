package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLenCountsRunes(t *testing.T) {
	s := New("test", "aö€")
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 'ö', s.At(1))
	assert.Equal(t, '€', s.At(2))
}

func TestTextClipping(t *testing.T) {
	s := New("test", "hello")
	assert.Equal(t, "ell", s.Text(1, 3))
	assert.Equal(t, "llo", s.Text(2, 100))
	assert.Equal(t, "he", s.Text(-2, 2))
	assert.Equal(t, "", s.Text(7, 3))
	assert.Equal(t, "", s.Text(2, 0))
}

func TestLineCol(t *testing.T) {
	s := New("test", "ab\ncde\n\nf")

	samples := []struct {
		pos, line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3},
		{3, 2, 1},
		{6, 2, 4},
		{7, 3, 1},
		{8, 4, 1},
		{9, 4, 2},
	}
	for _, sample := range samples {
		line, col := s.LineCol(sample.pos)
		assert.Equalf(t, sample.line, line, "pos %d", sample.pos)
		assert.Equalf(t, sample.col, col, "pos %d", sample.pos)
	}
}

func TestLineColEmpty(t *testing.T) {
	line, col := New("test", "").LineCol(0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)
}

func TestPos(t *testing.T) {
	p := New("conf", "x\ny").Pos(2)
	assert.Equal(t, "conf", p.SourceName())
	assert.Equal(t, 2, p.Line())
	assert.Equal(t, 1, p.Col())
}
