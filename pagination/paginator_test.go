package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumPages(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		want  int
	}{
		{"empty", 0, 1},
		{"single", 1, 1},
		{"orphans merged into first page", 15, 1},
		{"one over orphan threshold", 16, 2},
		{"twenty three", 23, 2},
		{"twenty six", 26, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(10, 5, tt.count).NumPages())
		})
	}
}

func TestPage_LastPageAbsorbsOrphans(t *testing.T) {
	p := New(10, 5, 23)

	first, err := p.Page(1)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Offset)
	assert.Equal(t, 10, first.Limit)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrevious)

	second, err := p.Page(2)
	require.NoError(t, err)
	assert.Equal(t, 10, second.Offset)
	assert.Equal(t, 13, second.Limit)
	assert.False(t, second.HasNext)
	assert.True(t, second.HasPrevious)
}

func TestPage_OutOfRange(t *testing.T) {
	p := New(10, 5, 23)
	_, err := p.Page(3)
	assert.ErrorIs(t, err, ErrEmptyPage)
	_, err = p.Page(0)
	assert.ErrorIs(t, err, ErrEmptyPage)
}

func TestPage_EmptyFirstPage(t *testing.T) {
	page, err := New(10, 5, 0).Page(1)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Limit)
}

func TestParseNumber(t *testing.T) {
	n, err := ParseNumber("")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = ParseNumber(" 2 ")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = ParseNumber("invalid_param")
	assert.ErrorIs(t, err, ErrNotAnInteger)
}

func TestClamp(t *testing.T) {
	p := New(10, 5, 23)
	assert.Equal(t, 1, p.Clamp("abc").Number)
	assert.Equal(t, 2, p.Clamp("9").Number)
	assert.Equal(t, 1, p.Clamp("-1").Number)
}
