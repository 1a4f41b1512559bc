package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClampsBounds(t *testing.T) {
	p := New(0, 0, 45)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 10, p.Limit)
	require.Equal(t, 5, p.Pages)
	require.Equal(t, 0, p.Offset)
	require.True(t, p.HasNext)
	require.False(t, p.HasPrev)

	p = New(3, 200, 250)
	require.Equal(t, 100, p.Limit)
	require.Equal(t, 3, p.Pages)
	require.Equal(t, 200, p.Offset)
	require.False(t, p.HasNext)
}

func TestParseDefaults(t *testing.T) {
	page, limit := Parse("", "")
	require.Equal(t, 1, page)
	require.Equal(t, 10, limit)

	page, limit = Parse("2", "50")
	require.Equal(t, 2, page)
	require.Equal(t, 50, limit)

	_, limit = Parse("1", "9999")
	require.Equal(t, 100, limit)

	// Out-of-range values echo back clamped, never as requested.
	page, limit = Parse("-3", "1000")
	require.Equal(t, 1, page)
	require.Equal(t, 100, limit)
}
