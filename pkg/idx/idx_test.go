package idx_test

import (
	"testing"

	"github.com/harshalself/authgate/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.NotEmpty(t, id.String())
	require.False(t, id.IsZero())

	// Parse a newly generated string
	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseRejectsJunk(t *testing.T) {
	for _, bad := range []string{"", "   ", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		_, err := idx.Parse(bad)
		require.ErrorIs(t, err, idx.ErrInvalid, "input %q", bad)
	}
}

func TestNewIsSortable(t *testing.T) {
	// Monotonic entropy keeps IDs generated in sequence ordered even within
	// the same millisecond.
	prev := idx.New()
	for i := 0; i < 50; i++ {
		next := idx.New()
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}
