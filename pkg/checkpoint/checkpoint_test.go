package checkpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkAndSeen(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	seen, err := store.Seen("ART_009_0005421367")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Mark("ART_009_0005421367"))

	seen, err = store.Seen("ART_009_0005421367")
	require.NoError(t, err)
	assert.True(t, seen)

	// Other ids remain unseen.
	seen, err = store.Seen("ART_009_0005421368")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestMarkIsIdempotent(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Mark("ART_123_456"))
	require.NoError(t, store.Mark("ART_123_456"))

	seen, err := store.Seen("ART_123_456")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Mark("ART_1_2"))
	require.NoError(t, store.Close())

	store, err = Open(dir)
	require.NoError(t, err)
	defer store.Close()

	seen, err := store.Seen("ART_1_2")
	require.NoError(t, err)
	assert.True(t, seen)
}
