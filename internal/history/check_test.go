package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	store, err := Open(BACKEND_SQLITE, IN_MEMORY, time.Now)
	require.NoError(t, err)

	check := Check(store)
	assert.Equal(t, "history", check.Name())
	assert.True(t, check.Pass())

	require.NoError(t, store.Close())
	assert.False(t, check.Pass())
}

func TestCheckMemory(t *testing.T) {
	assert.True(t, Check(NewMemoryStore(nil)).Pass())
}
