package flagstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemFlagStoreBasics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	fs := NewMemFlagStore()

	l, err := fs.Get(ctx, "user1")
	assert.NoError(err)
	assert.Empty(l)

	assert.NoError(fs.Add(ctx, "user1", []string{"banned", "raid-joiner"}))
	assert.NoError(fs.Add(ctx, "user1", []string{"banned", "muted"}))
	l, err = fs.Get(ctx, "user1")
	assert.NoError(err)
	assert.Equal(3, len(l))

	assert.NoError(fs.Remove(ctx, "user1", []string{"banned", "muted"}))
	l, err = fs.Get(ctx, "user1")
	assert.NoError(err)
	assert.Equal([]string{"raid-joiner"}, l)
}
