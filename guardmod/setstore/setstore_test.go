package setstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemSetStoreBasics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := NewMemSetStore()

	ok, err := s.InSet(ctx, "missing-set", "val")
	assert.NoError(err)
	assert.False(ok)

	s.Add(SetSpamKeywords, "buy now", "click here")
	ok, err = s.InSet(ctx, SetSpamKeywords, "buy now")
	assert.NoError(err)
	assert.True(ok)
	ok, err = s.InSet(ctx, SetSpamKeywords, "other")
	assert.NoError(err)
	assert.False(ok)

	members, err := s.Members(ctx, SetSpamKeywords)
	assert.NoError(err)
	assert.Equal([]string{"buy now", "click here"}, members)

	s.Remove(SetSpamKeywords, "buy now")
	ok, err = s.InSet(ctx, SetSpamKeywords, "buy now")
	assert.NoError(err)
	assert.False(ok)

	members, err = s.Members(ctx, "missing-set")
	assert.NoError(err)
	assert.Empty(members)
}

func TestLoadFromFileJSON(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	p := filepath.Join(t.TempDir(), "sets.json")
	blob := `{"word-blacklist": ["badword"], "word-whitelist": ["okword"]}`
	assert.NoError(os.WriteFile(p, []byte(blob), 0644))

	s := NewMemSetStore()
	s.Add(SetWordBlacklist, "existing")
	assert.NoError(s.LoadFromFileJSON(p))

	ok, err := s.InSet(ctx, SetWordBlacklist, "badword")
	assert.NoError(err)
	assert.True(ok)
	// load merges, doesn't replace
	ok, err = s.InSet(ctx, SetWordBlacklist, "existing")
	assert.NoError(err)
	assert.True(ok)
	ok, err = s.InSet(ctx, SetWordWhitelist, "okword")
	assert.NoError(err)
	assert.True(ok)

	assert.Error(s.LoadFromFileJSON(filepath.Join(t.TempDir(), "nope.json")))
}
