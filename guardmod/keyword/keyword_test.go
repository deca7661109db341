package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("hello world", Normalize("  Hello WORLD "))
	assert.Equal("", Normalize(""))
	assert.Equal("ß", Normalize("ß"))
}

func TestContainsAny(t *testing.T) {
	assert := assert.New(t)

	kw, ok := ContainsAny("big sale buy now friends", []string{"click here", "buy now"})
	assert.True(ok)
	assert.Equal("buy now", kw)

	_, ok = ContainsAny("totally normal message", []string{"click here", "buy now"})
	assert.False(ok)

	// keywords get normalized, text is assumed normalized already
	kw, ok = ContainsAny("verify your wallet today", []string{"Verify Your Wallet"})
	assert.True(ok)
	assert.Equal("verify your wallet", kw)

	_, ok = ContainsAny("", []string{"buy now"})
	assert.False(ok)
	_, ok = ContainsAny("anything", nil)
	assert.False(ok)
}

func TestHasRepeatedRun(t *testing.T) {
	assert := assert.New(t)

	assert.True(HasRepeatedRun("aaaaaa", 6))
	assert.False(HasRepeatedRun("aaaaa", 6))
	assert.True(HasRepeatedRun("hey!!!!!!!", 6))
	assert.False(HasRepeatedRun("abcdef", 6))
	assert.False(HasRepeatedRun("", 6))
	// rune-aware, not byte-aware
	assert.True(HasRepeatedRun("讨讨讨讨讨讨", 6))
	assert.False(HasRepeatedRun("讨讨讨", 6))
}

func TestPreview(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("hello", Preview("hello", 50))
	assert.Equal("hel", Preview("hello", 3))
	assert.Equal("", Preview("hello", 0))
	assert.Equal("讨论讨", Preview("讨论讨论讨论", 3))
}
