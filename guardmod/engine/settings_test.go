package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsStoreResolution(t *testing.T) {
	assert := assert.New(t)

	def := ChatSettings{SpamFilterEnabled: true, AntiRaidEnabled: true}
	store := NewSettingsStore(def)

	assert.Equal(def, store.ForChat(-100))

	store.Override(-100, ChatSettings{SpamFilterEnabled: false, AntiRaidEnabled: true})
	assert.False(store.ForChat(-100).SpamFilterEnabled)
	// other chats keep the default; the default itself is untouched
	assert.True(store.ForChat(-200).SpamFilterEnabled)
	assert.Equal(def, store.Default())

	store.Clear(-100)
	assert.Equal(def, store.ForChat(-100))
}

func TestPerChatSpamFilterOverride(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()
	eng.Settings = NewSettingsStore(ChatSettings{SpamFilterEnabled: true, AntiRaidEnabled: true})
	eng.Settings.Override(-200, ChatSettings{SpamFilterEnabled: false, AntiRaidEnabled: true})

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// filtered chat still classifies
	evt := TestMessage(100, "buy now", base)
	res, err := eng.ProcessMessage(ctx, evt)
	require.NoError(t, err)
	require.NotNil(t, res.Action)

	// the overridden chat skips rules and rewards XP instead
	evt = TestMessage(101, "buy now", base)
	evt.ChatID = -200
	res, err = eng.ProcessMessage(ctx, evt)
	require.NoError(t, err)
	assert.Nil(res.Action)
	assert.Equal(1, eng.Progress.Stats(101).TotalXP)
}
