package engine

import (
	"sync"
)

// ChatSettings are the policy knobs that can differ per chat. Everything
// else in Config is process-wide.
type ChatSettings struct {
	SpamFilterEnabled bool `json:"spam_filter_enabled"`
	AntiRaidEnabled   bool `json:"anti_raid_enabled"`
}

// SettingsStore resolves per-chat settings against an immutable default.
// The default is fixed at construction and never mutated; chat-specific
// values live in their own map and only ever shadow it.
type SettingsStore struct {
	def ChatSettings

	mu        sync.RWMutex
	overrides map[int64]ChatSettings
}

func NewSettingsStore(def ChatSettings) *SettingsStore {
	return &SettingsStore{
		def:       def,
		overrides: make(map[int64]ChatSettings),
	}
}

// ForChat returns the settings in force for a chat. Chats without an
// override get a copy of the default.
func (s *SettingsStore) ForChat(chatID int64) ChatSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cs, ok := s.overrides[chatID]; ok {
		return cs
	}
	return s.def
}

// Override replaces the full settings for one chat.
func (s *SettingsStore) Override(chatID int64, cs ChatSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[chatID] = cs
}

// Clear removes a chat's override, returning it to the default.
func (s *SettingsStore) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, chatID)
}

// Default returns the immutable fallback settings.
func (s *SettingsStore) Default() ChatSettings {
	return s.def
}

// chatSettings resolves the effective settings for a chat, falling back to
// the process-wide Config when no store is attached.
func (eng *Engine) chatSettings(chatID int64) ChatSettings {
	if eng.Settings != nil {
		return eng.Settings.ForChat(chatID)
	}
	return ChatSettings{
		SpamFilterEnabled: eng.Config.SpamFilterEnabled,
		AntiRaidEnabled:   eng.Config.AntiRaidEnabled,
	}
}
