package engine

import (
	"time"
)

// Config holds the externally tunable decision policy. Zero values are not
// meaningful; start from DefaultConfig.
type Config struct {
	// Strikes at which a user is banned. Half of this (rounded up) mutes.
	StrikeThreshold int
	// How long an automatic mute lasts.
	MuteDuration time.Duration
	// When false, message rules are skipped entirely (XP still accrues).
	SpamFilterEnabled bool
	// When false, joins are never checked against the raid window.
	AntiRaidEnabled bool
	// Joins within RaidWindow that count as a raid.
	RaidThreshold int
	RaidWindow    time.Duration
	// Minimum interval between message XP rewards per user.
	MessageCooldown time.Duration
}

func DefaultConfig() Config {
	return Config{
		StrikeThreshold:   3,
		MuteDuration:      time.Hour,
		SpamFilterEnabled: true,
		AntiRaidEnabled:   true,
		RaidThreshold:     10,
		RaidWindow:        time.Minute,
		MessageCooldown:   time.Minute,
	}
}
