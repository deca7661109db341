package engine

import (
	"time"

	"github.com/chathaven/warden/guardmod/audit"
	"github.com/chathaven/warden/guardmod/countstore"
	"github.com/chathaven/warden/guardmod/flagstore"
	"github.com/chathaven/warden/guardmod/keyword"
	"github.com/chathaven/warden/guardmod/progression"
	"github.com/chathaven/warden/guardmod/raid"
	"github.com/chathaven/warden/guardmod/setstore"
	"github.com/chathaven/warden/guardmod/strikes"

	"log/slog"
)

var _ MessageRuleFunc = simpleSpamRule

func simpleSpamRule(c *MessageContext) error {
	if _, ok := keyword.ContainsAny(c.NormalizedText(), c.SetMembers(setstore.SetSpamKeywords)); ok {
		c.RecordViolation(strikes.KindSpam, strikes.SeverityLow)
	}
	return nil
}

var _ MessageRuleFunc = simpleScamRule

func simpleScamRule(c *MessageContext) error {
	if _, ok := keyword.ContainsAny(c.NormalizedText(), c.SetMembers(setstore.SetScamKeywords)); ok {
		c.RecordViolation(strikes.KindScam, strikes.SeverityCritical)
	}
	return nil
}

// EngineTestFixture builds a fully in-memory engine with two basic keyword
// rules. Intentionally exported, for use in other packages' tests.
func EngineTestFixture() Engine {
	cfg := DefaultConfig()
	sets := setstore.NewMemSetStore()
	sets.Add(setstore.SetSpamKeywords, "buy now")
	sets.Add(setstore.SetScamKeywords, "verify your wallet")
	return Engine{
		Logger: slog.Default(),
		Config: cfg,
		Settings: NewSettingsStore(ChatSettings{
			SpamFilterEnabled: cfg.SpamFilterEnabled,
			AntiRaidEnabled:   cfg.AntiRaidEnabled,
		}),
		Rules: RuleSet{
			MessageRules: []MessageRuleFunc{
				simpleSpamRule,
				simpleScamRule,
			},
		},
		Strikes:  strikes.NewLedger(cfg.StrikeThreshold, cfg.MuteDuration),
		Progress: progression.NewLedger(cfg.MessageCooldown),
		Raids:    raid.NewDetector(cfg.RaidThreshold, cfg.RaidWindow),
		Sets:     sets,
		Counters: countstore.NewMemCountStore(),
		Flags:    flagstore.NewMemFlagStore(),
		Audit:    audit.NewMemSink(),
	}
}

// TestMessage builds a message event with a fixed timestamp offset, for
// deterministic cooldown behavior in tests.
func TestMessage(senderID int64, text string, at time.Time) MessageEvent {
	return MessageEvent{
		SenderID:  senderID,
		ChatID:    -100,
		Text:      text,
		Timestamp: at,
	}
}

// raidDetectorForConfig rebuilds the raid detector after a test mutates the
// fixture's raid settings.
func raidDetectorForConfig(cfg Config) *raid.Detector {
	return raid.NewDetector(cfg.RaidThreshold, cfg.RaidWindow)
}

// ExtractEffects gives test code access to the private effects field.
// Intended for use in test code, *not* from rules.
func ExtractEffects(c *BaseContext) *Effects {
	return c.effects
}
