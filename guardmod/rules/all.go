package rules

import (
	"github.com/chathaven/warden/guardmod/engine"
	"github.com/chathaven/warden/guardmod/setstore"
)

// DefaultRules returns the production rule set. Order matters: it is the
// classification priority, and dispatch stops at the first rule that records
// a violation.
func DefaultRules() engine.RuleSet {
	return engine.RuleSet{
		MessageRules: []engine.MessageRuleFunc{
			SpamKeywordRule,
			ScamKeywordRule,
			InviteSpamRule,
			AdvertisingRule,
			RepeatedCharsRule,
			BlacklistWordRule,
		},
	}
}

// Baseline keyword lists. Deployments extend or replace these via the sets
// JSON file.
var defaultSpamKeywords = []string{
	"buy now",
	"click here",
	"free money",
	"guaranteed income",
	"make money fast",
	"limited time offer",
	"act now",
}

var defaultScamKeywords = []string{
	"wallet connect",
	"verify your wallet",
	"airdrop claim",
	"double your",
	"send crypto",
	"withdraw now",
}

// DefaultSets returns a set store seeded with the baseline keyword lists and
// empty blacklist/whitelist sets.
func DefaultSets() *setstore.MemSetStore {
	sets := setstore.NewMemSetStore()
	sets.Add(setstore.SetSpamKeywords, defaultSpamKeywords...)
	sets.Add(setstore.SetScamKeywords, defaultScamKeywords...)
	return sets
}
