package rules

import (
	"github.com/chathaven/warden/guardmod/engine"
	"github.com/chathaven/warden/guardmod/keyword"
	"github.com/chathaven/warden/guardmod/setstore"
	"github.com/chathaven/warden/guardmod/strikes"
)

var _ engine.MessageRuleFunc = SpamKeywordRule

// SpamKeywordRule matches low-grade promotional spam by substring.
func SpamKeywordRule(c *engine.MessageContext) error {
	if kw, ok := keyword.ContainsAny(c.NormalizedText(), c.SetMembers(setstore.SetSpamKeywords)); ok {
		c.Logger.Debug("spam keyword match", "keyword", kw)
		c.RecordViolation(strikes.KindSpam, strikes.SeverityLow)
	}
	return nil
}

var _ engine.MessageRuleFunc = ScamKeywordRule

// ScamKeywordRule matches crypto-drainer and credential-phishing phrases.
// Critical severity: one hit is an immediate ban, no strike accumulation.
func ScamKeywordRule(c *engine.MessageContext) error {
	if kw, ok := keyword.ContainsAny(c.NormalizedText(), c.SetMembers(setstore.SetScamKeywords)); ok {
		c.Logger.Debug("scam keyword match", "keyword", kw)
		c.RecordViolation(strikes.KindScam, strikes.SeverityCritical)
	}
	return nil
}

var _ engine.MessageRuleFunc = BlacklistWordRule

// BlacklistWordRule matches operator-maintained blacklisted words by
// substring. A word that is also whitelisted never matches: the whitelist
// short-circuits the blacklist, and nothing else.
func BlacklistWordRule(c *engine.MessageContext) error {
	text := c.NormalizedText()
	for _, word := range c.SetMembers(setstore.SetWordBlacklist) {
		word = keyword.Normalize(word)
		if word == "" {
			continue
		}
		if _, ok := keyword.ContainsAny(text, []string{word}); !ok {
			continue
		}
		if c.InSet(setstore.SetWordWhitelist, word) {
			continue
		}
		c.Logger.Debug("blacklisted word match", "word", word)
		c.RecordViolation(strikes.KindExplicit, strikes.SeverityMedium)
		return nil
	}
	return nil
}
