package rules

import (
	"regexp"

	"github.com/chathaven/warden/guardmod/engine"
	"github.com/chathaven/warden/guardmod/strikes"
)

// trustedLevel is the progression level at which users may post links.
const trustedLevel = 5

var linkPattern = regexp.MustCompile(`https?://\S+|t\.me/\+|telegram\.me/\+`)
var invitePattern = regexp.MustCompile(`t\.me/([a-zA-Z0-9_]+)`)

// inviteSpamMin is how many distinct invite links a single message needs to
// count as invite spam rather than ordinary advertising.
const inviteSpamMin = 3

var _ engine.MessageRuleFunc = InviteSpamRule

// InviteSpamRule catches messages carpet-bombing invite links. Checked ahead
// of AdvertisingRule so the trusted-level exemption never applies to it.
func InviteSpamRule(c *engine.MessageContext) error {
	matches := invitePattern.FindAllString(c.NormalizedText(), -1)
	if len(matches) >= inviteSpamMin {
		c.Logger.Debug("invite link burst", "count", len(matches))
		c.RecordViolation(strikes.KindInviteSpam, strikes.SeverityMedium)
	}
	return nil
}

var _ engine.MessageRuleFunc = AdvertisingRule

// AdvertisingRule flags link posting by low-trust users. Users at or above
// the trusted level are exempt.
func AdvertisingRule(c *engine.MessageContext) error {
	if !linkPattern.MatchString(c.NormalizedText()) {
		return nil
	}
	if c.SenderLevel() >= trustedLevel {
		return nil
	}
	c.RecordViolation(strikes.KindAdvertising, strikes.SeverityLow)
	return nil
}
