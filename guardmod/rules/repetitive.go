package rules

import (
	"github.com/chathaven/warden/guardmod/engine"
	"github.com/chathaven/warden/guardmod/keyword"
	"github.com/chathaven/warden/guardmod/strikes"
)

// repeatRunLength is the shortest run of one character that counts as
// keyboard-mash flooding.
const repeatRunLength = 6

var _ engine.MessageRuleFunc = RepeatedCharsRule

// RepeatedCharsRule flags messages with a long run of one repeated
// character ("aaaaaaaa", "!!!!!!!").
func RepeatedCharsRule(c *engine.MessageContext) error {
	if keyword.HasRepeatedRun(c.NormalizedText(), repeatRunLength) {
		c.RecordViolation(strikes.KindRepetitive, strikes.SeverityLow)
	}
	return nil
}
