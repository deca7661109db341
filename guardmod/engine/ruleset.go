package engine

type MessageRuleFunc = func(c *MessageContext) error
type JoinRuleFunc = func(c *JoinContext) error

// Holds configuration of which rules should be run, and dispatches events to
// them.
type RuleSet struct {
	MessageRules []MessageRuleFunc
	JoinRules    []JoinRuleFunc
}

// CallMessageRules executes message rules in registration order. Evaluation
// stops at the first rule that records a violation: a message yields at most
// one violation, and rule order is the classification priority.
func (r *RuleSet) CallMessageRules(c *MessageContext) error {
	for _, f := range r.MessageRules {
		if err := f(c); err != nil {
			return err
		}
		if c.effects.Violation != nil {
			return nil
		}
	}
	return nil
}

// CallJoinRules executes all join rules. Only dispatches execution, no
// pre/post processing.
func (r *RuleSet) CallJoinRules(c *JoinContext) error {
	for _, f := range r.JoinRules {
		if err := f(c); err != nil {
			return err
		}
	}
	return nil
}
