package guardmod

import (
	"github.com/chathaven/warden/guardmod/countstore"
	"github.com/chathaven/warden/guardmod/engine"
	"github.com/chathaven/warden/guardmod/progression"
	"github.com/chathaven/warden/guardmod/strikes"
)

type Engine = engine.Engine
type Config = engine.Config
type RuleSet = engine.RuleSet

type ChatSettings = engine.ChatSettings
type SettingsStore = engine.SettingsStore

var NewSettingsStore = engine.NewSettingsStore

type Notifier = engine.Notifier
type WebhookNotifier = engine.WebhookNotifier

var NewWebhookNotifier = engine.NewWebhookNotifier

type MessageResult = engine.MessageResult
type JoinResult = engine.JoinResult

type MessageContext = engine.MessageContext
type JoinContext = engine.JoinContext
type MessageEvent = engine.MessageEvent
type JoinEvent = engine.JoinEvent
type LeaveEvent = engine.LeaveEvent
type RaidSignal = engine.RaidSignal

type MessageRuleFunc = engine.MessageRuleFunc
type JoinRuleFunc = engine.JoinRuleFunc

type Violation = strikes.Violation
type ModerationAction = strikes.ModerationAction
type LevelUp = progression.LevelUp

var (
	KindSpam        = strikes.KindSpam
	KindScam        = strikes.KindScam
	KindAdvertising = strikes.KindAdvertising
	KindRepetitive  = strikes.KindRepetitive
	KindExplicit    = strikes.KindExplicit
	KindRaid        = strikes.KindRaid
	KindInviteSpam  = strikes.KindInviteSpam

	ActionWarn = strikes.ActionWarn
	ActionMute = strikes.ActionMute
	ActionBan  = strikes.ActionBan

	PeriodTotal = countstore.PeriodTotal
	PeriodDay   = countstore.PeriodDay
	PeriodHour  = countstore.PeriodHour
)
