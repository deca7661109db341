// Trust-and-safety decision engine for chat communities.
//
// This package (`github.com/chathaven/warden/guardmod`) contains a rules
// engine that classifies inbound messages as rule violations, escalates
// repeat offenders through warn/mute/ban, detects mass-join ("raid") bursts
// per chat, and tracks per-user XP and levels used both to reward engagement
// and to gate moderation leniency. The engine only decides: enforcement on
// the chat platform, message formatting, and delivery of notifications are
// the caller's job, driven by the actions and signals the engine emits.
//
// See `cmd/warden` for a daemon built on this package.
package guardmod
