package strikes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testViolation(userID int64, kind ViolationKind, severity int, ts time.Time) Violation {
	return Violation{
		UserID:    userID,
		ChatID:    -100,
		Kind:      kind,
		Severity:  severity,
		Timestamp: ts,
		Preview:   "some text",
	}
}

func TestEscalationSequence(t *testing.T) {
	assert := assert.New(t)

	l := NewLedger(3, time.Hour)
	now := time.Now()

	// strike 1: warn
	a := l.Record(testViolation(101, KindSpam, SeverityLow, now))
	assert.Equal(ActionWarn, a.Kind)
	assert.Equal(1, a.StrikeCount)
	assert.False(l.IsBanned(101))
	assert.False(l.IsMuted(101, now))

	// strike 2: mute, strikes are not cleared
	a = l.Record(testViolation(101, KindSpam, SeverityLow, now))
	assert.Equal(ActionMute, a.Kind)
	assert.Equal(2, a.StrikeCount)
	assert.True(l.IsMuted(101, now))
	assert.Equal(now.Add(time.Hour), a.MuteUntil)

	// strike 3: ban
	a = l.Record(testViolation(101, KindSpam, SeverityLow, now))
	assert.Equal(ActionBan, a.Kind)
	assert.Equal(3, a.StrikeCount)
	assert.True(l.IsBanned(101))

	rec, ok := l.Get(101)
	assert.True(ok)
	assert.Equal(3, len(rec.Strikes))
	assert.Equal(1, rec.WarningCount)
}

func TestCriticalSeverityBansImmediately(t *testing.T) {
	assert := assert.New(t)

	l := NewLedger(3, time.Hour)
	now := time.Now()

	a := l.Record(testViolation(102, KindScam, SeverityCritical, now))
	assert.Equal(ActionBan, a.Kind)
	assert.Equal(1, a.StrikeCount)
	assert.True(l.IsBanned(102))
	assert.Contains(a.Reason, "scam")
}

func TestMuteExpiryIsLazy(t *testing.T) {
	assert := assert.New(t)

	l := NewLedger(3, time.Hour)
	now := time.Now()

	l.Record(testViolation(103, KindExplicit, SeverityMedium, now))
	a := l.Record(testViolation(103, KindExplicit, SeverityMedium, now))
	assert.Equal(ActionMute, a.Kind)

	// no timer fires: the flag stays set, reads compare timestamps
	assert.True(l.IsMuted(103, now.Add(59*time.Minute)))
	assert.False(l.IsMuted(103, now.Add(61*time.Minute)))

	rec, _ := l.Get(103)
	assert.True(rec.Muted)
}

func TestStrikeExpiryRecordedNotEnforced(t *testing.T) {
	assert := assert.New(t)

	l := NewLedger(3, time.Hour)
	base := time.Now().Add(-30 * 24 * time.Hour)

	// an ancient strike still counts toward escalation
	l.Record(testViolation(104, KindSpam, SeverityLow, base))
	a := l.Record(testViolation(104, KindSpam, SeverityLow, time.Now()))
	assert.Equal(ActionMute, a.Kind)
	assert.Equal(2, a.StrikeCount)

	rec, _ := l.Get(104)
	assert.Equal(2, len(rec.Strikes))
	// ...but the filtered view only sees the fresh one
	assert.Equal(1, rec.ActiveStrikes(time.Now()))
	assert.Equal(base.Add(7*24*time.Hour), rec.Strikes[0].ExpiresAt)
}

func TestUnknownUser(t *testing.T) {
	assert := assert.New(t)

	l := NewLedger(3, time.Hour)
	assert.False(l.IsBanned(999))
	assert.False(l.IsMuted(999, time.Now()))
	_, ok := l.Get(999)
	assert.False(ok)
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	l := NewLedger(1, time.Hour)
	a := l.Record(testViolation(105, KindSpam, SeverityLow, time.Now()))
	assert.Equal(ActionBan, a.Kind)
	assert.True(l.IsBanned(105))

	l.Reset(105)
	assert.False(l.IsBanned(105))
	a = l.Record(testViolation(105, KindSpam, SeverityLow, time.Now()))
	assert.Equal(1, a.StrikeCount)
}

func TestViolationKindValid(t *testing.T) {
	assert := assert.New(t)

	for _, k := range []ViolationKind{KindSpam, KindScam, KindAdvertising, KindRepetitive, KindExplicit, KindRaid, KindInviteSpam} {
		assert.True(k.Valid())
	}
	assert.False(ViolationKind("whatever").Valid())
}
