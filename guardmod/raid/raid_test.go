package raid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRaidThreshold(t *testing.T) {
	assert := assert.New(t)

	d := NewDetector(10, time.Minute)
	base := time.Now()

	// nine joins inside the window: quiet
	for i := 0; i < 9; i++ {
		assert.False(d.ObserveJoin(-100, base.Add(time.Duration(i)*time.Second)))
	}
	// the tenth trips it, and it stays tripped while the rate holds
	assert.True(d.ObserveJoin(-100, base.Add(9*time.Second)))
	assert.True(d.ObserveJoin(-100, base.Add(10*time.Second)))
	assert.True(d.ObserveJoin(-100, base.Add(11*time.Second)))
}

func TestWindowAgesOut(t *testing.T) {
	assert := assert.New(t)

	d := NewDetector(10, time.Minute)
	base := time.Now()

	for i := 0; i < 9; i++ {
		d.ObserveJoin(-100, base.Add(time.Duration(i)*time.Second))
	}
	assert.Equal(9, d.ActiveJoins(-100, base.Add(9*time.Second)))

	// a join two minutes later finds the burst aged out
	assert.False(d.ObserveJoin(-100, base.Add(2*time.Minute)))
	assert.Equal(1, d.ActiveJoins(-100, base.Add(2*time.Minute)))
}

func TestWindowsPerChat(t *testing.T) {
	assert := assert.New(t)

	d := NewDetector(3, time.Minute)
	base := time.Now()

	// a raid on one chat never inflates another chat's window
	d.ObserveJoin(-100, base)
	d.ObserveJoin(-100, base)
	assert.True(d.ObserveJoin(-100, base))

	assert.False(d.ObserveJoin(-200, base))
	assert.Equal(1, d.ActiveJoins(-200, base))
	assert.Equal(0, d.ActiveJoins(-300, base))
}

func TestThresholdOne(t *testing.T) {
	assert := assert.New(t)

	d := NewDetector(0, 0) // clamped to sane minimums
	assert.True(d.ObserveJoin(-100, time.Now()))
}
