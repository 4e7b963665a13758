package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeAfterFunc(t *testing.T) {
	c := Fake(epoch)
	fired := 0
	c.AfterFunc(100*time.Millisecond, func() { fired++ })

	c.Advance(50 * time.Millisecond)
	assert.Equal(t, 0, fired, "timer should not fire before its deadline")

	c.Advance(50 * time.Millisecond)
	assert.Equal(t, 1, fired, "timer should fire once its deadline is reached")

	c.Advance(time.Second)
	assert.Equal(t, 1, fired, "one-shot timer must not fire again")
}

func TestFakeAfterFuncStop(t *testing.T) {
	c := Fake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	require.True(t, timer.Stop())
	c.Advance(2 * time.Second)
	assert.False(t, fired)
	assert.False(t, timer.Stop(), "second Stop reports the timer already dead")
}

func TestFakeAfterFuncImmediate(t *testing.T) {
	c := Fake(epoch)
	fired := false
	c.AfterFunc(0, func() { fired = true })
	assert.True(t, fired, "non-positive delay fires synchronously")
}

func TestFakeTickFunc(t *testing.T) {
	c := Fake(epoch)
	ticks := 0
	ticker := c.TickFunc(time.Second, func() { ticks++ })

	c.Advance(3500 * time.Millisecond)
	assert.Equal(t, 3, ticks)

	ticker.Stop()
	c.Advance(5 * time.Second)
	assert.Equal(t, 3, ticks, "stopped ticker must not fire")
}

func TestFakeDeadlineOrder(t *testing.T) {
	c := Fake(epoch)
	var order []string
	c.AfterFunc(200*time.Millisecond, func() { order = append(order, "b") })
	c.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	c.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })

	c.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestFakeCallbackSchedulesTimer(t *testing.T) {
	c := Fake(epoch)
	var inner bool
	c.AfterFunc(100*time.Millisecond, func() {
		c.AfterFunc(100*time.Millisecond, func() { inner = true })
	})

	c.Advance(500 * time.Millisecond)
	assert.True(t, inner, "timer scheduled by a callback fires within the same Advance window")
}

func TestFakeNow(t *testing.T) {
	c := Fake(epoch)
	c.Advance(90 * time.Minute)
	assert.Equal(t, epoch.Add(90*time.Minute), c.Now())
}
