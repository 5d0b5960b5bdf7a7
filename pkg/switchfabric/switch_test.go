package switchfabric

import (
	"testing"
	"time"

	"github.com/cirrusnet/intcode/pkg/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeInputSeededWithOwnAddress(t *testing.T) {
	sw := New(255, []int64{0, 1})
	b := sw.BridgeFor(1)
	v, err := b.Read(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestBridgeReadOnEmptyFIFOReturnsMinusOneNotAnError(t *testing.T) {
	sw := New(255, []int64{0}, WithPollInterval(time.Millisecond))
	b := sw.BridgeFor(0)
	b.Read(nil) // drain the seeded address word
	v, err := b.Read(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v)
}

func TestThirdWriteRoutesAThreeWordFrameToTheDestinationBridge(t *testing.T) {
	sw := New(255, []int64{0, 1}, WithPollInterval(time.Millisecond))
	sender := sw.BridgeFor(0)
	dest := sw.BridgeFor(1)
	dest.Read(nil) // drain seeded address word

	require.NoError(t, sender.Write(1, nil))
	require.NoError(t, sender.Write(100, nil))
	require.NoError(t, sender.Write(200, nil))

	x, err := dest.Read(nil)
	require.NoError(t, err)
	y, err := dest.Read(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(100), x)
	assert.Equal(t, int64(200), y)
}

func TestWriteToNatAddressGoesToNatInboxNotABridge(t *testing.T) {
	sw := New(255, []int64{0}, WithPollInterval(time.Millisecond))
	sender := sw.BridgeFor(0)

	require.NoError(t, sender.Write(255, nil))
	require.NoError(t, sender.Write(7, nil))
	require.NoError(t, sender.Write(8, nil))

	sw.mu.Lock()
	x, y, ok := sw.natX, sw.natY, sw.natHas
	sw.mu.Unlock()
	assert.True(t, ok)
	assert.Equal(t, int64(7), x)
	assert.Equal(t, int64(8), y)
}

// TestRunNATUntilRepeatStopsOnRepeatedYBeforeRedelivering is the Open
// Question resolved in spec.md §9: the NAT worker must detect a repeated
// y strictly before it would re-send that packet to address 0.
func TestRunNATUntilRepeatStopsOnRepeatedYBeforeRedelivering(t *testing.T) {
	sw := New(255, []int64{0}, WithPollInterval(time.Millisecond))
	zero := sw.BridgeFor(0)
	zero.Read(nil) // drain the seeded address word

	sender := sw.BridgeFor(0)
	require.NoError(t, sender.Write(255, nil))
	require.NoError(t, sender.Write(11, nil))
	require.NoError(t, sender.Write(22, nil))

	// Simulate bridge 0's own program having already observed an empty
	// FIFO (the real trigger for "starving"), without running a full
	// Machine: isIdle() only consults the flag and FIFO length.
	markStarving := func() {
		zero.mu.Lock()
		zero.starving = true
		zero.mu.Unlock()
	}
	markStarving()

	cancel := port.NewCancelToken()
	done := make(chan struct{})
	var x, y int64
	var runErr error
	go func() {
		x, y, runErr = sw.RunNATUntilRepeat(cancel)
		close(done)
	}()

	// Wait for the first idle-triggered delivery, then drain it and
	// re-arm the same y so the second idle tick detects a repeat. Each
	// Bridge.Read sleeps one poll interval and returns -1 while the FIFO
	// is still empty, mirroring how a real program would poll.
	v1 := pollUntilDelivered(t, zero)
	v2 := pollUntilDelivered(t, zero)
	assert.Equal(t, int64(11), v1)
	assert.Equal(t, int64(22), v2)

	markStarving()
	require.NoError(t, sender.Write(255, nil))
	require.NoError(t, sender.Write(11, nil))
	require.NoError(t, sender.Write(22, nil))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunNATUntilRepeat never returned")
	}

	require.NoError(t, runErr)
	assert.Equal(t, int64(11), x)
	assert.Equal(t, int64(22), y)

	// No second delivery should have reached bridge 0's FIFO: the repeat
	// was caught before the redelivery would have occurred.
	v3, err := zero.Read(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v3, "no second delivery should have been enqueued")
}

// pollUntilDelivered repeatedly calls Read until it observes something
// other than the "no packet this tick" sentinel, or fails the test after
// a generous deadline.
func pollUntilDelivered(t *testing.T, b *Bridge) int64 {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v, err := b.Read(nil)
		require.NoError(t, err)
		if v != -1 {
			return v
		}
	}
	t.Fatal("Bridge never delivered a non-sentinel value")
	return 0
}
