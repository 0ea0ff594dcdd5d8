package transport

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPipePair returns one end to keep as the "subscriber" (read side) and
// the other end to register with the broadcaster as if it were an
// accepted connection.
func newPipePair() (keep net.Conn, register net.Conn) {
	return net.Pipe()
}

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := New("127.0.0.1", 0)

	keep, register := newPipePair()
	defer keep.Close()
	b.addSubscriber(register)

	go b.publish([]byte("EXECUTION alice V S\n"))

	register.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(keep).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "EXECUTION alice V S\n", line)
}

func TestPublishDropsDeadSubscriber(t *testing.T) {
	b := New("127.0.0.1", 0)

	keep, register := newPipePair()
	keep.Close() // subscriber is already gone

	b.addSubscriber(register)
	require.Len(t, b.subs, 1)

	b.publish([]byte("TICKER NONE V S\n"))

	b.subsLock.Lock()
	defer b.subsLock.Unlock()
	assert.Empty(t, b.subs, "a write failure must drop the subscriber")
}

func TestRemoveSubscriber(t *testing.T) {
	b := New("127.0.0.1", 0)
	_, register := newPipePair()
	defer register.Close()

	b.addSubscriber(register)
	require.Len(t, b.subs, 1)

	b.removeSubscriber(register.RemoteAddr().String())
	assert.Empty(t, b.subs)
}
