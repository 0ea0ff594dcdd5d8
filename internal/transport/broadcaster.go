// Package transport provides one concrete way to deliver the engine's
// execution/ticker event stream beyond the process's own stderr: a TCP
// fan-out broadcaster. The engine knows nothing about this package; it
// only knows the engine.Emitter interface. Adapted from this codebase's
// original TCP server (accept loop + bounded worker pool + tomb lifecycle
// + zerolog), repurposed from "receive orders" to "broadcast events".
package transport

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"venue/internal/engine"
	"venue/internal/protocol"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const (
	defaultNWorkers    = 10
	defaultConnTimeout = 30 * time.Second
)

// Broadcaster listens on address:port and mirrors every execution/ticker
// event to every currently connected subscriber. A subscriber whose write
// fails or does not complete within defaultConnTimeout is dropped.
type Broadcaster struct {
	address string
	port    int
	pool    WorkerPool
	cancel  context.CancelFunc

	subsLock sync.Mutex
	subs     map[string]net.Conn
}

// New returns a Broadcaster that will listen on address:port once Run is
// called.
func New(address string, port int) *Broadcaster {
	return &Broadcaster{
		address: address,
		port:    port,
		pool:    NewWorkerPool(defaultNWorkers),
		subs:    make(map[string]net.Conn),
	}
}

// Run accepts subscriber connections until ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	ctx, b.cancel = context.WithCancel(ctx)
	defer b.cancel()

	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", b.address, b.port))
	if err != nil {
		return fmt.Errorf("broadcaster: unable to listen: %w", err)
	}
	defer listener.Close()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	t.Go(func() error {
		b.pool.Setup(t, b.handleSubscriber)
		return nil
	})

	log.Info().Str("address", listener.Addr().String()).Msg("event broadcaster listening")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			conn, err := listener.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Error().Err(err).Msg("broadcaster: accept failed")
				continue
			}
			b.addSubscriber(conn)
			b.pool.AddTask(conn)
		}
	}
}

// Shutdown stops the accept loop.
func (b *Broadcaster) Shutdown() {
	if b.cancel != nil {
		b.cancel()
	}
}

// handleSubscriber keeps a subscriber connection open for its own
// bookkeeping purposes (it never reads anything meaningful from
// subscribers) until the connection fails or closes, or the tomb dies,
// then removes it. A read deadline expiring only re-checks the tomb; an
// idle subscriber stays connected.
func (b *Broadcaster) handleSubscriber(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return nil
	}
	defer func() {
		b.removeSubscriber(conn.RemoteAddr().String())
		conn.Close()
	}()

	buf := make([]byte, 1)
	for {
		select {
		case <-t.Dying():
			return nil
		default:
			conn.SetReadDeadline(time.Now().Add(defaultConnTimeout))
			if _, err := conn.Read(buf); err != nil {
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					continue
				}
				return nil
			}
		}
	}
}

func (b *Broadcaster) addSubscriber(conn net.Conn) {
	b.subsLock.Lock()
	defer b.subsLock.Unlock()
	b.subs[conn.RemoteAddr().String()] = conn
}

func (b *Broadcaster) removeSubscriber(addr string) {
	b.subsLock.Lock()
	defer b.subsLock.Unlock()
	delete(b.subs, addr)
}

// publish writes payload to every currently connected subscriber,
// dropping (and removing) any connection that fails to accept it.
func (b *Broadcaster) publish(payload []byte) {
	b.subsLock.Lock()
	defer b.subsLock.Unlock()
	for addr, conn := range b.subs {
		conn.SetWriteDeadline(time.Now().Add(defaultConnTimeout))
		if _, err := conn.Write(payload); err != nil {
			log.Error().Err(err).Str("address", addr).Msg("dropping unresponsive subscriber")
			conn.Close()
			delete(b.subs, addr)
		}
	}
}

// Emitter returns an engine.Emitter that fans events out to this
// broadcaster's subscribers.
func (b *Broadcaster) Emitter() engine.Emitter {
	return &emitter{b: b}
}

type emitter struct{ b *Broadcaster }

func (e *emitter) EmitExecution(ev engine.ExecutionEvent) {
	var buf bytes.Buffer
	if err := protocol.WriteExecution(&buf, ev); err != nil {
		log.Error().Err(err).Msg("broadcaster: failed to render execution event")
		return
	}
	e.b.publish(buf.Bytes())
}

func (e *emitter) EmitTicker(ev engine.TickerEvent) {
	var buf bytes.Buffer
	if err := protocol.WriteTicker(&buf, ev); err != nil {
		log.Error().Err(err).Msg("broadcaster: failed to render ticker event")
		return
	}
	e.b.publish(buf.Bytes())
}
