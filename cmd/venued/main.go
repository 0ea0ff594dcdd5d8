// Command venued runs one matching engine for a single (venue, symbol)
// pair. It reads commands from stdin, writes replies to stdout, and
// writes execution/ticker events to stderr, all per the line-oriented
// text protocol in internal/protocol. Optionally it also mirrors the
// event stream to any TCP subscribers via internal/transport.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"venue/internal/engine"
	"venue/internal/protocol"
	"venue/internal/transport"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	eventsAddr := flag.String("events-addr", "", "host for an optional TCP event broadcaster, e.g. 0.0.0.0:9101")
	logLevel := flag.String("log-level", "info", "zerolog level: debug, info, warn, error")
	flag.Parse()

	if level, err := zerolog.ParseLevel(*logLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: venued [flags] <venue> <symbol>")
		os.Exit(1)
	}
	venue, symbol := flag.Arg(0), flag.Arg(1)

	eng := engine.New(venue, symbol)

	sink := engine.MultiEmitter{stderrEmitter{}}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *eventsAddr != "" {
		host, port, err := splitHostPort(*eventsAddr)
		if err != nil {
			log.Error().Err(err).Msg("invalid --events-addr, broadcaster disabled")
		} else {
			bcast := transport.New(host, port)
			sink = append(sink, bcast.Emitter())
			go func() {
				if err := bcast.Run(ctx); err != nil {
					log.Error().Err(err).Msg("event broadcaster stopped")
				}
			}()
		}
	}

	eng.SetEmitter(sink)

	dispatcher := protocol.New(eng)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if err := dispatcher.Dispatch(scanner.Text(), os.Stdout); err != nil {
			log.Error().Err(err).Msg("failed writing reply")
		}
	}

	// The command loop is meant to run forever; reaching EOF here (for
	// any reason, including a clean close) means the supervising process
	// went away unexpectedly.
	fmt.Fprintln(os.Stderr, "unexpected EOF on command stream")
	os.Exit(1)
}

// stderrEmitter writes the event stream to the process's own stderr,
// matching the reference backend's default event routing.
type stderrEmitter struct{}

func (stderrEmitter) EmitExecution(ev engine.ExecutionEvent) {
	if err := protocol.WriteExecution(os.Stderr, ev); err != nil {
		log.Error().Err(err).Msg("failed writing execution event")
	}
}

func (stderrEmitter) EmitTicker(ev engine.TickerEvent) {
	if err := protocol.WriteTicker(os.Stderr, ev); err != nil {
		log.Error().Err(err).Msg("failed writing ticker event")
	}
}

func splitHostPort(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}
