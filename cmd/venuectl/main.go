// Command venuectl is a thin, flag-driven helper for driving a running
// venued: it either prints one formatted command line to stdout (to be
// piped into venued's stdin), or tails a venued's TCP event broadcaster
// and echoes the execution/ticker stream line by line, unchanged.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
)

func main() {
	action := flag.String("action", "order", "order, cancel, status, statusall, quote, orderbook, or tail")
	tailAddr := flag.String("tail", "", "dial this host:port and print the broadcaster's event stream instead of emitting a command")

	name := flag.String("account", "", "account name")
	acctID := flag.Int("acctid", 0, "account number")
	qty := flag.Int64("qty", 1, "order quantity")
	price := flag.Int64("price", 0, "order price, integer minor units")
	side := flag.String("side", "buy", "buy or sell")
	orderType := flag.String("type", "limit", "limit, market, fok, or ioc")
	id := flag.Uint64("id", 0, "order id, for cancel/status")

	flag.Parse()

	if *tailAddr != "" {
		tail(*tailAddr)
		return
	}

	switch strings.ToLower(*action) {
	case "order":
		fmt.Printf("ORDER %s %d %d %d %d %d\n", *name, *acctID, *qty, *price, encodeSide(*side), encodeType(*orderType))
	case "cancel":
		fmt.Printf("CANCEL %d\n", *id)
	case "status":
		fmt.Printf("STATUS %d\n", *id)
	case "statusall":
		fmt.Printf("STATUSALL %d\n", *acctID)
	case "quote":
		fmt.Println("QUOTE")
	case "orderbook":
		fmt.Println("ORDERBOOK_BINARY")
	default:
		fmt.Fprintf(os.Stderr, "unknown action %q\n", *action)
		os.Exit(1)
	}
}

func encodeSide(s string) int {
	if strings.EqualFold(s, "sell") {
		return 2
	}
	return 1
}

func encodeType(t string) int {
	switch strings.ToLower(t) {
	case "market":
		return 2
	case "fok":
		return 3
	case "ioc":
		return 4
	default:
		return 1
	}
}

// tail connects to a transport.Broadcaster and echoes whatever it sends,
// line by line, until the connection closes.
func tail(addr string) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to connect to %s: %v\n", addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		fmt.Println(scanner.Text())
	}
}
