package protocol

import (
	"encoding/binary"

	"venue/internal/common"
)

// EncodeOrderBook renders bids then asks as big-endian (qty, price)
// uint32 pairs in book priority order, each side followed by an 8-byte
// zero pair terminator. Qty is never zero for a real resting order, so
// the terminator is unambiguous.
func EncodeOrderBook(bids, asks []common.Fill) []byte {
	out := make([]byte, 0, 8*(len(bids)+len(asks)+2))
	out = appendSide(out, bids)
	out = appendSide(out, asks)
	return out
}

func appendSide(out []byte, side []common.Fill) []byte {
	var buf [8]byte
	for _, f := range side {
		binary.BigEndian.PutUint32(buf[0:4], uint32(f.Qty))
		binary.BigEndian.PutUint32(buf[4:8], uint32(f.Price))
		out = append(out, buf[:]...)
	}
	var term [8]byte
	return append(out, term[:]...)
}
