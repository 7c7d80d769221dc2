package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/uhyunpark/silverbar/pkg/events"
)

// keys: e:<8-byte big-endian seq>
var eventPrefix = []byte("e:")

func eventKey(seq uint64) []byte {
	k := make([]byte, len(eventPrefix)+8)
	copy(k, eventPrefix)
	binary.BigEndian.PutUint64(k[len(eventPrefix):], seq)
	return k
}

func seqFromKey(k []byte) (uint64, error) {
	if len(k) != len(eventPrefix)+8 {
		return 0, fmt.Errorf("malformed event key %x", k)
	}
	return binary.BigEndian.Uint64(k[len(eventPrefix):]), nil
}

// eventUpperBound is the first key past every event key.
func eventUpperBound() []byte {
	return []byte("e;")
}

func encodeEvent(ev events.Event) ([]byte, error) {
	return json.Marshal(ev)
}

func decodeEvent(b []byte) (events.Event, error) {
	var ev events.Event
	err := json.Unmarshal(b, &ev)
	return ev, err
}
