package payhere

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const defaultOrderPrefix = "PMS"

// OrderIDGenerator mints unique order ids of the form
// <prefix>-<booking fragment>-<millis fragment><sequence>. The atomic
// sequence disambiguates requests issued within the same millisecond, so
// collisions cannot occur inside one process without coordination.
type OrderIDGenerator struct {
	prefix string
	seq    atomic.Uint64
	now    func() time.Time
}

func NewOrderIDGenerator(prefix string) *OrderIDGenerator {
	if prefix == "" {
		prefix = defaultOrderPrefix
	}
	return &OrderIDGenerator{prefix: prefix, now: time.Now}
}

func (g *OrderIDGenerator) Next(bookingID string) string {
	frag := bookingFragment(bookingID)
	millis := g.now().UnixMilli() % 1_000_000
	seq := g.seq.Add(1) % 10_000
	return fmt.Sprintf("%s-%s-%06d%04d", g.prefix, frag, millis, seq)
}

func bookingFragment(bookingID string) string {
	id := strings.TrimSpace(bookingID)
	if id == "" {
		return "adhoc"
	}
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
