// ack hands out packet sequence ids and measures latency from the
// acknowledgements that come back for them
package ack

import (
	"time"
)

const (
	// maxAckAge is how long we remember a sent packet. Anything that
	// hasn't been acknowledged after a second is too out of date to be
	// useful for measuring round trip time.
	//
	// Source:
	// https://gafferongames.com/post/reliability_ordering_and_congestion_avoidance_over_udp/#measuring-round-trip-time
	maxAckAge = time.Second

	// maxInFlight is how many unacknowledged packets we track at once
	maxInFlight = 64
)

type Tracker struct {
	sequenceID uint16
	inFlight   [maxInFlight]sentPacket
	latency    time.Duration
	// lastReceived is the newest sequence id read from the other side
	lastReceived    uint16
	hasLastReceived bool

	// now is swapped out by tests
	now func() time.Time
}

type sentPacket struct {
	sequenceID uint16
	time       time.Time
	waiting    bool
}

func (tracker *Tracker) clock() time.Time {
	if tracker.now != nil {
		return tracker.now()
	}
	return time.Now()
}

// Latency will return the smoothed average latency based on acknowledged
// packets
func (tracker *Tracker) Latency() time.Duration {
	return tracker.latency
}

// Next returns the sequence id for the next outgoing packet
func (tracker *Tracker) Next() uint16 {
	seqID := tracker.sequenceID
	tracker.sequenceID++

	// store the send time in a free slot (unused or expired)
	now := tracker.clock()
	for i := range tracker.inFlight {
		packet := &tracker.inFlight[i]
		if !packet.waiting || now.Sub(packet.time) > maxAckAge {
			*packet = sentPacket{
				sequenceID: seqID,
				time:       now,
				waiting:    true,
			}
			break
		}
	}
	return seqID
}

// Ack records that the other side received seqID
func (tracker *Tracker) Ack(seqID uint16) {
	now := tracker.clock()
	for i := range tracker.inFlight {
		packet := &tracker.inFlight[i]
		if !packet.waiting || packet.sequenceID != seqID {
			continue
		}
		packet.waiting = false
		sinceSent := now.Sub(packet.time)
		if sinceSent > maxAckAge {
			// expired, too old to be useful
			return
		}
		if tracker.latency == 0 {
			tracker.latency = sinceSent
		} else {
			tracker.latency = time.Duration(float64(tracker.latency) + (0.10 * float64(sinceSent-tracker.latency)))
		}
		return
	}
}

// Received records a sequence id read from the other side and reports
// whether it is newer than everything received before it. Older packets
// can be dropped, a newer board state has already been applied.
func (tracker *Tracker) Received(seqID uint16) bool {
	if tracker.hasLastReceived &&
		!IsWrappedUInt16GreaterThan(seqID, tracker.lastReceived) {
		return false
	}
	tracker.lastReceived = seqID
	tracker.hasLastReceived = true
	return true
}

// IsWrappedUInt16GreaterThan checks to see if a is greater than b but accounts
// for overflowing numbers.
//
// This means that:
// - If a = 101 and b = 100, then a is greater than b.
// - If a = 1 and b is 65000, then a is greater than b. (as its overflowed and looped)
//
// Source: https://gafferongames.com/post/reliability_ordering_and_congestion_avoidance_over_udp/
func IsWrappedUInt16GreaterThan(s1 uint16, s2 uint16) bool {
	return ((s1 > s2) && (s1-s2 <= 32768)) ||
		((s1 < s2) && (s2-s1 > 32768))
}
