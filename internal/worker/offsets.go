package worker

import "github.com/segmentio/kafka-go"

type trackedMessage struct {
	msg  kafka.Message
	done bool
}

// offsetTracker keeps fetched messages in fetch order per partition so a
// partition is only committed up to its oldest unfinished message.
type offsetTracker struct {
	pending map[int][]*trackedMessage
}

func newOffsetTracker() *offsetTracker {
	return &offsetTracker{pending: make(map[int][]*trackedMessage)}
}

func (t *offsetTracker) track(m kafka.Message) *trackedMessage {
	tm := &trackedMessage{msg: m}
	t.pending[m.Partition] = append(t.pending[m.Partition], tm)
	return tm
}

// finish marks tm done and returns the newest message of its partition
// that is now safe to commit, if any.
func (t *offsetTracker) finish(tm *trackedMessage) (kafka.Message, bool) {
	tm.done = true
	q := t.pending[tm.msg.Partition]
	n := 0
	for n < len(q) && q[n].done {
		n++
	}
	if n == 0 {
		return kafka.Message{}, false
	}
	last := q[n-1].msg
	if n == len(q) {
		delete(t.pending, tm.msg.Partition)
	} else {
		t.pending[tm.msg.Partition] = q[n:]
	}
	return last, true
}
