package link

// ChannelKind names one of the beacon's characteristics.
type ChannelKind int

const (
	ChannelStatus ChannelKind = iota + 1
	ChannelRange
	ChannelDuration
	ChannelCommand
)

func (k ChannelKind) String() string {
	switch k {
	case ChannelStatus:
		return "status"
	case ChannelRange:
		return "range"
	case ChannelDuration:
		return "duration"
	case ChannelCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Props mirrors the GATT characteristic property bits the link cares about.
type Props uint8

const (
	PropRead Props = 1 << iota
	PropWrite
	PropWriteNoResponse
	PropNotify
)

func (p Props) Has(flag Props) bool { return p&flag != 0 }

// Channel is a discovered characteristic.
type Channel struct {
	Kind  ChannelKind
	Props Props
}

// DefaultProps is what the beacon firmware advertises for each channel.
func DefaultProps(kind ChannelKind) Props {
	switch kind {
	case ChannelStatus, ChannelRange, ChannelDuration:
		return PropRead | PropNotify
	case ChannelCommand:
		return PropWrite | PropWriteNoResponse
	default:
		return 0
	}
}

// notifyOrder is the order subscriptions are attempted in.
var notifyOrder = []ChannelKind{ChannelStatus, ChannelRange, ChannelDuration}

// ChannelSet holds the channels found by discovery. It is immutable once
// built; a missing channel makes operations on it no-ops.
type ChannelSet struct {
	byKind map[ChannelKind]Channel
}

// NewChannelSet keeps the first channel of each known kind.
func NewChannelSet(channels []Channel) ChannelSet {
	m := make(map[ChannelKind]Channel, len(channels))
	for _, ch := range channels {
		if ch.Kind < ChannelStatus || ch.Kind > ChannelCommand {
			continue
		}
		if _, dup := m[ch.Kind]; dup {
			continue
		}
		m[ch.Kind] = ch
	}
	return ChannelSet{byKind: m}
}

func (s ChannelSet) Get(kind ChannelKind) (Channel, bool) {
	ch, ok := s.byKind[kind]
	return ch, ok
}

func (s ChannelSet) Has(kind ChannelKind) bool {
	_, ok := s.byKind[kind]
	return ok
}

func (s ChannelSet) Len() int { return len(s.byKind) }

// Subscribable returns Status, Range and Duration in subscription order,
// skipping absent ones. Notify capability is checked by the sequencer.
func (s ChannelSet) Subscribable() []Channel {
	out := make([]Channel, 0, len(notifyOrder))
	for _, kind := range notifyOrder {
		if ch, ok := s.byKind[kind]; ok {
			out = append(out, ch)
		}
	}
	return out
}

// Kinds lists present channels in a stable order.
func (s ChannelSet) Kinds() []ChannelKind {
	out := make([]ChannelKind, 0, len(s.byKind))
	for _, kind := range []ChannelKind{ChannelStatus, ChannelRange, ChannelDuration, ChannelCommand} {
		if s.Has(kind) {
			out = append(out, kind)
		}
	}
	return out
}
