package link

// Sequencer enables notifications one channel at a time. It is best-effort:
// a channel that cannot be subscribed is skipped and polling covers it.
type Sequencer struct {
	enable    func(ChannelKind) bool
	onDrained func()

	queue    []Channel
	inFlight bool
	active   bool
}

// NewSequencer wires the enable call and the drained hook. Both run on the
// event loop.
func NewSequencer(enable func(ChannelKind) bool, onDrained func()) *Sequencer {
	return &Sequencer{enable: enable, onDrained: onDrained}
}

// Start replaces the queue and begins enabling.
func (s *Sequencer) Start(channels []Channel) {
	s.queue = append(s.queue[:0], channels...)
	s.inFlight = false
	s.active = true
	s.enableNext()
}

// Completed handles an enable-descriptor write completion.
func (s *Sequencer) Completed(kind ChannelKind) {
	if !s.active {
		return
	}
	if len(s.queue) > 0 && s.queue[0].Kind == kind {
		s.queue = s.queue[1:]
	}
	s.inFlight = false
	s.enableNext()
}

// Reset drops the queue; later completions are ignored.
func (s *Sequencer) Reset() {
	s.queue = s.queue[:0]
	s.inFlight = false
	s.active = false
}

// Pending lists channels still waiting, head first.
func (s *Sequencer) Pending() []ChannelKind {
	out := make([]ChannelKind, len(s.queue))
	for i, ch := range s.queue {
		out[i] = ch.Kind
	}
	return out
}

func (s *Sequencer) Active() bool { return s.active }

func (s *Sequencer) enableNext() {
	if s.inFlight {
		return
	}
	for len(s.queue) > 0 {
		head := s.queue[0]
		if !head.Props.Has(PropNotify) || !s.enable(head.Kind) {
			s.queue = s.queue[1:]
			continue
		}
		s.inFlight = true
		return
	}
	s.active = false
	if s.onDrained != nil {
		s.onDrained()
	}
}
