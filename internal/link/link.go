// Package link owns the connection to the beacon: connect, negotiate,
// discover, subscribe, then poll. Decoded telemetry is handed to the run
// engine and commands are written back.
package link

import (
	"errors"
	"time"

	"sprint_beacon/internal/codec"
	"sprint_beacon/internal/logger"
	"sprint_beacon/internal/loop"
)

// State of the connection state machine.
type State int

const (
	Disconnected State = iota
	Connecting
	NegotiatingParameters
	DiscoveringChannels
	SubscribingNotifications
	Ready
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "DISCONNECTED"
	case Connecting:
		return "CONNECTING"
	case NegotiatingParameters:
		return "NEGOTIATING_PARAMETERS"
	case DiscoveringChannels:
		return "DISCOVERING_CHANNELS"
	case SubscribingNotifications:
		return "SUBSCRIBING_NOTIFICATIONS"
	case Ready:
		return "READY"
	default:
		return "UNKNOWN"
	}
}

const (
	DefaultPollInterval = 800 * time.Millisecond
	DefaultMTU          = 247
)

var (
	ErrAlreadyConnected = errors.New("link is not disconnected")
	ErrNoAddress        = errors.New("no beacon address given")
)

// Telemetry receives decoded payloads. The run engine implements it.
type Telemetry interface {
	HandleStatus(codec.Status)
	HandleRange(codec.Range)
	HandleDuration(ms uint32)
	HandleLinkLost()
}

// Observer is told about every link status change, on the loop goroutine.
type Observer interface {
	LinkChanged(Status)
}

// Status is the observable side of the link.
type Status struct {
	State     State
	Connected bool
	Address   string
	MTU       int
	Channels  []ChannelKind
	// Last diagnostics seen in a status payload.
	Laser *bool
	Auto  *bool
}

type Config struct {
	PollInterval time.Duration
	MTU          int
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MTU <= 0 {
		c.MTU = DefaultMTU
	}
	return c
}

// Link must only be driven from the loop the scheduler belongs to.
type Link struct {
	sched     loop.Scheduler
	per       Peripheral
	telemetry Telemetry
	observers []Observer
	cfg       Config
	log       *logger.Logger

	state       State
	established bool
	address     string
	mtu         int
	channels    ChannelSet
	seq         *Sequencer
	poll        loop.Timer
	laser       *bool
	auto        *bool
}

func New(sched loop.Scheduler, per Peripheral, telemetry Telemetry, cfg Config, log *logger.Logger, observers ...Observer) *Link {
	l := &Link{
		sched:     sched,
		per:       per,
		telemetry: telemetry,
		observers: observers,
		cfg:       cfg.withDefaults(),
		log:       logger.OrNop(log),
	}
	l.seq = NewSequencer(l.enableNotifications, l.onSubscriptionsSettled)
	per.Bind(func(ev Event) {
		sched.Post(func() { l.handle(ev) })
	})
	return l
}

func (l *Link) State() State { return l.state }

func (l *Link) Channels() ChannelSet { return l.channels }

func (l *Link) Status() Status {
	return Status{
		State:     l.state,
		Connected: l.established,
		Address:   l.address,
		MTU:       l.mtu,
		Channels:  l.channels.Kinds(),
		Laser:     l.laser,
		Auto:      l.auto,
	}
}

// Connect starts a connection attempt to address.
func (l *Link) Connect(address string) error {
	if l.state != Disconnected {
		return ErrAlreadyConnected
	}
	if address == "" {
		return ErrNoAddress
	}
	l.address = address
	l.setState(Connecting)
	if err := l.per.Connect(address); err != nil {
		l.log.Warnw("link_connect_not_issued", "address", address, "err", err)
		l.teardown()
		return err
	}
	return nil
}

// Disconnect tears the session down as if the link had been lost.
func (l *Link) Disconnect() {
	if l.state == Disconnected {
		return
	}
	if err := l.per.Disconnect(); err != nil {
		l.log.Warnw("link_disconnect_failed", "address", l.address, "err", err)
	}
	l.teardown()
}

// Send writes a command, falling back to an unacknowledged write when the
// acknowledged one cannot be issued. It reports whether either was issued.
func (l *Link) Send(cmd codec.Command) bool {
	if !l.channels.Has(ChannelCommand) {
		l.log.Debugw("command_without_channel", "command", cmd.String())
		return false
	}
	data, err := codec.EncodeCommand(cmd)
	if err != nil {
		l.log.Warnw("command_encode_failed", "command", cmd.String(), "err", err)
		return false
	}
	if l.per.Write(ChannelCommand, data, WriteWithResponse) {
		return true
	}
	l.log.Debugw("command_write_fallback", "command", cmd.String())
	if l.per.Write(ChannelCommand, data, WriteWithoutResponse) {
		return true
	}
	l.log.Warnw("command_dropped", "command", cmd.String())
	return false
}

func (l *Link) handle(ev Event) {
	switch ev.Kind {
	case EventLinkUp:
		if l.state != Connecting {
			return
		}
		l.established = true
		l.setState(NegotiatingParameters)
		if !l.per.RequestParameters(Parameters{HighPriority: true, MTU: l.cfg.MTU}) {
			l.log.Debugw("parameter_request_not_issued")
			l.discover()
		}

	case EventParametersNegotiated:
		if l.state != NegotiatingParameters {
			return
		}
		l.mtu = ev.MTU
		l.discover()

	case EventChannelsDiscovered:
		if l.state != DiscoveringChannels {
			return
		}
		if ev.Err != nil {
			l.log.Warnw("channel_discovery_failed", "address", l.address, "err", ev.Err)
			return
		}
		l.channels = NewChannelSet(ev.Channels)
		if ev.MTU > 0 {
			l.mtu = ev.MTU
		}
		l.setState(SubscribingNotifications)
		l.seq.Start(l.channels.Subscribable())

	case EventDescriptorWritten:
		if l.state != SubscribingNotifications {
			return
		}
		if ev.Err != nil {
			l.log.Debugw("notify_enable_failed", "channel", ev.Channel.String(), "err", ev.Err)
		}
		l.seq.Completed(ev.Channel)

	case EventValue:
		if l.state != SubscribingNotifications && l.state != Ready {
			return
		}
		l.dispatch(ev.Channel, ev.Data)

	case EventLinkLost:
		if l.state == Disconnected {
			return
		}
		l.log.Infow("link_lost", "address", l.address, "state", l.state.String(), "err", ev.Err)
		l.teardown()
	}
}

func (l *Link) discover() {
	l.setState(DiscoveringChannels)
	if !l.per.DiscoverChannels() {
		l.log.Warnw("channel_discovery_not_issued", "address", l.address)
	}
}

func (l *Link) enableNotifications(kind ChannelKind) bool {
	return l.per.EnableNotifications(kind)
}

func (l *Link) onSubscriptionsSettled() {
	l.setState(Ready)
	l.readAll()
	l.schedulePoll()
}

func (l *Link) schedulePoll() {
	l.poll = l.sched.AfterFunc(l.cfg.PollInterval, l.pollTick)
}

func (l *Link) pollTick() {
	if l.state != Ready || !l.established {
		return
	}
	l.readAll()
	l.schedulePoll()
}

func (l *Link) readAll() {
	for _, kind := range notifyOrder {
		if l.channels.Has(kind) {
			l.per.Read(kind)
		}
	}
}

func (l *Link) dispatch(kind ChannelKind, data []byte) {
	switch kind {
	case ChannelStatus:
		s, err := codec.DecodeStatus(data)
		if err != nil {
			l.log.Debugw("status_decode_failed", "err", err)
			return
		}
		l.noteDiagnostics(s)
		l.telemetry.HandleStatus(s)
	case ChannelRange:
		r, err := codec.DecodeRange(data)
		if err != nil {
			l.log.Debugw("range_decode_failed", "err", err)
			return
		}
		l.telemetry.HandleRange(r)
	case ChannelDuration:
		if ms, ok := codec.DecodeDuration(data); ok {
			l.telemetry.HandleDuration(ms)
		}
	}
}

func (l *Link) noteDiagnostics(s codec.Status) {
	changed := false
	if s.Laser != nil && (l.laser == nil || *l.laser != *s.Laser) {
		v := *s.Laser
		l.laser = &v
		changed = true
	}
	if s.Auto != nil && (l.auto == nil || *l.auto != *s.Auto) {
		v := *s.Auto
		l.auto = &v
		changed = true
	}
	if changed {
		l.publish()
	}
}

func (l *Link) teardown() {
	if l.poll != nil {
		l.poll.Stop()
		l.poll = nil
	}
	l.seq.Reset()
	l.channels = ChannelSet{}
	l.established = false
	l.mtu = 0
	l.laser, l.auto = nil, nil
	l.setState(Disconnected)
	l.telemetry.HandleLinkLost()
}

func (l *Link) setState(s State) {
	if l.state != s {
		l.log.Debugw("link_state_changed", "from", l.state.String(), "to", s.String())
	}
	l.state = s
	l.publish()
}

func (l *Link) publish() {
	if len(l.observers) == 0 {
		return
	}
	st := l.Status()
	for _, o := range l.observers {
		o.LinkChanged(st)
	}
}
