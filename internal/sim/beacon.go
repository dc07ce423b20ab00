// Package sim is a simulated sprint beacon. It speaks the same channels and
// payloads as the real firmware so the whole stack can run without hardware.
package sim

import (
	"context"
	"errors"
	"sync"
	"time"

	"sprint_beacon/internal/codec"
	"sprint_beacon/internal/link"
	"sprint_beacon/internal/logger"
)

const (
	DefaultTick        = 200 * time.Millisecond
	DefaultSprint      = 5 * time.Second
	DefaultArmDelay    = 2 * time.Second
	DefaultReportDelay = 100 * time.Millisecond
	DefaultRangeCm     = 4572 // 50 yd
	DefaultMTU         = 185
)

var ErrAlreadyConnected = errors.New("simulated beacon already connected")

type Config struct {
	Sprint      time.Duration
	ArmDelay    time.Duration
	ReportDelay time.Duration
	RangeCm     uint16
}

func (c Config) withDefaults() Config {
	if c.Sprint <= 0 {
		c.Sprint = DefaultSprint
	}
	if c.ArmDelay <= 0 {
		c.ArmDelay = DefaultArmDelay
	}
	if c.ReportDelay <= 0 {
		c.ReportDelay = DefaultReportDelay
	}
	if c.RangeCm == 0 {
		c.RangeCm = DefaultRangeCm
	}
	return c
}

type phase int

const (
	idle phase = iota
	armed
	running
	reporting
)

// Beacon implements link.Peripheral. Completions are emitted straight from
// the issuing call; time only moves in Step.
type Beacon struct {
	cfg Config
	log *logger.Logger

	mu         sync.Mutex
	handler    func(link.Event)
	connected  bool
	subscribed map[link.ChannelKind]bool
	now        time.Time
	bootAt     time.Time
	phase      phase
	since      time.Time
	haveStart  bool
	lastMs     uint32
	laser      bool
	auto       bool
}

func New(cfg Config, log *logger.Logger) *Beacon {
	return &Beacon{
		cfg:        cfg.withDefaults(),
		log:        logger.OrNop(log).Named("sim"),
		subscribed: map[link.ChannelKind]bool{},
		laser:      true,
	}
}

// Run steps the beacon at the given interval until ctx is canceled.
func (b *Beacon) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultTick
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	b.Step(time.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			b.Step(now)
		}
	}
}

// Step advances the sprint state machine to now and pushes notifications
// for subscribed channels.
func (b *Beacon) Step(now time.Time) {
	b.mu.Lock()
	if b.bootAt.IsZero() {
		b.bootAt = now
	}
	b.now = now
	var out []link.Event
	if b.connected {
		out = b.advance()
		if b.subscribed[link.ChannelStatus] {
			out = append(out, b.value(link.ChannelStatus))
		}
		if b.subscribed[link.ChannelRange] {
			out = append(out, b.value(link.ChannelRange))
		}
	}
	b.mu.Unlock()
	b.emit(out...)
}

// Drop simulates the radio link going away.
func (b *Beacon) Drop() {
	b.mu.Lock()
	was := b.connected
	b.resetSession()
	b.mu.Unlock()
	if was {
		b.emit(link.Event{Kind: link.EventLinkLost})
	}
}

func (b *Beacon) Bind(handler func(link.Event)) {
	b.mu.Lock()
	b.handler = handler
	b.mu.Unlock()
}

func (b *Beacon) Connect(address string) error {
	b.mu.Lock()
	if b.connected {
		b.mu.Unlock()
		return ErrAlreadyConnected
	}
	b.connected = true
	b.mu.Unlock()
	b.log.Infow("sim_connected", "address", address)
	b.emit(link.Event{Kind: link.EventLinkUp})
	return nil
}

func (b *Beacon) Disconnect() error {
	b.mu.Lock()
	b.resetSession()
	b.mu.Unlock()
	return nil
}

func (b *Beacon) RequestParameters(p link.Parameters) bool {
	if !b.isConnected() {
		return false
	}
	mtu := p.MTU
	if mtu <= 0 || mtu > DefaultMTU {
		mtu = DefaultMTU
	}
	b.emit(link.Event{Kind: link.EventParametersNegotiated, MTU: mtu})
	return true
}

func (b *Beacon) DiscoverChannels() bool {
	if !b.isConnected() {
		return false
	}
	kinds := []link.ChannelKind{link.ChannelStatus, link.ChannelRange, link.ChannelDuration, link.ChannelCommand}
	chans := make([]link.Channel, len(kinds))
	for i, k := range kinds {
		chans[i] = link.Channel{Kind: k, Props: link.DefaultProps(k)}
	}
	b.emit(link.Event{Kind: link.EventChannelsDiscovered, Channels: chans})
	return true
}

func (b *Beacon) EnableNotifications(kind link.ChannelKind) bool {
	b.mu.Lock()
	if !b.connected || !link.DefaultProps(kind).Has(link.PropNotify) {
		b.mu.Unlock()
		return false
	}
	b.subscribed[kind] = true
	b.mu.Unlock()
	b.emit(link.Event{Kind: link.EventDescriptorWritten, Channel: kind})
	return true
}

func (b *Beacon) Read(kind link.ChannelKind) bool {
	b.mu.Lock()
	if !b.connected || !link.DefaultProps(kind).Has(link.PropRead) {
		b.mu.Unlock()
		return false
	}
	ev := b.value(kind)
	b.mu.Unlock()
	b.emit(ev)
	return true
}

func (b *Beacon) Write(kind link.ChannelKind, data []byte, _ link.WriteMode) bool {
	if kind != link.ChannelCommand || !b.isConnected() {
		return false
	}
	cmd, err := codec.DecodeCommand(data)
	if err != nil {
		b.log.Debugw("sim_bad_command", "err", err)
		return true
	}
	b.mu.Lock()
	switch cmd.Kind {
	case codec.CommandArm:
		b.arm()
	case codec.CommandLaser:
		b.laser = cmd.On
	case codec.CommandAuto:
		b.auto = cmd.On
		if b.auto {
			b.arm()
		}
	}
	b.mu.Unlock()
	b.log.Debugw("sim_command", "command", cmd.String())
	return true
}

func (b *Beacon) arm() {
	if b.phase != idle {
		return
	}
	b.phase = armed
	b.since = b.now
}

// advance runs with mu held.
func (b *Beacon) advance() []link.Event {
	var out []link.Event
	for {
		elapsed := b.now.Sub(b.since)
		switch {
		case b.phase == armed && elapsed >= b.cfg.ArmDelay:
			b.phase, b.since = running, b.since.Add(b.cfg.ArmDelay)
			b.haveStart = true
			out = append(out, b.notification(link.ChannelStatus))
		case b.phase == running && elapsed >= b.cfg.Sprint:
			b.phase, b.since = reporting, b.since.Add(b.cfg.Sprint)
			b.haveStart = false
			b.lastMs = uint32(b.cfg.Sprint / time.Millisecond)
			out = append(out, b.notification(link.ChannelStatus))
		case b.phase == reporting && elapsed >= b.cfg.ReportDelay:
			b.phase, b.since = idle, b.since.Add(b.cfg.ReportDelay)
			out = append(out, b.notification(link.ChannelDuration))
			if b.auto {
				b.phase = armed
			}
		default:
			return out
		}
	}
}

// notification returns an event only for subscribed channels.
func (b *Beacon) notification(kind link.ChannelKind) link.Event {
	if !b.subscribed[kind] {
		return link.Event{}
	}
	return b.value(kind)
}

func (b *Beacon) value(kind link.ChannelKind) link.Event {
	ev := link.Event{Kind: link.EventValue, Channel: kind}
	switch kind {
	case link.ChannelStatus:
		r := b.rangeReading()
		laser, auto := b.laser, b.auto
		var uptime uint64
		if !b.bootAt.IsZero() {
			uptime = uint64(b.now.Sub(b.bootAt) / time.Second)
		}
		ev.Data = codec.EncodeStatus(codec.Status{
			HaveStart: b.haveStart,
			Range:     &r,
			SprintMs:  b.lastMs,
			Laser:     &laser,
			Auto:      &auto,
			Uptime:    &uptime,
		})
	case link.ChannelRange:
		ev.Data = codec.EncodeRange(b.rangeReading())
	case link.ChannelDuration:
		ev.Data = codec.EncodeDuration(b.lastMs)
	}
	return ev
}

func (b *Beacon) rangeReading() codec.Range {
	if !b.laser {
		return codec.Range{}
	}
	return codec.Range{Cm: b.cfg.RangeCm, Valid: true}
}

func (b *Beacon) resetSession() {
	b.connected = false
	b.subscribed = map[link.ChannelKind]bool{}
}

func (b *Beacon) isConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

func (b *Beacon) emit(events ...link.Event) {
	b.mu.Lock()
	h := b.handler
	b.mu.Unlock()
	if h == nil {
		return
	}
	for _, ev := range events {
		if ev.Kind != 0 {
			h(ev)
		}
	}
}
