// Package ble is the Bluetooth LE transport for the link, built on
// tinygo.org/x/bluetooth. GATT calls block, so they run one at a time on a
// worker goroutine; "issued" means the operation was queued.
package ble

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"sprint_beacon/internal/link"
	"sprint_beacon/internal/logger"
)

// Beacon GATT identifiers.
const (
	ServiceID  = "b8c7f3f4-4b9f-4a5b-9c39-36c6b4c7e0a1"
	StatusID   = "b8c7f3f4-4b9f-4a5b-9c39-36c6b4c7e0b2"
	RangeID    = "b8c7f3f4-4b9f-4a5b-9c39-36c6b4c7e0d4"
	DurationID = "b8c7f3f4-4b9f-4a5b-9c39-36c6b4c7e0f6"
	CommandID  = "b8c7f3f4-4b9f-4a5b-9c39-36c6b4c7e0c3"
)

var (
	serviceUUID = must(bluetooth.ParseUUID(ServiceID))

	channelUUIDs = map[bluetooth.UUID]link.ChannelKind{
		must(bluetooth.ParseUUID(StatusID)):   link.ChannelStatus,
		must(bluetooth.ParseUUID(RangeID)):    link.ChannelRange,
		must(bluetooth.ParseUUID(DurationID)): link.ChannelDuration,
		must(bluetooth.ParseUUID(CommandID)):  link.ChannelCommand,
	}
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

const (
	DefaultScanTimeout = 10 * time.Second
	queueSize          = 64
	readBufferSize     = 512
)

var (
	ErrQueueFull = errors.New("ble operation queue is full")
	ErrNotFound  = errors.New("beacon not found")
)

type Config struct {
	ScanTimeout time.Duration
}

// Peripheral drives one beacon connection through a bluetooth.Adapter.
type Peripheral struct {
	adapter     *bluetooth.Adapter
	scanTimeout time.Duration
	log         *logger.Logger
	ops         chan func()

	mu      sync.Mutex
	handler func(link.Event)
	device  *bluetooth.Device
	chars   map[link.ChannelKind]bluetooth.DeviceCharacteristic
}

func New(adapter *bluetooth.Adapter, cfg Config, log *logger.Logger) *Peripheral {
	if cfg.ScanTimeout <= 0 {
		cfg.ScanTimeout = DefaultScanTimeout
	}
	return &Peripheral{
		adapter:     adapter,
		scanTimeout: cfg.ScanTimeout,
		log:         logger.OrNop(log).Named("ble"),
		ops:         make(chan func(), queueSize),
		chars:       map[link.ChannelKind]bluetooth.DeviceCharacteristic{},
	}
}

// Enable powers up the adapter and watches for disconnects.
func (p *Peripheral) Enable() error {
	if err := p.adapter.Enable(); err != nil {
		return fmt.Errorf("enable bluetooth adapter: %w", err)
	}
	p.adapter.SetConnectHandler(func(d bluetooth.Device, connected bool) {
		if connected {
			return
		}
		p.mu.Lock()
		current := p.device != nil && p.device.Address.String() == d.Address.String()
		if current {
			p.device = nil
			p.chars = map[link.ChannelKind]bluetooth.DeviceCharacteristic{}
		}
		p.mu.Unlock()
		if current {
			p.log.Infow("ble_disconnected", "address", d.Address.String())
			p.emit(link.Event{Kind: link.EventLinkLost})
		}
	})
	return nil
}

// Run executes queued GATT operations until ctx is canceled.
func (p *Peripheral) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.dropDevice()
			return
		case op := <-p.ops:
			op()
		}
	}
}

func (p *Peripheral) Bind(handler func(link.Event)) {
	p.mu.Lock()
	p.handler = handler
	p.mu.Unlock()
}

func (p *Peripheral) Connect(address string) error {
	if !p.enqueue(func() { p.connect(address) }) {
		return ErrQueueFull
	}
	return nil
}

func (p *Peripheral) Disconnect() error {
	if !p.enqueue(p.dropDevice) {
		return ErrQueueFull
	}
	return nil
}

// RequestParameters is not supported by the adapter API; the link moves
// straight on to discovery.
func (p *Peripheral) RequestParameters(link.Parameters) bool { return false }

func (p *Peripheral) DiscoverChannels() bool {
	return p.enqueue(p.discover)
}

func (p *Peripheral) EnableNotifications(kind link.ChannelKind) bool {
	char, ok := p.char(kind)
	if !ok {
		return false
	}
	return p.enqueue(func() {
		err := char.EnableNotifications(func(buf []byte) {
			p.emit(link.Event{Kind: link.EventValue, Channel: kind, Data: append([]byte(nil), buf...)})
		})
		p.emit(link.Event{Kind: link.EventDescriptorWritten, Channel: kind, Err: err})
	})
}

func (p *Peripheral) Read(kind link.ChannelKind) bool {
	char, ok := p.char(kind)
	if !ok {
		return false
	}
	return p.enqueue(func() {
		buf := make([]byte, readBufferSize)
		n, err := char.Read(buf)
		if err != nil {
			p.log.Debugw("ble_read_failed", "channel", kind.String(), "err", err)
			return
		}
		p.emit(link.Event{Kind: link.EventValue, Channel: kind, Data: buf[:n]})
	})
}

func (p *Peripheral) Write(kind link.ChannelKind, data []byte, mode link.WriteMode) bool {
	char, ok := p.char(kind)
	if !ok {
		return false
	}
	payload := append([]byte(nil), data...)
	return p.enqueue(func() {
		var err error
		if mode == link.WriteWithoutResponse {
			_, err = char.WriteWithoutResponse(payload)
		} else {
			_, err = char.Write(payload)
		}
		if err != nil {
			p.log.Warnw("ble_write_failed", "channel", kind.String(), "mode", mode.String(), "err", err)
		}
	})
}

func (p *Peripheral) connect(address string) {
	addr, err := p.scan(address)
	if err != nil {
		p.emit(link.Event{Kind: link.EventLinkLost, Err: err})
		return
	}
	dev, err := p.adapter.Connect(addr, bluetooth.ConnectionParams{})
	if err != nil {
		p.emit(link.Event{Kind: link.EventLinkLost, Err: fmt.Errorf("connect %s: %w", address, err)})
		return
	}
	p.mu.Lock()
	p.device = &dev
	p.chars = map[link.ChannelKind]bluetooth.DeviceCharacteristic{}
	p.mu.Unlock()
	p.log.Infow("ble_connected", "address", address)
	p.emit(link.Event{Kind: link.EventLinkUp})
}

// scan waits for an advertisement from address.
func (p *Peripheral) scan(address string) (bluetooth.Address, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.scanTimeout)
	defer cancel()
	go func() {
		<-ctx.Done()
		p.adapter.StopScan()
	}()

	var (
		found bluetooth.Address
		ok    bool
	)
	err := p.adapter.Scan(func(a *bluetooth.Adapter, res bluetooth.ScanResult) {
		if strings.EqualFold(res.Address.String(), address) {
			found, ok = res.Address, true
			a.StopScan()
		}
	})
	if err != nil {
		return found, fmt.Errorf("scan for %s: %w", address, err)
	}
	if !ok {
		return found, fmt.Errorf("%w: %s", ErrNotFound, address)
	}
	return found, nil
}

func (p *Peripheral) discover() {
	p.mu.Lock()
	dev := p.device
	p.mu.Unlock()
	if dev == nil {
		p.emit(link.Event{Kind: link.EventChannelsDiscovered, Err: errors.New("not connected")})
		return
	}

	svcs, err := dev.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil || len(svcs) == 0 {
		if err == nil {
			err = errors.New("beacon service not found")
		}
		p.emit(link.Event{Kind: link.EventChannelsDiscovered, Err: fmt.Errorf("discover services: %w", err)})
		return
	}
	chars, err := svcs[0].DiscoverCharacteristics(nil)
	if err != nil {
		p.emit(link.Event{Kind: link.EventChannelsDiscovered, Err: fmt.Errorf("discover characteristics: %w", err)})
		return
	}

	found := map[link.ChannelKind]bluetooth.DeviceCharacteristic{}
	var channels []link.Channel
	mtu := 0
	for _, c := range chars {
		kind, ok := channelUUIDs[c.UUID()]
		if !ok {
			continue
		}
		if _, dup := found[kind]; dup {
			continue
		}
		found[kind] = c
		channels = append(channels, link.Channel{Kind: kind, Props: link.DefaultProps(kind)})
		if mtu == 0 {
			if m, err := c.GetMTU(); err == nil {
				mtu = int(m)
			}
		}
	}
	p.mu.Lock()
	p.chars = found
	p.mu.Unlock()
	p.log.Debugw("ble_channels_discovered", "count", len(channels), "mtu", mtu)
	p.emit(link.Event{Kind: link.EventChannelsDiscovered, Channels: channels, MTU: mtu})
}

func (p *Peripheral) dropDevice() {
	p.mu.Lock()
	dev := p.device
	p.device = nil
	p.chars = map[link.ChannelKind]bluetooth.DeviceCharacteristic{}
	p.mu.Unlock()
	if dev == nil {
		return
	}
	if err := dev.Disconnect(); err != nil {
		p.log.Debugw("ble_disconnect_failed", "err", err)
	}
}

func (p *Peripheral) char(kind link.ChannelKind) (bluetooth.DeviceCharacteristic, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.chars[kind]
	return c, ok
}

func (p *Peripheral) enqueue(op func()) bool {
	select {
	case p.ops <- op:
		return true
	default:
		return false
	}
}

func (p *Peripheral) emit(ev link.Event) {
	p.mu.Lock()
	h := p.handler
	p.mu.Unlock()
	if h != nil {
		h(ev)
	}
}
