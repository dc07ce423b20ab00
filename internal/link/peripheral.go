package link

// WriteMode selects acknowledged or unacknowledged characteristic writes.
type WriteMode int

const (
	WriteWithResponse WriteMode = iota
	WriteWithoutResponse
)

func (m WriteMode) String() string {
	if m == WriteWithoutResponse {
		return "without_response"
	}
	return "with_response"
}

// Parameters requested right after the link comes up.
type Parameters struct {
	HighPriority bool
	MTU          int
}

// EventKind classifies a completion or notification from the peripheral.
type EventKind int

const (
	EventLinkUp EventKind = iota + 1
	EventLinkLost
	EventParametersNegotiated
	EventChannelsDiscovered
	EventDescriptorWritten
	EventValue
)

func (k EventKind) String() string {
	switch k {
	case EventLinkUp:
		return "link_up"
	case EventLinkLost:
		return "link_lost"
	case EventParametersNegotiated:
		return "parameters_negotiated"
	case EventChannelsDiscovered:
		return "channels_discovered"
	case EventDescriptorWritten:
		return "descriptor_written"
	case EventValue:
		return "value"
	default:
		return "unknown"
	}
}

// Event is delivered by a Peripheral through the handler given to Bind.
// Fields are populated per kind:
//   - EventParametersNegotiated: MTU (0 when the peer did not report one)
//   - EventChannelsDiscovered: Channels, or Err on failure
//   - EventDescriptorWritten: Channel, Err
//   - EventValue: Channel, Data (notification or read completion)
//   - EventLinkLost: Err when the connect attempt itself failed
type Event struct {
	Kind     EventKind
	Channel  ChannelKind
	Data     []byte
	Channels []Channel
	MTU      int
	Err      error
}

// Peripheral is the transport under the link. Every method except Bind only
// issues an operation; a false return (or error from Connect) means it could
// not be issued at all. Completions come back as Events, from any goroutine.
type Peripheral interface {
	Bind(handler func(Event))
	Connect(address string) error
	Disconnect() error
	RequestParameters(p Parameters) bool
	DiscoverChannels() bool
	EnableNotifications(kind ChannelKind) bool
	Read(kind ChannelKind) bool
	Write(kind ChannelKind, data []byte, mode WriteMode) bool
}
