package link

// FakeWrite is a recorded Write call.
type FakeWrite struct {
	Kind ChannelKind
	Data []byte
	Mode WriteMode
}

// FakePeripheral records every issued operation and lets tests inject
// events. It is not safe for concurrent use.
type FakePeripheral struct {
	handler func(Event)

	ConnectErr       error
	RefuseParameters bool
	RefuseDiscovery  bool
	RefuseEnable     map[ChannelKind]bool
	RefuseWrite      map[WriteMode]bool

	Connects          []string
	Disconnects       int
	ParameterRequests []Parameters
	Discoveries       int
	Enables           []ChannelKind
	Reads             []ChannelKind
	Writes            []FakeWrite
}

func NewFakePeripheral() *FakePeripheral {
	return &FakePeripheral{
		RefuseEnable: map[ChannelKind]bool{},
		RefuseWrite:  map[WriteMode]bool{},
	}
}

func (f *FakePeripheral) Bind(handler func(Event)) { f.handler = handler }

func (f *FakePeripheral) Connect(address string) error {
	if f.ConnectErr != nil {
		return f.ConnectErr
	}
	f.Connects = append(f.Connects, address)
	return nil
}

func (f *FakePeripheral) Disconnect() error {
	f.Disconnects++
	return nil
}

func (f *FakePeripheral) RequestParameters(p Parameters) bool {
	if f.RefuseParameters {
		return false
	}
	f.ParameterRequests = append(f.ParameterRequests, p)
	return true
}

func (f *FakePeripheral) DiscoverChannels() bool {
	if f.RefuseDiscovery {
		return false
	}
	f.Discoveries++
	return true
}

func (f *FakePeripheral) EnableNotifications(kind ChannelKind) bool {
	if f.RefuseEnable[kind] {
		return false
	}
	f.Enables = append(f.Enables, kind)
	return true
}

func (f *FakePeripheral) Read(kind ChannelKind) bool {
	f.Reads = append(f.Reads, kind)
	return true
}

func (f *FakePeripheral) Write(kind ChannelKind, data []byte, mode WriteMode) bool {
	if f.RefuseWrite[mode] {
		return false
	}
	f.Writes = append(f.Writes, FakeWrite{Kind: kind, Data: append([]byte(nil), data...), Mode: mode})
	return true
}

// Emit delivers ev through the bound handler.
func (f *FakePeripheral) Emit(ev Event) {
	if f.handler != nil {
		f.handler(ev)
	}
}

// AllChannels is what a healthy beacon exposes.
func AllChannels() []Channel {
	kinds := []ChannelKind{ChannelStatus, ChannelRange, ChannelDuration, ChannelCommand}
	out := make([]Channel, len(kinds))
	for i, k := range kinds {
		out[i] = Channel{Kind: k, Props: DefaultProps(k)}
	}
	return out
}
