package configuration

type ZNetworkConfiguration struct {
	PANID         uint16
	ExtendedPANID uint64
	NetworkKey    [16]byte
	Channel       uint8
}

type MqttConfiguration struct {
	Address   string
	Port      uint16
	RootTopic string
	Username  string
	Password  string
}

type SerialConfiguration struct {
	PortName string
	BaudRate uint32
}

// ScanConfiguration tunes the capability scan pacing. Delays are deliberate
// backpressure towards battery powered peers, keep them above ~100ms.
type ScanConfiguration struct {
	ScansDirectory  string
	PageDelayMs     uint32
	ReadDelayMs     uint32
	RequestRetries  int
	RequestTimeoutS uint32
}

type Configuration struct {
	ZNetworkConfiguration ZNetworkConfiguration
	MqttConfiguration     MqttConfiguration
	SerialConfiguration   SerialConfiguration
	ScanConfiguration     ScanConfiguration
	PermitJoin            bool
	LogLevel              int // info=0, warn=1, error=2, debug=3
}
