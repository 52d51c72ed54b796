package configuration

import (
	"os"
	"sync"

	"gopkg.in/yaml.v2"
)

type configurationService struct {
	filename string
	mtx      sync.RWMutex
	current  Configuration
}

// Init loads configuration from a YAML file. A missing file is not an error,
// defaults are used and persisted on the first Update.
func Init(filename string) (ConfigurationService, error) {
	svc := &configurationService{
		filename: filename,
		current:  defaultConfiguration(),
	}

	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return svc, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, &svc.current); err != nil {
		return nil, err
	}

	return svc, nil
}

func defaultConfiguration() Configuration {
	return Configuration{
		ZNetworkConfiguration: ZNetworkConfiguration{
			PANID:         0x26d9,
			ExtendedPANID: 0xdddd7ddddd7ddd7d,
			NetworkKey:    [16]byte{0x01, 0x03, 0x05, 0x07, 0x09, 0x0B, 0x0D, 0x0F, 0x00, 0x02, 0x04, 0x06, 0x08, 0x0A, 0x0C, 0x0D},
			Channel:       15,
		},
		SerialConfiguration: SerialConfiguration{
			PortName: "/dev/ttyACM0",
			BaudRate: 115200,
		},
		MqttConfiguration: MqttConfiguration{
			Address:   "127.0.0.1",
			Port:      1883,
			RootTopic: "gigbeescan",
		},
		ScanConfiguration: ScanConfiguration{
			ScansDirectory:  "./scans",
			PageDelayMs:     300,
			ReadDelayMs:     300,
			RequestRetries:  5,
			RequestTimeoutS: 5,
		},
		PermitJoin: false,
		LogLevel:   2,
	}
}

func (s *configurationService) GetConfiguration() Configuration {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.current
}

func (s *configurationService) Update(updatedConfig Configuration) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	data, err := yaml.Marshal(updatedConfig)
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.filename, data, 0644); err != nil {
		return err
	}

	s.current = updatedConfig

	return nil
}
