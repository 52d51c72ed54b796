package scan

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shimmeringbee/zigbee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterScanSerializesInAscendingIdOrder(t *testing.T) {
	cs := &ClusterScan{
		ClusterID: 0x0006,
		Name:      "genOnOff",
		// Insertion order deliberately scrambled, output order must not
		// depend on discovery arrival order.
		Attributes: map[uint16]*AttributeRecord{
			0x4003: {ID: 0x4003, Name: "startUpOnOff", TypeName: "enum8", Access: "READ_WRITE"},
			0x0000: {ID: 0x0000, Name: "onOff", TypeName: "bool", Access: "READ", Value: true, HasValue: true},
			0x0123: {ID: 0x0123, Name: "291", TypeName: "uint8", Access: "undefined"},
		},
		CommandsReceived: map[uint8]CommandRecord{
			0x42: {ID: 0x42, Name: "onWithTimedOff", Arguments: []string{"ctrlbits"}},
			0x00: {ID: 0x00, Name: "off", Arguments: []string{}},
			0x01: {ID: 0x01, Name: "on", Arguments: []string{}},
		},
		CommandsGenerated: map[uint8]CommandRecord{},
	}

	data, err := json.Marshal(cs)
	require.NoError(t, err)
	raw := string(data)

	assert.True(t, strings.Index(raw, `"0x0000"`) < strings.Index(raw, `"0x0123"`))
	assert.True(t, strings.Index(raw, `"0x0123"`) < strings.Index(raw, `"0x4003"`))
	assert.True(t, strings.Index(raw, `"0x00"`) < strings.Index(raw, `"0x01"`))
	assert.True(t, strings.Index(raw, `"0x01"`) < strings.Index(raw, `"0x42"`))

	// No value read for 0x4003, the key must be absent rather than null.
	assert.Contains(t, raw, `"attribute_value":true`)
	assert.Equal(t, 1, strings.Count(raw, "attribute_value"))

	// Generated command names use the same key casing as received ones.
	assert.NotContains(t, raw, "command_Name")
}

func TestDeviceScanSerialization(t *testing.T) {
	d := &DeviceScan{
		IEEEAddress:  zigbee.IEEEAddress(0x00124b000724ae04),
		NWKAddress:   0x79eb,
		Model:        "lumi.sensor_magnet",
		Manufacturer: "LUMI",
		Endpoints: []*EndpointScan{
			{
				ID:         1,
				DeviceType: 0x5f01,
				ProfileID:  0x0104,
				InClusters: map[uint16]*ClusterScan{
					0x0006: {ClusterID: 0x0006, Name: "genOnOff"},
				},
				OutClusters: map[uint16]*ClusterScan{},
			},
		},
	}

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "0x00124b000724ae04", decoded["ieee"])
	assert.Equal(t, "0x79eb", decoded["nwk"])
	assert.Equal(t, "lumi.sensor_magnet", decoded["model"])
	assert.Equal(t, "LUMI", decoded["manufacturer"])

	endpoints := decoded["endpoints"].([]interface{})
	require.Equal(t, 1, len(endpoints))

	endpoint := endpoints[0].(map[string]interface{})
	assert.Equal(t, float64(1), endpoint["id"])
	assert.Equal(t, "0x5f01", endpoint["device_type"])
	assert.Equal(t, "0x0104", endpoint["profile"])

	inClusters := endpoint["in_clusters"].(map[string]interface{})
	_, ok := inClusters["0x0006"]
	assert.True(t, ok)
}
