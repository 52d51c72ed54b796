package scan

import (
	"encoding/json"
	"fmt"

	"github.com/shimmeringbee/zigbee"
)

// AttributeRecord is one discovered attribute. Value stays unset until a
// batch read succeeds for it.
type AttributeRecord struct {
	ID       uint16
	Name     string
	TypeName string
	Access   string
	Value    interface{}
	HasValue bool
}

// CommandRecord is one discovered command. Arguments is a list of argument
// display names, or the "not_in_zcl" marker for commands the schema does not
// know.
type CommandRecord struct {
	ID        uint8
	Name      string
	Arguments interface{}
}

type ClusterScan struct {
	ClusterID         uint16
	Name              string
	Attributes        map[uint16]*AttributeRecord
	CommandsReceived  map[uint8]CommandRecord
	CommandsGenerated map[uint8]CommandRecord
}

type EndpointScan struct {
	ID          uint8
	DeviceType  uint16
	ProfileID   uint16
	InClusters  map[uint16]*ClusterScan
	OutClusters map[uint16]*ClusterScan
}

type DeviceScan struct {
	IEEEAddress  zigbee.IEEEAddress
	NWKAddress   uint16
	Model        string
	Manufacturer string
	PowerSource  string
	Endpoints    []*EndpointScan
}

// Serialization keeps ids numeric internally and formats them only here.
// Fixed width hex keys make encoding/json's lexicographic map ordering equal
// to ascending numeric id order, so reports are deterministic.

type attributeJSON struct {
	AttributeID    string      `json:"attribute_id"`
	AttributeName  string      `json:"attribute_name"`
	ValueType      string      `json:"value_type"`
	Access         string      `json:"access"`
	AttributeValue interface{} `json:"attribute_value,omitempty"`
}

type commandJSON struct {
	CommandID        string      `json:"command_id"`
	CommandName      string      `json:"command_name"`
	CommandArguments interface{} `json:"command_arguments"`
}

func commandsToJSON(cmds map[uint8]CommandRecord) map[string]commandJSON {
	out := make(map[string]commandJSON, len(cmds))
	for id, cmd := range cmds {
		out[fmt.Sprintf("0x%02x", id)] = commandJSON{
			CommandID:        fmt.Sprintf("0x%02x", id),
			CommandName:      cmd.Name,
			CommandArguments: cmd.Arguments,
		}
	}
	return out
}

func (c *ClusterScan) MarshalJSON() ([]byte, error) {
	attrs := make(map[string]attributeJSON, len(c.Attributes))
	for id, rec := range c.Attributes {
		entry := attributeJSON{
			AttributeID:   fmt.Sprintf("0x%04x", id),
			AttributeName: rec.Name,
			ValueType:     rec.TypeName,
			Access:        rec.Access,
		}
		if rec.HasValue {
			entry.AttributeValue = rec.Value
		}
		attrs[fmt.Sprintf("0x%04x", id)] = entry
	}

	return json.Marshal(struct {
		ClusterID         string                   `json:"cluster_id"`
		Name              string                   `json:"name"`
		Attributes        map[string]attributeJSON `json:"attributes"`
		CommandsReceived  map[string]commandJSON   `json:"commands_received"`
		CommandsGenerated map[string]commandJSON   `json:"commands_generated"`
	}{
		ClusterID:         fmt.Sprintf("0x%04x", c.ClusterID),
		Name:              c.Name,
		Attributes:        attrs,
		CommandsReceived:  commandsToJSON(c.CommandsReceived),
		CommandsGenerated: commandsToJSON(c.CommandsGenerated),
	})
}

func clustersToJSON(clusters map[uint16]*ClusterScan) map[string]*ClusterScan {
	out := make(map[string]*ClusterScan, len(clusters))
	for id, cs := range clusters {
		out[fmt.Sprintf("0x%04x", id)] = cs
	}
	return out
}

func (e *EndpointScan) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          uint8                   `json:"id"`
		DeviceType  string                  `json:"device_type"`
		Profile     string                  `json:"profile"`
		InClusters  map[string]*ClusterScan `json:"in_clusters"`
		OutClusters map[string]*ClusterScan `json:"out_clusters"`
	}{
		ID:          e.ID,
		DeviceType:  fmt.Sprintf("0x%04x", e.DeviceType),
		Profile:     fmt.Sprintf("0x%04x", e.ProfileID),
		InClusters:  clustersToJSON(e.InClusters),
		OutClusters: clustersToJSON(e.OutClusters),
	})
}

func (d *DeviceScan) MarshalJSON() ([]byte, error) {
	endpoints := d.Endpoints
	if endpoints == nil {
		endpoints = []*EndpointScan{}
	}

	return json.Marshal(struct {
		IEEE         string          `json:"ieee"`
		NWK          string          `json:"nwk"`
		Model        string          `json:"model"`
		Manufacturer string          `json:"manufacturer"`
		Endpoints    []*EndpointScan `json:"endpoints"`
	}{
		IEEE:         fmt.Sprintf("0x%016x", uint64(d.IEEEAddress)),
		NWK:          fmt.Sprintf("0x%04x", d.NWKAddress),
		Model:        d.Model,
		Manufacturer: d.Manufacturer,
		Endpoints:    endpoints,
	})
}
