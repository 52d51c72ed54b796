package controller

import (
	"context"
	"fmt"

	"github.com/shimmeringbee/zcl"
	"github.com/shimmeringbee/zcl/commands/global"
	"github.com/shimmeringbee/zigbee"
	"github.com/supby/gigbeescan/internal/scan"
)

const adapterEndpoint = zigbee.Endpoint(0x01)

func (c *Controller) requestResponse(ctx context.Context, addr scan.ClusterAddress, commandId zcl.CommandIdentifier, command interface{}) (zcl.Message, error) {
	message := zcl.Message{
		FrameType:           zcl.FrameGlobal,
		Direction:           zcl.ClientToServer,
		TransactionSequence: c.nextTransactionSequence(),
		Manufacturer:        zigbee.NoManufacturer,
		ClusterID:           addr.ClusterID,
		SourceEndpoint:      adapterEndpoint,
		DestinationEndpoint: addr.Endpoint,
		CommandIdentifier:   commandId,
		Command:             command,
	}

	return c.zclCommunicator.RequestResponse(ctx, addr.IEEEAddress, false, message)
}

// DiscoverAttributesExtended requests one page of the cluster's attribute
// table starting at startId.
func (c *Controller) DiscoverAttributesExtended(ctx context.Context, addr scan.ClusterAddress, startId uint16, maxRecords uint8) (scan.AttributePage, error) {
	resp, err := c.requestResponse(ctx, addr, global.DiscoverAttributesExtendedID, &global.DiscoverAttributesExtended{
		StartAttributeIdentifier:  startId,
		MaximumNumberOfAttributes: maxRecords,
	})
	if err != nil {
		return scan.AttributePage{}, err
	}

	return attributePageFromMessage(resp)
}

func (c *Controller) DiscoverCommandsReceived(ctx context.Context, addr scan.ClusterAddress, startId uint8, maxRecords uint8) (scan.CommandPage, error) {
	resp, err := c.requestResponse(ctx, addr, global.DiscoverCommandsReceivedID, &global.DiscoverCommandsReceived{
		StartCommandIdentifier:  startId,
		MaximumNumberOfCommands: maxRecords,
	})
	if err != nil {
		return scan.CommandPage{}, err
	}

	return commandPageFromMessage(resp)
}

func (c *Controller) DiscoverCommandsGenerated(ctx context.Context, addr scan.ClusterAddress, startId uint8, maxRecords uint8) (scan.CommandPage, error) {
	resp, err := c.requestResponse(ctx, addr, global.DiscoverCommandsGeneratedID, &global.DiscoverCommandsGenerated{
		StartCommandIdentifier:  startId,
		MaximumNumberOfCommands: maxRecords,
	})
	if err != nil {
		return scan.CommandPage{}, err
	}

	return commandPageFromMessage(resp)
}

// ReadAttributes issues one genuine read request for the given attribute ids,
// no cached values are involved.
func (c *Controller) ReadAttributes(ctx context.Context, addr scan.ClusterAddress, ids []uint16) (scan.ReadResult, error) {
	attributeIds := make([]zcl.AttributeID, len(ids))
	for i, id := range ids {
		attributeIds[i] = zcl.AttributeID(id)
	}

	resp, err := c.requestResponse(ctx, addr, global.ReadAttributesID, &global.ReadAttributes{
		Identifier: attributeIds,
	})
	if err != nil {
		return scan.ReadResult{}, err
	}

	return readResultFromMessage(resp)
}

func attributePageFromMessage(msg zcl.Message) (scan.AttributePage, error) {
	switch cmd := msg.Command.(type) {
	case *global.DiscoverAttributesExtendedResponse:
		page := scan.AttributePage{
			DiscoveryComplete: cmd.DiscoveryComplete,
			Records:           make([]scan.AttributeInfo, 0, len(cmd.Records)),
		}
		for _, rec := range cmd.Records {
			page.Records = append(page.Records, scan.AttributeInfo{
				Identifier: uint16(rec.Identifier),
				DataType:   byte(rec.DataType),
				Access:     byte(rec.AccessControl),
			})
		}
		return page, nil
	case *global.DefaultResponse:
		return scan.AttributePage{}, &scan.StatusError{Status: cmd.Status}
	default:
		return scan.AttributePage{}, fmt.Errorf("unexpected response command %T", msg.Command)
	}
}

func commandPageFromMessage(msg zcl.Message) (scan.CommandPage, error) {
	switch cmd := msg.Command.(type) {
	case *global.DiscoverCommandsReceivedResponse:
		return scan.CommandPage{
			DiscoveryComplete: cmd.DiscoveryComplete,
			Identifiers:       commandIdentifiers(cmd.CommandIdentifier),
		}, nil
	case *global.DiscoverCommandsGeneratedResponse:
		return scan.CommandPage{
			DiscoveryComplete: cmd.DiscoveryComplete,
			Identifiers:       commandIdentifiers(cmd.CommandIdentifier),
		}, nil
	case *global.DefaultResponse:
		return scan.CommandPage{}, &scan.StatusError{Status: cmd.Status}
	default:
		return scan.CommandPage{}, fmt.Errorf("unexpected response command %T", msg.Command)
	}
}

func commandIdentifiers(ids []uint8) []uint8 {
	out := make([]uint8, len(ids))
	copy(out, ids)
	return out
}

func readResultFromMessage(msg zcl.Message) (scan.ReadResult, error) {
	switch cmd := msg.Command.(type) {
	case *global.ReadAttributesResponse:
		result := scan.ReadResult{
			Succeeded: make(map[uint16]scan.AttributeValue),
			Failed:    make(map[uint16]uint8),
		}
		for _, rec := range cmd.Records {
			if rec.Status != 0 {
				result.Failed[uint16(rec.Identifier)] = rec.Status
				continue
			}
			if rec.DataTypeValue == nil {
				continue
			}
			result.Succeeded[uint16(rec.Identifier)] = scan.AttributeValue{
				DataType: byte(rec.DataTypeValue.DataType),
				Value:    rec.DataTypeValue.Value,
			}
		}
		return result, nil
	case *global.DefaultResponse:
		return scan.ReadResult{}, &scan.StatusError{Status: cmd.Status}
	default:
		return scan.ReadResult{}, fmt.Errorf("unexpected response command %T", msg.Command)
	}
}
