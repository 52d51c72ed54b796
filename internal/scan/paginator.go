package scan

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/supby/gigbeescan/internal/zcldef"
)

type commandKind int

const (
	commandsReceived commandKind = iota
	commandsGenerated
)

// pause is a context aware sleep used as pacing between requests, the peer
// radio is usually a constrained device.
func (s *Scanner) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// discoverAttributes enumerates all attributes of one cluster instance by
// paging through extended attribute discovery. A delivery fault that survives
// retries, or a status response from the peer, ends the loop with whatever
// has been accumulated so far.
func (s *Scanner) discoverAttributes(ctx context.Context, addr ClusterAddress, def zcldef.ClusterDefinition) map[uint16]*AttributeRecord {
	result := make(map[uint16]*AttributeRecord)

	var cursor uint16
	done := false

	for !done {
		page, err := callWithRetry(ctx, s.opts.RequestTimeout, s.opts.Attempts, func(invokeCtx context.Context) (AttributePage, error) {
			return s.transport.DiscoverAttributesExtended(invokeCtx, addr, cursor, s.opts.PageSize)
		})
		if err != nil {
			s.logDiscoveryFailure("attributes", addr, uint16(cursor), err)
			break
		}

		done = page.DiscoveryComplete

		if len(page.Records) == 0 && !done {
			s.logger.Error("empty attribute discovery page on cluster 0x%04x starting 0x%04x", addr.ClusterID, cursor)
			break
		}

		for _, rec := range page.Records {
			result[rec.Identifier] = s.resolveAttribute(def, rec)
			if rec.Identifier >= cursor {
				// Id 0xffff wraps the cursor to 0, the id space is
				// exhausted regardless of what the peer claims.
				if rec.Identifier == 0xffff {
					done = true
					break
				}
				cursor = rec.Identifier + 1
			}
		}

		if !done {
			if err := s.pause(ctx, s.opts.PageDelay); err != nil {
				break
			}
		}
	}

	return result
}

// discoverCommands enumerates received or generated commands of one cluster
// instance. Name resolution follows the discovery kind, the received set is
// matched against server commands and the generated set against responses.
func (s *Scanner) discoverCommands(ctx context.Context, addr ClusterAddress, def zcldef.ClusterDefinition, kind commandKind) map[uint8]CommandRecord {
	result := make(map[uint8]CommandRecord)

	var cursor uint8
	done := false

	for !done {
		page, err := callWithRetry(ctx, s.opts.RequestTimeout, s.opts.Attempts, func(invokeCtx context.Context) (CommandPage, error) {
			if kind == commandsReceived {
				return s.transport.DiscoverCommandsReceived(invokeCtx, addr, cursor, s.opts.PageSize)
			}
			return s.transport.DiscoverCommandsGenerated(invokeCtx, addr, cursor, s.opts.PageSize)
		})
		if err != nil {
			s.logDiscoveryFailure("commands", addr, uint16(cursor), err)
			break
		}

		done = page.DiscoveryComplete

		if len(page.Identifiers) == 0 && !done {
			s.logger.Error("empty command discovery page on cluster 0x%04x starting 0x%02x", addr.ClusterID, cursor)
			break
		}

		for _, id := range page.Identifiers {
			result[id] = s.resolveCommand(def, id, kind)
			if id >= cursor {
				if id == 0xff {
					done = true
					break
				}
				cursor = id + 1
			}
		}

		if !done {
			if err := s.pause(ctx, s.opts.PageDelay); err != nil {
				break
			}
		}
	}

	return result
}

func (s *Scanner) logDiscoveryFailure(what string, addr ClusterAddress, cursor uint16, err error) {
	var se *StatusError
	if errors.As(err, &se) {
		s.logger.Error("got status 0x%02x discovering %v on cluster 0x%04x starting 0x%04x", se.Status, what, addr.ClusterID, cursor)
		return
	}

	s.logger.Error("failed to discover %v on cluster 0x%04x starting 0x%04x: %v", what, addr.ClusterID, cursor, err)
}

func (s *Scanner) resolveAttribute(def zcldef.ClusterDefinition, rec AttributeInfo) *AttributeRecord {
	name := strconv.FormatUint(uint64(rec.Identifier), 10)
	if attrDef, ok := def.Attributes[rec.Identifier]; ok {
		name = attrDef.Name
	}

	typeName, ok := zcldef.DataTypeName(rec.DataType)
	if !ok {
		typeName = fmt.Sprintf("0x%02x", rec.DataType)
	}

	return &AttributeRecord{
		ID:       rec.Identifier,
		Name:     name,
		TypeName: typeName,
		Access:   zcldef.AccessName(rec.Access),
	}
}

func (s *Scanner) resolveCommand(def zcldef.ClusterDefinition, id uint8, kind commandKind) CommandRecord {
	var name string
	var params [][]string
	known := false

	if kind == commandsReceived {
		if cmdDef, ok := def.Commands[uint16(id)]; ok {
			name, params, known = cmdDef.Name, cmdDef.Parameters, true
		}
	} else {
		if cmdDef, ok := def.CommandsResponse[uint16(id)]; ok {
			name, params, known = cmdDef.Name, cmdDef.Parameters, true
		}
	}

	if !known {
		return CommandRecord{
			ID:        id,
			Name:      strconv.FormatUint(uint64(id), 10),
			Arguments: "not_in_zcl",
		}
	}

	args := make([]string, 0, len(params))
	for _, p := range params {
		if len(p) > 0 {
			args = append(args, p[0])
		}
	}

	return CommandRecord{
		ID:        id,
		Name:      name,
		Arguments: args,
	}
}
