package scan

import (
	"bytes"
	"context"
	"encoding/hex"
	"sort"
	"strings"
	"unicode/utf8"
)

// readAttributeValues fills in current values for the discovered attributes,
// in batches of ReadBatchSize ids. A batch that still fails after retries is
// skipped, its records simply keep no value.
func (s *Scanner) readAttributeValues(ctx context.Context, addr ClusterAddress, records map[uint16]*AttributeRecord) {
	toRead := make([]uint16, 0, len(records))
	for id := range records {
		toRead = append(toRead, id)
	}
	sort.Slice(toRead, func(i, j int) bool { return toRead[i] < toRead[j] })

	s.logger.Debug("reading attributes %v on cluster 0x%04x", toRead, addr.ClusterID)

	for start := 0; start < len(toRead); start += s.opts.ReadBatchSize {
		end := start + s.opts.ReadBatchSize
		if end > len(toRead) {
			end = len(toRead)
		}
		chunk := toRead[start:end]

		res, err := callWithRetry(ctx, s.opts.RequestTimeout, s.opts.Attempts, func(invokeCtx context.Context) (ReadResult, error) {
			return s.transport.ReadAttributes(invokeCtx, addr, chunk)
		})
		if err != nil {
			s.logger.Error("couldn't read attributes %v on cluster 0x%04x: %v", chunk, addr.ClusterID, err)
		} else {
			for id, value := range res.Succeeded {
				rec, ok := records[id]
				if !ok {
					continue
				}
				rec.Value = decodeAttributeValue(value.Value)
				rec.HasValue = true
			}
			for id, status := range res.Failed {
				s.logger.Debug("read of attribute 0x%04x on cluster 0x%04x failed with status 0x%02x", id, addr.ClusterID, status)
			}
		}

		if end < len(toRead) {
			if err := s.pause(ctx, s.opts.ReadDelay); err != nil {
				return
			}
		}
	}
}

// decodeAttributeValue turns byte string values into something readable:
// text up to the first null byte, trimmed, or the hex encoding of the whole
// value when it is not valid text. Non byte values pass through unchanged.
func decodeAttributeValue(v interface{}) interface{} {
	b, ok := v.([]byte)
	if !ok {
		return v
	}

	head := b
	if i := bytes.IndexByte(b, 0x00); i >= 0 {
		head = b[:i]
	}

	if utf8.Valid(head) {
		return strings.TrimSpace(string(head))
	}

	return hex.EncodeToString(b)
}
