package scan

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func attributeRecords(ids ...uint16) map[uint16]*AttributeRecord {
	records := make(map[uint16]*AttributeRecord, len(ids))
	for _, id := range ids {
		records[id] = &AttributeRecord{ID: id, Name: "attr", TypeName: "uint8", Access: "READ"}
	}
	return records
}

func TestReadAttributeValuesBatchesOfFour(t *testing.T) {
	transport := &mockTransport{}
	addr := testAddr()

	var batches [][]uint16
	transport.On("ReadAttributes", mock.Anything, addr, mock.Anything).
		Run(func(args mock.Arguments) {
			ids := args.Get(2).([]uint16)
			batch := make([]uint16, len(ids))
			copy(batch, ids)
			batches = append(batches, batch)
		}).
		Return(ReadResult{Succeeded: map[uint16]AttributeValue{}}, nil)

	s := newTestScanner(transport)
	s.readAttributeValues(context.Background(), addr, attributeRecords(0, 1, 2, 3, 4, 5, 6, 7, 8, 9))

	// ceil(10/4) batches, none larger than 4, ids in ascending order.
	assert.Equal(t, 3, len(batches))
	assert.Equal(t, []uint16{0, 1, 2, 3}, batches[0])
	assert.Equal(t, []uint16{4, 5, 6, 7}, batches[1])
	assert.Equal(t, []uint16{8, 9}, batches[2])
}

func TestReadAttributeValuesSkipsFailedBatch(t *testing.T) {
	transport := &mockTransport{}
	addr := testAddr()

	transport.On("ReadAttributes", mock.Anything, addr, []uint16{0, 1, 2, 3}).
		Return(ReadResult{}, errors.New("unable to transmit"))
	transport.On("ReadAttributes", mock.Anything, addr, []uint16{4, 5}).
		Return(ReadResult{
			Succeeded: map[uint16]AttributeValue{
				4: {DataType: 0x20, Value: uint8(7)},
				5: {DataType: 0x42, Value: []byte("hello\x00")},
			},
		}, nil)

	s := newTestScanner(transport)
	records := attributeRecords(0, 1, 2, 3, 4, 5)
	s.readAttributeValues(context.Background(), addr, records)

	for _, id := range []uint16{0, 1, 2, 3} {
		assert.False(t, records[id].HasValue)
	}
	assert.True(t, records[4].HasValue)
	assert.Equal(t, uint8(7), records[4].Value)
	assert.True(t, records[5].HasValue)
	assert.Equal(t, "hello", records[5].Value)
}

func TestDecodeAttributeValueNullTerminatedString(t *testing.T) {
	assert.Equal(t, "lumi.sensor_magnet", decodeAttributeValue([]byte("lumi.sensor_magnet\x00\x04\x05")))
	assert.Equal(t, "TRADFRI bulb", decodeAttributeValue([]byte(" TRADFRI bulb \x00")))
	assert.Equal(t, "plain", decodeAttributeValue([]byte("plain")))
}

func TestDecodeAttributeValueHexFallbackRoundTrips(t *testing.T) {
	raw := []byte{0xff, 0xfe, 0x00, 0x12, 0x81}

	decoded := decodeAttributeValue(raw)
	hexString, ok := decoded.(string)
	assert.True(t, ok)

	back, err := hex.DecodeString(hexString)
	assert.NoError(t, err)
	assert.Equal(t, raw, back)
}

func TestDecodeAttributeValuePassesThroughNonBytes(t *testing.T) {
	assert.Equal(t, uint64(200), decodeAttributeValue(uint64(200)))
	assert.Equal(t, "already", decodeAttributeValue("already"))
	assert.Nil(t, decodeAttributeValue(nil))
}
