package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceDB(t *testing.T) {
	db, err := NewDeviceDB(t.TempDir())
	assert.NoError(t, err)
	defer db.Close(context.Background())

	ctx := context.Background()

	dev1 := Device{
		IEEEAddress:    12345,
		NetworkAddress: 7890,
		LogicalType:    2,
		LQI:            33,
		Depth:          1,
	}
	dev2 := Device{
		IEEEAddress:    99999,
		NetworkAddress: 8888,
		LogicalType:    1,
		LQI:            33,
		Depth:          1,
	}

	err = db.SaveDevice(ctx, dev1)
	assert.NoError(t, err)

	err = db.SaveDevice(ctx, dev2)
	assert.NoError(t, err)

	devices, err := db.GetDevices(ctx)
	assert.NoError(t, err)

	assert.Equal(t, 2, len(devices))
	assert.Equal(t, dev1.IEEEAddress, devices[0].IEEEAddress)
	assert.Equal(t, dev2.IEEEAddress, devices[1].IEEEAddress)

	err = db.DeleteDevice(ctx, dev1.IEEEAddress)
	assert.NoError(t, err)

	devices, err = db.GetDevices(ctx)
	assert.NoError(t, err)

	assert.Equal(t, 1, len(devices))
}

func TestGetDevice(t *testing.T) {
	db, err := NewDeviceDB(t.TempDir())
	assert.NoError(t, err)
	defer db.Close(context.Background())

	ctx := context.Background()

	dev := Device{
		IEEEAddress:    12345,
		NetworkAddress: 7890,
		Model:          "lumi.sensor_magnet",
		Manufacturer:   "LUMI",
	}

	err = db.SaveDevice(ctx, dev)
	assert.NoError(t, err)

	stored, err := db.GetDevice(ctx, dev.IEEEAddress)
	assert.NoError(t, err)

	assert.Equal(t, dev.IEEEAddress, stored.IEEEAddress)
	assert.Equal(t, "lumi.sensor_magnet", stored.Model)
}

func TestGetDeviceNotExist(t *testing.T) {
	db, err := NewDeviceDB(t.TempDir())
	assert.NoError(t, err)
	defer db.Close(context.Background())

	_, err = db.GetDevice(context.Background(), 4242)
	assert.Error(t, err)
}

func TestUpdateDevice(t *testing.T) {
	db, err := NewDeviceDB(t.TempDir())
	assert.NoError(t, err)
	defer db.Close(context.Background())

	ctx := context.Background()

	err = db.SaveDevice(ctx, Device{IEEEAddress: 777, NetworkAddress: 11})
	assert.NoError(t, err)

	err = db.UpdateDevice(ctx, 777, func(device *Device) {
		device.Model = "TRADFRI bulb"
		device.Manufacturer = "IKEA of Sweden"
	})
	assert.NoError(t, err)

	stored, err := db.GetDevice(ctx, 777)
	assert.NoError(t, err)
	assert.Equal(t, uint16(11), stored.NetworkAddress)
	assert.Equal(t, "TRADFRI bulb", stored.Model)

	// Update of an unknown device creates the record.
	err = db.UpdateDevice(ctx, 888, func(device *Device) {
		device.Model = "unknown"
	})
	assert.NoError(t, err)

	stored, err = db.GetDevice(ctx, 888)
	assert.NoError(t, err)
	assert.Equal(t, uint64(888), stored.IEEEAddress)
}
