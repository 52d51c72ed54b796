package db

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"

	badger "github.com/dgraph-io/badger/v3"
)

type DeviceDB interface {
	GetDevices(ctx context.Context) ([]Device, error)
	GetDevice(ctx context.Context, ieeeAddress uint64) (Device, error)
	SaveDevice(ctx context.Context, device Device) error
	UpdateDevice(ctx context.Context, ieeeAddress uint64, update func(device *Device)) error
	DeleteDevice(ctx context.Context, ieeeAddress uint64) error
	Close(ctx context.Context) error
}

func NewDeviceDB(dirname string) (DeviceDB, error) {
	opt := badger.DefaultOptions(dirname)
	opt.ValueLogFileSize = 1024 * 1024 * 40
	opt.Logger = nil

	db, err := badger.Open(opt)
	if err != nil {
		return nil, err
	}

	return &deviceDB{
		db: db,
	}, nil
}

type deviceDB struct {
	db *badger.DB
}

func deviceKey(ieeeAddress uint64) []byte {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, ieeeAddress)
	return key
}

func (d *deviceDB) GetDevices(ctx context.Context) ([]Device, error) {
	var ret []Device
	err := d.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				dev := Device{
					IEEEAddress: binary.LittleEndian.Uint64(item.Key()),
				}

				dec := gob.NewDecoder(bytes.NewReader(v))
				if err := dec.Decode(&dev); err != nil {
					return err
				}

				ret = append(ret, dev)

				return nil
			})

			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return ret, nil
}

func (d *deviceDB) SaveDevice(ctx context.Context, device Device) error {
	buf := bytes.Buffer{}
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(device); err != nil {
		return err
	}

	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(deviceKey(device.IEEEAddress), buf.Bytes())
	})
}

// UpdateDevice applies update to a stored device in one transaction. A missing
// device starts from a zero record so scan results survive a node table wipe.
func (d *deviceDB) UpdateDevice(ctx context.Context, ieeeAddress uint64, update func(device *Device)) error {
	key := deviceKey(ieeeAddress)

	return d.db.Update(func(txn *badger.Txn) error {
		dev := Device{IEEEAddress: ieeeAddress}

		item, err := txn.Get(key)
		if err == nil {
			err = item.Value(func(v []byte) error {
				dec := gob.NewDecoder(bytes.NewReader(v))
				return dec.Decode(&dev)
			})
			if err != nil {
				return err
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		update(&dev)
		dev.IEEEAddress = ieeeAddress

		buf := bytes.Buffer{}
		enc := gob.NewEncoder(&buf)
		if err := enc.Encode(dev); err != nil {
			return err
		}

		return txn.Set(key, buf.Bytes())
	})
}

func (d *deviceDB) DeleteDevice(ctx context.Context, ieeeAddress uint64) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(deviceKey(ieeeAddress))
	})
}

func (d *deviceDB) GetDevice(ctx context.Context, ieeeAddress uint64) (Device, error) {
	var ret Device
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(deviceKey(ieeeAddress))
		if err != nil {
			return err
		}

		return item.Value(func(v []byte) error {
			dec := gob.NewDecoder(bytes.NewReader(v))
			return dec.Decode(&ret)
		})
	})

	if err != nil {
		return Device{}, err
	}

	return ret, nil
}

func (d *deviceDB) Close(ctx context.Context) error {
	return d.db.Close()
}
