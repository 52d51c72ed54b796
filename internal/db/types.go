package db

import "time"

type Device struct {
	IEEEAddress    uint64
	NetworkAddress uint16
	LogicalType    uint8
	LQI            uint8
	Depth          uint8
	LastDiscovered time.Time
	LastReceived   time.Time

	// Filled in by capability scans.
	Model        string
	Manufacturer string
	PowerSource  string
	LastScanFile string
	LastScanTime time.Time
}
