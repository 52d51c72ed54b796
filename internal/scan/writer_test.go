package scan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shimmeringbee/zigbee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFileName(t *testing.T) {
	withIdentity := &DeviceScan{
		IEEEAddress:  zigbee.IEEEAddress(0x00124b000724ae04),
		Model:        "lumi.sensor_magnet",
		Manufacturer: "LUMI",
	}
	assert.Equal(t, "lumi.sensor_magnet_LUMI_0724ae04_scan_results.txt", ReportFileName(withIdentity))

	anonymous := &DeviceScan{
		IEEEAddress: zigbee.IEEEAddress(0x00124b000724ae04),
	}
	assert.Equal(t, "00124b000724ae04_scan_results.txt", ReportFileName(anonymous))
}

func TestWriteReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scans")

	result := &DeviceScan{
		IEEEAddress:  zigbee.IEEEAddress(0x00124b000724ae04),
		NWKAddress:   0x79eb,
		Model:        "lumi.sensor_magnet",
		Manufacturer: "LUMI",
	}

	filename, err := WriteReport(dir, result)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lumi.sensor_magnet_LUMI_0724ae04_scan_results.txt"), filename)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "0x79eb", decoded["nwk"])
}
