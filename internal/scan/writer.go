package scan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReportFileName derives the scan report file name from model, manufacturer
// and the last 4 bytes of the address, falling back to the full address when
// the device identity is unknown.
func ReportFileName(result *DeviceScan) string {
	ieee := uint64(result.IEEEAddress)

	if result.Model != "" && result.Manufacturer != "" {
		tail := fmt.Sprintf("%08x", uint32(ieee))
		return fmt.Sprintf("%s_%s_%s_scan_results.txt", sanitizeName(result.Model), sanitizeName(result.Manufacturer), tail)
	}

	return fmt.Sprintf("%016x_scan_results.txt", ieee)
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, name)
}

// WriteReport serializes the scan into the scans directory and returns the
// full path of the written file.
func WriteReport(dir string, result *DeviceScan) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}

	filename := filepath.Join(dir, ReportFileName(result))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}

	return filename, nil
}
