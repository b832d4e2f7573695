package reporter

import (
	"encoding/json"
	"fmt"
	"os"
)

type jsonReport struct {
	Total     int          `json:"total"`
	Resolved  int          `json:"resolved"`
	Failed    int          `json:"failed"`
	Addresses int          `json:"unique_addresses"`
	Records   []jsonRecord `json:"records"`
}

type jsonRecord struct {
	Hostname string `json:"hostname"`
	Address  string `json:"address,omitempty"`
	Resolved bool   `json:"resolved"`
}

// GenerateJSON creates a JSON report
func (r *Reporter) GenerateJSON(outputPath string) error {
	resolved, failed := r.GetStats()
	report := jsonReport{
		Total:     len(r.records),
		Resolved:  resolved,
		Failed:    failed,
		Addresses: len(r.UniqueAddresses()),
		Records:   make([]jsonRecord, 0, len(r.records)),
	}
	for _, rec := range r.records {
		report.Records = append(report.Records, jsonRecord{
			Hostname: rec.Hostname,
			Address:  rec.Address,
			Resolved: rec.Resolved(),
		})
	}

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}
