package reporter

import (
	"encoding/csv"
	"fmt"
	"os"
)

// GenerateCSV creates a CSV report with a header row
func (r *Reporter) GenerateCSV(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Write([]string{"Hostname", "Address", "Status"})

	for _, rec := range r.records {
		status := "failed"
		if rec.Resolved() {
			status = "resolved"
		}
		w.Write([]string{rec.Hostname, rec.Address, status})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}
