package reporter

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sla0ui/multilookup/internal/models"
	"github.com/samber/lo"
)

// Reporter handles generating reports over a finished output file
type Reporter struct {
	records []models.Record
}

// New creates a new Reporter instance
func New(records []models.Record) *Reporter {
	return &Reporter{records: records}
}

// Load reads every record of an output file. Blank lines are skipped.
func Load(path string) ([]models.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	defer file.Close()

	var records []models.Record
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := models.ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning output file: %w", err)
	}
	return records, nil
}

// GetStats returns resolved and failed counts
func (r *Reporter) GetStats() (resolved, failed int) {
	resolved = lo.CountBy(r.records, func(rec models.Record) bool {
		return rec.Resolved()
	})
	return resolved, len(r.records) - resolved
}

// Filter returns the records of the given kind: all, resolved or failed
func (r *Reporter) Filter(kind string) ([]models.Record, error) {
	switch kind {
	case "all":
		return r.records, nil
	case "resolved":
		return lo.Filter(r.records, func(rec models.Record, _ int) bool { return rec.Resolved() }), nil
	case "failed":
		return lo.Filter(r.records, func(rec models.Record, _ int) bool { return !rec.Resolved() }), nil
	default:
		return nil, fmt.Errorf("unknown record type %q", kind)
	}
}

// UniqueAddresses returns the distinct addresses in first-seen order
func (r *Reporter) UniqueAddresses() []string {
	resolved, _ := r.Filter("resolved")
	return lo.Uniq(lo.Map(resolved, func(rec models.Record, _ int) string { return rec.Address }))
}

// GenerateReport creates a report in each of the comma separated formats
func (r *Reporter) GenerateReport(outputPath, format string) ([]string, error) {
	formats := strings.Split(format, ",")
	outputBase := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))

	var written []string
	for _, f := range formats {
		var path string
		var err error
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "json":
			path = outputBase + ".json"
			err = r.GenerateJSON(path)
		case "csv":
			path = outputBase + ".csv"
			err = r.GenerateCSV(path)
		case "html":
			path = outputBase + ".html"
			err = r.GenerateHTML(path)
		default:
			return written, fmt.Errorf("unsupported report format %q", f)
		}
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}
