package reporter

import (
	"fmt"
	"html"
	"os"
	"strconv"
	"strings"
	"time"
)

// GenerateHTML creates an HTML report
func (r *Reporter) GenerateHTML(outputPath string) error {
	resolvedCount, failedCount := r.GetStats()

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>multilookup Resolution Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        h1, h2, h3 { color: #2c3e50; }
        .container { max-width: 1200px; margin: 0 auto; }
        .summary { background-color: #f8f9fa; padding: 15px; border-radius: 5px; margin-bottom: 20px; }
        .stats { display: flex; gap: 20px; margin: 20px 0; }
        .stat-box { flex: 1; padding: 15px; border-radius: 5px; text-align: center; }
        .resolved { background-color: #d4edda; color: #155724; }
        .failed { background-color: #f8d7da; color: #721c24; }
        .total { background-color: #e2e3e5; color: #383d41; }
        table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
        th { background-color: #f2f2f2; }
        tr:hover { background-color: #f5f5f5; }
    </style>
</head>
<body>
    <div class="container">
        <h1>multilookup Resolution Report</h1>
        <div class="summary">
            <p>Report generated on: ` + time.Now().Format("January 2, 2006 15:04:05") + `</p>
            <p>Unique addresses: ` + strconv.Itoa(len(r.UniqueAddresses())) + `</p>
        </div>

        <div class="stats">
            <div class="stat-box resolved">
                <h3>Resolved</h3>
                <p>` + strconv.Itoa(resolvedCount) + `</p>
            </div>
            <div class="stat-box failed">
                <h3>Failed</h3>
                <p>` + strconv.Itoa(failedCount) + `</p>
            </div>
            <div class="stat-box total">
                <h3>Total Hostnames</h3>
                <p>` + strconv.Itoa(len(r.records)) + `</p>
            </div>
        </div>

        <h2>Resolved Hostnames</h2>
        <table>
            <tr>
                <th>Hostname</th>
                <th>Address</th>
            </tr>`)

	for _, rec := range r.records {
		if rec.Resolved() {
			b.WriteString(`
            <tr>
                <td>` + html.EscapeString(rec.Hostname) + `</td>
                <td>` + html.EscapeString(rec.Address) + `</td>
            </tr>`)
		}
	}

	b.WriteString(`
        </table>

        <h2>Failed Hostnames</h2>
        <table>
            <tr>
                <th>Hostname</th>
            </tr>`)

	for _, rec := range r.records {
		if !rec.Resolved() {
			b.WriteString(`
            <tr>
                <td>` + html.EscapeString(rec.Hostname) + `</td>
            </tr>`)
		}
	}

	b.WriteString(`
        </table>
    </div>
</body>
</html>`)

	if err := os.WriteFile(outputPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}
	return nil
}
