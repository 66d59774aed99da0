// internal/report/table.go
package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/tamzrod/faulttrace/internal/probe"
)

// Table renders a fleet summary, one row per probe result.
func Table(w io.Writer, results []probe.Result) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Device", "Status", "Cause", "Location", "Failures", "Probed"})
	t.SetAutoWrapText(false)

	for _, res := range results {
		row := []string{res.DeviceID, "", "", "", "", res.At.Format("15:04:05")}

		switch {
		case res.Err != nil:
			row[1] = "unreachable"
			row[2] = res.Err.Error()
		case !res.Found:
			row[1] = "ok"
		default:
			row[1] = "fault"
			row[2] = res.Rec.Cause.String()
			if res.Rec.File != "" {
				row[3] = fmt.Sprintf("%s:%d", res.Rec.File, res.Rec.Line)
			} else {
				row[3] = fmt.Sprintf("line %d", res.Rec.Line)
			}
			row[4] = fmt.Sprintf("%d", res.Rec.FailCount)
		}

		t.Append(row)
	}

	t.Render()
}
