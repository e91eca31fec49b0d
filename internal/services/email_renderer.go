package services

import (
	"fmt"
	"html"
	"time"

	"github.com/rocjay1/piggy-notifier/internal/models"
)

// RenderReportRow renders one label/value table row.
func RenderReportRow(label, value string) string {
	return fmt.Sprintf(`
		<tr>
			<td style="padding: 8px 0; color: #666;">%s</td>
			<td style="padding: 8px 0; text-align: right; font-weight: bold;">%s</td>
		</tr>
	`, html.EscapeString(label), html.EscapeString(value))
}

// RenderReportBody renders the full HTML body for the daily report email.
func RenderReportBody(instanceName string, report models.DailyReport, at time.Time) string {
	rows := RenderReportRow("Balance", report.BalanceSats.String()+" sats") +
		RenderReportRow(fmt.Sprintf("Incoming (%d)", report.IncomingCount), "+"+report.IncomingTotal.String()+" sats") +
		RenderReportRow(fmt.Sprintf("Outgoing (%d)", report.OutgoingCount), "-"+report.OutgoingTotal.String()+" sats")

	return fmt.Sprintf(`
		<html>
		<body style="font-family: 'Segoe UI', sans-serif; color: #333; line-height: 1.6; background-color: #f4f4f4; margin: 0; padding: 20px;">
			<div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
				<div style="background-color: #e75480; padding: 20px; text-align: center; color: white;">
					<h2 style="margin: 0;">%s Daily Report</h2>
				</div>
				<div style="padding: 20px;">
					<table style="width: 100%%; border-collapse: collapse;">
						%s
					</table>
					<p style="color: #999; font-size: 12px;">Totals cover all completed payments. Generated %s UTC</p>
				</div>
			</div>
		</body>
		</html>
	`, html.EscapeString(instanceName), rows, at.UTC().Format(time.DateTime))
}
