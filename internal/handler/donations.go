package handler

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/rocjay1/piggy-notifier/internal/models"
	"github.com/shopspring/decimal"
)

//go:embed web
var webFS embed.FS

var donationsTemplate = template.Must(template.New("donations.html").Funcs(template.FuncMap{
	"highlight": func(d models.Donation, threshold int64) bool {
		return d.Amount.GreaterThan(decimal.NewFromInt(threshold))
	},
	"reverse": func(in []models.Donation) []models.Donation {
		out := make([]models.Donation, len(in))
		for i, d := range in {
			out[len(in)-1-i] = d
		}
		return out
	},
}).ParseFS(webFS, "web/donations.html"))

type donationsView struct {
	*models.DonationPage
	QRCode template.URL
	Latest *models.Donation
}

// HandleDonationsPage renders the public donations page with a QR code of
// the pay link.
func (d *Dependencies) HandleDonationsPage(w http.ResponseWriter, r *http.Request) {
	page, err := d.Monitor.DonationPage(r.Context())
	if err != nil {
		slog.Error("failed to load donation page data", "error", err)
		WriteText(w, http.StatusInternalServerError, "Error retrieving LNURLp information")
		return
	}

	qr, err := QRCodePNG(page.LNURL)
	if err != nil {
		slog.Error("failed to generate qr code", "error", err)
		WriteText(w, http.StatusInternalServerError, "Error generating QR code")
		return
	}

	view := donationsView{
		DonationPage: page,
		QRCode:       template.URL("data:image/png;base64," + qr),
	}
	if n := len(page.Donations); n > 0 {
		view.Latest = &page.Donations[n-1]
	}

	var buf bytes.Buffer
	if err := donationsTemplate.Execute(&buf, view); err != nil {
		slog.Error("failed to render donations page", "error", err)
		WriteText(w, http.StatusInternalServerError, "Error rendering donations page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write donations page", "error", err)
	}
}

// HandleDonationsAPI returns the donation details as JSON.
func (d *Dependencies) HandleDonationsAPI(w http.ResponseWriter, r *http.Request) {
	details, err := d.Monitor.DonationDetails(r.Context())
	if err != nil {
		slog.Error("failed to retrieve donation data", "error", err)
		WriteError(w, http.StatusInternalServerError, "Error retrieving donation data")
		return
	}
	slog.Debug("served donation data", "donations", len(details.Donations))
	WriteJSON(w, http.StatusOK, details)
}
