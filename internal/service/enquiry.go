package service

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/skyhopper/flight-compare/backend/internal/domain"
)

// BuildEnquiry returns the deep link https://<host>/<number>?text=<message>.
// Empty from/to fall back to the flight's departure and arrival airports.
func BuildEnquiry(cfg EnquiryConfig, f domain.Flight, from, to string) domain.Enquiry {
	if strings.TrimSpace(from) == "" {
		from = f.DepartureAirport
	}
	if strings.TrimSpace(to) == "" {
		to = f.ArrivalAirport
	}
	msg := fmt.Sprintf(
		"Hi, I'm interested in booking flight %s (%s) from %s to %s. Price: %s %s. Can you help me with the booking?",
		f.FlightNumber, f.Airline, from, to, formatAmount(f.Price.Amount), f.Price.Currency,
	)
	host := cfg.Host
	if host == "" {
		host = "wa.me"
	}
	link := fmt.Sprintf("https://%s/%s?text=%s", host, digitsOnly(cfg.ContactNumber), escapeText(msg))
	return domain.Enquiry{URL: link, Message: msg}
}

// formatAmount prints the shortest exact decimal ("850", "849.5").
func formatAmount(v float64) string {
	if math.IsNaN(v) {
		return "on request"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// escapeText percent-encodes s for a query value, spaces as %20.
func escapeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// digitsOnly strips "+", spaces and dashes from a phone number.
func digitsOnly(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
