package service

import (
	"time"
)

// MaxGuests is the hard occupancy cap enforced on every reservation.
const MaxGuests = 4

const baseNightlyRate = 200

var nightlyRates = map[string]float64{
	"Suite":    500,
	"Deluxe":   400,
	"Standard": 300,
}

// NightlyRate resolves the fixed per-night rate for a room type label.
// Unknown labels fall back to the base rate.
func NightlyRate(roomType string) float64 {
	if rate, ok := nightlyRates[roomType]; ok {
		return rate
	}
	return baseNightlyRate
}

// Nights counts whole days between the date-truncated bounds of a stay.
func Nights(start, end time.Time) int {
	return int(truncateToDay(end).Sub(truncateToDay(start)).Hours() / 24)
}

// ComputePrice derives the stay total: nights x nightly rate x party
// size. Zero-night stays price to zero.
func ComputePrice(roomType string, start, end time.Time, guests int) float64 {
	return float64(Nights(start, end)) * NightlyRate(roomType) * float64(guests)
}

// Valid rejects reversed or empty stay ranges and parties outside
// 1..MaxGuests. Equal start and end dates fail.
func Valid(start, end time.Time, guests int) bool {
	if !truncateToDay(end).After(truncateToDay(start)) {
		return false
	}
	if guests < 1 || guests > MaxGuests {
		return false
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
