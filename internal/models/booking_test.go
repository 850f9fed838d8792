package models

import (
	"testing"
	"time"
)

func TestCanTransitionTo(t *testing.T) {
	t.Parallel()

	allowed := map[BookingStatus][]BookingStatus{
		BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
		BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
		BookingStatusCompleted: nil,
		BookingStatusCancelled: nil,
	}
	all := []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled}

	for from, targets := range allowed {
		booking := &Booking{Status: from}
		for _, to := range all {
			want := false
			for _, legal := range targets {
				if legal == to {
					want = true
				}
			}
			if got := booking.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	if !(&Booking{Status: BookingStatusCompleted}).IsTerminal() {
		t.Error("completed should be terminal")
	}
	if !(&Booking{Status: BookingStatusCancelled}).IsTerminal() {
		t.Error("cancelled should be terminal")
	}
	if (&Booking{Status: BookingStatusPending}).IsTerminal() {
		t.Error("pending should not be terminal")
	}
	if (&Booking{Status: BookingStatusConfirmed}).IsTerminal() {
		t.Error("confirmed should not be terminal")
	}
}

func TestIsValidBookingStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled} {
		if !IsValidBookingStatus(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	if IsValidBookingStatus("driving") {
		t.Error("unknown status accepted")
	}
	if IsValidBookingStatus("") {
		t.Error("empty status accepted")
	}
}

func TestDuration(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	b := &Booking{StartTime: start, EndTime: start.Add(4 * time.Hour)}
	if b.Duration() != 4*time.Hour {
		t.Errorf("Duration = %v, want 4h", b.Duration())
	}
}
