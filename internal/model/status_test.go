package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusBadge(t *testing.T) {
	tests := []struct {
		status BookingStatus
		label  string
		tone   Tone
	}{
		{BookingStatusPending, "Pending", ToneAmber},
		{BookingStatusAccepted, "Accepted", ToneEmerald},
		{BookingStatusRejected, "Rejected", ToneRose},
		{BookingStatusPaid, "Paid", ToneSky},
		{BookingStatus("shipped"), "Pending", ToneAmber},
		{BookingStatus(""), "Pending", ToneAmber},
	}

	for _, tt := range tests {
		badge := tt.status.Badge()
		assert.Equal(t, tt.label, badge.Label, "status %q", tt.status)
		assert.Equal(t, tt.tone, badge.Tone, "status %q", tt.status)
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.False(t, BookingStatusPending.Terminal())
	assert.False(t, BookingStatusAccepted.Terminal())
	assert.True(t, BookingStatusRejected.Terminal())
	assert.True(t, BookingStatusPaid.Terminal())
}

func TestVerificationStatusBadge(t *testing.T) {
	assert.Equal(t, StatusBadge{Label: "Approved", Tone: ToneEmerald}, VerificationApproved.Badge())
	assert.Equal(t, StatusBadge{Label: "Pending", Tone: ToneAmber}, VerificationStatus("bogus").Badge())
}
