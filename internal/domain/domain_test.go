package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatus(t *testing.T) {
	status, ok := ParseTicketStatus("in_progress")
	assert.True(t, ok)
	assert.Equal(t, TicketStatusInProgress, status)
	assert.Equal(t, "IN_PROGRESS", status.String())

	_, ok = ParseTicketStatus("pending")
	assert.False(t, ok)

	assert.True(t, TicketStatusArchived.Valid())
	assert.False(t, TicketStatus(0).Valid())
	assert.Equal(t, "UNKNOWN", TicketStatus(6).String())
}

func TestChannelType(t *testing.T) {
	assert.True(t, ChannelTypeSpam.Valid())
	assert.False(t, ChannelType(6).Valid())
	assert.Equal(t, "NEON", ChannelTypeNeon.String())
}
