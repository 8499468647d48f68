package codec

import "github.com/spec-kit/ticketbot/internal/domain"

// Stored enum codes. Append new variants; never renumber existing ones.
var ticketStatusTable = []struct {
	status domain.TicketStatus
	code   int64
}{
	{domain.TicketStatusOpen, 1},
	{domain.TicketStatusInProgress, 2},
	{domain.TicketStatusFrozen, 3},
	{domain.TicketStatusClosed, 4},
	{domain.TicketStatusArchived, 5},
}

var channelTypeTable = []struct {
	channelType domain.ChannelType
	code        int64
}{
	{domain.ChannelTypeGeneric, 1},
	{domain.ChannelTypeNews, 2},
	{domain.ChannelTypeBots, 3},
	{domain.ChannelTypeNeon, 4},
	{domain.ChannelTypeSpam, 5},
}

// EncodeTicketStatus returns the stored code for s, or 0 if s is not a
// named status. 0 is never a valid code, so such a document fails to decode.
func EncodeTicketStatus(s domain.TicketStatus) int64 {
	for _, row := range ticketStatusTable {
		if row.status == s {
			return row.code
		}
	}
	return 0
}

// DecodeTicketStatus maps a stored code back to its status.
func DecodeTicketStatus(code int64) (domain.TicketStatus, error) {
	return decodeTicketStatus("ticket", FieldStatus, code)
}

func decodeTicketStatus(record, field string, code int64) (domain.TicketStatus, error) {
	for _, row := range ticketStatusTable {
		if row.code == code {
			return row.status, nil
		}
	}
	return 0, invalidEnumCode(record, field, code)
}

// EncodeChannelType returns the stored code for t, or 0 if t is not a
// named channel type.
func EncodeChannelType(t domain.ChannelType) int64 {
	for _, row := range channelTypeTable {
		if row.channelType == t {
			return row.code
		}
	}
	return 0
}

// DecodeChannelType maps a stored code back to its channel type.
func DecodeChannelType(code int64) (domain.ChannelType, error) {
	return decodeChannelType("channel params", FieldChannelType, code)
}

func decodeChannelType(record, field string, code int64) (domain.ChannelType, error) {
	for _, row := range channelTypeTable {
		if row.code == code {
			return row.channelType, nil
		}
	}
	return 0, invalidEnumCode(record, field, code)
}
