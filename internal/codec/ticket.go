package codec

import (
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spec-kit/ticketbot/internal/domain"
)

// Ticket document fields.
const (
	FieldUserID    = "user_id"
	FieldServerID  = "server_id"
	FieldChannelID = "channel_id"
	FieldTicketID  = "ticket_id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
	FieldStatus    = "status"
)

// EncodeTicket converts a ticket into its stored document.
func EncodeTicket(t domain.Ticket) bson.D {
	return bson.D{
		{Key: FieldUserID, Value: t.UserID},
		{Key: FieldServerID, Value: t.ServerID},
		{Key: FieldChannelID, Value: t.ChannelID},
		{Key: FieldTicketID, Value: EncodeUUID(t.TicketID)},
		{Key: FieldCreatedAt, Value: primitive.NewDateTimeFromTime(t.CreatedAt)},
		{Key: FieldUpdatedAt, Value: primitive.NewDateTimeFromTime(t.UpdatedAt)},
		{Key: FieldStatus, Value: EncodeTicketStatus(t.Status)},
	}
}

// EncodeUUID returns the binary subtype 4 representation of id.
func EncodeUUID(id uuid.UUID) primitive.Binary {
	data := make([]byte, len(id))
	copy(data, id[:])
	return primitive.Binary{Subtype: binarySubtypeUUID, Data: data}
}

// DecodeTicket converts a stored document into a ticket.
func DecodeTicket(doc bson.D) (domain.Ticket, error) {
	r := newReader("ticket", doc)

	userID, err := r.int64(FieldUserID)
	if err != nil {
		return domain.Ticket{}, err
	}
	serverID, err := r.int64(FieldServerID)
	if err != nil {
		return domain.Ticket{}, err
	}
	channelID, err := r.int64(FieldChannelID)
	if err != nil {
		return domain.Ticket{}, err
	}
	ticketID, err := r.uuid(FieldTicketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	createdAt, err := r.time(FieldCreatedAt)
	if err != nil {
		return domain.Ticket{}, err
	}
	updatedAt, err := r.time(FieldUpdatedAt)
	if err != nil {
		return domain.Ticket{}, err
	}
	code, err := r.int64(FieldStatus)
	if err != nil {
		return domain.Ticket{}, err
	}
	status, err := decodeTicketStatus(r.record, FieldStatus, code)
	if err != nil {
		return domain.Ticket{}, err
	}

	return domain.Ticket{
		UserID:    userID,
		ServerID:  serverID,
		ChannelID: channelID,
		TicketID:  ticketID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Status:    status,
	}, nil
}
