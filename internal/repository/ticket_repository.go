package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/ticketbot/internal/codec"
	"github.com/spec-kit/ticketbot/internal/domain"
	"github.com/spec-kit/ticketbot/internal/observability"
	"github.com/spec-kit/ticketbot/internal/persistence"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket domain.Ticket) error
	Update(ctx context.Context, ticket domain.Ticket) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Ticket, error)
	ListByUser(ctx context.Context, serverID, userID int64) ([]domain.Ticket, error)
	ListByStatus(ctx context.Context, serverID int64, status domain.TicketStatus) ([]domain.Ticket, error)
}

type ticketRepository struct {
	coll    *mongo.Collection
	metrics *observability.Metrics
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db *mongo.Database, metrics *observability.Metrics) TicketRepository {
	return &ticketRepository{coll: db.Collection(persistence.TicketsCollection), metrics: metrics}
}

func (r *ticketRepository) Create(ctx context.Context, ticket domain.Ticket) error {
	if _, err := r.coll.InsertOne(ctx, codec.EncodeTicket(ticket)); err != nil {
		return fmt.Errorf("create ticket %s: %w", ticket.TicketID, mapWriteError(err))
	}
	return nil
}

// Update replaces the stored ticket with the same ticket_id.
func (r *ticketRepository) Update(ctx context.Context, ticket domain.Ticket) error {
	res, err := r.coll.ReplaceOne(ctx, byTicketID(ticket.TicketID), codec.EncodeTicket(ticket))
	if err != nil {
		return fmt.Errorf("update ticket %s: %w", ticket.TicketID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update ticket %s: %w", ticket.TicketID, mongo.ErrNoDocuments)
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Ticket, error) {
	doc, err := findOne(ctx, r.coll, byTicketID(id))
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("get ticket %s: %w", id, err)
	}
	ticket, err := codec.DecodeTicket(doc)
	if err != nil {
		recordDecodeFailure(r.metrics, r.coll.Name(), err)
		return domain.Ticket{}, fmt.Errorf("get ticket %s: %w", id, err)
	}
	return ticket, nil
}

func (r *ticketRepository) ListByUser(ctx context.Context, serverID, userID int64) ([]domain.Ticket, error) {
	filter := bson.D{
		{Key: codec.FieldServerID, Value: serverID},
		{Key: codec.FieldUserID, Value: userID},
	}
	tickets, err := findAll(ctx, r.coll, filter, byCreation(), codec.DecodeTicket, r.metrics)
	if err != nil {
		return nil, fmt.Errorf("list tickets for user %d: %w", userID, err)
	}
	return tickets, nil
}

func (r *ticketRepository) ListByStatus(ctx context.Context, serverID int64, status domain.TicketStatus) ([]domain.Ticket, error) {
	filter := bson.D{
		{Key: codec.FieldServerID, Value: serverID},
		{Key: codec.FieldStatus, Value: codec.EncodeTicketStatus(status)},
	}
	tickets, err := findAll(ctx, r.coll, filter, byCreation(), codec.DecodeTicket, r.metrics)
	if err != nil {
		return nil, fmt.Errorf("list %s tickets for server %d: %w", status, serverID, err)
	}
	return tickets, nil
}

// byTicketID matches every stored form DecodeTicket accepts for ticket_id:
// binary subtype 4, legacy subtype 3 and the canonical string.
func byTicketID(id uuid.UUID) bson.D {
	forms := bson.A{
		codec.EncodeUUID(id),
		primitive.Binary{Subtype: 0x03, Data: id[:]},
		id.String(),
	}
	return bson.D{{Key: codec.FieldTicketID, Value: bson.D{{Key: "$in", Value: forms}}}}
}

func byCreation() []*options.FindOptions {
	return []*options.FindOptions{options.Find().SetSort(bson.D{{Key: codec.FieldCreatedAt, Value: 1}})}
}
