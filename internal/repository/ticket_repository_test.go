package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/spec-kit/ticketbot/internal/codec"
	"github.com/spec-kit/ticketbot/internal/domain"
	"github.com/spec-kit/ticketbot/internal/observability"
)

const ticketsNS = "ticketbot.tickets"

func sampleTicket() domain.Ticket {
	created := time.Date(2024, 5, 10, 9, 15, 0, 0, time.UTC)
	return domain.Ticket{
		UserID:    80351110224678912,
		ServerID:  613425648685547541,
		ChannelID: 613425648685547545,
		TicketID:  uuid.MustParse("123e4567-e89b-12d3-a456-426614174000"),
		CreatedAt: created,
		UpdatedAt: created.Add(90 * time.Minute),
		Status:    domain.TicketStatusOpen,
	}
}

func TestTicketRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create writes the encoded document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewTicketRepository(mt.DB, nil)

		require.NoError(mt, repo.Create(ctx, sampleTicket()))

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)

		var cmd struct {
			Documents []bson.D `bson:"documents"`
		}
		require.NoError(mt, bson.Unmarshal(started.Command, &cmd))
		require.Len(mt, cmd.Documents, 1)
		stored, err := codec.DecodeTicket(cmd.Documents[0])
		require.NoError(mt, err)
		assert.Equal(mt, sampleTicket(), stored)
	})

	mt.Run("create reports duplicates", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))
		repo := NewTicketRepository(mt.DB, nil)

		err := repo.Create(ctx, sampleTicket())
		require.Error(mt, err)
		assert.True(mt, errors.Is(err, ErrDuplicate))
	})

	mt.Run("get by id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ticketsNS, mtest.FirstBatch, codec.EncodeTicket(sampleTicket())))
		repo := NewTicketRepository(mt.DB, nil)

		got, err := repo.GetByID(ctx, sampleTicket().TicketID)
		require.NoError(mt, err)
		assert.Equal(mt, sampleTicket(), got)
	})

	mt.Run("get by id matches every identifier form", func(mt *mtest.T) {
		legacy := codec.EncodeTicket(sampleTicket())
		legacy[3].Value = sampleTicket().TicketID.String()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ticketsNS, mtest.FirstBatch, legacy))
		repo := NewTicketRepository(mt.DB, nil)

		got, err := repo.GetByID(ctx, sampleTicket().TicketID)
		require.NoError(mt, err)
		assert.Equal(mt, sampleTicket(), got)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		in, err := started.Command.LookupErr("filter", "ticket_id", "$in")
		require.NoError(mt, err)
		forms, err := in.Array().Values()
		require.NoError(mt, err)
		require.Len(mt, forms, 3)

		id := sampleTicket().TicketID
		subtype, data := forms[0].Binary()
		assert.Equal(mt, byte(0x04), subtype)
		assert.Equal(mt, id[:], data)
		subtype, data = forms[1].Binary()
		assert.Equal(mt, byte(0x03), subtype)
		assert.Equal(mt, id[:], data)
		assert.Equal(mt, id.String(), forms[2].StringValue())
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ticketsNS, mtest.FirstBatch))
		repo := NewTicketRepository(mt.DB, nil)

		_, err := repo.GetByID(ctx, uuid.New())
		require.Error(mt, err)
		assert.True(mt, errors.Is(err, mongo.ErrNoDocuments))
	})

	mt.Run("get by id corrupt document", func(mt *mtest.T) {
		doc := codec.EncodeTicket(sampleTicket())
		doc[6].Value = int64(9)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ticketsNS, mtest.FirstBatch, doc))
		metrics := observability.NewMetrics()
		repo := NewTicketRepository(mt.DB, metrics)

		got, err := repo.GetByID(ctx, sampleTicket().TicketID)
		require.Error(mt, err)
		assert.True(mt, errors.Is(err, codec.ErrInvalidEnumCode))
		assert.Equal(mt, domain.Ticket{}, got)
		assert.Equal(mt, int64(1), metrics.Snapshot().DecodeFailures["tickets"])
	})

	mt.Run("update", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		repo := NewTicketRepository(mt.DB, nil)

		ticket := sampleTicket()
		ticket.Status = domain.TicketStatusClosed
		require.NoError(mt, repo.Update(ctx, ticket))
	})

	mt.Run("update missing ticket", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		repo := NewTicketRepository(mt.DB, nil)

		err := repo.Update(ctx, sampleTicket())
		require.Error(mt, err)
		assert.True(mt, errors.Is(err, mongo.ErrNoDocuments))
	})

	mt.Run("list by user across batches", func(mt *mtest.T) {
		first := sampleTicket()
		second := sampleTicket()
		second.TicketID = uuid.MustParse("9b2f3c1e-0d4a-4f6b-8e7c-1a2b3c4d5e6f")
		second.Status = domain.TicketStatusFrozen

		mt.AddMockResponses(
			mtest.CreateCursorResponse(42, ticketsNS, mtest.FirstBatch, codec.EncodeTicket(first)),
			mtest.CreateCursorResponse(0, ticketsNS, mtest.NextBatch, codec.EncodeTicket(second)),
		)
		repo := NewTicketRepository(mt.DB, nil)

		got, err := repo.ListByUser(ctx, first.ServerID, first.UserID)
		require.NoError(mt, err)
		assert.Equal(mt, []domain.Ticket{first, second}, got)
	})

	mt.Run("list by status empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ticketsNS, mtest.FirstBatch))
		repo := NewTicketRepository(mt.DB, nil)

		got, err := repo.ListByStatus(ctx, 1, domain.TicketStatusArchived)
		require.NoError(mt, err)
		assert.Empty(mt, got)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		status, err := started.Command.LookupErr("filter", "status")
		require.NoError(mt, err)
		assert.Equal(mt, int64(5), status.Int64())
	})

	mt.Run("list aborts on corrupt document", func(mt *mtest.T) {
		bad := codec.EncodeTicket(sampleTicket())
		bad = bad[:len(bad)-1]
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ticketsNS, mtest.FirstBatch, codec.EncodeTicket(sampleTicket()), bad))
		metrics := observability.NewMetrics()
		repo := NewTicketRepository(mt.DB, metrics)

		got, err := repo.ListByUser(ctx, 1, 2)
		require.Error(mt, err)
		assert.Nil(mt, got)
		assert.True(mt, errors.Is(err, codec.ErrMissingField))
		assert.Equal(mt, int64(1), metrics.Snapshot().DecodeFailures["tickets"])
	})
}
