// Package codec maps ticketbot records to and from BSON documents.
//
// Every record type has an Encode/Decode pair. Encoding produces an ordered
// bson.D with a fixed field set and never fails for a well-formed record.
// Decoding requires every field to be present with its stored type and
// returns a *DecodeError otherwise; it never substitutes defaults and never
// returns a partially populated record.
//
// # Stored types
//
//	ids           int64
//	ticket_id     binary subtype 0x04 (16 bytes)
//	timestamps    datetime (milliseconds since the Unix epoch, UTC)
//	enums         int64, see the tables in enum.go
//	languages     {name: string, value: double}
//
// Enum codes are stored through explicit tables. Codes may be added but an
// existing code must never be renumbered.
//
// The package holds no state; all functions are safe for concurrent use.
package codec
