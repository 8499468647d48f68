package codec

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/spec-kit/ticketbot/internal/domain"
)

// User profile document fields.
const (
	FieldPreferredLanguage = "preferred_language"
	FieldSpokenLanguages   = "spoken_languages"
	FieldEmail             = "email"
	FieldLanguageName      = "name"
	FieldLanguageValue     = "value"
)

// EncodeLanguage converts a language score into a {name, value} document.
func EncodeLanguage(l domain.Language) bson.D {
	return bson.D{
		{Key: FieldLanguageName, Value: l.Name},
		{Key: FieldLanguageValue, Value: l.Value},
	}
}

func decodeLanguage(r reader) (domain.Language, error) {
	name, err := r.string(FieldLanguageName)
	if err != nil {
		return domain.Language{}, err
	}
	value, err := r.float64(FieldLanguageValue)
	if err != nil {
		return domain.Language{}, err
	}
	return domain.Language{Name: name, Value: value}, nil
}

// EncodeUserProfile converts a user profile into its stored document.
func EncodeUserProfile(u domain.UserProfile) bson.D {
	spoken := make(bson.A, 0, len(u.SpokenLanguages))
	for _, l := range u.SpokenLanguages {
		spoken = append(spoken, EncodeLanguage(l))
	}
	return bson.D{
		{Key: FieldUserID, Value: u.UserID},
		{Key: FieldPreferredLanguage, Value: EncodeLanguage(u.PreferredLanguage)},
		{Key: FieldSpokenLanguages, Value: spoken},
		{Key: FieldEmail, Value: u.Email},
	}
}

// DecodeUserProfile converts a stored document into a user profile.
// SpokenLanguages is never nil: an empty array yields an empty slice, so a
// profile built with nil SpokenLanguages does not compare equal after a
// round trip.
func DecodeUserProfile(doc bson.D) (domain.UserProfile, error) {
	r := newReader("user profile", doc)

	userID, err := r.int64(FieldUserID)
	if err != nil {
		return domain.UserProfile{}, err
	}
	prefDoc, err := r.document(FieldPreferredLanguage)
	if err != nil {
		return domain.UserProfile{}, err
	}
	preferred, err := decodeLanguage(prefDoc)
	if err != nil {
		return domain.UserProfile{}, err
	}
	items, err := r.array(FieldSpokenLanguages)
	if err != nil {
		return domain.UserProfile{}, err
	}
	spoken := make([]domain.Language, 0, len(items))
	for _, item := range items {
		l, err := decodeLanguage(item)
		if err != nil {
			return domain.UserProfile{}, err
		}
		spoken = append(spoken, l)
	}
	email, err := r.string(FieldEmail)
	if err != nil {
		return domain.UserProfile{}, err
	}

	return domain.UserProfile{
		UserID:            userID,
		PreferredLanguage: preferred,
		SpokenLanguages:   spoken,
		Email:             email,
	}, nil
}
