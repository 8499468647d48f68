package domain

// Language is a language name paired with a confidence score.
type Language struct {
	Name  string
	Value float64
}

// UserProfile holds the language preferences of a Discord user.
type UserProfile struct {
	UserID            int64
	PreferredLanguage Language
	SpokenLanguages   []Language
	Email             string
}
