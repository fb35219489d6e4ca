package types

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Payload validation runs before any network call; an invalid payload must
// never produce a request.

// Validate checks the diary payload.
func (r SaveDiaryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.DiaryDate, validation.Required, validation.Date("2006-01-02")),
	)
}

// Validate checks the outgoing chat message.
func (r SendMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserContent, validation.Required),
		validation.Field(&r.UserClientMessageID, validation.Required),
	)
}

// Validate checks the rename payload.
func (r RenameConversationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
	)
}

// Validate checks the OAuth exchange payload.
func (r GoogleSignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDToken, validation.Required),
	)
}
