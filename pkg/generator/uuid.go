package generator

import "github.com/google/uuid"

// UUID returns a time-ordered v7 identifier, used for user ids, token ids and request ids.
func UUID() string {
	newUUID, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return newUUID.String()
}
