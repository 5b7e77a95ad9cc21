package validation

import "portfolio-backend/pkg/apperror"

// Messages maps validation failures to user-facing text
var Messages = map[apperror.Kind]string{
	apperror.KindMissingField:      "Please fill in all fields",
	apperror.KindInvalidEmail:      "Please enter a valid email address",
	apperror.KindSuspiciousContent: "The message contains suspicious content",
	apperror.KindMessageTooLong:    "The message is too long",
	apperror.KindInvalidPayload:    "Invalid request body",
}

// Fail builds the 400 error for a failed rule.
func Fail(kind apperror.Kind) *apperror.AppError {
	msg, ok := Messages[kind]
	if !ok {
		msg = "Validation failed"
	}
	return apperror.Validation(kind, msg)
}
