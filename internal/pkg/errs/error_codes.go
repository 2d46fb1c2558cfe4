/*
Package errs provides the portal's application error type and error code constants.

The codes identify validation, session and system failures raised by the portal itself.
Failures reported by the remote events service are modelled separately by package api.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the portal limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007

	// ErrFormExpired indicates that the CSRF token of a submitted form was missing or stale.
	ErrFormExpired = 1008
)

// 2xxx: Form Validation Errors
const (
	// ErrLoginFieldsMissing indicates an empty email or password on the login form.
	ErrLoginFieldsMissing = 2001

	// ErrSignupFieldsMissing indicates an empty field on the signup form.
	ErrSignupFieldsMissing = 2002

	// ErrPasswordMismatch indicates that password and confirmation differ.
	ErrPasswordMismatch = 2003

	// ErrPasswordTooShort indicates a password below the minimum length.
	ErrPasswordTooShort = 2004

	// ErrTermsNotAccepted indicates that the terms checkbox was left unchecked.
	ErrTermsNotAccepted = 2005

	// ErrEventFieldsMissing indicates an empty required field on the event form.
	ErrEventFieldsMissing = 2101

	// ErrCoverTooLarge indicates an uploaded event cover above the size limit.
	ErrCoverTooLarge = 2102

	// ErrCoverTypeInvalid indicates an uploaded event cover of an unsupported type.
	ErrCoverTypeInvalid = 2103

	// ErrAnnouncementFieldsMissing indicates an empty title or body on the announcement form.
	ErrAnnouncementFieldsMissing = 2201

	// ErrDiscussionEmpty indicates an empty discussion message.
	ErrDiscussionEmpty = 2301
)

// 3xxx: Session and Lookup Errors
const (
	// ErrUnauthorized indicates that the request carries no usable session.
	ErrUnauthorized = 3001

	// ErrEventNotFound indicates an event id that is not in the current snapshot.
	ErrEventNotFound = 3101

	// ErrRegistrationNotFound indicates a registration id that is not in the current snapshot.
	ErrRegistrationNotFound = 3102
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general portal error.
	ErrUnknown = 5000

	// ErrServiceUnreachable indicates that the remote events service could not be reached.
	ErrServiceUnreachable = 5001

	// ErrCoverStorageFailed indicates that an event cover could not be stored.
	ErrCoverStorageFailed = 5002

	// ErrTicketEncodingFailed indicates that a ticket image could not be produced.
	ErrTicketEncodingFailed = 5003
)
