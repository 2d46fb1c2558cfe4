/*
Package errs provides the portal's application error type and error code constants.

This file maps every code to its user-facing message and HTTP status.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process submitted data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},
	ErrFormExpired:           {Code: ErrFormExpired, Message: "This form has expired. Please reload the page and try again.", Status: http.StatusForbidden},

	// 2xxx: Form Validation Errors
	ErrLoginFieldsMissing:        {Code: ErrLoginFieldsMissing, Message: "Please enter both email and password"},
	ErrSignupFieldsMissing:       {Code: ErrSignupFieldsMissing, Message: "Please fill in all fields"},
	ErrPasswordMismatch:          {Code: ErrPasswordMismatch, Message: "Passwords do not match"},
	ErrPasswordTooShort:          {Code: ErrPasswordTooShort, Message: "Password must be at least %d characters"},
	ErrTermsNotAccepted:          {Code: ErrTermsNotAccepted, Message: "Please accept the terms and conditions"},
	ErrEventFieldsMissing:        {Code: ErrEventFieldsMissing, Message: "Please fill in all required fields"},
	ErrCoverTooLarge:             {Code: ErrCoverTooLarge, Message: "Cover image is too large (max %d MB)."},
	ErrCoverTypeInvalid:          {Code: ErrCoverTypeInvalid, Message: "Cover image must be a JPEG, PNG, WebP or GIF file."},
	ErrAnnouncementFieldsMissing: {Code: ErrAnnouncementFieldsMissing, Message: "Please fill in both title and message"},
	ErrDiscussionEmpty:           {Code: ErrDiscussionEmpty, Message: "Please enter a message"},

	// 3xxx: Session and Lookup Errors
	ErrUnauthorized:         {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrEventNotFound:        {Code: ErrEventNotFound, Message: "Event not found.", Status: http.StatusNotFound},
	ErrRegistrationNotFound: {Code: ErrRegistrationNotFound, Message: "Registration not found.", Status: http.StatusNotFound},

	// 5xxx: Internal System Errors
	ErrUnknown:              {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrServiceUnreachable:   {Code: ErrServiceUnreachable, Message: "An error occurred. Please try again.", Status: http.StatusBadGateway},
	ErrCoverStorageFailed:   {Code: ErrCoverStorageFailed, Message: "Cover upload failed. Please try again.", Status: http.StatusBadGateway},
	ErrTicketEncodingFailed: {Code: ErrTicketEncodingFailed, Message: "Could not generate the ticket.", Status: http.StatusInternalServerError},
}
