/*
Package resp provides helper functions for writing HTTP responses.

Machine endpoints get the unified JSON envelope (business code, message, optional data).
Browser requests get a plain-text error instead, and page flows use the 303 redirect and
image helpers.
*/
package resp

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"buzzportal/internal/pkg/errs"
	"buzzportal/internal/pkg/logx"
)

// JSONResponse defines the standardized JSON response structure.
type JSONResponse struct {
	// Code is the business status code (0 for success, others for specific errors, see errs package).
	Code int `json:"code"`

	// Message is the client-friendly status description or error message.
	Message string `json:"message"`

	// Data is the optional response payload.
	Data any `json:"data,omitempty"`
}

// RespondJSON sets the Content-Type and sends the JSON payload.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(
			err,
			"Error encoding JSON response",
			"http_status", httpStatus,
		)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondSuccess sends a successful HTTP response (HTTP 200 OK).
func RespondSuccess(w http.ResponseWriter, r *http.Request, data any) {
	res := JSONResponse{
		Code:    0,
		Message: "success",
		Data:    data,
	}
	RespondJSON(w, r, http.StatusOK, res)
}

// RespondError sends custom error information. Browsers asking for HTML get the message
// as plain text; everything else gets the JSON envelope.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	if WantsHTML(r) {
		http.Error(w, customErr.Message, customErr.Status)
		return
	}

	res := JSONResponse{
		Code:    customErr.Code,
		Message: customErr.Message,
		Data:    nil,
	}
	RespondJSON(w, r, customErr.Status, res)
}

// WantsHTML reports whether the request comes from a page rather than a script.
func WantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// SeeOther redirects with 303 so the browser follows up with a GET.
func SeeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// RespondPNG sends a PNG image. With download set the browser saves it as fileName.
func RespondPNG(w http.ResponseWriter, r *http.Request, data []byte, fileName string, download bool) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if download {
		w.Header().Set("Content-Disposition", attachment(fileName))
	}

	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// attachment builds an RFC 6266 Content-Disposition value. Non-ASCII names are sent in the
// extended filename* form.
func attachment(fileName string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": fileName}); v != "" {
		return v
	}
	return "attachment"
}
