/*
Package ticket turns a registration into a scannable entry ticket.

The ticket is derived on the portal and never sent to the remote service: a JSON payload
naming the registration, the event and the attendee is encoded as a QR code PNG that the
student can show at the door or download.
*/
package ticket

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/skip2/go-qrcode"

	"buzzportal/internal/app/model"
	"buzzportal/internal/app/user"
)

const (
	// ImageSize is the edge length of the ticket PNG in pixels.
	ImageSize = 220

	// ContentType is the MIME type of encoded tickets.
	ContentType = "image/png"
)

// Payload is the content of a ticket.
type Payload struct {
	RegistrationID string `json:"registrationId"`
	EventID        string `json:"eventId"`
	UserID         string `json:"userId"`
	UserName       string `json:"userName"`
	EventTitle     string `json:"eventTitle"`
	Date           string `json:"date"`
	Time           string `json:"time"`
}

// NewPayload builds the payload for a registration of holder to event.
func NewPayload(reg model.Registration, event model.Event, holder user.Identity) Payload {
	return Payload{
		RegistrationID: reg.ID,
		EventID:        event.ID,
		UserID:         holder.ID,
		UserName:       holder.Name,
		EventTitle:     event.Title,
		Date:           event.Date,
		Time:           event.Time,
	}
}

// Encoder renders a payload as an image.
type Encoder interface {
	Encode(p Payload) ([]byte, error)
}

// QREncoder encodes payloads as QR code PNGs with high error correction.
type QREncoder struct {
	Size int
}

// NewQREncoder returns a QREncoder producing ImageSize PNGs.
func NewQREncoder() QREncoder {
	return QREncoder{Size: ImageSize}
}

// Encode implements Encoder.
func (q QREncoder) Encode(p Payload) ([]byte, error) {
	content, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal ticket payload: %w", err)
	}

	size := q.Size
	if size <= 0 {
		size = ImageSize
	}

	png, err := qrcode.Encode(string(content), qrcode.High, size)
	if err != nil {
		return nil, fmt.Errorf("encode ticket for registration %s: %w", p.RegistrationID, err)
	}
	return png, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FileName is the download name of a ticket for an event title.
func FileName(eventTitle string) string {
	return whitespaceRun.ReplaceAllString(eventTitle, "_") + "_ticket.png"
}
