// Package webhook receives payment notifications and delivers the purchased
// asset to the buyer by email.
package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

// StatusConfirmed is the payment status that triggers delivery.
const StatusConfirmed = "confirmed"

// ErrInvalidPayload is returned when a notification cannot be decoded or
// lacks a usable buyer email.
var ErrInvalidPayload = errors.New("webhook: invalid payload")

// Payload is the payment provider's notification body.
type Payload struct {
	PaymentStatus string       `json:"payment_status"`
	PurchaseData  PurchaseData `json:"purchase_data"`
}

// PurchaseData identifies the buyer.
type PurchaseData struct {
	Email string `json:"email" validate:"required,email"`
}

var validate = validator.New()

// Confirmed reports whether the payment completed.
func (p Payload) Confirmed() bool {
	return p.PaymentStatus == StatusConfirmed
}

// DecodePayload reads and decodes a notification body.
func DecodePayload(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return p, nil
}

// Validate checks the purchase data of a confirmed payment.
func (p Payload) Validate() error {
	if err := validate.Struct(p.PurchaseData); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
