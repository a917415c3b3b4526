package order

import (
	"errors"
	"fmt"
)

var ErrSubmissionInProgress = errors.New("order submission already in progress")

const (
	MsgSelectItem     = "select at least one item"
	MsgNameAndPhone   = "fill in name and phone"
	MsgSubmitted      = "Order sent! Thank you for ordering."
	MsgSubmitFailed   = "Something went wrong while sending your order. Please try again."
	MsgAlreadySending = "Your order is already being sent."
)

// ValidationError blocks a submission before anything is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
