package checkout

import (
	"errors"
	"strings"
)

var ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")

type PaymentMethod string

const (
	MethodCard       PaymentMethod = "card"
	MethodIDEAL      PaymentMethod = "ideal"
	MethodBancontact PaymentMethod = "bancontact"
	MethodEPS        PaymentMethod = "eps"
	MethodGiropay    PaymentMethod = "giropay"
	MethodP24        PaymentMethod = "p24"
)

// ConfirmationMode is the tagged variant the orchestrator switches on.
type ConfirmationMode string

const (
	// ModeInline confirms with a locally captured card in one call.
	ModeInline ConfirmationMode = "inline"
	// ModeRedirect sends the browser to a hosted challenge and back to return_url.
	ModeRedirect ConfirmationMode = "redirect"
)

func (m ConfirmationMode) IsValid() bool {
	return m == ModeInline || m == ModeRedirect
}

var methodModes = map[PaymentMethod]ConfirmationMode{
	MethodCard:       ModeInline,
	MethodIDEAL:      ModeRedirect,
	MethodBancontact: ModeRedirect,
	MethodEPS:        ModeRedirect,
	MethodGiropay:    ModeRedirect,
	MethodP24:        ModeRedirect,
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := methodModes[m]; !ok {
		return "", ErrUnsupportedPaymentMethod
	}
	return m, nil
}

func (m PaymentMethod) Mode() ConfirmationMode {
	return methodModes[m]
}

func (m PaymentMethod) String() string {
	return string(m)
}
