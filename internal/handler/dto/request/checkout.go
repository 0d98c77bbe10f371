package request

type QuoteRequest struct {
	TourID    string `json:"tourId" binding:"required"`
	PartySize int    `json:"partySize"`
}

// SubmitCheckoutRequest leaves range checks to the domain so every
// validation failure carries its taxonomy kind.
type SubmitCheckoutRequest struct {
	TourID        string `json:"tourId" binding:"required"`
	StartDate     string `json:"startDate" binding:"required"`
	PartySize     int    `json:"partySize"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

type ConfirmPaymentRequest struct {
	Mode            string `json:"mode" binding:"required,oneof=inline redirect"`
	PaymentMethodID string `json:"paymentMethodId" binding:"required"`
}

// ReconcileRequest mirrors the gateway's return_url parameters. Both are
// optional: an empty body reconciles from the pending record alone.
type ReconcileRequest struct {
	PaymentIntent             string `json:"paymentIntent"`
	PaymentIntentClientSecret string `json:"paymentIntentClientSecret"`
}

type PaymentReturnQuery struct {
	PaymentIntent             string `form:"payment_intent"`
	PaymentIntentClientSecret string `form:"payment_intent_client_secret"`
	RedirectStatus            string `form:"redirect_status"`
}
