//go:build e2e

package e2e

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	StubTourID    = "tour_e2e"
	StubTourPrice = "6000000"
)

// Downstream fakes the booking service, the payment service and the
// gateway's payment intent endpoints on one server.
type Downstream struct {
	server *httptest.Server

	mu             sync.Mutex
	seq            int
	intentBookings map[string]string // intent id -> booking id
	intentStatus   map[string]string
	confirmStatus  string
	paymentStatus  map[string]string // booking id -> last reported status
	removedTours   []string
	omitMetadata   bool
}

func NewDownstream() *Downstream {
	d := &Downstream{
		intentBookings: map[string]string{},
		intentStatus:   map[string]string{},
		paymentStatus:  map[string]string{},
		confirmStatus:  "succeeded",
	}

	r := gin.New()
	r.GET("/tour/:id", d.getTour)
	r.POST("/booking", d.createBooking)
	r.PUT("/booking/:id/payment-status", d.updatePaymentStatus)
	r.DELETE("/favorite/:id", d.removeFavorite)
	r.POST("/payment/create", d.createIntent)
	r.POST("/v1/payment_intents/:id/confirm", d.confirmIntent)
	r.GET("/v1/payment_intents/:id", d.getIntent)

	d.server = httptest.NewServer(r)
	return d
}

func (d *Downstream) URL() string {
	return d.server.URL
}

func (d *Downstream) Close() {
	d.server.Close()
}

// Reset forgets everything and makes confirmations succeed again.
func (d *Downstream) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq = 0
	d.intentBookings = map[string]string{}
	d.intentStatus = map[string]string{}
	d.paymentStatus = map[string]string{}
	d.removedTours = nil
	d.confirmStatus = "succeeded"
	d.omitMetadata = false
}

// OmitMetadata makes intent lookups come back without the booking id.
func (d *Downstream) OmitMetadata() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.omitMetadata = true
}

// SetConfirmStatus controls what the next confirmations answer with.
// "declined" answers with a card error.
func (d *Downstream) SetConfirmStatus(status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.confirmStatus = status
}

// SettleIntent sets what a status lookup of the intent returns.
func (d *Downstream) SettleIntent(intentID, status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.intentStatus[intentID] = status
}

func (d *Downstream) PaymentStatus(bookingID string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paymentStatus[bookingID]
}

func (d *Downstream) RemovedTours() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.removedTours...)
}

func (d *Downstream) getTour(c *gin.Context) {
	if c.Param("id") != StubTourID {
		c.JSON(http.StatusNotFound, gin.H{"message": "tour not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tour": gin.H{
		"id":             StubTourID,
		"price":          StubTourPrice,
		"duration":       3,
		"maxPeople":      6,
		"remainingSeats": 10,
	}})
}

func (d *Downstream) createBooking(c *gin.Context) {
	var body struct {
		TourID    string         `json:"tourId"`
		UserID    string         `json:"userId"`
		PartySize int            `json:"partySize"`
		Schedule  map[string]any `json:"schedule"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	d.mu.Lock()
	d.seq++
	id := fmt.Sprintf("bk_%d", d.seq)
	d.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"booking": gin.H{
		"id":            id,
		"tourId":        body.TourID,
		"userId":        body.UserID,
		"schedule":      body.Schedule,
		"partySize":     body.PartySize,
		"status":        "pending",
		"paymentStatus": "pending",
	}})
}

func (d *Downstream) updatePaymentStatus(c *gin.Context) {
	var body struct {
		PaymentStatus string `json:"paymentStatus"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	d.mu.Lock()
	d.paymentStatus[c.Param("id")] = body.PaymentStatus
	d.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (d *Downstream) removeFavorite(c *gin.Context) {
	d.mu.Lock()
	d.removedTours = append(d.removedTours, c.Param("id"))
	d.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (d *Downstream) createIntent(c *gin.Context) {
	var body struct {
		BookingID string `json:"bookingId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	intentID := "pi_" + strings.TrimPrefix(body.BookingID, "bk_")
	d.mu.Lock()
	d.intentBookings[intentID] = body.BookingID
	d.intentStatus[intentID] = "requires_payment_method"
	d.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"clientSecret":    intentID + "_secret_e2e",
		"paymentIntentId": intentID,
		"status":          "requires_payment_method",
	})
}

func (d *Downstream) confirmIntent(c *gin.Context) {
	id := c.Param("id")
	d.mu.Lock()
	status := d.confirmStatus
	if status != "declined" {
		d.intentStatus[id] = status
	}
	d.mu.Unlock()

	if status == "declined" {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": gin.H{
			"type":    "card_error",
			"code":    "card_declined",
			"message": "Your card was declined.",
		}})
		return
	}

	body := gin.H{"id": id, "object": "payment_intent", "status": status}
	if status == "requires_action" {
		body["next_action"] = gin.H{
			"type":            "redirect_to_url",
			"redirect_to_url": gin.H{"url": "https://hooks.example.test/authorize/" + id},
		}
	}
	c.JSON(http.StatusOK, body)
}

func (d *Downstream) getIntent(c *gin.Context) {
	id := c.Param("id")
	d.mu.Lock()
	bookingID, ok := d.intentBookings[id]
	status := d.intentStatus[id]
	omit := d.omitMetadata
	d.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{
			"type":    "invalid_request_error",
			"code":    "resource_missing",
			"message": "No such payment_intent",
		}})
		return
	}
	metadata := gin.H{"booking_id": bookingID}
	if omit {
		metadata = gin.H{}
	}
	c.JSON(http.StatusOK, gin.H{
		"id":            id,
		"object":        "payment_intent",
		"status":        status,
		"client_secret": id + "_secret_e2e",
		"metadata":      metadata,
	})
}
