package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/config"
	"github.com/andreimonforte/malocozz/pkg/http"
	"github.com/andreimonforte/malocozz/pkg/logger"
)

// ErrPaymentUnavailable is returned when the gateway is not configured or
// unreachable.
var ErrPaymentUnavailable = errors.New("payment gateway unavailable")

// PaymentService talks to the PayMongo gateway for card payments. Cash on
// Delivery orders never touch it: they stay Unpaid until marked Paid by an
// admin on delivery.
type PaymentService struct {
	orders *OrderService
}

func NewPaymentService() *PaymentService {
	return &PaymentService{orders: NewOrderService()}
}

// paymentLink mirrors the fields we read from the gateway's link resource.
type paymentLink struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			CheckoutURL string `json:"checkout_url"`
			Status      string `json:"status"`
		} `json:"attributes"`
	} `json:"data"`
}

func gatewayAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(config.PaymentSecretKey()+":"))
}

// CreateLink asks the gateway for a hosted checkout link for the order and
// moves its payment status to Pending. The amount is sent in centavos.
func (s *PaymentService) CreateLink(order *models.Order) (string, error) {
	if config.PaymentSecretKey() == "" {
		return "", ErrPaymentUnavailable
	}

	amount := order.Total.Shift(2).IntPart()
	resp, err := http.Post(config.PaymentBaseURL()+"/links").
		Header("Authorization", gatewayAuth()).
		Body(map[string]interface{}{
			"data": map[string]interface{}{
				"attributes": map[string]interface{}{
					"amount":      amount,
					"description": fmt.Sprintf("Ma Locozz order %s", order.OrderNumber),
				},
			},
		}).
		Timeout(15 * time.Second).
		Retry(3, time.Second).
		Send()
	if err != nil {
		logger.Error("payment: create link failed", "order_number", order.OrderNumber, "error", err)
		return "", ErrPaymentUnavailable
	}
	if err := resp.Throw(); err != nil {
		logger.Error("payment: gateway rejected link", "order_number", order.OrderNumber, "error", err)
		return "", ErrPaymentUnavailable
	}

	var link paymentLink
	if err := resp.JSON(&link); err != nil {
		return "", err
	}

	if _, err := s.orders.UpdatePayment(order.ID, models.PaymentPending); err != nil {
		return "", err
	}
	return link.Data.Attributes.CheckoutURL, nil
}

// CheckLink polls the gateway for a link's status and settles the order:
// a paid link marks the order Paid, an expired or failed one marks it Failed.
func (s *PaymentService) CheckLink(order *models.Order, linkID string) (models.PaymentStatus, error) {
	if config.PaymentSecretKey() == "" {
		return "", ErrPaymentUnavailable
	}

	resp, err := http.Get(config.PaymentBaseURL()+"/links/"+linkID).
		Header("Authorization", gatewayAuth()).
		Timeout(15 * time.Second).
		Retry(3, time.Second).
		Send()
	if err != nil {
		return "", ErrPaymentUnavailable
	}
	if err := resp.Throw(); err != nil {
		return "", ErrPaymentUnavailable
	}

	var link paymentLink
	if err := resp.JSON(&link); err != nil {
		return "", err
	}

	var next models.PaymentStatus
	switch link.Data.Attributes.Status {
	case "paid":
		next = models.PaymentPaid
	case "expired", "failed":
		next = models.PaymentFailed
	default:
		return models.PaymentPending, nil
	}

	if _, err := s.orders.UpdatePayment(order.ID, next); err != nil {
		return "", err
	}
	return next, nil
}
