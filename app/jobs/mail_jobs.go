// Package jobs defines the background jobs dispatched onto the queue. Every
// job type here must be registered at boot so workers can deserialize it.
package jobs

import (
	"fmt"

	"github.com/andreimonforte/malocozz/pkg/mail"
	"github.com/andreimonforte/malocozz/pkg/queue"
)

// Register makes all job types known to the queue. Call once at boot,
// before workers start.
func Register() {
	queue.Register("jobs.VerificationEmailJob", func() queue.Job { return &VerificationEmailJob{} })
	queue.Register("jobs.PasswordResetEmailJob", func() queue.Job { return &PasswordResetEmailJob{} })
	queue.Register("jobs.OrderConfirmationJob", func() queue.Job { return &OrderConfirmationJob{} })
	queue.Register("jobs.OrderStatusEmailJob", func() queue.Job { return &OrderStatusEmailJob{} })
}

// VerificationEmailJob delivers the signup OTP code.
type VerificationEmailJob struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Code  string `json:"code"`
}

func (j VerificationEmailJob) Handle() error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your Ma Locozz verification code is:</p><h2>%s</h2>"+
			"<p>The code expires in 10 minutes.</p>",
		j.Name, j.Code)

	return mail.To(j.Email).
		Subject("Verify your email").
		Body(body).
		Send()
}

// PasswordResetEmailJob delivers a password reset link.
type PasswordResetEmailJob struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Link  string `json:"link"`
}

func (j PasswordResetEmailJob) Handle() error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>We received a request to reset your password. "+
			"The link below is valid for one hour:</p><p><a href=%q>Reset password</a></p>"+
			"<p>If you did not request this, you can ignore this email.</p>",
		j.Name, j.Link)

	return mail.To(j.Email).
		Subject("Reset your password").
		Body(body).
		Send()
}

// OrderConfirmationJob thanks the customer after checkout.
type OrderConfirmationJob struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	OrderNumber string `json:"order_number"`
	Total       string `json:"total"`
}

func (j OrderConfirmationJob) Handle() error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Thanks for your order <strong>%s</strong>.</p>"+
			"<p>Order total: %s</p><p>We will email you again when it ships.</p>",
		j.Name, j.OrderNumber, j.Total)

	return mail.To(j.Email).
		Subject(fmt.Sprintf("Order %s confirmed", j.OrderNumber)).
		Body(body).
		Send()
}

// OrderStatusEmailJob notifies the customer of a fulfilment change.
type OrderStatusEmailJob struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
}

func (j OrderStatusEmailJob) Handle() error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your order <strong>%s</strong> is now <strong>%s</strong>.</p>",
		j.Name, j.OrderNumber, j.Status)

	return mail.To(j.Email).
		Subject(fmt.Sprintf("Order %s update: %s", j.OrderNumber, j.Status)).
		Body(body).
		Send()
}
