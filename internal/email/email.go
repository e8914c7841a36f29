package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightwizard/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email to %s: booking %s confirmed, %s -> %s, %d passengers, total %d\n",
		event.Email, event.Reference, event.Origin, event.Destination, event.PassengerCount, event.TotalCents)
	return nil
}
