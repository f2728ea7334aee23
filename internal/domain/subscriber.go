package domain

import "time"

// Subscriber is a newsletter subscription. Like Signup it is create-only and
// unique per normalized email.
type Subscriber struct {
	ID               string
	Email            string
	SubscriptionDate time.Time
	CreatedAt        time.Time
}
