package models

import "time"

// Timer is the single countdown record kept by the service.
type Timer struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	TargetDate time.Time `json:"targetDate"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TimerInput is the client supplied part of a timer. Identity and audit
// timestamps are never taken from the request.
type TimerInput struct {
	Name       string     `json:"name" validate:"notblank,min=2,max=32"`
	TargetDate *time.Time `json:"targetDate" validate:"required,future"`
}
