package model

import "time"

// Invocation is one recorded run of an operation from the command line.
type Invocation struct {
	ID        string `json:"id" db:"id"`
	Operation string `json:"operation" db:"operation"`
	Host      string `json:"host" db:"host"`
	Username  string `json:"username" db:"username"`

	// Params holds the non-secret parameters as a JSON object.
	Params string `json:"params" db:"params"`

	// Status is the HTTP status of the last response, or 0 when no
	// response was received.
	Status  int  `json:"status" db:"status"`
	Success bool `json:"success" db:"success"`

	// Errors holds the response annotations or the Go error, one per line.
	Errors string `json:"errors,omitempty" db:"errors"`

	DurationMS int64     `json:"duration_ms" db:"duration_ms"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
