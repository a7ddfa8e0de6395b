package domain

import "time"

type ContactMessage struct {
	FullName    string    `json:"fullName"`
	Subject     string    `json:"subject"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}
