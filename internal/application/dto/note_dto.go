package dto

import "time"

// CreateNoteRequest entrada para crear una nota.
type CreateNoteRequest struct {
	Title      string `json:"note_title"`
	Content    string `json:"note_content"`
	CustomerID string `json:"customer_id"`
}

// UpdateNoteRequest actualización parcial.
type UpdateNoteRequest struct {
	Title      *string `json:"note_title"`
	Content    *string `json:"note_content"`
	CustomerID *string `json:"customer_id"`
}

// NoteResponse salida de una nota.
type NoteResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"note_title"`
	Content      string    `json:"note_content"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
