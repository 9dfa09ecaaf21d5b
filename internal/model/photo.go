package model

import "time"

// Photo stores metadata about a single uploaded image
type Photo struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Filepath   string    `json:"filepath"`
	UploadedAt time.Time `json:"uploadedAt"`
	InTrash    bool      `json:"inTrash"`
}
