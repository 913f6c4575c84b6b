package models

import "time"

// LayoutInfo represents metadata about a stored plant layout.
type LayoutInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Size        int64     `json:"size"`
	Builtin     bool      `json:"builtin"`
	UploadedAt  time.Time `json:"uploadedAt"`
	MaxStep     int       `json:"maxStep"`
	UnitCount   int       `json:"unitCount"`
	PipeCount   int       `json:"pipeCount"`
	Active      bool      `json:"active"`
}
