package models

// Key represents a physical key in the inventory
type Key struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	StaffID     *int64  `json:"staff_id"`
	StaffName   *string `json:"staff_name,omitempty"`
}

// KeyInput is the editable part of a Key sent on create and update
type KeyInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StaffID     *int64 `json:"staff_id"`
}
