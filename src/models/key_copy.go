package models

// KeyCopy represents a copy of a Key, optionally held by a staff member
type KeyCopy struct {
	ID        int64   `json:"id"`
	KeyID     int64   `json:"key_id"`
	StaffID   *int64  `json:"staff_id"`
	StaffName *string `json:"staff_name,omitempty"`
	KeyName   *string `json:"key_name,omitempty"`
}

// KeyCopyInput is the editable part of a KeyCopy. Both references may be
// null on the client side; the backend enforces referential integrity.
type KeyCopyInput struct {
	KeyID   *int64 `json:"key_id"`
	StaffID *int64 `json:"staff_id"`
}
