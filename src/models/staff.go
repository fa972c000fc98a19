package models

// Staff represents a staff member who can hold keys
type Staff struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// StaffInput is the editable part of a Staff record
type StaffInput struct {
	Name string `json:"name"`
	Role string `json:"role"`
}
