package models

// Notifikasi is a backend notification addressed to an admin.
type Notifikasi struct {
	ID          int    `json:"id"`
	Pesan       string `json:"pesan"`
	Dibaca      bool   `json:"dibaca"`
	PenyewaanID int    `json:"penyewaanId"`
	AdminID     int    `json:"adminId"`
	CreatedAt   string `json:"createdAt"`
}

// Notification is the view model of a Notifikasi.
type Notification struct {
	ID        int    `json:"id"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	RentalID  int    `json:"rentalId"`
	AdminID   int    `json:"adminId"`
	CreatedAt string `json:"createdAt"`
}

type MarkReadRequest struct {
	Dibaca bool `json:"dibaca"`
}

// NotificationEvent is published to Kafka when a new unread notification shows up.
type NotificationEvent struct {
	NotificationID int    `json:"notification_id"`
	RentalID       int    `json:"rental_id"`
	AdminID        int    `json:"admin_id"`
	Message        string `json:"message"`
	CreatedAt      string `json:"created_at"`
	EventType      string `json:"event_type"` // notification_received
}
