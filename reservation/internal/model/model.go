package model

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

type Reservation struct {
	ID                  int       `json:"-" db:"id"`
	ReservationUid      string    `json:"reservationUid" db:"reservation_uid"`
	ClientID            int       `json:"clientId" db:"client_id"`
	RoomID              int       `json:"roomId" db:"room_id"`
	StartDate           time.Time `json:"startDate" db:"start_date"`
	EndDate             time.Time `json:"endDate" db:"end_date"`
	Status              Status    `json:"status" db:"status"`
	Guests              int       `json:"guests" db:"guests"`
	RoomType            string    `json:"roomType" db:"room_type"`
	MarriageCertificate *string   `json:"marriageCertificate,omitempty" db:"marriage_certificate"`
	TotalPrice          float64   `json:"totalPrice" db:"total_price"`
	CreatedAt           time.Time `json:"-" db:"created_at"`
}

// Date accepts the date-only wire format used by the booking API.
type Date struct {
	time.Time `json:",inline"`
}

func (d *Date) UnmarshalJSON(b []byte) (err error) {
	s := strings.Trim(string(b), "\"")
	date, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = date
	return
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte("\"" + d.Format(time.DateOnly) + "\""), nil
}

type CreateReservationRequest struct {
	ClientID            int     `json:"clientId"`
	RoomID              int     `json:"roomId" validate:"required"`
	StartDate           Date    `json:"startDate" validate:"required"`
	EndDate             Date    `json:"endDate" validate:"required"`
	Guests              int     `json:"guests" validate:"required,min=1"`
	RoomType            string  `json:"roomType"`
	MarriageCertificate *string `json:"marriageCertificate"`
}

// UpdateReservationRequest carries a partial update; nil fields keep
// the stored value.
type UpdateReservationRequest struct {
	ClientID            *int    `json:"clientId"`
	RoomID              *int    `json:"roomId"`
	StartDate           *Date   `json:"startDate"`
	EndDate             *Date   `json:"endDate"`
	Status              *Status `json:"status"`
	Guests              *int    `json:"guests" validate:"omitempty,min=1"`
	RoomType            *string `json:"roomType"`
	MarriageCertificate *string `json:"marriageCertificate"`
}

// Room is the profile served by the room catalog collaborator.
type Room struct {
	RoomID      int     `json:"roomId"`
	Number      string  `json:"number"`
	RoomType    string  `json:"roomType"`
	NightlyRate float64 `json:"nightlyRate"`
}

// Client is the profile served by the client identity collaborator.
type Client struct {
	ClientID int    `json:"clientId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// EnrichedReservation is a reservation plus whatever collaborator
// profiles could be resolved; absent fields mean the lookup failed.
type EnrichedReservation struct {
	Reservation `json:",inline"`
	Room        *Room   `json:"room,omitempty"`
	Client      *Client `json:"client,omitempty"`
}

// ClientReservation is the summary view a client sees of their own
// bookings.
type ClientReservation struct {
	ReservationUid string    `json:"reservationUid"`
	RoomID         int       `json:"roomId"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	Status         Status    `json:"status"`
	TotalPrice     float64   `json:"totalPrice"`
	Room           *Room     `json:"room,omitempty"`
}

type CreateReservationResponse struct {
	Message     string      `json:"message"`
	CreatedBy   string      `json:"createdBy"`
	Reservation Reservation `json:"reservation"`
}

type UpdateReservationResponse struct {
	Message     string      `json:"message"`
	UpdatedBy   string      `json:"updatedBy"`
	Reservation Reservation `json:"reservation"`
}

type DeleteReservationResponse struct {
	Message   string `json:"message"`
	DeletedBy string `json:"deletedBy"`
}

type CancelReservationResponse struct {
	Message     string      `json:"message"`
	CancelledBy string      `json:"cancelledBy"`
	Reservation Reservation `json:"reservation"`
}

type ListReservationsResponse struct {
	RequestedBy  string                `json:"requestedBy"`
	Roles        []string              `json:"roles"`
	Reservations []EnrichedReservation `json:"reservations"`
}

type ClientReservationsResponse struct {
	RequestedBy  string              `json:"requestedBy"`
	Reservations []ClientReservation `json:"reservations"`
}
