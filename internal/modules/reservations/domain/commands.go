package domain

import (
	"fmt"
	"strings"
)

// SlotRequest identifies the slot a party asks for.
type SlotRequest struct {
	Date      string `json:"date" form:"date" query:"date"`
	Time      string `json:"time" form:"time" query:"time"`
	PartySize int    `json:"partySize" form:"partySize" query:"partySize"`
}

// Validate checks presence and shape and returns the request with date and
// time normalized.
func (r SlotRequest) Validate() (SlotRequest, error) {
	var missing []string
	if strings.TrimSpace(r.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(r.Time) == "" {
		missing = append(missing, "time")
	}
	if r.PartySize <= 0 {
		missing = append(missing, "partySize")
	}
	if len(missing) > 0 {
		return SlotRequest{}, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}

	day, err := ParseDate(r.Date)
	if err != nil {
		return SlotRequest{}, err
	}
	clock, err := ParseClock(r.Time)
	if err != nil {
		return SlotRequest{}, err
	}
	return SlotRequest{Date: day, Time: clock, PartySize: r.PartySize}, nil
}

// SubmitReservationCommand is a guest's booking request as submitted by the
// reservation form. Lang selects the language of the result message.
type SubmitReservationCommand struct {
	SlotRequest
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
	Phone string `json:"phone" form:"phone"`
	Lang  string `json:"lang" form:"lang" query:"lang"`
}

// Validate requires every field and returns the trimmed, normalized command.
func (c SubmitReservationCommand) Validate() (SubmitReservationCommand, error) {
	var missing []string
	if strings.TrimSpace(c.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(c.Time) == "" {
		missing = append(missing, "time")
	}
	if c.PartySize <= 0 {
		missing = append(missing, "partySize")
	}
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(c.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return SubmitReservationCommand{}, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}

	slot, err := c.SlotRequest.Validate()
	if err != nil {
		return SubmitReservationCommand{}, err
	}
	return SubmitReservationCommand{
		SlotRequest: slot,
		Name:        strings.TrimSpace(c.Name),
		Email:       strings.TrimSpace(c.Email),
		Phone:       strings.TrimSpace(c.Phone),
		Lang:        strings.TrimSpace(c.Lang),
	}, nil
}

// NewReservation builds the record to persist for an accepted command.
func (c SubmitReservationCommand) NewReservation(status ReservationStatus, tableID string) Reservation {
	return Reservation{
		Date:      c.Date,
		Time:      c.Time,
		PartySize: c.PartySize,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    status,
		TableID:   tableID,
	}
}
