package model

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	"github.com/example/workshop-booking/internal/storage"
)

// Key layout shared with the original single-table deployment. Changing any
// of these breaks interoperability with already-stored data.
const (
	ShopKeyPrefix     = "SHOP#"
	CustomerKeyPrefix = "CUSTOMER#"
	ApptKeyPrefix     = "APPT#"

	// The business-hours record lives at a fixed sentinel key pair.
	InfoPartitionKey = "INFO"
	HoursSortKey     = "HOURS"
)

const (
	DefaultShop    = "Main"
	DefaultService = "Maintenance"
)

func ShopPK(shopID string) string {
	return ShopKeyPrefix + shopID
}

func CustomerPK(phone string) string {
	return CustomerKeyPrefix + phone
}

func ApptSK(date, timeOfDay, appointmentID string) string {
	return ApptKeyPrefix + date + "#" + timeOfDay + "#" + appointmentID
}

// ApptDatePrefix matches every appointment on a given date.
func ApptDatePrefix(date string) string {
	return ApptKeyPrefix + date + "#"
}

// ApptSlotPrefix matches every appointment holding one exact slot.
func ApptSlotPrefix(date, timeOfDay string) string {
	return ApptKeyPrefix + date + "#" + timeOfDay + "#"
}

// ParseApptSK splits an APPT# sort key into its date, time, and id parts.
func ParseApptSK(sk string) (date, timeOfDay, appointmentID string, ok bool) {
	parts := strings.Split(sk, "#")
	if len(parts) != 4 || parts[0]+"#" != ApptKeyPrefix {
		return "", "", "", false
	}
	return parts[1], parts[2], parts[3], true
}

// NewAppointmentID returns ids like "A-7F3C91B0": a fixed prefix plus eight
// uppercase hex characters. Collisions are treated as negligible and are not
// re-checked against the store.
func NewAppointmentID() string {
	id := uuid.New()
	return "A-" + strings.ToUpper(hex.EncodeToString(id[:4]))
}

// Appointment is the logical booking entity. It is persisted as two
// projections sharing one sort key: a shop view for availability queries and
// a customer view for lookup by phone.
type Appointment struct {
	AppointmentID string
	ShopID        string
	Service       string
	Date          string // YYYY-MM-DD
	Time          string // zero-padded HH:MM
	CustomerName  string
	Phone         string
	Plate         string
}

func (a Appointment) SortKey() string {
	return ApptSK(a.Date, a.Time, a.AppointmentID)
}

func (a Appointment) ShopRecord() storage.Record {
	return storage.Record{
		PK: ShopPK(a.ShopID),
		SK: a.SortKey(),
		Attrs: map[string]string{
			"service": a.Service,
			"date":    a.Date,
			"time":    a.Time,
			"name":    a.CustomerName,
			"phone":   a.Phone,
			"plate":   a.Plate,
		},
	}
}

func (a Appointment) CustomerRecord() storage.Record {
	return storage.Record{
		PK: CustomerPK(a.Phone),
		SK: a.SortKey(),
		Attrs: map[string]string{
			"service": a.Service,
			"date":    a.Date,
			"time":    a.Time,
			"name":    a.CustomerName,
			"shop":    a.ShopID,
			"plate":   a.Plate,
		},
	}
}

// BookingRequest accumulates the fields of an in-flight booking dialog. It is
// rebuilt from the driver's slot values on every turn and never persisted.
type BookingRequest struct {
	ShopID       string
	Service      string
	Date         string
	Time         string
	Phone        string
	CustomerName string
	Plate        string
}
