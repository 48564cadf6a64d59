package dialog

import (
	"strings"

	"github.com/example/workshop-booking/internal/model"
)

// Intents and phases of the external dialog driver's per-turn snapshot.
const (
	IntentMakeBooking   = "MakeBooking"
	IntentCancelBooking = "CancelBooking"

	PhaseValidate = "validate"
	PhaseFulfill  = "fulfill"
)

// Slot names the driver elicits from the customer.
const (
	SlotShopID        = "ShopId"
	SlotService       = "Service"
	SlotDate          = "Date"
	SlotTime          = "Time"
	SlotPhone         = "Phone"
	SlotName          = "Name"
	SlotPlate         = "Plate"
	SlotAppointmentID = "AppointmentId"
)

// Turn is one request/response exchange of a booking conversation. The driver
// owns session identity and slot accumulation; the core is stateless between
// turns and sees only this snapshot.
type Turn struct {
	Intent string            `json:"intent"`
	Phase  string            `json:"phase"`
	Slots  map[string]string `json:"slots"`
}

// Slot returns the trimmed slot value, or "" when absent.
func (t Turn) Slot(name string) string {
	return strings.TrimSpace(t.Slots[name])
}

// RequestFromTurn builds the transient booking request for this turn,
// applying the shop and service defaults.
func RequestFromTurn(t Turn) model.BookingRequest {
	req := model.BookingRequest{
		ShopID:       t.Slot(SlotShopID),
		Service:      t.Slot(SlotService),
		Date:         t.Slot(SlotDate),
		Time:         t.Slot(SlotTime),
		Phone:        t.Slot(SlotPhone),
		CustomerName: t.Slot(SlotName),
		Plate:        t.Slot(SlotPlate),
	}
	if req.ShopID == "" {
		req.ShopID = model.DefaultShop
	}
	if req.Service == "" {
		req.Service = model.DefaultService
	}
	return req
}

type Action string

const (
	// ActionElicit asks the driver to request one named slot from the customer.
	ActionElicit Action = "elicit"
	// ActionDelegate tells the driver every check passed; continue the dialog.
	ActionDelegate Action = "delegate"
	// ActionClose ends the dialog with a final message.
	ActionClose Action = "close"
)

// Result is the structured outcome of one turn.
type Result struct {
	Action    Action `json:"action"`
	Slot      string `json:"slot,omitempty"`
	Message   string `json:"message,omitempty"`
	Fulfilled bool   `json:"fulfilled,omitempty"`
}

func Elicit(slot, message string) Result {
	return Result{Action: ActionElicit, Slot: slot, Message: message}
}

func Delegate() Result {
	return Result{Action: ActionDelegate}
}

func Close(fulfilled bool, message string) Result {
	return Result{Action: ActionClose, Fulfilled: fulfilled, Message: message}
}
