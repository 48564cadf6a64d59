package dialog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/workshop-booking/internal/availability"
	"github.com/example/workshop-booking/internal/model"
	"github.com/example/workshop-booking/internal/schedule"
)

// State is the validator's position in the required-field sequence. Fields
// are always requested in this order, so a request missing both date and
// time is asked for the date first.
type State int

const (
	StateNeedDate State = iota
	StateNeedTime
	StateNeedPhone
	StateNeedName
	StateRuleChecks
	StateReady
)

func (s State) String() string {
	switch s {
	case StateNeedDate:
		return "NeedDate"
	case StateNeedTime:
		return "NeedTime"
	case StateNeedPhone:
		return "NeedPhone"
	case StateNeedName:
		return "NeedName"
	case StateRuleChecks:
		return "RuleChecks"
	case StateReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// NextState reports the first unmet requirement of a booking request.
func NextState(req model.BookingRequest) State {
	switch {
	case req.Date == "":
		return StateNeedDate
	case req.Time == "":
		return StateNeedTime
	case req.Phone == "":
		return StateNeedPhone
	case req.CustomerName == "":
		return StateNeedName
	default:
		return StateRuleChecks
	}
}

const (
	// Same-day bookings need this much notice; exactly two hours out still books.
	sameDayLeadTime = 2 * time.Hour

	suggestionLimit = 3

	dateLayout = "2006-01-02"
)

// Validator runs one validation pass per dialog turn. It holds no session
// state: invoked twice with the same inputs it reproduces the same checks
// against whatever the store holds at that moment.
type Validator struct {
	avail *availability.Service
	hours *schedule.Provider
	now   func() time.Time
}

// NewValidator wires the validator. now may be nil, which means time.Now;
// tests pass a fixed clock to pin the lead-time boundary.
func NewValidator(avail *availability.Service, hours *schedule.Provider, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{avail: avail, hours: hours, now: now}
}

// ValidateTurn decides the next step for a booking dialog turn: a request for
// the first missing field, a re-prompt for a value that breaks a rule, or a
// delegate once everything passes. Only store failures surface as errors;
// anything the customer can fix comes back as an elicit result.
func (v *Validator) ValidateTurn(ctx context.Context, t Turn) (Result, error) {
	req := RequestFromTurn(t)

	switch NextState(req) {
	case StateNeedDate:
		return Elicit(SlotDate, "What date works for you? Use YYYY-MM-DD."), nil
	case StateNeedTime:
		prompt := "What time suits you?"
		sugg, err := v.avail.Suggest(ctx, req.ShopID, req.Date, suggestionLimit)
		if err != nil {
			return Result{}, err
		}
		if len(sugg) > 0 {
			prompt += " For example: " + strings.Join(sugg, ", ") + "."
		}
		return Elicit(SlotTime, prompt), nil
	case StateNeedPhone:
		return Elicit(SlotPhone, "What's a contact phone number?"), nil
	case StateNeedName:
		return Elicit(SlotName, "What's your name?"), nil
	}

	return v.ruleChecks(ctx, req)
}

func (v *Validator) ruleChecks(ctx context.Context, req model.BookingRequest) (Result, error) {
	hrs, err := v.hours.Current(ctx)
	if err != nil {
		return Result{}, err
	}

	// Both sides are zero-padded HH:MM, so string comparison is clock
	// comparison. A request for exactly close is still bookable.
	if req.Time < hrs.Open || req.Time > hrs.Close {
		return Elicit(SlotTime, fmt.Sprintf(
			"We're open from %s to %s. Which time within that range works for you?",
			hrs.Open, hrs.Close)), nil
	}

	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return Elicit(SlotDate, "I couldn't read that date. Use YYYY-MM-DD."), nil
	}

	reqMinutes, err := schedule.ParseClock(req.Time)
	if err != nil {
		return Elicit(SlotTime, "I couldn't read that time. Use HH:MM, like 10:30."), nil
	}

	// Lead time applies to same-day bookings only. Future dates bypass it:
	// tomorrow at open needs no advance notice.
	now := v.now()
	if req.Date == now.Format(dateLayout) {
		apptAt := time.Date(now.Year(), now.Month(), now.Day(), reqMinutes/60, reqMinutes%60, 0, 0, now.Location())
		if apptAt.Before(now.Add(sameDayLeadTime)) {
			return Elicit(SlotTime, "Same-day bookings need 2 hours of notice. Could you do a later time?"), nil
		}
	}

	taken, err := v.avail.SlotTaken(ctx, req.ShopID, req.Date, req.Time)
	if err != nil {
		return Result{}, err
	}
	if taken {
		prompt := "That time is already taken."
		sugg, err := v.avail.Suggest(ctx, req.ShopID, req.Date, suggestionLimit)
		if err != nil {
			return Result{}, err
		}
		if len(sugg) > 0 {
			prompt += " Still open: " + strings.Join(sugg, ", ") + "."
		}
		return Elicit(SlotTime, prompt), nil
	}

	return Delegate(), nil
}
