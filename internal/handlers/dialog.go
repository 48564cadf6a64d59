package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/workshop-booking/internal/booking"
	"github.com/example/workshop-booking/internal/dialog"
	"github.com/example/workshop-booking/libs/httpx"
)

// DialogHandler is the dialog driver's entry point. One POST per turn; the
// response is one of the three structured results the driver understands.
type DialogHandler struct {
	validator *dialog.Validator
	engine    *booking.Engine
	logger    *slog.Logger
}

func NewDialogHandler(validator *dialog.Validator, engine *booking.Engine, logger *slog.Logger) *DialogHandler {
	return &DialogHandler{validator: validator, engine: engine, logger: logger}
}

func (h *DialogHandler) Turn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var turn dialog.Turn
	if err := json.NewDecoder(r.Body).Decode(&turn); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var (
		res dialog.Result
		err error
	)
	switch turn.Intent {
	case dialog.IntentMakeBooking:
		if turn.Phase == dialog.PhaseFulfill {
			res, err = h.engine.Commit(ctx, dialog.RequestFromTurn(turn))
		} else {
			res, err = h.validator.ValidateTurn(ctx, turn)
		}
	case dialog.IntentCancelBooking:
		res, err = h.engine.Cancel(ctx, booking.CancelParamsFromTurn(turn))
	default:
		res = dialog.Close(false, "I can only make and cancel appointments.")
	}

	if err != nil {
		// Store failures are fatal for the turn: write-completion status is
		// unknown, so no retry happens here.
		h.logger.Error("dialog turn failed",
			"err", err,
			"intent", turn.Intent,
			"request_id", httpx.RequestIDFromContext(ctx),
		)
		http.Error(w, "storage unavailable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
