/*
writer.go - Validation and transactional writes

PURPOSE:
  The Writer is the single entry point for mutating the ledger. It
  validates an incoming request, applies the guardrails, and performs
  the write as one atomic unit:

  Time-off path:  expand the day range, then upsert one TimeEvent per
                  day on the (employee, day, kind) natural key - all
                  days inside ONE store transaction, ascending order.
  Compensation:   a single append-only CompEvent insert.

VALIDATION ORDER:
  Every input error is caught before any write is attempted, so a
  rejected request never leaves partial state. A store failure mid-range
  rolls the whole transaction back; callers can never observe
  "40 of 62 days saved".

RETRY SEMANTICS:
  The time-off path is safely retryable (same-key upserts converge).
  The compensation path is NOT: retrying a successful-but-unacknowledged
  write would double-count a debt, so no internal retry loop exists.

SEE ALSO:
  - expand.go: range expansion and the 62-day guardrail
  - store.go: the unit-of-work boundary
*/
package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Writer validates requests and writes events through the store.
type Writer struct {
	store EventStore
	log   logrus.FieldLogger
}

// NewWriter creates a Writer. A nil logger falls back to the standard
// logrus logger.
func NewWriter(store EventStore, log logrus.FieldLogger) *Writer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Writer{store: store, log: log}
}

// =============================================================================
// TIME-OFF PATH
// =============================================================================

// TimeOffRequest is one incoming time-off submission. Dates arrive as
// YYYY-MM-DD strings; Day covers single-day requests, DayFrom/DayTo a
// vacation range (DayTo may be empty and defaults to DayFrom).
type TimeOffRequest struct {
	EmployeeName string
	Kind         string
	Day          string
	DayFrom      string
	DayTo        string
	HoursOff     *int
	Note         string
	Actor        string
}

// CreateTimeOff validates the request and upserts one TimeEvent per
// calendar day, all inside a single transaction.
func (w *Writer) CreateTimeOff(ctx context.Context, req TimeOffRequest) error {
	name := strings.TrimSpace(req.EmployeeName)
	if name == "" {
		return &InputError{Field: "employee_name", Reason: "missing"}
	}

	kind, err := ParseKind(req.Kind)
	if err != nil {
		return err
	}

	days, hours, err := w.resolveDays(req, kind)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	err = w.store.InTx(ctx, func(tx Tx) error {
		for _, day := range days {
			ev := TimeEvent{
				ID:           uuid.NewString(),
				EmployeeName: name,
				Day:          day,
				Kind:         kind,
				HoursOff:     hours,
				Note:         strings.TrimSpace(req.Note),
				CreatedAt:    now,
				CreatedBy:    req.Actor,
			}
			if err := tx.UpsertTimeEvent(ctx, ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &PersistenceError{Op: "create time-off", Err: err}
	}

	w.log.WithFields(logrus.Fields{
		"employee": name,
		"kind":     kind,
		"days":     len(days),
		"from":     days[0].String(),
		"actor":    req.Actor,
	}).Info("time-off recorded")
	return nil
}

// resolveDays turns the request's date fields into the day list and the
// hours-off value to write. Short absences always resolve to exactly
// one day and bypass the range expander.
func (w *Writer) resolveDays(req TimeOffRequest, kind Kind) ([]Date, *int, error) {
	if kind == KindShort {
		raw := req.Day
		if raw == "" {
			raw = req.DayFrom
		}
		if raw == "" {
			return nil, nil, &InputError{Field: "day", Reason: "missing"}
		}
		if req.DayTo != "" && req.DayTo != raw {
			return nil, nil, &InputError{Field: "day_to", Reason: "short absences cover a single day"}
		}
		day, err := ParseDate(raw)
		if err != nil {
			return nil, nil, &InputError{Field: "day", Reason: err.Error()}
		}

		hours := DefaultShortHours
		if req.HoursOff != nil {
			hours = *req.HoursOff
		}
		if hours < MinShortHours || hours > MaxShortHours {
			return nil, nil, &InputError{Field: "hours_off", Reason: "must be between 1 and 12"}
		}
		return []Date{day}, &hours, nil
	}

	// Vacation: hours never apply.
	if req.HoursOff != nil {
		return nil, nil, &InputError{Field: "hours_off", Reason: "only valid for short absences"}
	}

	rawFrom := req.DayFrom
	if rawFrom == "" {
		rawFrom = req.Day
	}
	if rawFrom == "" {
		return nil, nil, &InputError{Field: "day_from", Reason: "missing"}
	}
	from, err := ParseDate(rawFrom)
	if err != nil {
		return nil, nil, &InputError{Field: "day_from", Reason: err.Error()}
	}

	to := from
	if req.DayTo != "" {
		if to, err = ParseDate(req.DayTo); err != nil {
			return nil, nil, &InputError{Field: "day_to", Reason: err.Error()}
		}
	}

	days, err := ExpandRange(from, to)
	if err != nil {
		return nil, nil, err
	}
	return days, nil, nil
}

// =============================================================================
// COMPENSATION PATH
// =============================================================================

// CompRequest is one incoming compensation submission. Amount arrives
// as a decimal so fractional JSON numbers truncate exactly instead of
// drifting through a float.
type CompRequest struct {
	EmployeeName string
	Day          string
	Unit         string
	Amount       decimal.Decimal
	Note         string
	Actor        string
}

// CreateComp validates the request and appends one ledger line. Every
// call creates a new line; there is no upsert on this path.
func (w *Writer) CreateComp(ctx context.Context, req CompRequest) error {
	name := strings.TrimSpace(req.EmployeeName)
	if name == "" {
		return &InputError{Field: "employee_name", Reason: "missing"}
	}

	if req.Day == "" {
		return &InputError{Field: "day", Reason: "missing"}
	}
	day, err := ParseDate(req.Day)
	if err != nil {
		return &InputError{Field: "day", Reason: err.Error()}
	}

	unit, err := ParseUnit(req.Unit)
	if err != nil {
		return err
	}

	amount := int(req.Amount.IntPart())
	if amount == 0 {
		return &InputError{Field: "amount", Reason: "must be nonzero"}
	}
	limit := MaxCompDays
	if unit == UnitHour {
		limit = MaxCompHours
	}
	if amount > limit || amount < -limit {
		return &InputError{Field: "amount", Reason: "magnitude out of range"}
	}

	note := strings.TrimSpace(req.Note)
	if note == "" {
		return &InputError{Field: "note", Reason: "required: it is the audit trail for the ledger line"}
	}

	ev := CompEvent{
		ID:           uuid.NewString(),
		EmployeeName: name,
		Day:          day,
		Unit:         unit,
		Amount:       amount,
		Note:         note,
		CreatedAt:    time.Now().UTC(),
		CreatedBy:    req.Actor,
	}
	err = w.store.InTx(ctx, func(tx Tx) error {
		return tx.InsertCompEvent(ctx, ev)
	})
	if err != nil {
		return &PersistenceError{Op: "create compensation", Err: err}
	}

	w.log.WithFields(logrus.Fields{
		"employee": name,
		"day":      day.String(),
		"unit":     unit,
		"amount":   amount,
		"actor":    req.Actor,
	}).Info("compensation recorded")
	return nil
}

// =============================================================================
// DELETES - Single-row, by id, never cascaded
// =============================================================================

// DeleteTimeEvent removes one time event.
func (w *Writer) DeleteTimeEvent(ctx context.Context, id, actor string) error {
	if strings.TrimSpace(id) == "" {
		return &InputError{Field: "id", Reason: "missing"}
	}
	if err := w.store.DeleteTimeEvent(ctx, id); err != nil {
		if IsNotFound(err) {
			return err
		}
		return &PersistenceError{Op: "delete time event", Err: err}
	}
	w.log.WithFields(logrus.Fields{"id": id, "actor": actor}).Info("time event deleted")
	return nil
}

// DeleteCompEvent removes one ledger line. The table keeps no trace of
// deleted lines, so the removed row is logged in full as the remaining
// audit record.
func (w *Writer) DeleteCompEvent(ctx context.Context, id, actor string) error {
	if strings.TrimSpace(id) == "" {
		return &InputError{Field: "id", Reason: "missing"}
	}
	ev, err := w.store.DeleteCompEvent(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return err
		}
		return &PersistenceError{Op: "delete comp event", Err: err}
	}
	w.log.WithFields(logrus.Fields{
		"id":       ev.ID,
		"employee": ev.EmployeeName,
		"day":      ev.Day.String(),
		"unit":     ev.Unit,
		"amount":   ev.Amount,
		"note":     ev.Note,
		"actor":    actor,
	}).Info("comp event deleted")
	return nil
}
