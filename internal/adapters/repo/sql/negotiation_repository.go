package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/haggle/internal/domain"
	"github.com/bnema/haggle/internal/ports"
)

const negotiationColumns = `id, kind, ref_id, status, round_no, last_offer, last_counter,
  min_price, max_price, max_discount, round_cap, accept_threshold, eagerness,
  flexibility, convergence_delta, opening_price, created_at, updated_at`

// NegotiationRepository stores negotiations in any database/sql backend that
// understands REPLACE INTO and ? placeholders (sqlite3 and mysql).
type NegotiationRepository struct {
	db *sql.DB
}

var _ ports.NegotiationRepository = (*NegotiationRepository)(nil)

func NewNegotiationRepository(ctx context.Context, db *sql.DB) (*NegotiationRepository, error) {
	if err := initSchema(ctx, db); err != nil {
		return nil, err
	}

	return &NegotiationRepository{db: db}, nil
}

func (r *NegotiationRepository) Close() error {
	return r.db.Close()
}

func (r *NegotiationRepository) Save(ctx context.Context, negotiation domain.Negotiation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin negotiation tx: %w", err)
	}

	if err := saveNegotiation(ctx, tx, negotiation); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("save negotiation and rollback: %w", errors.Join(err, rollbackErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit negotiation: %w", err)
	}

	return nil
}

func saveNegotiation(ctx context.Context, tx *sql.Tx, negotiation domain.Negotiation) error {
	state := negotiation.State
	_, err := tx.ExecContext(ctx,
		`REPLACE INTO negotiations (`+negotiationColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(negotiation.ID),
		string(negotiation.Subject.Kind),
		negotiation.Subject.RefID,
		string(state.Status),
		state.Round,
		nullFloat(state.LastOffer),
		nullFloat(state.LastCounter),
		state.Bounds.Min,
		state.Bounds.Max,
		state.Bounds.MaxDiscount,
		state.Strategy.RoundCap,
		state.Strategy.AcceptThreshold,
		state.Strategy.Eagerness,
		state.Strategy.Flexibility,
		state.Strategy.ConvergenceDelta,
		negotiation.OpeningPrice,
		toUnixNano(negotiation.CreatedAt),
		toUnixNano(negotiation.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert negotiation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM negotiation_rounds WHERE negotiation_id = ?`, string(negotiation.ID)); err != nil {
		return fmt.Errorf("clear negotiation rounds: %w", err)
	}

	for _, round := range negotiation.Rounds {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO negotiation_rounds
  (negotiation_id, number, offer, outcome, reason, price, message, can_continue, evaluated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(negotiation.ID),
			round.Number,
			round.Offer,
			string(round.Decision.Outcome),
			string(round.Decision.Reason),
			round.Decision.Price,
			round.Decision.Message,
			round.Decision.Continue,
			toUnixNano(round.At),
		)
		if err != nil {
			return fmt.Errorf("insert round %d: %w", round.Number, err)
		}
	}

	return nil
}

func (r *NegotiationRepository) GetByID(ctx context.Context, id domain.NegotiationID) (domain.Negotiation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+negotiationColumns+` FROM negotiations WHERE id = ?`, string(id))

	negotiation, err := scanNegotiation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Negotiation{}, domain.ErrNegotiationNotFound
		}
		return domain.Negotiation{}, fmt.Errorf("get negotiation: %w", err)
	}

	rounds, err := r.rounds(ctx, `WHERE negotiation_id = ?`, string(id))
	if err != nil {
		return domain.Negotiation{}, err
	}
	negotiation.Rounds = rounds[negotiation.ID]

	return negotiation, nil
}

func (r *NegotiationRepository) List(ctx context.Context) ([]domain.Negotiation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+negotiationColumns+` FROM negotiations ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list negotiations: %w", err)
	}
	defer rows.Close()

	var negotiations []domain.Negotiation
	for rows.Next() {
		negotiation, err := scanNegotiation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan negotiation: %w", err)
		}
		negotiations = append(negotiations, negotiation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list negotiations: %w", err)
	}

	rounds, err := r.rounds(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range negotiations {
		negotiations[i].Rounds = rounds[negotiations[i].ID]
	}

	return negotiations, nil
}

func (r *NegotiationRepository) rounds(ctx context.Context, where string, args ...any) (map[domain.NegotiationID][]domain.Round, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT negotiation_id, number, offer, outcome, reason, price, message, can_continue, evaluated_at
FROM negotiation_rounds `+where+` ORDER BY negotiation_id, number`, args...)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	out := map[domain.NegotiationID][]domain.Round{}
	for rows.Next() {
		var (
			negotiationID string
			round         domain.Round
			outcome       string
			reason        string
			evaluatedAt   int64
		)
		if err := rows.Scan(&negotiationID, &round.Number, &round.Offer, &outcome, &reason,
			&round.Decision.Price, &round.Decision.Message, &round.Decision.Continue, &evaluatedAt); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		round.Decision.Outcome = domain.Outcome(outcome)
		round.Decision.Reason = domain.RejectReason(reason)
		round.At = fromUnixNano(evaluatedAt)

		id := domain.NegotiationID(negotiationID)
		out[id] = append(out[id], round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}

	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNegotiation(row scanner) (domain.Negotiation, error) {
	var (
		negotiation            domain.Negotiation
		id, kind, ref, status  string
		lastOffer, lastCounter sql.NullFloat64
		createdAt, updatedAt   int64
	)

	state := &negotiation.State
	if err := row.Scan(&id, &kind, &ref, &status, &state.Round, &lastOffer, &lastCounter,
		&state.Bounds.Min, &state.Bounds.Max, &state.Bounds.MaxDiscount,
		&state.Strategy.RoundCap, &state.Strategy.AcceptThreshold, &state.Strategy.Eagerness,
		&state.Strategy.Flexibility, &state.Strategy.ConvergenceDelta,
		&negotiation.OpeningPrice, &createdAt, &updatedAt); err != nil {
		return domain.Negotiation{}, err
	}

	negotiation.ID = domain.NegotiationID(id)
	negotiation.Subject = domain.Subject{Kind: domain.Kind(kind), RefID: ref}
	state.Kind = domain.Kind(kind)
	state.Status = domain.Status(status)
	if lastOffer.Valid {
		state.LastOffer = &lastOffer.Float64
	}
	if lastCounter.Valid {
		state.LastCounter = &lastCounter.Float64
	}
	negotiation.CreatedAt = fromUnixNano(createdAt)
	negotiation.UpdatedAt = fromUnixNano(updatedAt)

	return negotiation, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{Float64: *v, Valid: true}
}

func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}

	return time.Unix(0, n).UTC()
}
