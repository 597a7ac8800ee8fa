package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/prop-edge/internal/database"
	"github.com/yourusername/prop-edge/internal/models"
)

// PostgresRecommendationRepository implements RecommendationRepository
// for PostgreSQL
type PostgresRecommendationRepository struct {
	db *database.DB
}

// NewPostgresRecommendationRepository creates a new recommendation repository
func NewPostgresRecommendationRepository(db *database.DB) RecommendationRepository {
	return &PostgresRecommendationRepository{db: db}
}

const insertRecommendation = `
	INSERT INTO recommendations (id, candidate_id, event_id, entity_id, stat_category, line, side,
	                             tier, reasons, probability, implied, edge, expected_value,
	                             price, fair_price, mispricing,
	                             confidence_base, confidence_final, confidence_cap, sample_size,
	                             penalties, projected_mean, warnings, evaluated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
	        $17, $18, $19, $20, $21, $22, $23, $24)
	ON CONFLICT (id) DO NOTHING
`

// Create inserts a single decision record. Records are immutable, so a
// duplicate ID (a deterministic re-evaluation) is a no-op.
func (r *PostgresRecommendationRepository) Create(ctx context.Context, rec *models.Recommendation) error {
	args, err := insertArgs(rec)
	if err != nil {
		return err
	}
	if _, err := r.db.GetPool().Exec(ctx, insertRecommendation, args...); err != nil {
		return fmt.Errorf("failed to create recommendation: %w", err)
	}
	return nil
}

// CreateBatch inserts all records of one evaluation inside a transaction.
func (r *PostgresRecommendationRepository) CreateBatch(ctx context.Context, recs []*models.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, rec := range recs {
		args, err := insertArgs(rec)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, insertRecommendation, args...); err != nil {
			return fmt.Errorf("failed to insert recommendation %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recommendations: %w", err)
	}
	return nil
}

const selectRecommendation = `
	SELECT id, candidate_id, event_id, entity_id, stat_category, line, side,
	       tier, reasons, probability, implied, edge, expected_value,
	       price, fair_price, mispricing,
	       confidence_base, confidence_final, confidence_cap, sample_size,
	       penalties, projected_mean, warnings, evaluated_at
	FROM recommendations
`

// GetByID retrieves one decision record.
func (r *PostgresRecommendationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recommendation, error) {
	row := r.db.GetPool().QueryRow(ctx, selectRecommendation+" WHERE id = $1", id)
	rec, err := scanRecommendation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}
	return rec, nil
}

// GetByEvent retrieves all decision records for an event.
func (r *PostgresRecommendationRepository) GetByEvent(ctx context.Context, eventID string) ([]*models.Recommendation, error) {
	rows, err := r.db.GetPool().Query(ctx, selectRecommendation+" WHERE event_id = $1 ORDER BY evaluated_at DESC", eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations by event: %w", err)
	}
	defer rows.Close()
	return scanRecommendations(rows)
}

// GetByTier retrieves decision records of a tier since a timestamp.
func (r *PostgresRecommendationRepository) GetByTier(ctx context.Context, tier models.Tier, since time.Time) ([]*models.Recommendation, error) {
	rows, err := r.db.GetPool().Query(ctx,
		selectRecommendation+" WHERE tier = $1 AND evaluated_at >= $2 ORDER BY evaluated_at DESC",
		string(tier), since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations by tier: %w", err)
	}
	defer rows.Close()
	return scanRecommendations(rows)
}

func insertArgs(rec *models.Recommendation) ([]interface{}, error) {
	reasons, err := json.Marshal(rec.Risk.Reasons)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reasons: %w", err)
	}
	penalties, err := json.Marshal(rec.Confidence.Penalties)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal penalties: %w", err)
	}
	warnings, err := json.Marshal(rec.Warnings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal warnings: %w", err)
	}

	return []interface{}{
		rec.ID, rec.CandidateID,
		rec.Selection.EventID, rec.Selection.EntityID, rec.Selection.StatCategory,
		rec.Selection.Line, string(rec.Selection.Side),
		string(rec.Risk.Tier), reasons,
		rec.Value.ProjectedProbability, rec.Value.ImpliedProbability,
		rec.Value.Edge, rec.Value.ExpectedValue,
		rec.Value.Price, rec.Value.FairPrice, rec.Value.Mispricing,
		rec.Confidence.Base, rec.Confidence.Final, rec.Confidence.Cap, rec.Confidence.SampleSize,
		penalties, rec.ProjectedMean, warnings, rec.EvaluatedAt,
	}, nil
}

func scanRecommendation(row pgx.Row) (*models.Recommendation, error) {
	rec := &models.Recommendation{}
	var side, tier string
	var reasons, penalties, warnings []byte

	err := row.Scan(
		&rec.ID, &rec.CandidateID,
		&rec.Selection.EventID, &rec.Selection.EntityID, &rec.Selection.StatCategory,
		&rec.Selection.Line, &side,
		&tier, &reasons,
		&rec.Value.ProjectedProbability, &rec.Value.ImpliedProbability,
		&rec.Value.Edge, &rec.Value.ExpectedValue,
		&rec.Value.Price, &rec.Value.FairPrice, &rec.Value.Mispricing,
		&rec.Confidence.Base, &rec.Confidence.Final, &rec.Confidence.Cap, &rec.Confidence.SampleSize,
		&penalties, &rec.ProjectedMean, &warnings, &rec.EvaluatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Selection.Side = models.Side(side)
	rec.Risk.Tier = models.Tier(tier)
	if err := json.Unmarshal(reasons, &rec.Risk.Reasons); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reasons: %w", err)
	}
	if err := json.Unmarshal(penalties, &rec.Confidence.Penalties); err != nil {
		return nil, fmt.Errorf("failed to unmarshal penalties: %w", err)
	}
	if err := json.Unmarshal(warnings, &rec.Warnings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
	}

	return rec, nil
}

func scanRecommendations(rows pgx.Rows) ([]*models.Recommendation, error) {
	var recs []*models.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendations: %w", err)
	}
	return recs, nil
}
