package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/lelesmart/internal/common"
	"github.com/Veraticus/lelesmart/internal/model"
	"github.com/Veraticus/lelesmart/internal/service"
)

const analysisColumns = `
	id, head_shape, agility, skin_color, defect,
	cf_head, cf_agility, cf_skin, cf_defect,
	ph, temperature, feed_type,
	seed_condition, pond_condition, final_result,
	cf_seed, cf_pond, cf_final, created_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// CreateAnalysis stores an analysis together with its inputs.
func (s *SQLiteStorage) CreateAnalysis(ctx context.Context, analysis *model.Analysis) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAnalysis(analysis); err != nil {
		return err
	}

	in := analysis.Input
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (`+analysisColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		analysis.ID,
		int(in.Seed.HeadShape), int(in.Seed.Agility), int(in.Seed.SkinColor), int(in.Seed.Defect),
		in.Seed.CFHeadShape, in.Seed.CFAgility, in.Seed.CFSkinColor, in.Seed.CFDefect,
		int(in.Pond.WaterPH), in.Pond.Temperature, int(in.Feed),
		string(analysis.Seed.Status), string(analysis.Pond.Status), string(analysis.Final.Status),
		analysis.Seed.Confidence, analysis.Pond.Confidence, analysis.Final.Confidence,
		analysis.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}

	return nil
}

// GetAnalysisByID retrieves a single analysis.
func (s *SQLiteStorage) GetAnalysisByID(ctx context.Context, id string) (*model.Analysis, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE id = ?`, id)
	analysis, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("analysis %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	return analysis, nil
}

// GetAnalyses returns one page of analyses, newest first. The page size is
// taken as given; callers cap it (see engine.Config.MaxPageLimit).
func (s *SQLiteStorage) GetAnalyses(ctx context.Context, filter service.AnalysisFilter) (*service.AnalysisPage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = service.DefaultPageLimit
	}

	where, args := filterClause(filter)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count analyses: %w", err)
	}

	query := `SELECT ` + analysisColumns + ` FROM analyses` + where +
		` ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, filter.Limit, filter.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	data := make([]model.Analysis, 0, filter.Limit)
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		data = append(data, *analysis)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}

	return &service.AnalysisPage{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: service.TotalPages(total, filter.Limit),
	}, nil
}

func filterClause(filter service.AnalysisFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.FinalStatus != "" {
		conds = append(conds, "final_result = ?")
		args = append(args, string(filter.FinalStatus))
	}
	if filter.SeedStatus != "" {
		conds = append(conds, "seed_condition = ?")
		args = append(args, string(filter.SeedStatus))
	}
	if filter.PondStatus != "" {
		conds = append(conds, "pond_condition = ?")
		args = append(args, string(filter.PondStatus))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanAnalysis(row rowScanner) (*model.Analysis, error) {
	var (
		a                               model.Analysis
		head, agility, skin, defect     int
		ph, feed                        int
		seedStatus, pondStatus, verdict string
	)

	err := row.Scan(
		&a.ID, &head, &agility, &skin, &defect,
		&a.Input.Seed.CFHeadShape, &a.Input.Seed.CFAgility, &a.Input.Seed.CFSkinColor, &a.Input.Seed.CFDefect,
		&ph, &a.Input.Pond.Temperature, &feed,
		&seedStatus, &pondStatus, &verdict,
		&a.Seed.Confidence, &a.Pond.Confidence, &a.Final.Confidence,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Input.Seed.HeadShape = model.HeadShape(head)
	a.Input.Seed.Agility = model.Agility(agility)
	a.Input.Seed.SkinColor = model.SkinColor(skin)
	a.Input.Seed.Defect = model.Defect(defect)
	a.Input.Pond.WaterPH = model.WaterPH(ph)
	a.Input.Feed = model.FeedType(feed)
	a.Seed.Status = model.SeedStatus(seedStatus)
	a.Pond.Status = model.PondStatus(pondStatus)
	a.Final.Status = model.FinalStatus(verdict)

	return &a, nil
}
