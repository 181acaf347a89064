package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lelesmart/internal/common"
	"github.com/Veraticus/lelesmart/internal/model"
	"github.com/Veraticus/lelesmart/internal/service"
)

func TestSQLiteStorage_CreateAndGetAnalysis(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	analysis := createTestAnalysis(1, created)
	require.NoError(t, store.CreateAnalysis(ctx, analysis))

	got, err := store.GetAnalysisByID(ctx, analysis.ID)
	require.NoError(t, err)

	assert.Equal(t, analysis.ID, got.ID)
	assert.True(t, created.Equal(got.CreatedAt), "created_at round trips")
	assert.Equal(t, analysis.Input, got.Input)
	assert.Equal(t, analysis.Seed, got.Seed)
	assert.Equal(t, analysis.Pond, got.Pond)
	assert.Equal(t, analysis.Final, got.Final)
}

func TestSQLiteStorage_CreateAnalysis_Errors(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("duplicate id", func(t *testing.T) {
		require.NoError(t, store.CreateAnalysis(ctx, createTestAnalysis(7, time.Now())))
		assert.Error(t, store.CreateAnalysis(ctx, createTestAnalysis(7, time.Now())))
	})

	t.Run("nil analysis", func(t *testing.T) {
		assert.ErrorIs(t, store.CreateAnalysis(ctx, nil), ErrNilParameter)
	})

	t.Run("invalid status", func(t *testing.T) {
		a := createTestAnalysis(8, time.Now())
		a.Final.Status = "Excellent"
		assert.ErrorIs(t, store.CreateAnalysis(ctx, a), ErrInvalidStatus)
	})

	t.Run("nil context", func(t *testing.T) {
		//nolint:staticcheck // testing nil context handling
		assert.ErrorIs(t, store.CreateAnalysis(nil, createTestAnalysis(9, time.Now())), ErrNilContext)
	})
}

func TestSQLiteStorage_GetAnalysisByID_NotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetAnalysisByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.GetAnalysisByID(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSQLiteStorage_GetAnalyses(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 25; i++ {
		a := createTestAnalysis(i, base.Add(time.Duration(i)*time.Hour))
		if i%5 == 0 {
			a.Seed = model.ConditionResult[model.SeedStatus]{Status: model.Unhealthy, Confidence: 0.9}
			a.Pond = model.ConditionResult[model.PondStatus]{Status: model.PondPoor, Confidence: 0.6}
			a.Final = model.ConditionResult[model.FinalStatus]{Status: model.VeryPoor, Confidence: 0.54}
		}
		require.NoError(t, store.CreateAnalysis(ctx, a))
	}

	tests := []struct {
		name          string
		filter        service.AnalysisFilter
		wantFirstID   string
		wantLen       int
		wantTotal     int
		wantPage      int
		wantLimit     int
		wantTotalPage int
	}{
		{
			name:          "defaults give newest ten",
			filter:        service.AnalysisFilter{},
			wantLen:       10,
			wantTotal:     25,
			wantPage:      1,
			wantLimit:     10,
			wantTotalPage: 3,
			wantFirstID:   "analysis-025",
		},
		{
			name:          "last partial page",
			filter:        service.AnalysisFilter{Page: 3, Limit: 10},
			wantLen:       5,
			wantTotal:     25,
			wantPage:      3,
			wantLimit:     10,
			wantTotalPage: 3,
			wantFirstID:   "analysis-005",
		},
		{
			name:          "large limit taken as given",
			filter:        service.AnalysisFilter{Page: 1, Limit: 150},
			wantLen:       25,
			wantTotal:     25,
			wantPage:      1,
			wantLimit:     150,
			wantTotalPage: 1,
			wantFirstID:   "analysis-025",
		},
		{
			name:          "page beyond end is empty",
			filter:        service.AnalysisFilter{Page: 9, Limit: 10},
			wantLen:       0,
			wantTotal:     25,
			wantPage:      9,
			wantLimit:     10,
			wantTotalPage: 3,
		},
		{
			name:          "filter by final status",
			filter:        service.AnalysisFilter{FinalStatus: model.VeryPoor},
			wantLen:       5,
			wantTotal:     5,
			wantPage:      1,
			wantLimit:     10,
			wantTotalPage: 1,
			wantFirstID:   "analysis-025",
		},
		{
			name:          "filter by seed and pond",
			filter:        service.AnalysisFilter{SeedStatus: model.Healthy, PondStatus: model.PondGood, Limit: 4},
			wantLen:       4,
			wantTotal:     20,
			wantPage:      1,
			wantLimit:     4,
			wantTotalPage: 5,
			wantFirstID:   "analysis-024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := store.GetAnalyses(ctx, tt.filter)
			require.NoError(t, err)

			assert.Len(t, page.Data, tt.wantLen)
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Equal(t, tt.wantTotalPage, page.TotalPages)
			if tt.wantFirstID != "" {
				assert.Equal(t, tt.wantFirstID, page.Data[0].ID)
			}
			for i := 1; i < len(page.Data); i++ {
				assert.False(t, page.Data[i].CreatedAt.After(page.Data[i-1].CreatedAt), "newest first")
			}
		})
	}
}

func TestSQLiteStorage_GetAnalyses_Empty(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	page, err := store.GetAnalyses(context.Background(), service.AnalysisFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.NotNil(t, page.Data)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.TotalPages)
}
