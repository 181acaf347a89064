// Package testutil provides test utilities shared by lelesmart's packages.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/lelesmart/internal/expert"
	"github.com/Veraticus/lelesmart/internal/model"
	"github.com/Veraticus/lelesmart/internal/service"
	"github.com/Veraticus/lelesmart/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	db.SeedAnalyses(3)
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// DefaultInput mirrors the defaults of the assessment form: a prime seed in a
// neutral pond at 28 °C fed pellets, every observation marked as sure.
func DefaultInput() model.AnalysisInput {
	return model.AnalysisInput{
		Seed: model.SeedInputs{
			HeadShape:   model.Pointed,
			Agility:     model.Agile,
			SkinColor:   model.Shiny,
			Defect:      model.NoDefect,
			CFHeadShape: 1,
			CFAgility:   1,
			CFSkinColor: 1,
			CFDefect:    1,
		},
		Pond: model.PondInputs{WaterPH: model.PHNeutral, Temperature: 28},
		Feed: model.Pellets,
	}
}

// SeedAnalyses stores count analyses of DefaultInput, one minute apart, and
// returns them oldest first.
func (db *TestDB) SeedAnalyses(count int) []model.Analysis {
	db.t.Helper()

	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	outcome := expert.Evaluate(DefaultInput())
	seeded := make([]model.Analysis, 0, count)

	for i := 0; i < count; i++ {
		a := model.Analysis{
			ID:        fmt.Sprintf("seeded-%03d", i+1),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Input:     DefaultInput(),
			Seed:      outcome.Seed,
			Pond:      outcome.Pond,
			Final:     outcome.Final,
		}
		if err := db.Storage.CreateAnalysis(context.Background(), &a); err != nil {
			db.t.Fatalf("failed to seed analysis %d: %v", i+1, err)
		}
		seeded = append(seeded, a)
	}

	return seeded
}
