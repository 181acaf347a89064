package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lelesmart/internal/common"
)

// execute runs the root command against a throwaway database and returns
// stdout and stderr.
func execute(t *testing.T, dbPath string, args ...string) (string, string, error) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--db", dbPath, "--log-level", "error"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "lele.db")
}

type stageJSON struct {
	Status     string  `json:"status"`
	Confidence float64 `json:"confidence"`
}

type analyzeJSON struct {
	Seed     stageJSON `json:"seedCondition"`
	Pond     stageJSON `json:"pondCondition"`
	Final    stageJSON `json:"finalResult"`
	Trace    []string  `json:"trace"`
	Analysis *struct {
		ID string `json:"id"`
	} `json:"analysis"`
}

func TestAnalyzeCmd(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantSeed  string
		wantPond  string
		wantFinal string
		wantCF    float64
		wantTrace []string
	}{
		{
			name:      "form defaults",
			args:      nil,
			wantSeed:  "Healthy",
			wantPond:  "Good",
			wantFinal: "VeryGood",
			wantCF:    0.9,
		},
		{
			name: "fat head in a high pH pond fed eggs",
			args: []string{
				"--head", "Fat", "--agility", "Slow", "--cf-head", "0.8",
				"--ph", "High", "--temp", "28", "--feed", "Eggs", "--explain",
			},
			wantSeed:  "Healthy",
			wantPond:  "Fair",
			wantFinal: "Good",
			wantCF:    0.68 * 0.9,
			wantTrace: []string{"fat-head-ideal", "extreme-ph-optimal-temp", "healthy-fair"},
		},
		{
			name:      "indonesian labels",
			args:      []string{"--defect", "Sirip Merah", "--cf-defect", "kurang yakin", "--ph", "Netral", "--temp", "20", "--feed", "Pelet"},
			wantSeed:  "Unhealthy",
			wantPond:  "Fair",
			wantFinal: "Poor",
			wantCF:    0.72 * 0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tempDB(t), append([]string{"analyze", "--json"}, tt.args...)...)
			require.NoError(t, err)

			var got analyzeJSON
			require.NoError(t, json.Unmarshal([]byte(stdout), &got))
			assert.Equal(t, tt.wantSeed, got.Seed.Status)
			assert.Equal(t, tt.wantPond, got.Pond.Status)
			assert.Equal(t, tt.wantFinal, got.Final.Status)
			assert.InDelta(t, tt.wantCF, got.Final.Confidence, 1e-9)
			assert.Equal(t, tt.wantTrace, got.Trace)
			assert.Nil(t, got.Analysis)
		})
	}
}

func TestAnalyzeCmd_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "unknown head shape", args: []string{"--head", "Square"}, wantMsg: `invalid --head "Square"`},
		{name: "unknown confidence", args: []string{"--cf-skin", "maybe"}, wantMsg: `invalid --cf-skin "maybe"`},
		{name: "temperature out of range", args: []string{"--temp", "120"}, wantMsg: "temperature: must be between 0 and 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tempDB(t), append([]string{"analyze", "--save"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, common.UserMessage(err), tt.wantMsg)
		})
	}
}

func TestAnalyzeSaveAndBrowse(t *testing.T) {
	dbPath := tempDB(t)

	stdout, _, err := execute(t, dbPath, "analyze", "--save", "--json", "--temp", "31")
	require.NoError(t, err)
	var saved analyzeJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &saved))
	require.NotNil(t, saved.Analysis)
	id := saved.Analysis.ID
	require.NotEmpty(t, id)
	assert.Empty(t, saved.Trace)

	stdout, _, err = execute(t, dbPath, "analyze", "--save", "--json", "--explain", "--skin", "Dull")
	require.NoError(t, err)
	var explained analyzeJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &explained))
	require.NotNil(t, explained.Analysis)
	require.Len(t, explained.Trace, 3)
	assert.Equal(t, "dull-skin-veto", explained.Trace[0])

	stdout, _, err = execute(t, dbPath, "analyses", "list", "--format", "json")
	require.NoError(t, err)
	var page struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &page))
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Data, 2)

	stdout, _, err = execute(t, dbPath, "analyses", "list", "--final", "Sangat Baik", "--format", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, id, page.Data[0].ID)

	stdout, _, err = execute(t, dbPath, "analyses", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "RECOMMENDATION")
	assert.Contains(t, stdout, "Page 1 of 1 (2 analyses)")

	stdout, _, err = execute(t, dbPath, "analyses", "show", id, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "id: "+id)
	assert.Contains(t, stdout, "finalResult:")
	assert.Contains(t, stdout, "status: VeryGood")

	_, _, err = execute(t, dbPath, "analyses", "show", "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, _, err = execute(t, dbPath, "analyses", "list", "--format", "xml")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestStageCmds(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantStatus string
		wantRule   string
		wantCF     float64
	}{
		{
			name:       "seed defect veto",
			args:       []string{"seed", "--defect", "WhiteSnout", "--cf-defect", "0.5"},
			wantStatus: "Unhealthy",
			wantRule:   "defect-veto",
			wantCF:     0.45,
		},
		{
			name:       "pond neutral outside band",
			args:       []string{"pond", "--ph", "2", "--temp", "26.5"},
			wantStatus: "Fair",
			wantRule:   "neutral-ph",
			wantCF:     0.8,
		},
		{
			name: "final from labels",
			args: []string{
				"final", "--seed", "Sehat", "--pond", "Cukup Baik", "--feed", "Telur",
				"--cf-seed", "0.9", "--cf-pond", "0.8",
			},
			wantStatus: "Good",
			wantRule:   "healthy-fair",
			wantCF:     0.72,
		},
		{
			name:       "final with invalid seed falls back",
			args:       []string{"final", "--seed", "Invalid", "--pond", "Good", "--cf-seed", "0"},
			wantStatus: "Unknown",
			wantRule:   "no-match",
			wantCF:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tempDB(t), append(tt.args, "--json")...)
			require.NoError(t, err)

			var got stageOutput
			require.NoError(t, json.Unmarshal([]byte(stdout), &got))
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantRule, got.Rule)
			assert.InDelta(t, tt.wantCF, got.Confidence, 1e-9)
		})
	}
}

func TestFinalCmd_Errors(t *testing.T) {
	_, _, err := execute(t, tempDB(t), "final", "--pond", "Good")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"seed"`)

	_, _, err = execute(t, tempDB(t), "final", "--seed", "Healthy", "--pond", "Good", "--cf-seed", "2")
	require.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Contains(t, common.UserMessage(err), "cfSeed")

	_, _, err = execute(t, tempDB(t), "final", "--seed", "Great", "--pond", "Good")
	assert.Contains(t, common.UserMessage(err), `invalid --seed "Great"`)
}

func TestBatchCmd(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "batch.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(`headShape,agility,skinColor,defect,cfHead,cfAgility,cfSkin,cfDefect,ph,temperature,feedType
1,1,1,3,1,1,1,1,2,28,1
Fat,Slow,Shiny,None,0.8,sure,yakin,1,High,28,Telur
1,1,1,3,1,1,1,1,2,hot,1
1,1,1,3,1,1,1,1,2,150,1
`), 0o600))

	dbPath := tempDB(t)
	stdout, stderr, err := execute(t, dbPath, "batch", csvPath, "--format", "json", "--save")
	require.NoError(t, err)
	assert.Contains(t, stderr, "line 4: temperature")

	var report struct {
		ByFinal map[string]int `json:"byFinal"`
		Rows    []struct {
			Outcome *struct {
				Final string `json:"finalResult"`
			} `json:"outcome"`
			ID    string `json:"id"`
			Error string `json:"error"`
			Line  int    `json:"line"`
		} `json:"rows"`
		Processed int `json:"processed"`
		Failed    int `json:"failed"`
		Skipped   int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, map[string]int{"VeryGood": 1, "Good": 1}, report.ByFinal)

	require.Len(t, report.Rows, 3)
	assert.Equal(t, 2, report.Rows[0].Line)
	assert.NotEmpty(t, report.Rows[0].ID)
	assert.Equal(t, "Good", report.Rows[1].Outcome.Final)
	assert.Equal(t, 5, report.Rows[2].Line)
	assert.Contains(t, report.Rows[2].Error, "temperature")

	stdout, _, err = execute(t, dbPath, "analyses", "list", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"total": 2`)
}

func TestBatchCmd_TextFromStdin(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(bytes.NewBufferString("feedType,temperature,ph,cfDefect,cfSkin,cfAgility,cfHead,defect,skinColor,agility,headShape\n1,28,2,1,1,1,1,3,1,1,1\n"))
	cmd.SetArgs([]string{"--db", tempDB(t), "batch", "-", "--no-progress"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, stdout.String(), "Sangat Baik")
	assert.Contains(t, stdout.String(), "1 analyzed, 0 rejected, 0 unreadable")
	assert.Empty(t, stderr.String())
}

func TestBatchCmd_MissingColumn(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("headShape,agility\n1,1\n"), 0o600))

	_, _, err := execute(t, tempDB(t), "batch", csvPath)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestMigrateCmd(t *testing.T) {
	dbPath := tempDB(t)

	stdout, _, err := execute(t, dbPath, "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Schema version: 0 (latest 2)")

	stdout, _, err = execute(t, dbPath, "migrate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Migrated schema from version 0 to 2")

	stdout, _, err = execute(t, dbPath, "migrate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Schema already at version 2")
}

func TestLevelsCmd(t *testing.T) {
	stdout, _, err := execute(t, tempDB(t), "levels")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Kurang Yakin")
	assert.Regexp(t, `2\s+LessSure\s+Kurang Yakin\s+0\.8`, stdout)
	assert.Regexp(t, `3\s+Unsure\s+Tidak Yakin\s+0\.5`, stdout)
}

func TestRulesCmd(t *testing.T) {
	stdout, _, err := execute(t, tempDB(t), "rules", "--raw")
	require.NoError(t, err)
	assert.Contains(t, stdout, "## Seed condition")
	assert.Contains(t, stdout, "| 1 | defect-veto | Unhealthy | Tidak Sehat |")
	assert.Contains(t, stdout, "| 9 | unhealthy-poor | VeryPoor | Sangat Tidak Baik |")
	assert.Contains(t, stdout, "| - | no-match | Unknown | Tidak Diketahui |")

	stdout, _, err = execute(t, tempDB(t), "rules")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pointed-agile-prime")
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := execute(t, tempDB(t), "version")
	require.NoError(t, err)
	assert.Equal(t, "lele dev\n", stdout)
}

func TestCheckpointCmds(t *testing.T) {
	dbPath := tempDB(t)

	_, _, err := execute(t, dbPath, "analyze", "--save")
	require.NoError(t, err)

	stdout, _, err := execute(t, dbPath, "checkpoint", "create", "--tag", "one-analysis", "-d", "after the first check")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created checkpoint one-analysis (1 analyses")

	_, _, err = execute(t, dbPath, "analyze", "--save", "--skin", "Dull")
	require.NoError(t, err)

	stdout, _, err = execute(t, dbPath, "checkpoint", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "one-analysis")
	assert.Contains(t, stdout, "after the first check")

	stdout, _, err = execute(t, dbPath, "checkpoint", "restore", "one-analysis")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Restored checkpoint one-analysis")

	stdout, _, err = execute(t, dbPath, "analyses", "list", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"total": 1`)

	_, _, err = execute(t, dbPath, "checkpoint", "delete", "one-analysis")
	require.NoError(t, err)
	_, _, err = execute(t, dbPath, "checkpoint", "restore", "one-analysis")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestBatchCmd_SaveTakesCheckpoint(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "one.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"headShape,agility,skinColor,defect,cfHead,cfAgility,cfSkin,cfDefect,ph,temperature,feedType\n1,1,1,3,1,1,1,1,2,28,1\n"), 0o600))

	dbPath := tempDB(t)
	_, stderr, err := execute(t, dbPath, "batch", csvPath, "--save", "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Checkpoint auto-batch-")

	stdout, _, err := execute(t, dbPath, "checkpoint", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(auto)")
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		want string
		size int64
	}{
		{size: 0, want: "0 B"},
		{size: 1023, want: "1023 B"},
		{size: 1536, want: "1.5 KB"},
		{size: 5 * 1024 * 1024, want: "5.0 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFileSize(tt.size))
	}
}
