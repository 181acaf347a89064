// Package batch evaluates many analysis requests read from CSV.
package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/lelesmart/internal/common"
	"github.com/Veraticus/lelesmart/internal/model"
)

// Columns lists the required CSV header fields, named like the JSON API.
var Columns = []string{
	"headShape", "agility", "skinColor", "defect",
	"cfHead", "cfAgility", "cfSkin", "cfDefect",
	"ph", "temperature", "feedType",
}

// Row is one parsed CSV record.
type Row struct {
	Input model.AnalysisInput
	Line  int
}

// RowError reports a record that could not be parsed.
type RowError struct {
	Err   error
	Field string
	Line  int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Field, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ReadInputs parses a CSV stream. Categorical columns accept a code, an
// English name or an Indonesian label; confidence columns accept a number in
// [0,1] or a confidence level. Unparseable records are returned as RowErrors
// and do not stop reading. A missing column or malformed CSV is fatal.
func ReadInputs(r io.Reader) ([]Row, []RowError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%w: empty CSV", common.ErrInvalidInput)
		}
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		rows   []Row
		failed []RowError
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		line, _ := cr.FieldPos(0)
		get := func(col string) string { return record[index[col]] }

		in, rowErr := parseRow(get)
		if rowErr != nil {
			rowErr.Line = line
			failed = append(failed, *rowErr)
			continue
		}
		rows = append(rows, Row{Line: line, Input: in})
	}

	return rows, failed, nil
}

func columnIndex(header []string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}

	index := make(map[string]int, len(Columns))
	var missing []string
	for _, col := range Columns {
		i, ok := byName[strings.ToLower(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		index[col] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: CSV header is missing %s", common.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return index, nil
}

// rowParser stops at the first failing field.
type rowParser struct {
	get func(string) string
	err *RowError
}

func (p *rowParser) fail(field string, err error) {
	if p.err == nil {
		p.err = &RowError{Field: field, Err: err}
	}
}

func field[T any](p *rowParser, col string, parse func(string) (T, error)) T {
	var zero T
	if p.err != nil {
		return zero
	}
	v, err := parse(p.get(col))
	if err != nil {
		p.fail(col, err)
		return zero
	}
	return v
}

func parseTemperature(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseRow(get func(string) string) (model.AnalysisInput, *RowError) {
	p := &rowParser{get: get}
	in := model.AnalysisInput{
		Seed: model.SeedInputs{
			HeadShape:   field(p, "headShape", model.ParseHeadShape),
			Agility:     field(p, "agility", model.ParseAgility),
			SkinColor:   field(p, "skinColor", model.ParseSkinColor),
			Defect:      field(p, "defect", model.ParseDefect),
			CFHeadShape: field(p, "cfHead", model.ParseConfidence),
			CFAgility:   field(p, "cfAgility", model.ParseConfidence),
			CFSkinColor: field(p, "cfSkin", model.ParseConfidence),
			CFDefect:    field(p, "cfDefect", model.ParseConfidence),
		},
		Pond: model.PondInputs{
			WaterPH:     field(p, "ph", model.ParseWaterPH),
			Temperature: field(p, "temperature", parseTemperature),
		},
		Feed: field(p, "feedType", model.ParseFeedType),
	}
	return in, p.err
}
