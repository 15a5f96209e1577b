// internal/models/saved_result.go
package models

import (
	"fmt"
	"strconv"
	"time"

	"pathfinder-workers/internal/recommendation"
)

// Stored result field names. Per-recommendation fields carry a zero-based
// index suffix, e.g. rec_prog_0.
const (
	FieldCount   = "rec_count"
	FieldRunID   = "run_id"
	FieldTestID  = "test_id"
	FieldSavedAt = "saved_at"

	fieldProgram = "rec_prog_"
	fieldPercent = "rec_pct_"
	fieldWhy     = "rec_why_"
	fieldHistory = "rec_hist_"
	fieldCareers = "rec_car_"
	fieldInsight = "rec_insight_"
	fieldHardest = "rec_hardest_"
	fieldQuant   = "rec_quant_"
	fieldVerbal  = "rec_verbal_"
	fieldLogical = "rec_logical_"
	fieldTarget  = "rec_target_"
	fieldSuccess = "rec_success_"
)

// Defaults applied when an older result lacks chart fields.
const (
	defaultRadar   = 70
	defaultTarget  = 85
	defaultSuccess = 92
)

// SavedResult is the persisted top of one recommendation run.
type SavedResult struct {
	RunID           string                          `json:"runId"`
	StudentID       string                          `json:"studentId"`
	TestID          string                          `json:"testId"`
	SavedAt         time.Time                       `json:"savedAt"`
	Recommendations []recommendation.Recommendation `json:"recommendations"`
}

// Fields flattens the result into hash fields, keeping at most limit entries.
func (s *SavedResult) Fields(limit int) map[string]interface{} {
	count := len(s.Recommendations)
	if count > limit {
		count = limit
	}

	fields := map[string]interface{}{
		FieldCount:   count,
		FieldRunID:   s.RunID,
		FieldTestID:  s.TestID,
		FieldSavedAt: s.SavedAt.UTC().Format(time.RFC3339),
	}

	for i := 0; i < count; i++ {
		r := s.Recommendations[i]
		idx := strconv.Itoa(i)
		fields[fieldProgram+idx] = r.Program
		fields[fieldPercent+idx] = r.MatchPercent
		fields[fieldWhy+idx] = r.StoryWhy
		fields[fieldHistory+idx] = r.StoryHistory
		fields[fieldCareers+idx] = r.StoryCareers
		fields[fieldInsight+idx] = r.ItemInsight
		fields[fieldHardest+idx] = r.HardestLogical
		fields[fieldQuant+idx] = r.RadarValues[0]
		fields[fieldVerbal+idx] = r.RadarValues[1]
		fields[fieldLogical+idx] = r.RadarValues[2]
		fields[fieldTarget+idx] = r.TargetScore
		fields[fieldSuccess+idx] = r.SuccessRate
	}
	return fields
}

// DecodeSavedResult rebuilds a SavedResult from hash fields. An empty map or
// a zero count decodes to a result with no recommendations.
func DecodeSavedResult(studentID string, fields map[string]string) (*SavedResult, error) {
	out := &SavedResult{
		StudentID:       studentID,
		RunID:           fields[FieldRunID],
		TestID:          fields[FieldTestID],
		Recommendations: []recommendation.Recommendation{},
	}

	if raw := fields[FieldSavedAt]; raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", FieldSavedAt, raw, err)
		}
		out.SavedAt = ts
	}

	count, err := intField(fields, FieldCount, 0)
	if err != nil {
		return nil, err
	}

	for i := 0; i < count; i++ {
		idx := strconv.Itoa(i)
		r := recommendation.Recommendation{
			Program:        fields[fieldProgram+idx],
			StoryWhy:       fields[fieldWhy+idx],
			StoryHistory:   fields[fieldHistory+idx],
			StoryCareers:   fields[fieldCareers+idx],
			ItemInsight:    fields[fieldInsight+idx],
			HardestLogical: fields[fieldHardest+idx],
		}

		ints := []struct {
			key  string
			def  int
			dest *int
		}{
			{fieldPercent, 0, &r.MatchPercent},
			{fieldQuant, defaultRadar, &r.RadarValues[0]},
			{fieldVerbal, defaultRadar, &r.RadarValues[1]},
			{fieldLogical, defaultRadar, &r.RadarValues[2]},
			{fieldTarget, defaultTarget, &r.TargetScore},
			{fieldSuccess, defaultSuccess, &r.SuccessRate},
		}
		for _, f := range ints {
			v, err := intField(fields, f.key+idx, f.def)
			if err != nil {
				return nil, err
			}
			*f.dest = v
		}

		out.Recommendations = append(out.Recommendations, r)
	}
	return out, nil
}

func intField(fields map[string]string, key string, def int) (int, error) {
	raw, ok := fields[key]
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
