// internal/models/program.go
package models

import "pathfinder-workers/internal/recommendation"

// Program is a row of the programs table.
type Program struct {
	ID          int     `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	ReqQuant    float64 `json:"reqQuant" db:"req_quant"`
	ReqVerbal   float64 `json:"reqVerbal" db:"req_verbal"`
	ReqLogical  float64 `json:"reqLogical" db:"req_logical"`
}

func (p Program) Definition() recommendation.ProgramDefinition {
	return recommendation.ProgramDefinition{
		Name:        p.Name,
		Description: p.Description,
		ReqQuant:    p.ReqQuant,
		ReqVerbal:   p.ReqVerbal,
		ReqLogical:  p.ReqLogical,
	}
}

// TestScore is a row of the test_scores table.
type TestScore struct {
	TestID       string `json:"testId" db:"test_id"`
	Quantitative int    `json:"quantitative" db:"quantitative"`
	Verbal       int    `json:"verbal" db:"verbal"`
	Logical      int    `json:"logical" db:"logical"`
}

func (s TestScore) Aptitude() recommendation.AptitudeScore {
	return recommendation.AptitudeScore{Quant: s.Quantitative, Verbal: s.Verbal, Logical: s.Logical}
}
