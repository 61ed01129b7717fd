package models

import (
	"encoding/json"
	"fmt"
	"math"

	"gorm.io/gorm"
)

// RoutineProgress holds one completion matrix per (user, routine) pair. The
// composite unique index makes a concurrent double join lose at the database
// instead of producing two records.
type RoutineProgress struct {
	gorm.Model
	UserID    uint   `gorm:"index:idx_progress_user_routine,unique;not null" json:"userId"`
	RoutineID uint   `gorm:"index:idx_progress_user_routine,unique;not null" json:"routineId"`
	Data      string `gorm:"not null" json:"-"` // JSON-encoded Matrix
}

// Matrix is the per-user completion grid: one row per week, seven booleans
// per row. Row count always tracks the routine's week count.
type Matrix [][]bool

func NewMatrix(weeks int) Matrix {
	m := make(Matrix, weeks)
	for i := range m {
		m[i] = make([]bool, DaysPerWeek)
	}
	return m
}

func (p *RoutineProgress) Matrix() (Matrix, error) {
	if p.Data == "" {
		return Matrix{}, nil
	}
	var m Matrix
	if err := json.Unmarshal([]byte(p.Data), &m); err != nil {
		return nil, &PersistenceError{Op: "decode progress matrix", Err: err}
	}
	return m, nil
}

func (p *RoutineProgress) SetMatrix(m Matrix) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return &PersistenceError{Op: "encode progress matrix", Err: err}
	}
	p.Data = string(raw)
	return nil
}

// AppendWeek returns the matrix with a fresh all-false row at the end,
// mirroring a week appended to the routine.
func (m Matrix) AppendWeek() Matrix {
	return append(m, make([]bool, DaysPerWeek))
}

// RemoveWeek splices out the row at weekIndex (0-based); later rows shift
// down in lockstep with the routine's renumbered weeks.
func (m Matrix) RemoveWeek(weekIndex int) (Matrix, error) {
	if weekIndex < 0 || weekIndex >= len(m) {
		return nil, NewValidationError(fmt.Sprintf("week index %d is out of range", weekIndex))
	}
	out := make(Matrix, 0, len(m)-1)
	out = append(out, m[:weekIndex]...)
	out = append(out, m[weekIndex+1:]...)
	return out, nil
}

// SetDay writes a single completion cell. weekNumber and dayNumber are
// 1-based, matching the API surface.
func (m Matrix) SetDay(weekNumber, dayNumber int, completed bool) error {
	if weekNumber < 1 || weekNumber > len(m) {
		return NewValidationError(fmt.Sprintf("week number %d is out of range", weekNumber))
	}
	if dayNumber < 1 || dayNumber > DaysPerWeek {
		return NewValidationError(fmt.Sprintf("day number must be between 1 and %d", DaysPerWeek))
	}
	m[weekNumber-1][dayNumber-1] = completed
	return nil
}

// WeekProgress is one row of a per-user report.
type WeekProgress struct {
	WeekNumber    int     `json:"weekNumber"`
	WeekTitle     string  `json:"weekTitle,omitempty"`
	CompletedDays int     `json:"completedDays"`
	TotalDays     int     `json:"totalDays"`
	Percentage    float64 `json:"percentage"`
}

type OverallProgress struct {
	CompletedDays int     `json:"completedDays"`
	TotalDays     int     `json:"totalDays"`
	Percentage    float64 `json:"percentage"`
}

// WeekStats reports completion per week.
func (m Matrix) WeekStats() []WeekProgress {
	stats := make([]WeekProgress, len(m))
	for wi, row := range m {
		completed := 0
		for _, done := range row {
			if done {
				completed++
			}
		}
		stats[wi] = WeekProgress{
			WeekNumber:    wi + 1,
			CompletedDays: completed,
			TotalDays:     len(row),
			Percentage:    Percentage(completed, len(row)),
		}
	}
	return stats
}

// Overall reports completion across the whole matrix.
func (m Matrix) Overall() OverallProgress {
	total, completed := 0, 0
	for _, row := range m {
		for _, done := range row {
			total++
			if done {
				completed++
			}
		}
	}
	return OverallProgress{
		CompletedDays: completed,
		TotalDays:     total,
		Percentage:    Percentage(completed, total),
	}
}

// Percentage is completed/total*100 rounded to two decimals, 0 when total
// is zero.
func Percentage(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}

// AveragePercentage formats the mean of per-user percentages with fixed two
// decimals; an empty set yields "0.00", never NaN.
func AveragePercentage(values []float64) string {
	if len(values) == 0 {
		return "0.00"
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return fmt.Sprintf("%.2f", sum/float64(len(values)))
}
