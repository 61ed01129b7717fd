package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRoutine(weeks int) *Routine {
	r := &Routine{
		Title:       "Morning Routine",
		Description: "A test routine",
		Duration:    weeks,
	}
	for w := 0; w < weeks; w++ {
		week := Week{
			Title:       fmt.Sprintf("Week %d", w+1),
			Description: "Week description",
		}
		for d := 0; d < DaysPerWeek; d++ {
			week.Days = append(week.Days, Day{
				Title: fmt.Sprintf("Day %d", d+1),
				Task: Task{
					Name:        "Stretch",
					Description: "Full body stretch",
					Duration:    "15 min",
				},
			})
		}
		r.Weeks = append(r.Weeks, week)
	}
	return r
}

func TestValidateStructureOK(t *testing.T) {
	assert.NoError(t, validRoutine(2).ValidateStructure())
}

func TestValidateStructureDurationMismatch(t *testing.T) {
	r := validRoutine(2)
	r.Duration = 3

	err := r.ValidateStructure()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "weeks")
}

func TestValidateStructureMissingHeader(t *testing.T) {
	r := validRoutine(1)
	r.Title = ""
	r.Description = ""

	var verr *ValidationError
	require.ErrorAs(t, r.ValidateStructure(), &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "description")
}

func TestValidateStructureWeekFields(t *testing.T) {
	r := validRoutine(2)
	r.Weeks[1].Title = ""
	r.Weeks[1].Description = ""

	var verr *ValidationError
	require.ErrorAs(t, r.ValidateStructure(), &verr)
	assert.Contains(t, verr.Fields, "weeks[1].weekTitle")
	assert.Contains(t, verr.Fields, "weeks[1].weekDescription")
}

func TestValidateStructureWrongDayCount(t *testing.T) {
	r := validRoutine(1)
	r.Weeks[0].Days = r.Weeks[0].Days[:5]

	var verr *ValidationError
	require.ErrorAs(t, r.ValidateStructure(), &verr)
	assert.Contains(t, verr.Fields, "weeks[0].days")
}

func TestValidateStructureTaskFields(t *testing.T) {
	r := validRoutine(1)
	r.Weeks[0].Days[3].Task.Name = ""
	r.Weeks[0].Days[4].Task.Duration = ""

	var verr *ValidationError
	require.ErrorAs(t, r.ValidateStructure(), &verr)
	assert.Contains(t, verr.Fields, "weeks[0].days[3].task.taskName")
	assert.Contains(t, verr.Fields, "weeks[0].days[4].task.taskDuration")
}

func TestNormalizeNumbering(t *testing.T) {
	r := validRoutine(2)
	r.Normalize()

	for wi, week := range r.Weeks {
		assert.Equal(t, wi+1, week.WeekNumber)
		for di, day := range week.Days {
			assert.Equal(t, di+1, day.DayNumber)
		}
	}
}

func TestValidateWeek(t *testing.T) {
	week := validRoutine(1).Weeks[0]
	assert.NoError(t, ValidateWeek(&week))

	week.Days = week.Days[:6]
	var verr *ValidationError
	require.ErrorAs(t, ValidateWeek(&week), &verr)
	assert.Contains(t, verr.Fields, "days")
}
