package models

import (
	"fmt"

	"gorm.io/gorm"
)

// DaysPerWeek is fixed by the product: every routine week is a calendar week.
const DaysPerWeek = 7

type Routine struct {
	gorm.Model
	Title       string `gorm:"index;not null" json:"title"`
	Description string `gorm:"not null" json:"description"`
	Image       string `json:"image"`
	CreatorID   uint   `gorm:"index;not null" json:"creator"`
	Duration    int    `gorm:"not null" json:"duration"` // weeks; always == len(Weeks)

	Weeks []Week  `gorm:"foreignKey:RoutineID" json:"weeks,omitempty"`
	Users []*User `gorm:"many2many:routine_users" json:"-"`
}

type Week struct {
	gorm.Model
	RoutineID   uint   `gorm:"index" json:"-"`
	WeekNumber  int    `gorm:"index" json:"weekNumber"` // 1-based
	Title       string `json:"weekTitle"`
	Description string `json:"weekDescription"`
	Image       string `json:"weekImage"`

	Days []Day `gorm:"foreignKey:WeekID" json:"days,omitempty"`
}

type Day struct {
	gorm.Model
	WeekID      uint   `gorm:"index" json:"-"`
	DayNumber   int    `json:"dayNumber"` // 1..7
	Title       string `json:"dayTitle"`
	Description string `json:"dayDescription"`
	Task        Task   `gorm:"embedded;embeddedPrefix:task_" json:"task"`
}

type Task struct {
	Name         string `json:"taskName"`
	Description  string `json:"taskDescription"`
	Duration     string `json:"taskDuration"`
	ProductName  string `json:"productName"`
	ProductLink  string `json:"productLink"`
	ProductImage string `json:"productImage"`
}

// ValidateStructure checks the creation invariants: the week count matches
// the declared duration, every week carries a title and description plus
// exactly seven days, and every day's task has a name, description and
// duration. Field paths in the returned error point at the offending input.
func (r *Routine) ValidateStructure() error {
	verr := NewValidationError("routine structure is invalid")

	if r.Title == "" {
		verr.AddField("title", "Title is required")
	}
	if r.Description == "" {
		verr.AddField("description", "Description is required")
	}
	if r.Duration < 1 {
		verr.AddField("duration", "Duration must be at least 1 week")
	}
	if len(r.Weeks) != r.Duration {
		verr.AddField("weeks", fmt.Sprintf("Number of weeks (%d) must equal the duration defined (%d)", len(r.Weeks), r.Duration))
	}

	for wi := range r.Weeks {
		week := &r.Weeks[wi]
		prefix := fmt.Sprintf("weeks[%d]", wi)

		if week.Title == "" {
			verr.AddField(prefix+".weekTitle", "Each week must have a non-empty title")
		}
		if week.Description == "" {
			verr.AddField(prefix+".weekDescription", "Each week must have a non-empty description")
		}
		if len(week.Days) != DaysPerWeek {
			verr.AddField(prefix+".days", fmt.Sprintf("Week %d must have exactly %d days", wi+1, DaysPerWeek))
			continue
		}

		for di := range week.Days {
			day := &week.Days[di]
			dayPrefix := fmt.Sprintf("%s.days[%d]", prefix, di)

			if day.Title == "" {
				verr.AddField(dayPrefix+".dayTitle", fmt.Sprintf("Day %d in week %d must have a non-empty title", di+1, wi+1))
			}
			if day.Task.Name == "" {
				verr.AddField(dayPrefix+".task.taskName", "Task name is required")
			}
			if day.Task.Description == "" {
				verr.AddField(dayPrefix+".task.taskDescription", "Task description is required")
			}
			if day.Task.Duration == "" {
				verr.AddField(dayPrefix+".task.taskDuration", "Task duration is required")
			}
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// Normalize assigns sequential week and day numbers so the stored order
// never depends on what the client sent.
func (r *Routine) Normalize() {
	for wi := range r.Weeks {
		r.Weeks[wi].WeekNumber = wi + 1
		for di := range r.Weeks[wi].Days {
			r.Weeks[wi].Days[di].DayNumber = di + 1
		}
	}
}

// ValidateWeek checks a single week payload for addWeek.
func ValidateWeek(week *Week) error {
	verr := NewValidationError("week payload is invalid")

	if week.Title == "" {
		verr.AddField("weekTitle", "Week title is required")
	}
	if week.Description == "" {
		verr.AddField("weekDescription", "Week description is required")
	}
	if len(week.Days) != DaysPerWeek {
		verr.AddField("days", fmt.Sprintf("A week must have exactly %d days", DaysPerWeek))
	} else {
		for di := range week.Days {
			day := &week.Days[di]
			if day.Title == "" {
				verr.AddField(fmt.Sprintf("days[%d].dayTitle", di), "Day title is required")
			}
			if day.Task.Name == "" || day.Task.Description == "" || day.Task.Duration == "" {
				verr.AddField(fmt.Sprintf("days[%d].task", di), "Task must have a non-empty name, description, and duration")
			}
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
