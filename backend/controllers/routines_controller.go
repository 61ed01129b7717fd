package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"routinepro/backend/config"
	"routinepro/backend/models"
	"routinepro/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RoutinesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewRoutinesController(db *gorm.DB, cfg *config.Config) *RoutinesController {
	return &RoutinesController{DB: db, Cfg: cfg}
}

func parseRoutineID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.Atoi(c.Params("routineId"))
	if err != nil || id < 1 {
		return 0, models.NewValidationError("Invalid routine ID")
	}
	return uint(id), nil
}

// loadRoutine fetches a routine with its weeks and days in display order.
func loadRoutine(db *gorm.DB, routineID uint) (*models.Routine, error) {
	var routine models.Routine
	err := db.
		Preload("Weeks", func(db *gorm.DB) *gorm.DB { return db.Order("week_number") }).
		Preload("Weeks.Days", func(db *gorm.DB) *gorm.DB { return db.Order("day_number") }).
		First(&routine, routineID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "Routine"}
		}
		return nil, &models.PersistenceError{Op: "load routine", Err: err}
	}
	return &routine, nil
}

// CreateRoutine godoc
// @Summary Create a routine
// @Description Creates a routine with its full week/day/task structure
// @Tags admin
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Router /admin/createRoutine [post]
func (rc *RoutinesController) CreateRoutine(c *fiber.Ctx) error {
	claims, err := utils.ExtractTokenClaims(c, rc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var routine models.Routine
	if err := c.BodyParser(&routine); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	routine.ID = 0
	routine.CreatorID = claims.UserID

	if err := routine.ValidateStructure(); err != nil {
		return utils.FromError(c, err)
	}
	routine.Normalize()

	if err := rc.DB.Create(&routine).Error; err != nil {
		return utils.InternalServerError(c, "Could not create routine")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Routine created successfully",
		"routine": routine,
	})
}

// UpdateRoutine replaces the routine's header fields only; weeks are left
// untouched.
func (rc *RoutinesController) UpdateRoutine(c *fiber.Ctx) error {
	routineID, err := parseRoutineID(c)
	if err != nil {
		return utils.FromError(c, err)
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Image       string `json:"image"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title == "" || input.Description == "" {
		return utils.BadRequest(c, "Both title and description are required")
	}

	var routine models.Routine
	if err := rc.DB.First(&routine, routineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Routine not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	routine.Title = input.Title
	routine.Description = input.Description
	routine.Image = input.Image

	if err := rc.DB.Save(&routine).Error; err != nil {
		return utils.InternalServerError(c, "Could not update routine")
	}

	return c.JSON(fiber.Map{
		"message": "Routine updated successfully",
		"routine": routine,
	})
}

// DeleteRoutine removes the routine, its weeks and days, every progress
// record tied to it, and all membership rows, in one transaction.
func (rc *RoutinesController) DeleteRoutine(c *fiber.Ctx) error {
	routineID, err := parseRoutineID(c)
	if err != nil {
		return utils.FromError(c, err)
	}

	err = rc.DB.Transaction(func(tx *gorm.DB) error {
		var routine models.Routine
		if err := tx.First(&routine, routineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Resource: "Routine"}
			}
			return &models.PersistenceError{Op: "load routine", Err: err}
		}

		if err := tx.Where("routine_id = ?", routineID).Delete(&models.RoutineProgress{}).Error; err != nil {
			return &models.PersistenceError{Op: "delete progress records", Err: err}
		}

		if err := tx.Model(&routine).Association("Users").Clear(); err != nil {
			return &models.PersistenceError{Op: "clear routine memberships", Err: err}
		}

		weekIDs := tx.Model(&models.Week{}).Select("id").Where("routine_id = ?", routineID)
		if err := tx.Where("week_id IN (?)", weekIDs).Delete(&models.Day{}).Error; err != nil {
			return &models.PersistenceError{Op: "delete days", Err: err}
		}
		if err := tx.Where("routine_id = ?", routineID).Delete(&models.Week{}).Error; err != nil {
			return &models.PersistenceError{Op: "delete weeks", Err: err}
		}

		if err := tx.Delete(&routine).Error; err != nil {
			return &models.PersistenceError{Op: "delete routine", Err: err}
		}
		return nil
	})
	if err != nil {
		return utils.FromError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Routine and associated progress deleted successfully",
	})
}

// AddWeek appends a week to the routine, bumps the duration, and grows every
// progress matrix by one all-false row. The three updates are one logical
// unit; any failure rolls the whole thing back.
func (rc *RoutinesController) AddWeek(c *fiber.Ctx) error {
	routineID, err := parseRoutineID(c)
	if err != nil {
		return utils.FromError(c, err)
	}

	var week models.Week
	if err := c.BodyParser(&week); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := models.ValidateWeek(&week); err != nil {
		return utils.FromError(c, err)
	}

	err = rc.DB.Transaction(func(tx *gorm.DB) error {
		var routine models.Routine
		if err := tx.First(&routine, routineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Resource: "Routine"}
			}
			return &models.PersistenceError{Op: "load routine", Err: err}
		}

		week.ID = 0
		week.RoutineID = routine.ID
		week.WeekNumber = routine.Duration + 1
		for di := range week.Days {
			week.Days[di].ID = 0
			week.Days[di].DayNumber = di + 1
		}

		if err := tx.Create(&week).Error; err != nil {
			return &models.PersistenceError{Op: "create week", Err: err}
		}

		// Conditional bump keeps duration == week count under concurrent
		// structure edits.
		res := tx.Model(&models.Routine{}).
			Where("id = ? AND duration = ?", routine.ID, routine.Duration).
			Update("duration", routine.Duration+1)
		if res.Error != nil {
			return &models.PersistenceError{Op: "update duration", Err: res.Error}
		}
		if res.RowsAffected == 0 {
			return &models.ConflictError{Message: "Routine was modified concurrently, please retry"}
		}

		var progresses []models.RoutineProgress
		if err := tx.Where("routine_id = ?", routine.ID).Find(&progresses).Error; err != nil {
			return &models.PersistenceError{Op: "load progress records", Err: err}
		}
		for i := range progresses {
			matrix, err := progresses[i].Matrix()
			if err != nil {
				return err
			}
			if err := progresses[i].SetMatrix(matrix.AppendWeek()); err != nil {
				return err
			}
			if err := tx.Save(&progresses[i]).Error; err != nil {
				return &models.PersistenceError{Op: "grow progress matrix", Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return utils.FromError(c, err)
	}

	routine, err := loadRoutine(rc.DB, routineID)
	if err != nil {
		return utils.FromError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Week added successfully",
		"routine": routine,
	})
}

// DeleteWeek removes the week at the given 1-based position, renumbers the
// weeks above it, recomputes the duration, and splices the matching row out
// of every progress matrix. Week numbers shift down after a delete, so
// callers must not cache them across this call.
func (rc *RoutinesController) DeleteWeek(c *fiber.Ctx) error {
	routineID, err := parseRoutineID(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	weekNumber, err := strconv.Atoi(c.Params("weekNumber"))
	if err != nil {
		return utils.BadRequest(c, "Invalid week number")
	}

	err = rc.DB.Transaction(func(tx *gorm.DB) error {
		routine, err := loadRoutine(tx, routineID)
		if err != nil {
			return err
		}

		if weekNumber < 1 || weekNumber > len(routine.Weeks) {
			return models.NewValidationError(fmt.Sprintf("Week number must be between 1 and %d", len(routine.Weeks)))
		}

		target := routine.Weeks[weekNumber-1]
		if err := tx.Where("week_id = ?", target.ID).Delete(&models.Day{}).Error; err != nil {
			return &models.PersistenceError{Op: "delete week days", Err: err}
		}
		if err := tx.Delete(&target).Error; err != nil {
			return &models.PersistenceError{Op: "delete week", Err: err}
		}

		for _, w := range routine.Weeks[weekNumber:] {
			if err := tx.Model(&models.Week{}).Where("id = ?", w.ID).
				Update("week_number", w.WeekNumber-1).Error; err != nil {
				return &models.PersistenceError{Op: "renumber weeks", Err: err}
			}
		}

		res := tx.Model(&models.Routine{}).
			Where("id = ? AND duration = ?", routine.ID, routine.Duration).
			Update("duration", len(routine.Weeks)-1)
		if res.Error != nil {
			return &models.PersistenceError{Op: "update duration", Err: res.Error}
		}
		if res.RowsAffected == 0 {
			return &models.ConflictError{Message: "Routine was modified concurrently, please retry"}
		}

		var progresses []models.RoutineProgress
		if err := tx.Where("routine_id = ?", routine.ID).Find(&progresses).Error; err != nil {
			return &models.PersistenceError{Op: "load progress records", Err: err}
		}
		for i := range progresses {
			matrix, err := progresses[i].Matrix()
			if err != nil {
				return err
			}
			spliced, err := matrix.RemoveWeek(weekNumber - 1)
			if err != nil {
				return err
			}
			if err := progresses[i].SetMatrix(spliced); err != nil {
				return err
			}
			if err := tx.Save(&progresses[i]).Error; err != nil {
				return &models.PersistenceError{Op: "shrink progress matrix", Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return utils.FromError(c, err)
	}

	routine, err := loadRoutine(rc.DB, routineID)
	if err != nil {
		return utils.FromError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Week %d deleted successfully", weekNumber),
		"routine": routine,
	})
}

// UpdateWeek replaces a week's header fields in place.
func (rc *RoutinesController) UpdateWeek(c *fiber.Ctx) error {
	routineID, err := parseRoutineID(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	weekNumber, err := strconv.Atoi(c.Params("weekNumber"))
	if err != nil {
		return utils.BadRequest(c, "Invalid week number")
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Image       string `json:"image"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title == "" || input.Description == "" {
		return utils.BadRequest(c, "Both title and description are required")
	}

	var week models.Week
	err = rc.DB.Where("routine_id = ? AND week_number = ?", routineID, weekNumber).First(&week).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Routine not found or invalid week index")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	week.Title = input.Title
	week.Description = input.Description
	week.Image = input.Image

	if err := rc.DB.Save(&week).Error; err != nil {
		return utils.InternalServerError(c, "Could not update week")
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Week %d updated successfully", weekNumber),
		"week":    week,
	})
}

// UpdateDay replaces a day's fields and task at the given 1-based position.
func (rc *RoutinesController) UpdateDay(c *fiber.Ctx) error {
	routineID, err := parseRoutineID(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	weekNumber, err := strconv.Atoi(c.Params("weekNumber"))
	if err != nil {
		return utils.BadRequest(c, "Invalid week number")
	}
	dayNumber, err := strconv.Atoi(c.Params("dayNumber"))
	if err != nil || dayNumber < 1 || dayNumber > models.DaysPerWeek {
		return utils.BadRequest(c, "Day number must be between 1 and 7")
	}

	var input struct {
		Title       string      `json:"dayTitle"`
		Description string      `json:"dayDescription"`
		Task        models.Task `json:"task"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var week models.Week
	err = rc.DB.Where("routine_id = ? AND week_number = ?", routineID, weekNumber).First(&week).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Routine not found or invalid week/day index")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var day models.Day
	err = rc.DB.Where("week_id = ? AND day_number = ?", week.ID, dayNumber).First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Routine not found or invalid week/day index")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	day.Title = input.Title
	day.Description = input.Description
	day.Task = input.Task

	if err := rc.DB.Save(&day).Error; err != nil {
		return utils.InternalServerError(c, "Could not update day")
	}

	return c.JSON(fiber.Map{
		"weekNumber": weekNumber,
		"dayNumber":  dayNumber,
		"updatedDay": day,
		"routineId":  routineID,
	})
}

// GetRoutine is a public read; the creator's name comes along for display.
func (rc *RoutinesController) GetRoutine(c *fiber.Ctx) error {
	routineID, err := parseRoutineID(c)
	if err != nil {
		return utils.FromError(c, err)
	}

	routine, err := loadRoutine(rc.DB, routineID)
	if err != nil {
		return utils.FromError(c, err)
	}

	var creator models.User
	creatorName := ""
	if err := rc.DB.First(&creator, routine.CreatorID).Error; err == nil {
		creatorName = creator.Name
	}

	return c.JSON(fiber.Map{
		"message":     "Routine retrieved successfully",
		"routine":     routine,
		"creatorName": creatorName,
	})
}

// GetAllRoutines is a public read of every routine header.
func (rc *RoutinesController) GetAllRoutines(c *fiber.Ctx) error {
	var routines []models.Routine
	if err := rc.DB.Find(&routines).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{
		"message":  "Routines retrieved successfully",
		"routines": routines,
	})
}
