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

type ProgressController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg}
}

// JoinRoutine attaches the authenticated consumer to a routine and creates
// their all-false progress matrix. Membership insert and progress creation
// are one transaction; the unique (user, routine) index catches the race
// where two joins for the same pair slip past the membership check.
func (pc *ProgressController) JoinRoutine(c *fiber.Ctx) error {
	claims, err := utils.ExtractTokenClaims(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	routineID, err := parseRoutineID(c)
	if err != nil {
		return utils.FromError(c, err)
	}

	var progress models.RoutineProgress
	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		routine, err := loadRoutine(tx, routineID)
		if err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, claims.UserID).Error; err != nil {
			return &models.NotFoundError{Resource: "User"}
		}

		var count int64
		if err := tx.Table("routine_users").
			Where("routine_id = ? AND user_id = ?", routine.ID, user.ID).
			Count(&count).Error; err != nil {
			return &models.PersistenceError{Op: "check membership", Err: err}
		}
		if count > 0 {
			return &models.ConflictError{Message: "User is already part of the routine"}
		}

		if err := tx.Model(routine).Association("Users").Append(&user); err != nil {
			return &models.PersistenceError{Op: "add membership", Err: err}
		}

		progress = models.RoutineProgress{
			UserID:    user.ID,
			RoutineID: routine.ID,
		}
		if err := progress.SetMatrix(models.NewMatrix(len(routine.Weeks))); err != nil {
			return err
		}
		if err := tx.Create(&progress).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &models.ConflictError{Message: "User is already part of the routine"}
			}
			return &models.PersistenceError{Op: "create progress record", Err: err}
		}
		return nil
	})
	if err != nil {
		return utils.FromError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "User successfully joined the routine",
		"progress": progress,
	})
}

// MarkDay godoc
// @Summary Toggle day completion
// @Description Marks a day of a joined routine completed or incomplete
// @Tags user
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /user/routine/{routineId}/{weekNumber}/{dayNumber}/{status} [post]
func (pc *ProgressController) MarkDay(c *fiber.Ctx) error {
	claims, err := utils.ExtractTokenClaims(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	routineID, err := parseRoutineID(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	weekNumber, err := strconv.Atoi(c.Params("weekNumber"))
	if err != nil {
		return utils.BadRequest(c, "Invalid week number")
	}
	dayNumber, err := strconv.Atoi(c.Params("dayNumber"))
	if err != nil {
		return utils.BadRequest(c, "Invalid day number")
	}

	status := c.Params("status")
	if status != "true" && status != "false" {
		return utils.BadRequest(c, "Status should be either 'true' for completed or 'false' for incomplete")
	}
	completed := status == "true"

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		var routine models.Routine
		if err := tx.First(&routine, routineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Resource: "Routine"}
			}
			return &models.PersistenceError{Op: "load routine", Err: err}
		}

		if weekNumber < 1 || weekNumber > routine.Duration {
			return models.NewValidationError(fmt.Sprintf("Week number must be between 1 and %d", routine.Duration))
		}
		if dayNumber < 1 || dayNumber > models.DaysPerWeek {
			return models.NewValidationError("Day number must be between 1 and 7")
		}

		var progress models.RoutineProgress
		err := tx.Where("routine_id = ? AND user_id = ?", routineID, claims.UserID).First(&progress).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.ForbiddenError{Message: "User is not part of the routine"}
			}
			return &models.PersistenceError{Op: "load progress record", Err: err}
		}

		matrix, err := progress.Matrix()
		if err != nil {
			return err
		}
		if err := matrix.SetDay(weekNumber, dayNumber, completed); err != nil {
			return err
		}
		if err := progress.SetMatrix(matrix); err != nil {
			return err
		}
		if err := tx.Save(&progress).Error; err != nil {
			return &models.PersistenceError{Op: "save progress record", Err: err}
		}
		return nil
	})
	if err != nil {
		return utils.FromError(c, err)
	}

	state := "incomplete"
	if completed {
		state = "completed"
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Day %d in week %d marked as %s", dayNumber, weekNumber, state),
	})
}

// GetRoutineProgress reports the authenticated user's per-week and overall
// completion for one routine.
func (pc *ProgressController) GetRoutineProgress(c *fiber.Ctx) error {
	claims, err := utils.ExtractTokenClaims(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	routineID, err := parseRoutineID(c)
	if err != nil {
		return utils.FromError(c, err)
	}

	var progress models.RoutineProgress
	err = pc.DB.Where("routine_id = ? AND user_id = ?", routineID, claims.UserID).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Routine progress not found for the user")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	routine, err := loadRoutine(pc.DB, routineID)
	if err != nil {
		return utils.FromError(c, err)
	}

	matrix, err := progress.Matrix()
	if err != nil {
		return utils.FromError(c, err)
	}

	weekProgress := matrix.WeekStats()
	for wi := range weekProgress {
		if wi < len(routine.Weeks) {
			weekProgress[wi].WeekTitle = routine.Weeks[wi].Title
		}
	}

	return c.JSON(fiber.Map{
		"message":         "Routine progress fetched successfully",
		"routineId":       routine.ID,
		"userId":          claims.UserID,
		"weekProgress":    weekProgress,
		"overallProgress": matrix.Overall(),
	})
}

// GetAllRoutineProgress reports overall completion for every routine the
// user joined.
func (pc *ProgressController) GetAllRoutineProgress(c *fiber.Ctx) error {
	claims, err := utils.ExtractTokenClaims(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := pc.DB.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var routines []models.Routine
	if err := pc.DB.Model(&user).Association("Routines").Find(&routines); err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	routinesProgress := make([]fiber.Map, 0, len(routines))
	for _, routine := range routines {
		var progress models.RoutineProgress
		err := pc.DB.Where("routine_id = ? AND user_id = ?", routine.ID, user.ID).First(&progress).Error
		if err != nil {
			routinesProgress = append(routinesProgress, fiber.Map{
				"routineId":       routine.ID,
				"title":           routine.Title,
				"description":     routine.Description,
				"overallProgress": models.OverallProgress{},
			})
			continue
		}

		matrix, err := progress.Matrix()
		if err != nil {
			return utils.FromError(c, err)
		}

		routinesProgress = append(routinesProgress, fiber.Map{
			"routineId":       routine.ID,
			"title":           routine.Title,
			"description":     routine.Description,
			"image":           routine.Image,
			"overallProgress": matrix.Overall(),
		})
	}

	return c.JSON(fiber.Map{
		"message":          "User's routine progress fetched successfully",
		"routinesProgress": routinesProgress,
	})
}

// GetAllUserProgresses is the admin view of everyone's progress in one
// routine. Only the creator may read it.
func (pc *ProgressController) GetAllUserProgresses(c *fiber.Ctx) error {
	claims, err := utils.ExtractTokenClaims(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	routineID, err := parseRoutineID(c)
	if err != nil {
		return utils.FromError(c, err)
	}

	var routine models.Routine
	err = pc.DB.Where("id = ? AND creator_id = ?", routineID, claims.UserID).First(&routine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Routine not found or you are not the creator")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var progresses []models.RoutineProgress
	if err := pc.DB.Where("routine_id = ?", routineID).Find(&progresses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	usersProgress := make([]fiber.Map, 0, len(progresses))
	for i := range progresses {
		var user models.User
		if err := pc.DB.First(&user, progresses[i].UserID).Error; err != nil {
			continue
		}

		matrix, err := progresses[i].Matrix()
		if err != nil {
			return utils.FromError(c, err)
		}

		usersProgress = append(usersProgress, fiber.Map{
			"userId":          user.ID,
			"userName":        user.Name,
			"userEmail":       user.Email,
			"weeklyProgress":  matrix.WeekStats(),
			"overallProgress": matrix.Overall(),
		})
	}

	return c.JSON(fiber.Map{
		"routineId":          routine.ID,
		"routineTitle":       routine.Title,
		"routineDescription": routine.Description,
		"routineImage":       routine.Image,
		"routineDuration":    routine.Duration,
		"usersProgress":      usersProgress,
	})
}

// GetAdminRoutineProgressSummary aggregates, per routine the admin created,
// the joined-user count and the mean of per-user overall percentages. The
// average is a fixed two-decimal string, "0.00" when nobody joined.
func (pc *ProgressController) GetAdminRoutineProgressSummary(c *fiber.Ctx) error {
	claims, err := utils.ExtractTokenClaims(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var routines []models.Routine
	if err := pc.DB.Where("creator_id = ?", claims.UserID).Find(&routines).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	summary := make([]fiber.Map, 0, len(routines))
	for _, routine := range routines {
		var progresses []models.RoutineProgress
		if err := pc.DB.Where("routine_id = ?", routine.ID).Find(&progresses).Error; err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}

		percentages := make([]float64, 0, len(progresses))
		for i := range progresses {
			matrix, err := progresses[i].Matrix()
			if err != nil {
				return utils.FromError(c, err)
			}
			percentages = append(percentages, matrix.Overall().Percentage)
		}

		summary = append(summary, fiber.Map{
			"routineId":                 routine.ID,
			"routineTitle":              routine.Title,
			"routineDescription":        routine.Description,
			"routineImage":              routine.Image,
			"totalUsers":                len(progresses),
			"averageProgressPercentage": models.AveragePercentage(percentages),
		})
	}

	return c.JSON(fiber.Map{
		"totalRoutines":          len(routines),
		"routineProgressSummary": summary,
	})
}
