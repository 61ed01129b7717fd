package controllers

import (
	"errors"

	"routinepro/backend/config"
	"routinepro/backend/models"
	"routinepro/backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

type SignupInput struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	AccountType     string `json:"accountType" validate:"required,oneof=admin consumer"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// fieldErrors flattens validator output into field -> message, the same
// shape ValidationError.Fields uses for structural checks.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["body"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = fe.Field() + " is required"
		case "email":
			out[fe.Field()] = "Invalid email address"
		case "min":
			out[fe.Field()] = fe.Field() + " must be at least " + fe.Param() + " characters"
		case "eqfield":
			out[fe.Field()] = "Passwords do not match"
		case "oneof":
			out[fe.Field()] = "Invalid account type"
		default:
			out[fe.Field()] = "Invalid value"
		}
	}
	return out
}

// Signup godoc
// @Summary Register a new user
// @Description Creates an admin or consumer account
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /auth/signup [post]
func (ac *AuthController) Signup(c *fiber.Ctx) error {
	var input SignupInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := validate.Struct(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, errors.New("signup payload is invalid"), fieldErrors(err))
	}

	var existing models.User
	err := ac.DB.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		// Duplicate accounts answer 400 on this endpoint.
		return utils.BadRequest(c, "User already exists. Please sign in to continue.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not query database")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		AccountType:  input.AccountType,
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.BadRequest(c, "User already exists. Please sign in to continue.")
		}
		return utils.InternalServerError(c, "Could not create user")
	}

	return c.JSON(utils.SuccessResponse{
		Success: true,
		Message: "User registered successfully",
	})
}

// Login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := validate.Struct(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, errors.New("login payload is invalid"), fieldErrors(err))
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "User is not registered, please sign up to continue")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Password is incorrect")
	}

	token, err := utils.GenerateJWTToken(&user, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"image":       user.Image,
			"accountType": user.AccountType,
		},
	})
}

// GetUserDetails returns the authenticated user plus the id/title list of
// their routines: created ones for admins, joined ones for consumers.
func (ac *AuthController) GetUserDetails(c *fiber.Ctx) error {
	claims, err := utils.ExtractTokenClaims(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := ac.DB.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var routines []models.Routine
	if user.AccountType == models.RoleAdmin {
		err = ac.DB.Where("creator_id = ?", user.ID).Find(&routines).Error
	} else {
		err = ac.DB.Model(&user).Association("Routines").Find(&routines)
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	routineList := make([]fiber.Map, 0, len(routines))
	for _, r := range routines {
		routineList = append(routineList, fiber.Map{
			"routineId":    r.ID,
			"routineTitle": r.Title,
		})
	}

	return c.JSON(fiber.Map{
		"message": "User details fetched successfully",
		"user": fiber.Map{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"image":       user.Image,
			"accountType": user.AccountType,
			"routines":    routineList,
		},
	})
}
