package controllers

import (
	"pathtracker/backend/middleware"
	"pathtracker/backend/services"
	"pathtracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AnalyticsController struct {
	Users     *services.UserService
	Analytics *services.AnalyticsService
}

func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	return &AnalyticsController{
		Users:     services.NewUserService(db),
		Analytics: services.NewAnalyticsService(db),
	}
}

// GetAnalysis godoc
// @Summary Analyze the user's learning paths
// @Description Recounts completion over the full tree and ranks the best
// and worst paths.
// @Tags analytics
// @Produce json
// @Success 200 {object} models.LearningAnalytics
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /learning-paths/analysis [get]
func (ac *AnalyticsController) GetAnalysis(c *fiber.Ctx) error {
	user, err := ac.Users.Ensure(middleware.IdentityFromCtx(c))
	if err != nil {
		return utils.ServiceError(c, err)
	}

	paths, err := ac.Analytics.LoadTree(user)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, ac.Analytics.Summarize(paths))
}
