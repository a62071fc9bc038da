package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"skillmap-backend/config"
	"skillmap-backend/models"
	"skillmap-backend/services"
	"skillmap-backend/utils"
)

type PathController struct {
	Tracker   *services.ProgressTracker
	Generator *services.PathGenerator
	Cfg       *config.Config
}

func NewPathController(tracker *services.ProgressTracker, generator *services.PathGenerator, cfg *config.Config) *PathController {
	return &PathController{Tracker: tracker, Generator: generator, Cfg: cfg}
}

// GeneratePath godoc
// @Summary Generate a learning path
// @Description Builds an AI-generated learning path for a topic; the path is returned, not attached
// @Tags paths
// @Accept json
// @Produce json
// @Success 200 {object} models.LearningPath
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /generate-path [post]
func (pc *PathController) GeneratePath(c *fiber.Ctx) error {
	if _, err := utils.ExtractClaimsFromToken(c, pc.Cfg); err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var req models.GeneratePathRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if req.Topic == "" {
		return utils.BadRequest(c, "Topic is required")
	}

	path, err := pc.Generator.Generate(req)
	if err != nil {
		return utils.InternalServerError(c, "Failed to generate learning path. Please try again.")
	}

	return c.JSON(path)
}

// GetProgress godoc
// @Summary Get user progress
// @Description Returns the full progress record, or the empty default shape for a fresh user
// @Tags progress
// @Produce json
// @Success 200 {object} models.UserProgress
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/progress [get]
func (pc *PathController) GetProgress(c *fiber.Ctx) error {
	claims, err := utils.ExtractClaimsFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	progress, err := pc.Tracker.GetProgress(claims.ID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch progress")
	}

	return c.JSON(progress)
}

// AddPath attaches a generated path to the authenticated user.
func (pc *PathController) AddPath(c *fiber.Ctx) error {
	claims, err := utils.ExtractClaimsFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var path models.LearningPath
	if err := c.BodyParser(&path); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := pc.Tracker.AttachPath(claims.ID, path); err != nil {
		if errors.Is(err, models.ErrInvalidPath) {
			return utils.BadRequest(c, "Invalid learning path data")
		}
		return utils.InternalServerError(c, "Failed to add learning path")
	}

	return utils.Message(c, fiber.StatusOK, "Learning path added successfully")
}

// UpdateProgress toggles completion of one resource. All four parameters are
// required; pointer decoding distinguishes an absent field from a zero value.
func (pc *PathController) UpdateProgress(c *fiber.Ctx) error {
	claims, err := utils.ExtractClaimsFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type UpdateInput struct {
		PathID        string `json:"pathId"`
		StageIndex    *int   `json:"stageIndex"`
		ResourceIndex *int   `json:"resourceIndex"`
		Completed     *bool  `json:"completed"`
	}

	var input UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.PathID == "" || input.StageIndex == nil || input.ResourceIndex == nil || input.Completed == nil {
		return utils.BadRequest(c, "Missing required parameters")
	}

	err = pc.Tracker.SetResourceCompletion(claims.ID, input.PathID, *input.StageIndex, *input.ResourceIndex, *input.Completed)
	switch {
	case errors.Is(err, services.ErrProgressNotFound):
		return utils.NotFound(c, "User progress not found")
	case errors.Is(err, services.ErrPathNotFound):
		return utils.NotFound(c, "Learning path not found")
	case errors.Is(err, services.ErrResourceNotFound):
		return utils.NotFound(c, "Stage or resource not found")
	case err != nil:
		return utils.InternalServerError(c, "Failed to update progress")
	}

	return utils.Message(c, fiber.StatusOK, "Progress updated successfully")
}

// RemovePath detaches a path and prunes its completed-resource entries.
func (pc *PathController) RemovePath(c *fiber.Ctx) error {
	claims, err := utils.ExtractClaimsFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	pathID := c.Params("pathId")

	err = pc.Tracker.RemovePath(claims.ID, pathID)
	switch {
	case errors.Is(err, services.ErrProgressNotFound), errors.Is(err, services.ErrPathNotFound):
		return utils.NotFound(c, "Learning path not found")
	case err != nil:
		return utils.InternalServerError(c, "Failed to remove learning path")
	}

	return utils.Message(c, fiber.StatusOK, "Learning path removed successfully")
}
