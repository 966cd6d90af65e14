package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"weather-comfort/internal/comfort"
	"weather-comfort/internal/models"
	"weather-comfort/internal/prediction"
	"weather-comfort/internal/services"
)

type Handler struct {
	service  *services.Service
	logger   *zap.Logger
	validate *validator.Validate
}

func NewHandler(service *services.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		validate: validator.New(),
	}
}

type createActivityRequest struct {
	Title       string                     `json:"title" validate:"required,min=2,max=60"`
	Category    string                     `json:"category" validate:"required"`
	Description string                     `json:"description" validate:"max=200"`
	Thresholds  comfort.ActivityThresholds `json:"thresholds"`
}

// GetPrediction handles GET /api/v1/weather/prediction
func (h *Handler) GetPrediction(c *fiber.Ctx) error {
	req, err := parsePredictionQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	series, err := h.service.Predict(c.Context(), req)
	if err != nil {
		return h.predictionError(c, err)
	}

	return c.JSON(series)
}

// GetComfort handles GET /api/v1/comfort
func (h *Handler) GetComfort(c *fiber.Ctx) error {
	activity := c.Query("activity")
	if activity == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Activity parameter is required",
		})
	}

	req, err := parsePredictionQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.logger.Info("Scoring comfort",
		zap.String("activity", activity),
		zap.String("date", req.Date.Format("2006-01-02")))

	series, report, err := h.service.Comfort(c.Context(), req, activity)
	if err != nil {
		return h.predictionError(c, err)
	}

	return c.JSON(fiber.Map{
		"series": series,
		"report": report,
	})
}

// GetActivities handles GET /api/v1/activities
func (h *Handler) GetActivities(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"activities": h.service.Activities(),
	})
}

// CreateActivity handles POST /api/v1/activities
func (h *Handler) CreateActivity(c *fiber.Ctx) error {
	var req createActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err.Error(),
		})
	}

	activity := comfort.Activity{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
	}

	if err := h.service.RegisterActivity(activity, req.Thresholds); err != nil {
		if errors.Is(err, comfort.ErrActivityExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to register activity",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"activity": activity.Title,
		"id":       comfort.NormalizeID(activity.Title),
	})
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
		"stats":     h.service.Stats(),
	})
}

// predictionError maps engine error kinds to HTTP statuses: the recent-past
// gap is a client-resolvable condition, provider problems are bad gateways.
func (h *Handler) predictionError(c *fiber.Ctx, err error) error {
	h.logger.Error("Prediction request failed",
		zap.String("path", c.Path()),
		zap.Error(err))

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, prediction.ErrDataUnavailable):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, prediction.ErrRangeNotFound),
		errors.Is(err, prediction.ErrSourceUnavailable),
		errors.Is(err, prediction.ErrPredictionUnavailable):
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func parsePredictionQuery(c *fiber.Ctx) (models.PredictionRequest, error) {
	var req models.PredictionRequest

	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return req, errors.New("lat parameter must be a number in [-90,90]")
	}

	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return req, errors.New("lon parameter must be a number in [-180,180]")
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return req, errors.New("date parameter must be YYYY-MM-DD")
	}

	start := c.Query("start", "10:00")
	end := c.Query("end", "14:00")
	if _, err := prediction.ParseWindow(start, end); err != nil {
		return req, err
	}

	req.Latitude = lat
	req.Longitude = lon
	req.Date = date
	req.StartHour = start
	req.EndHour = end
	return req, nil
}

var startTime = time.Now()
