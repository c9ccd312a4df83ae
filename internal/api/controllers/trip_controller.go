package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wayfarer/internal/models/request_models"
	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

type TripController struct {
	tripService services.TripServiceInterface
}

func NewTripController(tripService services.TripServiceInterface) *TripController {
	return &TripController{
		tripService: tripService,
	}
}

// CreateTrip godoc
// @Summary Create a trip from a plain-English request
// @Description Parses the free-text trip request into a structured spec and creates the trip
// @Tags Trips
// @Accept json
// @Produce json
// @Param request body request_models.CreateTripRequest true "Trip creation payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /trips [post]
func (t *TripController) CreateTrip(c *gin.Context) {
	var req request_models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := t.tripService.CreateTripFromRequest(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip created successfully")
}

// GetTrip godoc
// @Summary Get a trip
// @Description Returns the trip with its status and parsed spec
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trips/{id} [get]
func (t *TripController) GetTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid trip id")
		return
	}

	trip, err := t.tripService.GetTrip(c.Request.Context(), tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip retrieved successfully")
}
