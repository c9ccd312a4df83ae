package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wayfarer/internal/models/request_models"
	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

type ModificationController struct {
	modificationService services.ModificationServiceInterface
}

func NewModificationController(modificationService services.ModificationServiceInterface) *ModificationController {
	return &ModificationController{
		modificationService: modificationService,
	}
}

// ModifyTrip godoc
// @Summary Apply a free-text modification to a trip
// @Description Classifies the request (hotel extend/shorten, seat upgrade, room upgrade) and applies it to the trip's confirmed bookings
// @Tags Trips
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body request_models.ModifyTripRequest true "Modification payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trips/{id}/modifications [post]
func (m *ModificationController) ModifyTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid trip id")
		return
	}

	var req request_models.ModifyTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := m.modificationService.ApplyModification(c.Request.Context(), tripID, req.Request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Modification processed")
}
