package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

type AlertController struct {
	alertService services.AlertServiceInterface
}

func NewAlertController(alertService services.AlertServiceInterface) *AlertController {
	return &AlertController{
		alertService: alertService,
	}
}

// ListTripAlerts godoc
// @Summary List alerts for a trip
// @Description Returns monitoring alerts for the trip, newest first
// @Tags Alerts
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trips/{id}/alerts [get]
func (a *AlertController) ListTripAlerts(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid trip id")
		return
	}

	alerts, err := a.alertService.ListTripAlerts(c.Request.Context(), tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, alerts, "Alerts retrieved successfully")
}

// MarkAlertRead godoc
// @Summary Mark an alert as read
// @Tags Alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /alerts/{id}/read [post]
func (a *AlertController) MarkAlertRead(c *gin.Context) {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid alert id")
		return
	}

	if err := a.alertService.MarkAlertRead(c.Request.Context(), alertID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Alert marked as read")
}
