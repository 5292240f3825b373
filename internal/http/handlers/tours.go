package handlers

import (
	"net/http"

	"bookandgo/internal/domain"
	"bookandgo/internal/domain/models"
	"bookandgo/internal/http/middleware"
	"bookandgo/internal/repositories"
	"bookandgo/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetTours lists tours. Anonymous callers see active tours only; agencies
// and admins can request the full catalog with ?all=1.
func GetTours(c *gin.Context) {
	onlyActive := true
	if queryBool(c, "all") {
		if actor, ok := middleware.GetActor(c); ok &&
			(actor.Role == domain.RoleAgency || actor.Role == domain.RoleAdmin) {
			onlyActive = false
		}
	}

	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 12)
	if perPage > 100 {
		perPage = 12
	}

	repo := repositories.TourRepository{}
	tours, total, err := repo.List(c.Request.Context(), onlyActive, page, perPage)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": tours,
		"pagination": domain.Pagination{
			Page:    page,
			PerPage: perPage,
			Total:   total,
		},
	})
}

func GetTourByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	repo := repositories.TourRepository{}
	tour, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tour": tour})
}

type tourRequest struct {
	Title         string              `json:"title"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discount_price"`
	MinPeople     int                 `json:"min_people"`
	MaxPeople     int                 `json:"max_people"`
	AvailableDays string              `json:"available_days"`
	AvailableFrom string              `json:"available_from"`
	AvailableTo   string              `json:"available_to"`
	IsActive      *bool               `json:"is_active"`
}

// CreateTour registers a new tour for the calling agency.
func CreateTour(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if actor.Role != domain.RoleAgency || actor.AgencyID <= 0 {
		RespondDomainError(c, middleware.GetRequestID(c), domain.PermissionError{Action: "create tours for"})
		return
	}

	var req tourRequest
	if !bindJSON(c, &req) {
		return
	}

	tour := models.Tour{
		AgencyID:      actor.AgencyID,
		Title:         utils.NormalizeSpace(req.Title),
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		MinPeople:     req.MinPeople,
		MaxPeople:     req.MaxPeople,
		AvailableDays: utils.NormalizeDayList(req.AvailableDays),
		AvailableFrom: req.AvailableFrom,
		AvailableTo:   req.AvailableTo,
		IsActive:      true,
	}
	if req.IsActive != nil {
		tour.IsActive = *req.IsActive
	}
	if tour.MinPeople == 0 {
		tour.MinPeople = 1
	}

	if err := repositories.ValidateCapacityContract(tour); err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	repo := repositories.TourRepository{}
	id, err := repo.Create(c.Request.Context(), tour)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}
	tour.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"message": "tour created",
		"tour":    tour,
	})
}

type tourUpdateRequest struct {
	Title         *string              `json:"title"`
	Price         *decimal.Decimal     `json:"price"`
	DiscountPrice *decimal.NullDecimal `json:"discount_price"`
	MinPeople     *int                 `json:"min_people"`
	MaxPeople     *int                 `json:"max_people"`
	AvailableDays *string              `json:"available_days"`
	AvailableFrom *string              `json:"available_from"`
	AvailableTo   *string              `json:"available_to"`
	IsActive      *bool                `json:"is_active"`
}

// UpdateTour applies a partial update to a tour owned by the calling agency.
// Deactivation is the only removal mechanism; tours are never deleted.
func UpdateTour(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if actor.Role != domain.RoleAgency || actor.AgencyID <= 0 {
		RespondDomainError(c, middleware.GetRequestID(c), domain.PermissionError{Action: "update tours for"})
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req tourUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	repo := repositories.TourRepository{}
	tour, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}
	if tour.AgencyID != actor.AgencyID {
		RespondDomainError(c, middleware.GetRequestID(c), domain.PermissionError{Action: "update"})
		return
	}

	if req.Title != nil {
		tour.Title = utils.NormalizeSpace(*req.Title)
	}
	if req.Price != nil {
		tour.Price = *req.Price
	}
	if req.DiscountPrice != nil {
		tour.DiscountPrice = *req.DiscountPrice
	}
	if req.MinPeople != nil {
		tour.MinPeople = *req.MinPeople
	}
	if req.MaxPeople != nil {
		tour.MaxPeople = *req.MaxPeople
	}
	if req.AvailableDays != nil {
		tour.AvailableDays = utils.NormalizeDayList(*req.AvailableDays)
	}
	if req.AvailableFrom != nil {
		tour.AvailableFrom = *req.AvailableFrom
	}
	if req.AvailableTo != nil {
		tour.AvailableTo = *req.AvailableTo
	}
	if req.IsActive != nil {
		tour.IsActive = *req.IsActive
	}

	if err := repositories.ValidateCapacityContract(tour); err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	if err := repo.Update(c.Request.Context(), tour); err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "tour updated",
		"tour":    tour,
	})
}
