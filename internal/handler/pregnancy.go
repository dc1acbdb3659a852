package handler

import (
	"encoding/json"
	"errors"

	"github.com/hieptuanle/baby-tracker/internal/middleware"
	"github.com/hieptuanle/baby-tracker/internal/service"
	"github.com/hieptuanle/baby-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// PregnancyHandler serves /api/pregnancy. Every route requires
// middleware.RequireAuth.
type PregnancyHandler struct {
	Pregnancies *service.PregnancyService
	Log         zerolog.Logger
}

func NewPregnancyHandler(pregnancies *service.PregnancyService, log zerolog.Logger) *PregnancyHandler {
	return &PregnancyHandler{Pregnancies: pregnancies, Log: log}
}

type pregnancyReq struct {
	ExpectedDeliveryDate string `json:"expectedDeliveryDate" binding:"isodate"`
	LastMenstrualPeriod  string `json:"lastMenstrualPeriod" binding:"isodate"`
}

// bindPregnancy decodes the body. A date field that fails the date rule or
// is not a string is an invalid date; a body that cannot be decoded at all
// carries no dates.
func bindPregnancy(c *gin.Context) (pregnancyReq, error) {
	var req pregnancyReq
	err := c.ShouldBindJSON(&req)
	if err == nil {
		return req, nil
	}
	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &verrs) || errors.As(err, &typeErr) {
		return req, service.ErrInvalidDate
	}
	return req, service.ErrMissingDates
}

func (h *PregnancyHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	rec, err := h.Pregnancies.Get(c.Request.Context(), user.ID)
	if err != nil {
		Fail(c, h.Log, err)
		return
	}
	if rec == nil {
		util.Success(c, util.Response{"pregnancy": nil})
		return
	}
	util.Success(c, util.Response{"pregnancy": rec})
}

// Upsert creates the user's record or updates the current one.
func (h *PregnancyHandler) Upsert(c *gin.Context) {
	user := middleware.CurrentUser(c)
	req, err := bindPregnancy(c)
	if err != nil {
		Fail(c, h.Log, err)
		return
	}

	p, created, err := h.Pregnancies.Upsert(c.Request.Context(), user.ID, req.ExpectedDeliveryDate, req.LastMenstrualPeriod)
	if err != nil {
		Fail(c, h.Log, err)
		return
	}

	resp := util.Response{
		"success":     true,
		"pregnancyId": p.ID,
	}
	if created {
		resp["created"] = true
	} else {
		resp["updated"] = true
	}
	util.Success(c, resp)
}

// Update changes the current record. A missing record is reported before
// any problem with the body.
func (h *PregnancyHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if _, err := h.Pregnancies.Current(c.Request.Context(), user.ID); err != nil {
		Fail(c, h.Log, err)
		return
	}

	req, err := bindPregnancy(c)
	if err != nil {
		Fail(c, h.Log, err)
		return
	}

	if _, err := h.Pregnancies.Update(c.Request.Context(), user.ID, req.ExpectedDeliveryDate, req.LastMenstrualPeriod); err != nil {
		Fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"success": true})
}

func (h *PregnancyHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.Pregnancies.Delete(c.Request.Context(), user.ID); err != nil {
		Fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"success": true})
}
