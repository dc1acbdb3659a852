package handler

import (
	"net/http"

	"github.com/hieptuanle/baby-tracker/internal/middleware"
	"github.com/hieptuanle/baby-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PageHandler renders the HTML pages.
type PageHandler struct {
	Pregnancies *service.PregnancyService
	Log         zerolog.Logger
}

func NewPageHandler(pregnancies *service.PregnancyService, log zerolog.Logger) *PageHandler {
	return &PageHandler{Pregnancies: pregnancies, Log: log}
}

// Anonymous renders template for visitors and sends signed-in users to the
// dashboard.
func (h *PageHandler) Anonymous(template, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.CurrentUser(c) != nil {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		c.HTML(http.StatusOK, template, gin.H{"title": title})
	}
}

// Dashboard shows the current pregnancy. Requires
// middleware.RequireAuthRedirect.
func (h *PageHandler) Dashboard(c *gin.Context) {
	user := middleware.CurrentUser(c)
	rec, err := h.Pregnancies.Get(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		h.Log.Error().Err(err).Uint("user_id", user.ID).Msg("load dashboard")
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"title":   "Error",
			"message": "Something went wrong. Please try again later.",
		})
		return
	}

	data := gin.H{
		"title":    "Dashboard",
		"username": user.Username,
	}
	if rec != nil {
		data["pregnancy"] = rec
		data["age"] = rec.GestationalAge.String()
	}
	c.HTML(http.StatusOK, "dashboard.html", data)
}
