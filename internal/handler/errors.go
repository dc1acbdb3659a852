package handler

import (
	"errors"
	"net/http"

	"github.com/hieptuanle/baby-tracker/internal/service"
	"github.com/hieptuanle/baby-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Fail writes the response for err. Expected failures carry their own
// message and status; anything else is logged and reported as a bare 500.
func Fail(c *gin.Context, log zerolog.Logger, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		util.Error(c, statusFor(se.Kind), se.Msg)
		return
	}

	_ = c.Error(err)
	log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	util.Error(c, http.StatusInternalServerError, "Internal server error")
}

func statusFor(k service.Kind) int {
	switch k {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindConflict:
		return http.StatusConflict
	case service.KindAuth:
		return http.StatusUnauthorized
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
