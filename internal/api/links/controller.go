package links

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/keepr/mediakit/internal/instagram"
	"github.com/labstack/echo/v4"
)

type (
	Extractor interface {
		Extract(ctx context.Context, url string) *instagram.Result
	}

	InstagramRequest struct {
		URL string `json:"url" validate:"required,url"`
	}

	Controller struct {
		extractor Extractor
		validate  *validator.Validate
	}
)

func New(validate *validator.Validate, extractor Extractor) *Controller {
	return &Controller{extractor: extractor, validate: validate}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.POST("/instagram/", controller.extractInstagram)
}

// extractInstagram returns the link metadata for the Instagram URL in the body. A
// fallback extraction is still a successful response; the result itself reports
// success=false in that case.
func (controller *Controller) extractInstagram(ec echo.Context) error {
	var request InstagramRequest
	if err := ec.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", err.Error()))
	}

	if err := controller.validate.Struct(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid body: %s", err.Error()))
	}

	if !instagram.IsInstagramURL(request.URL) {
		return echo.NewHTTPError(http.StatusBadRequest, "Not a valid Instagram URL")
	}

	return ec.JSON(http.StatusOK, controller.extractor.Extract(ec.Request().Context(), request.URL))
}
