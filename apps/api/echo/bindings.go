package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/coursework"
)

type (
	LoginRequest struct {
		CanvasURL string `json:"canvasUrl" validate:"required"`
		APIKey    string `json:"apiKey" validate:"required"`
	}

	StudyPlanRequest struct {
		StartDate string `json:"startDate" validate:"omitempty,iso_datetime"`
		EndDate   string `json:"endDate" validate:"omitempty,iso_datetime"`
	}

	ChatRequest struct {
		Message string `json:"message" validate:"required"`
	}
)

func (data *LoginRequest) Validate(validate *validator.Validate) error {
	data.CanvasURL = core.CleanString(data.CanvasURL)
	data.APIKey = core.CleanString(data.APIKey)
	if err := validate.Struct(data); err != nil {
		return core.NewValidationError(errCredentialsMissing)
	}
	return nil
}

// Window validates the bounds and resolves them, defaulting to the coming week.
func (data *StudyPlanRequest) Window(validate *validator.Validate) (coursework.Window, error) {
	data.StartDate = core.CleanString(data.StartDate)
	data.EndDate = core.CleanString(data.EndDate)
	if err := validate.Struct(data); err != nil {
		return coursework.Window{}, err
	}
	return coursework.ParseWindow(data.StartDate, data.EndDate)
}

func (data *ChatRequest) Validate(validate *validator.Validate) error {
	if err := validate.Struct(data); err != nil {
		return core.NewValidationError(errMessageMissing)
	}
	return nil
}
