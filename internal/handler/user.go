package handler

import (
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/sumire/market/internal/domain"
	"github.com/sumire/market/internal/service"
)

const profileImageFolder = "profiles"

// UserHandler handles user endpoints.
type UserHandler struct {
	users   *service.UserService
	uploads *service.UploadService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, uploads *service.UploadService) *UserHandler {
	return &UserHandler{users: users, uploads: uploads}
}

type signupRequest struct {
	Nickname  string  `json:"nickname" validate:"required,max=30"`
	Address   string  `json:"address" validate:"required,max=100"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// Signup completes the caller's profile.
func (h *UserHandler) Signup(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.users.Signup(c.Request().Context(), userID, domain.Signup{
		Nickname:  req.Nickname,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}); err != nil {
		return err
	}
	return OK(c, nil)
}

// FindOne returns the shop view of a user as seen by the caller.
func (h *UserHandler) FindOne(c echo.Context) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c, "userId")
	if err != nil {
		return err
	}

	profile, err := h.users.FindOne(c.Request().Context(), callerID, targetID)
	if err != nil {
		return err
	}
	return OK(c, profile)
}

// UpdateMe applies a partial profile update from a multipart form with an
// optional image.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	update, err := parseProfileUpdate(c)
	if err != nil {
		return err
	}
	if update.Nickname != nil {
		if err := h.users.EnsureNicknameAvailable(c.Request().Context(), userID, *update.Nickname); err != nil {
			return err
		}
	}

	var files []service.Upload
	if form, err := c.MultipartForm(); err == nil {
		if files, err = readFileHeaders(form.File[imageField]); err != nil {
			return err
		}
	}
	if len(files) > 0 {
		urls, err := h.uploads.UploadImages(c.Request().Context(), profileImageFolder, files, 1)
		if err != nil {
			return err
		}
		update.UserImage = &urls[0]
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), userID, update)
	if err != nil {
		return err
	}
	return OK(c, user)
}

func parseProfileUpdate(c echo.Context) (domain.ProfileUpdate, error) {
	update := domain.ProfileUpdate{
		Nickname:    optionalString(c, "nickname"),
		Address:     optionalString(c, "address"),
		Description: optionalString(c, "description"),
	}
	if update.Nickname != nil && (*update.Nickname == "" || utf8.RuneCountInString(*update.Nickname) > 30) {
		return update, &domain.ValidationError{Field: "nickname", Message: "must be 1 to 30 characters"}
	}
	if update.Address != nil && utf8.RuneCountInString(*update.Address) > 100 {
		return update, &domain.ValidationError{Field: "address", Message: "failed on 'max' validation"}
	}
	if update.Description != nil && utf8.RuneCountInString(*update.Description) > 255 {
		return update, &domain.ValidationError{Field: "description", Message: "failed on 'max' validation"}
	}

	var err error
	if update.Latitude, err = optionalFloat(c, "latitude"); err != nil {
		return update, err
	}
	if update.Latitude != nil && (*update.Latitude < -90 || *update.Latitude > 90) {
		return update, &domain.ValidationError{Field: "latitude", Message: "failed on 'latitude' validation"}
	}
	if update.Longitude, err = optionalFloat(c, "longitude"); err != nil {
		return update, err
	}
	if update.Longitude != nil && (*update.Longitude < -180 || *update.Longitude > 180) {
		return update, &domain.ValidationError{Field: "longitude", Message: "failed on 'longitude' validation"}
	}
	return update, nil
}
