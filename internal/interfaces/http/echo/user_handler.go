package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/user-provisioning/internal/application/user"
)

type UserHandler struct {
	createUser  app.CreateUser
	getUserByID app.GetUserByID
}

func NewUserHandler(createUser app.CreateUser, getUserByID app.GetUserByID) *UserHandler {
	return &UserHandler{createUser: createUser, getUserByID: getUserByID}
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	var req map[string]any
	if err := c.Bind(&req); err != nil || req == nil {
		return errorJSON(c, http.StatusBadRequest, "bad_request", "invalid request body")
	}

	fields := make(map[string]string, len(req))
	for k, v := range req {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}

	out, err := h.createUser.Execute(c.Request().Context(), app.CreateUserInput{Fields: fields})
	if err != nil {
		var verr *app.ValidationError
		if errors.As(err, &verr) {
			return errorJSON(c, http.StatusBadRequest, "invalid_user", verr.Error(), verr.Errors...)
		}
		if errors.Is(err, app.ErrEmailTaken) {
			return errorJSON(c, http.StatusConflict, "email_taken", "a user with this email already exists")
		}
		c.Logger().Error(err)
		return errorJSON(c, http.StatusInternalServerError, "internal_error", "failed to create user")
	}

	return c.JSON(http.StatusCreated, apiResponse{Data: out})
}

func (h *UserHandler) GetUserByID(c echo.Context) error {
	out, err := h.getUserByID.Execute(c.Request().Context(), app.GetUserByIDInput{
		ID: c.Param("id"),
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidUserID) {
			return errorJSON(c, http.StatusBadRequest, "invalid_user_id", "id must be a valid UUID")
		}
		if errors.Is(err, app.ErrUserNotFound) {
			return errorJSON(c, http.StatusNotFound, "not_found", "user not found")
		}
		c.Logger().Error(err)
		return errorJSON(c, http.StatusInternalServerError, "internal_error", "failed to get user")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
