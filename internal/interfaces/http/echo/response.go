package echo

import "github.com/labstack/echo/v4"

type errorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// apiResponse mirrors the error message at the top level so clients that
// only look for "message" can report it.
type apiResponse struct {
	Data    any        `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

func errorJSON(c echo.Context, status int, code, message string, details ...string) error {
	return c.JSON(status, apiResponse{
		Message: message,
		Error: &errorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
