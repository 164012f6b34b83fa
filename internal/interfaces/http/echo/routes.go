package echo

import e "github.com/labstack/echo/v4"

const UsersPath = "/api/v1/users"

func RegisterRoutes(server *e.Echo, userHandler *UserHandler) {
	server.POST(UsersPath, userHandler.CreateUser)
	server.GET(UsersPath+"/:id", userHandler.GetUserByID)
}
