package v1

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	ws "github.com/gofiber/websocket/v2"

	"taskmaster/internal/api/v1/handlers"
	"taskmaster/internal/middleware"
	hubpkg "taskmaster/internal/websocket"
)

func RegisterRoutes(app *fiber.App, h *handlers.Handler, hub *hubpkg.Hub) {
	// Auth
	app.Post("/login", h.Login)
	app.Post("/logout", middleware.RequireSession(h.Sessions()), h.Logout)

	// Members
	members := app.Group("/members", middleware.RequireSession(h.Sessions()))
	members.Post("/add", h.AddMember)
	members.Put("/:id", h.EditMember)
	members.Put("/:id/status", h.UpdateMemberStatus)
	members.Delete("/:id", h.DeleteMember)

	// Reference lists are public; the board UI loads them pre-login.
	app.Get("/w/t/status", h.ListStatuses)
	app.Get("/w/t/priorities", h.ListPriorities)
	app.Get("/categories", h.ListCategories)

	categories := app.Group("/categories", middleware.RequireSession(h.Sessions()))
	categories.Post("/", h.CreateCategory)
	categories.Put("/:id", h.UpdateCategory)
	categories.Delete("/:id", h.DeleteCategory)

	// Workspaces and boards
	w := app.Group("/w", middleware.RequireSession(h.Sessions()))
	w.Get("/b/me", h.MyWorkspaces)
	w.Get("/:id/b/me", h.WorkspaceBoards)
	w.Post("/:id/b/add", h.CreateBoard)
	w.Post("/:id/members/add", h.AddWorkspaceMembers)

	board := w.Group("/:wid/b/:bid")
	board.Get("/", h.GetBoard)
	board.Put("/update", h.UpdateBoard)
	board.Delete("/delete", h.DeleteBoard)

	// Tasks
	board.Get("/t", h.ListTasks)
	board.Post("/t", h.CreateTask)
	board.Get("/t/:tid", h.GetTask)
	board.Put("/t/:tid/update", h.UpdateTask)
	board.Delete("/t/:tid/delete", h.DeleteTask)
	board.Put("/t/:tid/categories", h.SetTaskCategories)

	// Comments
	board.Get("/t/:tid/comments", h.ListComments)
	board.Post("/t/:tid/comments", h.CreateComment)
	board.Get("/t/:tid/comments/:cid", h.GetComment)
	board.Put("/t/:tid/comments/:cid/update", h.UpdateComment)
	board.Delete("/t/:tid/comments/:cid/delete", h.DeleteComment)

	// Board activity feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if ws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/board/:bid", ws.New(func(conn *ws.Conn) {
		boardID, err := strconv.Atoi(conn.Params("bid"))
		if err != nil {
			conn.Close()
			return
		}
		client := &hubpkg.Client{Conn: conn, BoardID: boardID}
		hub.Register <- client
		defer func() { hub.Unregister <- client }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}
