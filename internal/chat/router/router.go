package router

import (
	"context"

	"school_chat_service/internal/chat/app"
	"school_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes register the chat routes
// @title School Chat Service API
// @version 1.0
// @description Realtime teacher-parent chat plus unread/history reconciliation
// @BasePath /
func RegisterRoutes(r *fiber.App, wsHandler *app.ChatWebsocketHandler, chatHandler *app.ChatHandler) {
	r.Get("/swagger/*", swagger.HandlerDefault)
	r.Get("/", app.ConnectCheck)
	r.Post("/debug", app.DebugLogFlag)

	r.Use(middlewares.JWTMiddleware())

	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHandler.HandleConnection(context.Background(), c)
	}))

	chatRoutes := r.Group("/chat")
	chatRoutes.Post("/history", chatHandler.History)
	chatRoutes.Post("/acknowledge", chatHandler.Acknowledge)
	chatRoutes.Post("/unread-count", chatHandler.UnreadCount)
	chatRoutes.Post("/unread-count-all", chatHandler.UnreadCountAll)
}
