package api

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/insightdelivered/tally-statement-converter/internal/config"
)

const requestIDKey = "requestid"

// NewApp builds the fiber application: middleware, API routes and, when
// configured, the web UI.
func NewApp(cfg config.ServerConfig, h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "tallyconv",
		BodyLimit:             cfg.MaxUploadBytes(),
		ErrorHandler:          h.handleError,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Content-Type",
		ExposeHeaders: "Content-Disposition, " + HeaderSkipped,
	}))
	if cfg.RequestLogging {
		app.Use(h.logRequests)
	}

	h.RegisterRoutes(app)

	if cfg.StaticDir != "" {
		serveUI(app, cfg.StaticDir)
	}
	return app
}

// serveUI serves the single-page app, falling back to index.html for client
// side routes.
func serveUI(app *fiber.App, dir string) {
	app.Static("/", dir)
	app.Get("/*", func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return fiber.ErrNotFound
		}
		return c.SendFile(filepath.Join(dir, "index.html"))
	})
}

func (h *Handler) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = statusOf(err)
	}
	h.logger.Info("request",
		slog.String("request_id", requestID(c)),
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.Int("status", status),
		slog.Duration("duration", time.Since(start)))
	return err
}

// handleError renders every error that reaches fiber as the JSON error shape.
func (h *Handler) handleError(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	if status >= fiber.StatusInternalServerError {
		h.logger.Error("request failed",
			slog.String("request_id", requestID(c)),
			slog.String("path", c.Path()),
			slog.Any("error", err))
	}
	return c.Status(status).JSON(ErrorResponse{Success: false, Error: err.Error()})
}

func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}
