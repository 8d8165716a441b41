package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pawnchess/internal/core"
	"pawnchess/internal/processor"
	"pawnchess/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

// statusCodes maps error codes onto HTTP statuses
var statusCodes = map[string]int{
	core.ErrInvalidCoordinate: fiber.StatusBadRequest,
	core.ErrGameNotFound:      fiber.StatusNotFound,
	core.ErrBlankSquare:       fiber.StatusBadRequest,
	core.ErrUnsupportedPiece:  fiber.StatusUnprocessableEntity,
	core.ErrWrongTurn:         fiber.StatusConflict,
	core.ErrInvalidMove:       fiber.StatusBadRequest,
	core.ErrPersistence:       fiber.StatusServiceUnavailable,
	core.ErrInvalidRequest:    fiber.StatusBadRequest,
	core.ErrUnauthorized:      fiber.StatusUnauthorized,
	core.ErrInternalError:     fiber.StatusInternalServerError,
}

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second, // longer than the long-poll wait
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	// Mutations need a token only when the server was started with a secret
	validateToken := TokenValidator(svc.ValidateToken)
	guard := OptionalAuth(validateToken)
	if svc.TokensEnabled() {
		guard = AuthRequired(validateToken)
	}

	api.Post("/games", guard, h.CreateGame)
	api.Get("/games", h.ListGames)
	api.Get("/games/:gameId", h.GetGame)
	api.Get("/games/:gameId/board", h.GetBoard)
	api.Get("/games/:gameId/history", h.GetHistory)
	api.Get("/games/:gameId/moves/:square", h.GetLegalMoves)
	api.Post("/games/:gameId/moves", guard, h.MakeMove)

	return app
}

// contentTypeValidator ensures POST requests have application/json
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		contentType := c.Get("Content-Type")
		if contentType != "application/json" && contentType != "" {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound, fiber.StatusBadRequest, fiber.StatusMethodNotAllowed:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// respond writes a processor response, picking the status from its error code
func respond(c *fiber.Ctx, resp processor.ProcessorResponse, okStatus int) error {
	if !resp.Success {
		status, ok := statusCodes[resp.Error.Code]
		if !ok {
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(resp.Error)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

// gameIDError rejects ids that cannot name a game. Ids are always UUIDs.
func gameIDError(c *fiber.Ctx, gameID string) error {
	return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
		Error:   "game not found",
		Code:    core.ErrGameNotFound,
		Details: fmt.Sprintf("game ID %q is not a valid UUID", gameID),
	})
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
	})
}

// CreateGame starts a game on the initial board
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	resp := h.proc.Execute(c.UserContext(), processor.NewCreateGameCommand(userID))
	return respond(c, resp, fiber.StatusCreated)
}

func (h *HTTPHandler) ListGames(c *fiber.Ctx) error {
	resp := h.proc.Execute(c.UserContext(), processor.NewListGamesCommand())
	return respond(c, resp, fiber.StatusOK)
}

// GetGame retrieves current game state. With wait=true and a moveCount equal to
// the current one, the request blocks until a move lands or the wait times out.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return gameIDError(c, gameID)
	}

	if c.Query("wait", "false") != "true" {
		resp := h.proc.Execute(c.UserContext(), processor.NewGetGameCommand(gameID))
		return respond(c, resp, fiber.StatusOK)
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	g, err := h.svc.GetGame(c.UserContext(), gameID)
	if err != nil {
		resp := h.proc.Execute(c.UserContext(), processor.NewGetGameCommand(gameID))
		return respond(c, resp, fiber.StatusOK)
	}

	// Client is behind already, answer immediately
	if moveCount != g.Version {
		resp := h.proc.Execute(c.UserContext(), processor.NewGetGameCommand(gameID))
		return respond(c, resp, fiber.StatusOK)
	}

	ctx := c.Context()
	ready := h.svc.RegisterWait(ctx, gameID, g.Version)

	select {
	case <-ready:
		resp := h.proc.Execute(c.UserContext(), processor.NewGetGameCommand(gameID))
		return respond(c, resp, fiber.StatusOK)
	case <-ctx.Done():
		// Client disconnected
		return nil
	}
}

// GetBoard returns ASCII representation of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return gameIDError(c, gameID)
	}

	resp := h.proc.Execute(c.UserContext(), processor.NewGetBoardCommand(gameID))
	return respond(c, resp, fiber.StatusOK)
}

func (h *HTTPHandler) GetHistory(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return gameIDError(c, gameID)
	}

	resp := h.proc.Execute(c.UserContext(), processor.NewGetHistoryCommand(gameID))
	return respond(c, resp, fiber.StatusOK)
}

// GetLegalMoves lists the moves of the piece on :square
func (h *HTTPHandler) GetLegalMoves(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return gameIDError(c, gameID)
	}

	resp := h.proc.Execute(c.UserContext(), processor.NewGetLegalMovesCommand(gameID, c.Params("square")))
	return respond(c, resp, fiber.StatusOK)
}

// MakeMove submits a move
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return gameIDError(c, gameID)
	}

	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}

	validatedBody, ok := c.Locals("validatedBody").(*core.MoveRequest)
	if !ok || validatedBody == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}

	userID, _ := c.Locals("userID").(string)

	resp := h.proc.Execute(c.UserContext(), processor.NewMakeMoveCommand(gameID, userID, *validatedBody))
	return respond(c, resp, fiber.StatusOK)
}
