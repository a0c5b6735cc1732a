package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Deceus/devconnect/internal/config"
	"github.com/Deceus/devconnect/internal/domain/user"
	"github.com/Deceus/devconnect/internal/gravatar"
	"github.com/Deceus/devconnect/internal/http/middlewares"
	"github.com/Deceus/devconnect/internal/jobs"
	"github.com/Deceus/devconnect/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, passwordHash, name, avatar string) (user.User, error)
}

type TokenIssuer interface {
	Issue(userID, name, avatar string) (string, error)
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, t jobs.JobType, payload any) (jobs.Job, error)
}

type UsersHandler struct {
	users    UserReader
	writer   UserWriter
	jwt      TokenIssuer
	enqueuer JobEnqueuer
	log      *slog.Logger
}

func NewUsersHandler(users UserReader, writer UserWriter, jwt TokenIssuer, enqueuer JobEnqueuer, log *slog.Logger) *UsersHandler {
	return &UsersHandler{
		users:    users,
		writer:   writer,
		jwt:      jwt,
		enqueuer: enqueuer,
		log:      log,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=30"`
	// confirmation field the signup form always sends
	Password2 string `json:"password2" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *UsersHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	avatar := gravatar.URL(req.Email)

	u, err := h.writer.Create(cctx, req.Email, hash, req.Name, avatar)

	if err != nil {
		if err == user.ErrEmailTaken {
			RespondConflict(ctx, "email_taken", "Email already exists")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "register failed", "err", err)
		RespondInternal(ctx, "Could not create user")
		return
	}

	// best effort: a lost welcome email never fails the registration
	_, err = h.enqueuer.Enqueue(cctx, jobs.JobSendWelcomeEmail, jobs.SendWelcomeEmailPayload{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		RequestID: requestIDFrom(ctx),
	})

	if err != nil {
		h.log.WarnContext(ctx.Request.Context(), "welcome enqueue failed", "user_id", u.ID, "err", err)
	}

	ctx.JSON(http.StatusCreated, u.Public())
}

func (h *UsersHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}
	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		if err == user.ErrNotFound {
			RespondNotFoundWithDetails(ctx, "User not found", gin.H{"email": "User not found"})
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "login lookup failed", "err", err)
		RespondInternal(ctx, "Could not log in")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondBadRequest(ctx, "Password incorrect", gin.H{"password": "Password incorrect"})
		return
	}

	token, err := h.jwt.Issue(foundUser.ID, foundUser.Name, foundUser.Avatar)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}

// Current echoes the authenticated identity, refreshed from the store so a
// renamed user does not see stale claims.
func (h *UsersHandler) Current(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, userID)

	if err != nil {
		if err == user.ErrNotFound {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not fetch user")
		return
	}

	ctx.JSON(http.StatusOK, u.Public())
}
