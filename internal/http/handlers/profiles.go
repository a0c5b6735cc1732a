package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Deceus/devconnect/internal/cache"
	"github.com/Deceus/devconnect/internal/config"
	"github.com/Deceus/devconnect/internal/domain/profile"
	"github.com/Deceus/devconnect/internal/domain/user"
	"github.com/Deceus/devconnect/internal/http/middlewares"
	"github.com/Deceus/devconnect/internal/jobs"
	"github.com/Deceus/devconnect/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (profile.Profile, error)
	GetByHandle(ctx context.Context, handle string) (profile.Profile, error)
	ListCursor(ctx context.Context, filters profile.ListProfilesFilter, afterCreatedAt time.Time, afterID string) ([]profile.Profile, *string, bool, error)
	Upsert(ctx context.Context, userID string, req profile.UpsertProfileRequest) (profile.Profile, error)
	AddExperience(ctx context.Context, userID string, e profile.Experience) error
	RemoveExperience(ctx context.Context, userID, entryID string) error
	AddEducation(ctx context.Context, userID string, e profile.Education) error
	RemoveEducation(ctx context.Context, userID, entryID string) error
}

type AccountStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	DeleteWithProfile(ctx context.Context, id string) error
}

type ProfilesHandler struct {
	profiles  ProfileStore
	accounts  AccountStore
	enqueuer  JobEnqueuer
	listCache *cache.Cache
	log       *slog.Logger
}

func NewProfilesHandler(profiles ProfileStore, accounts AccountStore, enqueuer JobEnqueuer, listCache *cache.Cache, log *slog.Logger) *ProfilesHandler {
	return &ProfilesHandler{
		profiles:  profiles,
		accounts:  accounts,
		enqueuer:  enqueuer,
		listCache: listCache,
		log:       log,
	}
}

const (
	defaultListLimit = 20
	maxListLimit     = 50
)

// GetMine returns the caller's own profile.
func (h *ProfilesHandler) GetMine(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	p, err := h.profiles.GetByUserID(cctx, userID)

	if err != nil {
		if err == profile.ErrNotFound {
			RespondNotFound(ctx, "There is no profile for this user")
			return
		}
		RespondInternal(ctx, "Could not fetch profile")
		return
	}

	ctx.JSON(http.StatusOK, p)
}

func (h *ProfilesHandler) ListAll(ctx *gin.Context) {
	limit := defaultListLimit

	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)

		if err != nil || n <= 0 {
			RespondBadRequest(ctx, "invalid limit", nil)
			return
		}

		if n > maxListLimit {
			n = maxListLimit
		}
		limit = n
	}

	afterCreatedAt := time.Time{}
	afterID := ""
	rawCursor := ctx.Query("cursor")

	if rawCursor != "" {
		c, err := utils.DecodeProfileCursor(rawCursor)

		if err != nil {
			RespondBadRequest(ctx, "invalid_cursor", nil)
			return
		}

		afterCreatedAt = c.CreatedAt
		afterID = c.ID
	}

	filters := profile.ListProfilesFilter{Limit: limit}

	if status := ctx.Query("status"); status != "" {
		filters.Status = &status
	}

	if skill := ctx.Query("skill"); skill != "" {
		filters.Skill = &skill
	}

	cacheKey := utils.BuildProfilesListCacheKey(limit, rawCursor, filters.Status, filters.Skill)

	if h.listCache != nil {
		if cached, ok := h.listCache.Get(cacheKey); ok {
			RespondJSONWithETag(ctx, http.StatusOK, cached)
			return
		}
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, next, hasMore, err := h.profiles.ListCursor(cctx, filters, afterCreatedAt, afterID)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "list profiles failed", "err", err)
		RespondInternal(ctx, "Could not list profiles")
		return
	}

	payload := gin.H{
		"items":      items,
		"count":      len(items),
		"nextCursor": next,
		"hasMore":    hasMore,
	}

	if h.listCache != nil {
		h.listCache.Set(cacheKey, payload)
	}

	RespondJSONWithETag(ctx, http.StatusOK, payload)
}

func (h *ProfilesHandler) GetByHandle(ctx *gin.Context) {
	handle := ctx.Param("handle")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	p, err := h.profiles.GetByHandle(cctx, handle)

	if err != nil {
		if err == profile.ErrNotFound {
			RespondNotFound(ctx, "There is no profile for this handle")
			return
		}
		RespondInternal(ctx, "Could not fetch profile")
		return
	}

	ctx.JSON(http.StatusOK, p)
}

func (h *ProfilesHandler) GetByUserID(ctx *gin.Context) {
	userID := ctx.Param("user_id")

	if !utils.IsUUID(userID) {
		RespondBadRequest(ctx, "user id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	p, err := h.profiles.GetByUserID(cctx, userID)

	if err != nil {
		if err == profile.ErrNotFound {
			RespondNotFound(ctx, "There is no profile for this user")
			return
		}
		RespondInternal(ctx, "Could not fetch profile")
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// Upsert creates the caller's profile on first write and overwrites the
// supplied fields afterwards. Absent optional fields keep their stored
// values.
func (h *ProfilesHandler) Upsert(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req profile.UpsertProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	p, err := h.profiles.Upsert(cctx, userID, req)

	if err != nil {
		if err == profile.ErrHandleTaken {
			RespondConflict(ctx, "handle_taken", "That handle is already taken")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "profile upsert failed", "err", err)
		RespondInternal(ctx, "Could not save profile")
		return
	}

	h.invalidateListCache()

	ctx.JSON(http.StatusOK, p)
}

func (h *ProfilesHandler) AddExperience(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req profile.AddExperienceRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	entry := profile.NewExperienceFromRequest(req)

	err := h.profiles.AddExperience(cctx, userID, entry)

	if err != nil {
		if err == profile.ErrNotFound {
			RespondNotFound(ctx, "There is no profile for this user")
			return
		}
		RespondInternal(ctx, "Could not add experience")
		return
	}

	h.respondRefreshedProfile(ctx, cctx, userID, http.StatusCreated)
}

func (h *ProfilesHandler) RemoveExperience(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	entryID := ctx.Param("exp_id")

	if !utils.IsUUID(entryID) {
		RespondBadRequest(ctx, "experience id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.profiles.RemoveExperience(cctx, userID, entryID)

	if err != nil {
		// an unknown id is a reported miss, never a fallback delete
		if err == profile.ErrEntryNotFound {
			RespondNotFound(ctx, "Experience entry not found")
			return
		}
		RespondInternal(ctx, "Could not remove experience")
		return
	}

	h.respondRefreshedProfile(ctx, cctx, userID, http.StatusOK)
}

func (h *ProfilesHandler) AddEducation(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req profile.AddEducationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	entry := profile.NewEducationFromRequest(req)

	err := h.profiles.AddEducation(cctx, userID, entry)

	if err != nil {
		if err == profile.ErrNotFound {
			RespondNotFound(ctx, "There is no profile for this user")
			return
		}
		RespondInternal(ctx, "Could not add education")
		return
	}

	h.respondRefreshedProfile(ctx, cctx, userID, http.StatusCreated)
}

func (h *ProfilesHandler) RemoveEducation(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	entryID := ctx.Param("edu_id")

	if !utils.IsUUID(entryID) {
		RespondBadRequest(ctx, "education id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.profiles.RemoveEducation(cctx, userID, entryID)

	if err != nil {
		if err == profile.ErrEntryNotFound {
			RespondNotFound(ctx, "Education entry not found")
			return
		}
		RespondInternal(ctx, "Could not remove education")
		return
	}

	h.respondRefreshedProfile(ctx, cctx, userID, http.StatusOK)
}

// DeleteAccount removes the profile and its user in one transaction, so a
// failure part way leaves the account intact.
func (h *ProfilesHandler) DeleteAccount(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.accounts.GetByID(cctx, userID)

	if err != nil {
		if err == user.ErrNotFound {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not delete account")
		return
	}

	err = h.accounts.DeleteWithProfile(cctx, userID)

	if err != nil {
		if err == user.ErrNotFound {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not delete account")
		return
	}

	h.invalidateListCache()

	// best effort farewell note
	_, err = h.enqueuer.Enqueue(cctx, jobs.JobSendAccountFarewell, jobs.SendAccountFarewellPayload{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
	})

	if err != nil {
		h.log.WarnContext(ctx.Request.Context(), "farewell enqueue failed", "user_id", u.ID, "err", err)
	}

	ctx.Status(http.StatusNoContent)
}

func (h *ProfilesHandler) respondRefreshedProfile(ctx *gin.Context, cctx context.Context, userID string, status int) {
	h.invalidateListCache()

	p, err := h.profiles.GetByUserID(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not fetch profile")
		return
	}

	ctx.JSON(status, p)
}

func (h *ProfilesHandler) invalidateListCache() {
	if h.listCache != nil {
		h.listCache.Clear()
	}
}
