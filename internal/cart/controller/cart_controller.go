package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"fitstore/internal/cart/service"
	"fitstore/internal/domain"
	"fitstore/internal/dto"
	apperrors "fitstore/internal/errors"
)

type CartService interface {
	AddItem(ctx context.Context, userID string, ref domain.ItemRef) (*domain.CartEntry, error)
	ChangeQuantity(ctx context.Context, entryID int64, quantity int) error
	ToggleSelection(ctx context.Context, entryID int64) (*domain.CartEntry, error)
	RemoveItem(ctx context.Context, entryID int64) error
	Count(ctx context.Context, userID string) (int, error)
	ListActive(ctx context.Context, userID string) ([]service.ResolvedEntry, error)
}

type CartController struct {
	svc    CartService
	logger *zap.Logger
}

func NewCartController(svc CartService, logger *zap.Logger) *CartController {
	return &CartController{svc: svc, logger: logger}
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeJSON(w, http.StatusBadRequest, dto.Err(http.StatusBadRequest, "request body must be valid JSON"))
		return
	}

	ref := domain.ItemRef{Kind: domain.ItemKind(req.ItemKind), ID: req.ItemID}
	entry, err := c.svc.AddItem(r.Context(), req.UserID, ref)
	if err != nil {
		c.writeError(w, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.Ok(http.StatusCreated, "item added to cart", toCartEntryDTO(*entry, "", "", 0)))
}

func (c *CartController) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	entryID, ok := c.entryID(w, r)
	if !ok {
		return
	}

	var req dto.ChangeQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeJSON(w, http.StatusBadRequest, dto.Err(http.StatusBadRequest, "request body must be valid JSON"))
		return
	}

	if err := c.svc.ChangeQuantity(r.Context(), entryID, req.Quantity); err != nil {
		c.writeError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.Ok(http.StatusOK, "quantity updated", nil))
}

func (c *CartController) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	entryID, ok := c.entryID(w, r)
	if !ok {
		return
	}

	entry, err := c.svc.ToggleSelection(r.Context(), entryID)
	if err != nil {
		c.writeError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.Ok(http.StatusOK, "selection updated", toCartEntryDTO(*entry, "", "", 0)))
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	entryID, ok := c.entryID(w, r)
	if !ok {
		return
	}

	if err := c.svc.RemoveItem(r.Context(), entryID); err != nil {
		c.writeError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.Ok(http.StatusOK, "item removed", nil))
}

func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		c.writeJSON(w, http.StatusBadRequest, dto.Err(http.StatusBadRequest, "userId is required"))
		return
	}

	resolved, err := c.svc.ListActive(r.Context(), userID)
	if err != nil {
		c.writeError(w, err)
		return
	}

	entries := make([]dto.CartEntryDTO, 0, len(resolved))
	for _, re := range resolved {
		entries = append(entries, toCartEntryDTO(re.Entry, re.Title, re.Image, re.UnitPrice))
	}

	c.writeJSON(w, http.StatusOK, dto.Ok(http.StatusOK, "cart retrieved", dto.CartDTO{
		Entries: entries,
		Count:   len(entries),
	}))
}

func (c *CartController) Count(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		c.writeJSON(w, http.StatusBadRequest, dto.Err(http.StatusBadRequest, "userId is required"))
		return
	}

	count, err := c.svc.Count(r.Context(), userID)
	if err != nil {
		c.writeError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.Ok(http.StatusOK, "cart count retrieved", dto.CartCountDTO{Count: count}))
}

func (c *CartController) entryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		c.writeJSON(w, http.StatusBadRequest, dto.Err(http.StatusBadRequest, "id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func toCartEntryDTO(entry domain.CartEntry, title, image string, unitPrice float64) dto.CartEntryDTO {
	return dto.CartEntryDTO{
		ID:         entry.ID,
		UserID:     entry.UserID,
		ItemKind:   string(entry.Ref.Kind),
		ItemID:     entry.Ref.ID,
		Title:      title,
		Image:      image,
		UnitPrice:  unitPrice,
		Quantity:   entry.Quantity,
		IsSelected: entry.IsSelected,
		CreatedAt:  entry.CreatedAt,
	}
}

func (c *CartController) writeError(w http.ResponseWriter, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeJSON(w, http.StatusBadRequest, dto.Err(http.StatusBadRequest, ve.Message))
		return
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeJSON(w, http.StatusNotFound, dto.Err(http.StatusNotFound, err.Error()))
		return
	}
	if _, ok := apperrors.IsDuplicateItemError(err); ok {
		c.writeJSON(w, http.StatusConflict, dto.Err(http.StatusConflict, err.Error()))
		return
	}
	if _, ok := apperrors.IsOutOfRangeError(err); ok {
		c.writeJSON(w, http.StatusUnprocessableEntity, dto.Err(http.StatusUnprocessableEntity, err.Error()))
		return
	}

	c.logger.Error("unexpected cart error", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, dto.Err(http.StatusInternalServerError, "an unexpected error occurred"))
}

func (c *CartController) writeJSON(w http.ResponseWriter, status int, body dto.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
