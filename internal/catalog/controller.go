package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"fitstore/internal/domain"
	"fitstore/internal/dto"
	apperrors "fitstore/internal/errors"
)

type Controller struct {
	repo   Repository
	logger *zap.Logger
}

func NewController(repo Repository, logger *zap.Logger) *Controller {
	return &Controller{repo: repo, logger: logger}
}

func (c *Controller) ListProducts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "perPage", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	products, total, err := c.repo.ListProducts(r.Context(), page, perPage)
	if err != nil {
		c.logger.Error("listing products", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, dto.Err(http.StatusInternalServerError, "an unexpected error occurred"))
		return
	}

	out := make([]dto.ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}

	c.writeJSON(w, http.StatusOK, dto.Ok(http.StatusOK, "products retrieved", dto.ProductListDTO{
		Products: out,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}))
}

func (c *Controller) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		c.writeJSON(w, http.StatusBadRequest, dto.Err(http.StatusBadRequest, "id must be a positive integer"))
		return
	}

	p, err := c.repo.FindProductByID(r.Context(), id)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			c.writeJSON(w, http.StatusNotFound, dto.Err(http.StatusNotFound, err.Error()))
			return
		}
		c.logger.Error("fetching product", zap.Int("id", id), zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, dto.Err(http.StatusInternalServerError, "an unexpected error occurred"))
		return
	}

	c.writeJSON(w, http.StatusOK, dto.Ok(http.StatusOK, "product retrieved", toProductDTO(*p)))
}

func (c *Controller) ListPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := c.repo.ListPackages(r.Context())
	if err != nil {
		c.logger.Error("listing packages", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, dto.Err(http.StatusInternalServerError, "an unexpected error occurred"))
		return
	}

	out := make([]dto.PackageDTO, 0, len(packages))
	for _, p := range packages {
		out = append(out, dto.PackageDTO{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Image:       p.Image,
			IsActive:    p.IsActive,
		})
	}

	c.writeJSON(w, http.StatusOK, dto.Ok(http.StatusOK, "packages retrieved", out))
}

func (c *Controller) ListTrainings(w http.ResponseWriter, r *http.Request) {
	trainings, err := c.repo.ListTrainings(r.Context())
	if err != nil {
		c.logger.Error("listing training programs", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, dto.Err(http.StatusInternalServerError, "an unexpected error occurred"))
		return
	}

	out := make([]dto.TrainingProgramDTO, 0, len(trainings))
	for _, t := range trainings {
		out = append(out, dto.TrainingProgramDTO{
			ID:            t.ID,
			Title:         t.Title,
			Price:         t.Price,
			Image:         t.Image,
			DurationWeeks: t.DurationWeeks,
			IsActive:      t.IsActive,
		})
	}

	c.writeJSON(w, http.StatusOK, dto.Ok(http.StatusOK, "training programs retrieved", out))
}

func toProductDTO(p domain.Product) dto.ProductDTO {
	return dto.ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Image:       p.Image,
		Category:    p.Category,
		IsActive:    p.IsActive,
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, body dto.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
