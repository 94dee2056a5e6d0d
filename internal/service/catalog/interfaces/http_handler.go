// internal/service/catalog/interfaces/http_handler.go
package interfaces

import (
	"context"
	"net/http"

	"autohub/internal/pkg/apperr"
	"autohub/internal/pkg/constants"
	"autohub/internal/pkg/httpx"
	"autohub/internal/service/catalog/application"
)

type CatalogHandler struct {
	service *application.CatalogService
	ready   func(context.Context) error
}

func NewCatalogHandler(service *application.CatalogService, ready func(context.Context) error) *CatalogHandler {
	return &CatalogHandler{service: service, ready: ready}
}

func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /readyz", h.readyz)
	mux.HandleFunc("GET /catalog/cars", h.list)
	mux.HandleFunc("POST /catalog/cars", h.create)
	mux.HandleFunc("POST /catalog/cars/search", h.search)
	mux.HandleFunc("GET /catalog/cars/{carId}", h.get)
	mux.HandleFunc("PUT /catalog/cars/{carId}", h.update)
	mux.HandleFunc("DELETE /catalog/cars/{carId}", h.delete)
}

func (h *CatalogHandler) get(w http.ResponseWriter, r *http.Request) {
	car, err := h.service.Get(r.Context(), r.PathValue("carId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCarResponse(car))
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	cars, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCarResponses(cars))
}

func (h *CatalogHandler) create(w http.ResponseWriter, r *http.Request) {
	var req carRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	car, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCarResponse(car))
}

func (h *CatalogHandler) update(w http.ResponseWriter, r *http.Request) {
	var req carRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	car, err := h.service.Update(r.Context(), r.PathValue("carId"), req.toInput())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCarResponse(car))
}

func (h *CatalogHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("carId")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	cars, err := h.service.Search(r.Context(), req.toCriteria())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCarResponses(cars))
}

func (h *CatalogHandler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.fail(w, r, apperr.Wrap(err, apperr.KindServiceUnavailable, "store unreachable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (h *CatalogHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, constants.CatalogService, err)
}
