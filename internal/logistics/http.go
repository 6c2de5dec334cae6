// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logistics

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/fruitlog/internal/platform/middleware"
	requestutil "github.com/taibuivan/fruitlog/internal/platform/request"
	"github.com/taibuivan/fruitlog/internal/platform/respond"
	"github.com/taibuivan/fruitlog/internal/platform/sec"
	"github.com/taibuivan/fruitlog/pkg/convert"
	"github.com/taibuivan/fruitlog/pkg/slice"
)

// # Definitions & Constructors

// Handler implements the truck and stock HTTP endpoints.
type Handler struct {
	logisticsService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{logisticsService: service}
}

/*
TruckRoutes returns the /trucks router.

The caller must mount it behind [middleware.Authenticate].

# Endpoints
  - GET  /                : Hangar-scoped truck list.
  - GET  /{id}            : Truck detail.
  - GET  /{id}/receipt    : Delivery receipt (PDF).
  - POST /                : Register a truck (admin, manager).
  - PUT  /{id}/status     : Change the status (admin, manager).
  - POST /{id}/unload     : Unload into stock (admin, manager).
*/
func (handler *Handler) TruckRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listTrucks)
	router.Get("/{id}", handler.getTruck)
	router.Get("/{id}/receipt", handler.receipt)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.TruckOperators...))
		r.Post("/", handler.registerTruck)
		r.Put("/{id}/status", handler.setStatus)
		r.Post("/{id}/unload", handler.unloadTruck)
	})

	return router
}

// StockRoutes returns the /stocks router, to be mounted behind [middleware.Authenticate].
func (handler *Handler) StockRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)
	router.Get("/", handler.listStocks)
	return router
}

// # Request Payloads

type statusRequest struct {
	Status string `json:"status"`
}

type unloadRequest struct {
	Items []Article `json:"items"`
}

// # Handlers

func (handler *Handler) listTrucks(writer http.ResponseWriter, request *http.Request) {
	trucks, err := handler.logisticsService.ListTrucks(request.Context(), requestutil.Principal(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Body{"trucks": trucks, "count": len(trucks)})
}

func (handler *Handler) getTruck(writer http.ResponseWriter, request *http.Request) {
	truck, err := handler.logisticsService.GetTruck(request.Context(), requestutil.Principal(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Body{"truck": truck})
}

/*
GET /trucks/{id}/receipt.

Response:
  - 200: application/pdf attachment
  - 404: Unknown truck or outside the caller's hangar
*/
func (handler *Handler) receipt(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	rendered, err := handler.logisticsService.Receipt(request.Context(), requestutil.Principal(request), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Content-Type", "application/pdf")
	writer.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, id))
	writer.Header().Set("Content-Length", strconv.Itoa(len(rendered)))
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(rendered)
}

/*
POST /trucks.

Response:
  - 201: {truck, stockUpdates}
  - 400: Missing fields or articles
  - 403: Caller is not admin or manager
*/
func (handler *Handler) registerTruck(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	truck, deltas, err := handler.logisticsService.RegisterTruck(request.Context(), requestutil.Principal(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, respond.Body{"truck": truck, "stockUpdates": deltas})
}

func (handler *Handler) setStatus(writer http.ResponseWriter, request *http.Request) {
	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	truck, err := handler.logisticsService.SetStatus(request.Context(), requestutil.Principal(request),
		requestutil.ID(request, "id"), Status(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Body{"truck": truck})
}

/*
POST /trucks/{id}/unload.

Response:
  - 200: {truck, stockUpdates}
  - 400: items missing or malformed
  - 404: Unknown truck
*/
func (handler *Handler) unloadTruck(writer http.ResponseWriter, request *http.Request) {
	var input unloadRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	truck, deltas, err := handler.logisticsService.UnloadTruck(request.Context(), requestutil.Principal(request),
		requestutil.ID(request, "id"), input.Items)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Body{"truck": truck, "stockUpdates": deltas})
}

func (handler *Handler) listStocks(writer http.ResponseWriter, request *http.Request) {
	stocks, err := handler.logisticsService.ListStocks(request.Context(), requestutil.Principal(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if convert.Bool(request.URL.Query().Get("low")) {
		stocks = slice.Filter(stocks, Stock.Below)
	}

	respond.OK(writer, respond.Body{"stocks": stocks, "count": len(stocks)})
}
