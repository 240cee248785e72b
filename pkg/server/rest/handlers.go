package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/twpayne/go-polyline"

	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/engine/pathfinder"
	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/server"
)

type PathfindingService interface {
	ShortestPath(ctx context.Context, startX, startY, goalX, goalY int32, useDynamicCost bool) (pathfinder.PathResult, error)
	BatchShortestPath(ctx context.Context, requests []pathfinder.PathRequest) []pathfinder.PathResult
	SetDynamicCost(ctx context.Context, nodeID int32, trafficCost, terrainCost uint8) error
	SetAreaTrafficCost(ctx context.Context, x, y, width, height int32, trafficCost uint8) (int32, error)
	Statistics(ctx context.Context) pathfinder.StatisticsSnapshot
	Coords(id int32) (int32, int32)
}

type PathfindingHandler struct {
	svc          PathfindingService
	promeMetrics *Metrics
}

func PathfinderRouter(r *chi.Mux, svc PathfindingService, m *Metrics) {
	handler := &PathfindingHandler{svc, m}

	r.Group(func(r chi.Router) {
		r.Route("/api/pathfinding", func(r chi.Router) {
			r.Post("/shortest-path", handler.shortestPath)
			r.Post("/batch", handler.batchShortestPath)
			r.Get("/statistics", handler.statistics)
		})
		r.Route("/api/costs", func(r chi.Router) {
			r.Post("/node", handler.setNodeCost)
			r.Post("/area", handler.setAreaCost)
		})
	})
}

// ShortestPathRequest request body for a shortest path query between two
// grid coordinates.
type ShortestPathRequest struct {
	StartX         int32 `json:"start_x" validate:"gte=0"`
	StartY         int32 `json:"start_y" validate:"gte=0"`
	GoalX          int32 `json:"goal_x" validate:"gte=0"`
	GoalY          int32 `json:"goal_y" validate:"gte=0"`
	UseDynamicCost bool  `json:"use_dynamic_cost"`
}

func (s *ShortestPathRequest) Bind(r *http.Request) error {
	if s.StartX < 0 || s.StartY < 0 || s.GoalX < 0 || s.GoalY < 0 {
		return errors.New("invalid request")
	}
	return nil
}

// ShortestPathResponse response body for a shortest path query. Path is the
// polyline-encoded route.
type ShortestPathResponse struct {
	Status     string     `json:"status"`
	Found      bool       `json:"found"`
	PathLength int32      `json:"path_length"`
	TotalCost  uint32     `json:"total_cost"`
	Iterations uint64     `json:"iterations"`
	Nodes      []int32    `json:"nodes,omitempty"`
	Route      [][2]int32 `json:"route,omitempty"`
	Path       string     `json:"path,omitempty"`
}

func (h *PathfindingHandler) newShortestPathResponse(res pathfinder.PathResult) *ShortestPathResponse {
	resp := &ShortestPathResponse{
		Status:     res.Status.String(),
		Found:      res.Status == pathfinder.StatusPathFound,
		PathLength: int32(len(res.Nodes)),
		TotalCost:  res.TotalCost,
		Iterations: res.Iterations,
		Nodes:      res.Nodes,
	}
	if len(res.Nodes) > 0 {
		coords := make([][]float64, 0, len(res.Nodes))
		for _, id := range res.Nodes {
			x, y := h.svc.Coords(id)
			resp.Route = append(resp.Route, [2]int32{x, y})
			coords = append(coords, []float64{float64(x), float64(y)})
		}
		resp.Path = string(polyline.EncodeCoords(coords))
	}
	return resp
}

func (h *PathfindingHandler) shortestPath(w http.ResponseWriter, r *http.Request) {
	data := &ShortestPathRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	h.promeMetrics.PathQueryCount.WithLabelValues(fmt.Sprint(data.UseDynamicCost)).Inc()
	res, err := h.svc.ShortestPath(r.Context(), data.StartX, data.StartY, data.GoalX, data.GoalY, data.UseDynamicCost)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, h.newShortestPathResponse(res))
}

// BatchPathItem one query of a batch request, addressed by node ids.
type BatchPathItem struct {
	StartID        int32 `json:"start_id" validate:"gte=0"`
	GoalID         int32 `json:"goal_id" validate:"gte=0"`
	UseDynamicCost bool  `json:"use_dynamic_cost"`
}

// BatchPathRequest request body for a batch of shortest path queries.
type BatchPathRequest struct {
	Requests []BatchPathItem `json:"requests" validate:"required,dive"`
}

func (s *BatchPathRequest) Bind(r *http.Request) error {
	if len(s.Requests) == 0 {
		return errors.New("invalid request")
	}
	return nil
}

// BatchPathResponse response body for a batch of shortest path queries,
// results in request order.
type BatchPathResponse struct {
	Results []*ShortestPathResponse `json:"results"`
}

func (h *PathfindingHandler) batchShortestPath(w http.ResponseWriter, r *http.Request) {
	data := &BatchPathRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	requests := make([]pathfinder.PathRequest, 0, len(data.Requests))
	for _, item := range data.Requests {
		h.promeMetrics.PathQueryCount.WithLabelValues(fmt.Sprint(item.UseDynamicCost)).Inc()
		requests = append(requests, pathfinder.PathRequest{
			StartID:        item.StartID,
			GoalID:         item.GoalID,
			UseDynamicCost: item.UseDynamicCost,
		})
	}

	results := h.svc.BatchShortestPath(r.Context(), requests)
	resp := &BatchPathResponse{Results: make([]*ShortestPathResponse, 0, len(results))}
	for _, res := range results {
		resp.Results = append(resp.Results, h.newShortestPathResponse(res))
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// NodeCostRequest request body for a dynamic cost overlay write on one node.
type NodeCostRequest struct {
	NodeID      int32 `json:"node_id" validate:"gte=0"`
	TrafficCost uint8 `json:"traffic_cost"`
	TerrainCost uint8 `json:"terrain_cost"`
}

func (s *NodeCostRequest) Bind(r *http.Request) error {
	if s.NodeID < 0 {
		return errors.New("invalid request")
	}
	return nil
}

func (h *PathfindingHandler) setNodeCost(w http.ResponseWriter, r *http.Request) {
	data := &NodeCostRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := h.svc.SetDynamicCost(r.Context(), data.NodeID, data.TrafficCost, data.TerrainCost); err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]bool{"success": true})
}

// AreaCostRequest request body for a traffic overlay write on a rectangle
// of nodes.
type AreaCostRequest struct {
	X           int32 `json:"x" validate:"gte=0"`
	Y           int32 `json:"y" validate:"gte=0"`
	Width       int32 `json:"width" validate:"gt=0"`
	Height      int32 `json:"height" validate:"gt=0"`
	TrafficCost uint8 `json:"traffic_cost"`
}

func (s *AreaCostRequest) Bind(r *http.Request) error {
	if s.Width <= 0 || s.Height <= 0 {
		return errors.New("invalid request")
	}
	return nil
}

// AreaCostResponse number of nodes whose overlay was updated.
type AreaCostResponse struct {
	UpdatedNodes int32 `json:"updated_nodes"`
}

func (h *PathfindingHandler) setAreaCost(w http.ResponseWriter, r *http.Request) {
	data := &AreaCostRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	updated, err := h.svc.SetAreaTrafficCost(r.Context(), data.X, data.Y, data.Width, data.Height, data.TrafficCost)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &AreaCostResponse{UpdatedNodes: updated})
}

func (h *PathfindingHandler) statistics(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, h.svc.Statistics(r.Context()))
}

// ErrResponse model for error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 500,
		StatusText:     "Internal server error.",
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrChi(err error) render.Renderer {
	statusText := ""
	switch getStatusCode(err) {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusInternalServerError:
		statusText = "Internal server error."
	case http.StatusConflict:
		statusText = "Resource conflict."
	case http.StatusBadRequest:
		statusText = "Bad request."
	default:
		statusText = "Error."
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: getStatusCode(err),
		StatusText:     statusText,
		ErrorText:      err.Error(),
	}
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ierr *server.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	} else {
		switch ierr.Code() {
		case server.ErrInternalServerError:
			return http.StatusInternalServerError
		case server.ErrNotFound:
			return http.StatusNotFound
		case server.ErrConflict:
			return http.StatusConflict
		case server.ErrBadParamInput:
			return http.StatusBadRequest
		default:
			return http.StatusInternalServerError
		}
	}

}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := errors.New(e.Translate(trans))
		errs = append(errs, translatedErr)
	}
	return errs
}
