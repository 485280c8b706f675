package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/octofit/internal/model"
	"github.com/hitoshi/octofit/internal/workout"
)

// WorkoutServiceInterface はワークアウトハンドラーが必要とするサービスインターフェース。
type WorkoutServiceInterface interface {
	Create(ctx context.Context, input workout.Input) (*model.Workout, error)
	Get(ctx context.Context, id string) (*model.Workout, error)
	List(ctx context.Context) ([]*model.Workout, error)
	Update(ctx context.Context, id string, input workout.Input) (*model.Workout, error)
	Delete(ctx context.Context, id string) error
}

// WorkoutHandler はワークアウトカタログのHTTPハンドラー。
type WorkoutHandler struct {
	service WorkoutServiceInterface
}

// NewWorkoutHandler はWorkoutHandlerを生成する。
func NewWorkoutHandler(service WorkoutServiceInterface) *WorkoutHandler {
	return &WorkoutHandler{
		service: service,
	}
}

// workoutRequest はワークアウト作成・更新リクエストのボディ。
type workoutRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	ActivityType     string `json:"activity_type"`
	Difficulty       string `json:"difficulty"`
	Duration         int    `json:"duration"`
	CaloriesEstimate int    `json:"calories_estimate"`
}

// workoutResponse はワークアウトのAPIレスポンス。
// categoryはactivity_typeの別名。
type workoutResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	ActivityType     string `json:"activity_type"`
	Category         string `json:"category"`
	Difficulty       string `json:"difficulty"`
	Duration         int    `json:"duration"`
	CaloriesEstimate int    `json:"calories_estimate"`
}

func toWorkoutResponse(w *model.Workout) workoutResponse {
	return workoutResponse{
		ID:               w.ID,
		Name:             w.Name,
		Description:      w.Description,
		ActivityType:     w.ActivityType,
		Category:         w.ActivityType,
		Difficulty:       w.Difficulty,
		Duration:         w.Duration,
		CaloriesEstimate: w.CaloriesEstimate,
	}
}

func (r workoutRequest) toInput() workout.Input {
	return workout.Input{
		Name:             r.Name,
		Description:      r.Description,
		ActivityType:     r.ActivityType,
		Difficulty:       r.Difficulty,
		Duration:         r.Duration,
		CaloriesEstimate: r.CaloriesEstimate,
	}
}

// CreateWorkout はワークアウト作成を処理する。
// POST /api/workouts
func (h *WorkoutHandler) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req workoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestBodyError())
		return
	}

	created, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toWorkoutResponse(created))
}

// GetWorkout はワークアウト詳細を取得する。
// GET /api/workouts/:id
func (h *WorkoutHandler) GetWorkout(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toWorkoutResponse(found))
}

// ListWorkouts はワークアウト一覧を取得する。
// GET /api/workouts
func (h *WorkoutHandler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]workoutResponse, len(workouts))
	for i, wk := range workouts {
		responses[i] = toWorkoutResponse(wk)
	}

	writeJSONResponse(w, http.StatusOK, responses)
}

// UpdateWorkout はワークアウト更新を処理する。
// PUT /api/workouts/:id
func (h *WorkoutHandler) UpdateWorkout(w http.ResponseWriter, r *http.Request) {
	var req workoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestBodyError())
		return
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toWorkoutResponse(updated))
}

// DeleteWorkout はワークアウト削除を処理する。
// DELETE /api/workouts/:id
func (h *WorkoutHandler) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
