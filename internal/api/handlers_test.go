// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shoprec/internal/database"
	"github.com/tomtom215/shoprec/internal/eventprocessor"
	"github.com/tomtom215/shoprec/internal/health"
	"github.com/tomtom215/shoprec/internal/recommend"
	"github.com/tomtom215/shoprec/internal/recommend/service"
)

type fakeRecommender struct {
	mu sync.Mutex

	items      []recommend.ProductDetails
	err        error
	orders     int
	stats      *recommend.TrainStats
	statsErr   error
	retrainErr error

	lastRequest       service.Request
	generated         []int64
	invalidated       []int64
	popularInvalidate int
}

func (f *fakeRecommender) GetRecommendations(_ context.Context, req service.Request) ([]recommend.ProductDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeRecommender) GenerateForUser(_ context.Context, userID int64, _ int) ([]recommend.ProductDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generated = append(f.generated, userID)
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeRecommender) RetrainModel(_ context.Context) (*recommend.TrainStats, error) {
	if f.retrainErr != nil {
		return recommend.ErrorStats(f.retrainErr), f.retrainErr
	}
	return &recommend.TrainStats{Status: recommend.TrainStatusTrained, Users: 2, Products: 3}, nil
}

func (f *fakeRecommender) InvalidateCache(_ context.Context, userID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, userID)
}

func (f *fakeRecommender) InvalidatePopular(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.popularInvalidate++
	return nil
}

func (f *fakeRecommender) CountUserOrders(_ context.Context, _ int64) (int, error) {
	return f.orders, nil
}

func (f *fakeRecommender) ModelStats() (*recommend.TrainStats, error) {
	return f.stats, f.statsErr
}

type fakeCatalog struct{}

func (fakeCatalog) GetProducts(_ context.Context, ids []int64) (map[int64]recommend.Product, error) {
	names := map[int64]string{1: "Banana", 2: "Strawberries", 3: "Gift Card"}
	out := make(map[int64]recommend.Product, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			out[id] = recommend.Product{ID: id, Name: name}
		}
	}
	return out, nil
}

type fakeOrders struct {
	mu     sync.Mutex
	orders []database.Order
	err    error
}

func (f *fakeOrders) CreateOrder(_ context.Context, order database.Order) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.orders = append(f.orders, order)
	return int64(100 + len(f.orders)), nil
}

type fakePublisher struct {
	mu    sync.Mutex
	tasks []*eventprocessor.RecommendationTask
	err   error
}

func (f *fakePublisher) PublishTask(_ context.Context, _ string, task *eventprocessor.RecommendationTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.tasks = append(f.tasks, task)
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

type testServer struct {
	handler http.Handler
	rec     *fakeRecommender
	orders  *fakeOrders
	pub     *fakePublisher
	checker *health.Checker
}

// newTestServer builds the full router. A nil pub disables the task queue.
func newTestServer(t *testing.T, rec *fakeRecommender, pub *fakePublisher) *testServer {
	t.Helper()

	ts := &testServer{
		rec:     rec,
		orders:  &fakeOrders{},
		pub:     pub,
		checker: health.NewChecker(health.DefaultConfig()),
	}
	deps := Deps{
		Recommender: rec,
		Catalog:     fakeCatalog{},
		Orders:      ts.orders,
		Health:      ts.checker,
	}
	if pub != nil {
		deps.Publisher = pub
	}

	h, err := NewHandler(deps, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHandler() error: %v", err)
	}
	cfg := DefaultMiddlewareConfig()
	cfg.RateLimitDisabled = true
	ts.handler = NewRouter(h, cfg)
	return ts
}

func (ts *testServer) do(t *testing.T, method, target string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		var raw []byte
		switch b := body.(type) {
		case string:
			raw = []byte(b)
		default:
			var err error
			if raw, err = json.Marshal(b); err != nil {
				t.Fatalf("marshal body: %v", err)
			}
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestNewHandler_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(Deps{}, zerolog.Nop()); err == nil {
		t.Error("expected error without recommender")
	}
	if _, err := NewHandler(Deps{Recommender: &fakeRecommender{}}, zerolog.Nop()); err == nil {
		t.Error("expected error without catalog")
	}
	if _, err := NewHandler(Deps{Recommender: &fakeRecommender{}, Catalog: fakeCatalog{}}, zerolog.Nop()); err == nil {
		t.Error("expected error without order store")
	}
}

func TestGetRecommendations(t *testing.T) {
	t.Parallel()

	items := []recommend.ProductDetails{
		{ProductID: 3, ProductName: "Gift Card", Score: 1},
		{ProductID: 1, ProductName: "Banana", Score: 0.755},
	}
	rec := &fakeRecommender{items: items}
	ts := newTestServer(t, rec, nil)

	resp, env := ts.do(t, http.MethodGet, "/api/v1/recommendations/1?model_kind=collaborative&count=2&use_cache=false&exclude=5,6", nil)
	if resp.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var got []recommend.ProductDetails
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(got) != 2 || got[0].ProductID != 3 || got[1].Score != 0.755 {
		t.Errorf("data = %+v", got)
	}
	if env.Meta == nil || env.Meta.Count == nil || *env.Meta.Count != 2 {
		t.Errorf("meta = %+v, want count 2", env.Meta)
	}
	if env.Meta.RequestID == "" || resp.Header().Get("X-Request-ID") != env.Meta.RequestID {
		t.Errorf("request id not propagated: meta %q header %q", env.Meta.RequestID, resp.Header().Get("X-Request-ID"))
	}

	want := service.Request{UserID: 1, Kind: "collaborative", Count: 2, UseCache: false, Exclude: []int64{5, 6}}
	got0 := rec.lastRequest
	if got0.UserID != want.UserID || got0.Kind != want.Kind || got0.Count != want.Count || got0.UseCache != want.UseCache ||
		len(got0.Exclude) != 2 || got0.Exclude[0] != 5 || got0.Exclude[1] != 6 {
		t.Errorf("service request = %+v, want %+v", got0, want)
	}
}

func TestGetRecommendations_Defaults(t *testing.T) {
	t.Parallel()

	rec := &fakeRecommender{items: []recommend.ProductDetails{}}
	ts := newTestServer(t, rec, nil)

	resp, _ := ts.do(t, http.MethodGet, "/api/v1/recommendations/9", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	if got := rec.lastRequest; got.Kind != "collaborative" || got.Count != 0 || !got.UseCache || got.Exclude != nil {
		t.Errorf("defaults = %+v", got)
	}
}

func TestGetRecommendations_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		target     string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "bad user id", target: "/api/v1/recommendations/abc", wantStatus: http.StatusBadRequest, wantCode: ErrCodeBadRequest},
		{name: "negative user id", target: "/api/v1/recommendations/-1", wantStatus: http.StatusBadRequest, wantCode: ErrCodeBadRequest},
		{name: "bad count", target: "/api/v1/recommendations/1?count=many", wantStatus: http.StatusBadRequest, wantCode: ErrCodeBadRequest},
		{name: "bad use_cache", target: "/api/v1/recommendations/1?use_cache=maybe", wantStatus: http.StatusBadRequest, wantCode: ErrCodeBadRequest},
		{name: "bad exclude", target: "/api/v1/recommendations/1?exclude=1,x", wantStatus: http.StatusBadRequest, wantCode: ErrCodeBadRequest},
		{name: "unsupported kind", target: "/api/v1/recommendations/1?model_kind=tfidf", wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidationFailed},
		{name: "unknown kind", target: "/api/v1/recommendations/1?model_kind=bogus", wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidationFailed},
		{
			name:       "service rejects kind",
			target:     "/api/v1/recommendations/1",
			serviceErr: recommend.ErrUnsupportedModelKind,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
		{
			name:       "no data",
			target:     "/api/v1/recommendations/1",
			serviceErr: recommend.ErrNoInteractionData,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrCodeServiceUnavailable,
		},
		{
			name:       "training in progress",
			target:     "/api/v1/recommendations/1",
			serviceErr: recommend.ErrTrainingInProgress,
			wantStatus: http.StatusConflict,
			wantCode:   ErrCodeConflict,
		},
		{
			name:       "deadline",
			target:     "/api/v1/recommendations/1",
			serviceErr: context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   ErrCodeTimeout,
		},
		{
			name:       "persistence",
			target:     "/api/v1/recommendations/1?use_cache=false",
			serviceErr: recommend.ErrPersistence,
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestServer(t, &fakeRecommender{err: tt.serviceErr}, nil)
			resp, env := ts.do(t, http.MethodGet, tt.target, nil)

			if resp.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", resp.Code, tt.wantStatus, resp.Body.String())
			}
			if env.Success || env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestGenerateRecommendations(t *testing.T) {
	t.Parallel()

	t.Run("user without orders", func(t *testing.T) {
		t.Parallel()
		rec := &fakeRecommender{}
		ts := newTestServer(t, rec, nil)

		resp, env := ts.do(t, http.MethodPost, "/api/v1/recommendations/4/generate", nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("status = %d", resp.Code)
		}
		var got GenerateResponse
		if err := json.Unmarshal(env.Data, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Status != "no_orders" || got.Count != 0 {
			t.Errorf("response = %+v", got)
		}
		if len(rec.generated) != 0 {
			t.Error("generate ran for a user without orders")
		}
	})

	t.Run("generates", func(t *testing.T) {
		t.Parallel()
		rec := &fakeRecommender{orders: 3, items: []recommend.ProductDetails{{ProductID: 3, Score: 1}}}
		ts := newTestServer(t, rec, nil)

		resp, env := ts.do(t, http.MethodPost, "/api/v1/recommendations/4/generate?count=5", nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("status = %d", resp.Code)
		}
		var got GenerateResponse
		if err := json.Unmarshal(env.Data, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Status != "success" || got.Count != 1 || got.UserID != 4 || got.ModelKind != "collaborative" {
			t.Errorf("response = %+v", got)
		}
		if len(rec.generated) != 1 || rec.generated[0] != 4 {
			t.Errorf("generated = %v", rec.generated)
		}
	})

	t.Run("bad count", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, &fakeRecommender{orders: 1}, nil)
		resp, _ := ts.do(t, http.MethodPost, "/api/v1/recommendations/4/generate?count=-1", nil)
		if resp.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.Code)
		}
	})
}

func TestRetrainModel(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &fakeRecommender{}, nil)
	resp, env := ts.do(t, http.MethodPost, "/api/v1/recommendations/retrain", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var got RetrainResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Details == nil || got.Details.Status != recommend.TrainStatusTrained || got.Details.Users != 2 {
		t.Errorf("details = %+v", got.Details)
	}

	failing := newTestServer(t, &fakeRecommender{retrainErr: recommend.ErrNoInteractionData}, nil)
	resp, _ = failing.do(t, http.MethodPost, "/api/v1/recommendations/retrain", nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Errorf("retrain without data status = %d, want 503", resp.Code)
	}
}

func TestInvalidateCache(t *testing.T) {
	t.Parallel()

	rec := &fakeRecommender{}
	ts := newTestServer(t, rec, nil)

	if resp, _ := ts.do(t, http.MethodDelete, "/api/v1/recommendations/5/cache", nil); resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	if resp, _ := ts.do(t, http.MethodDelete, "/api/v1/recommendations/0/cache", nil); resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}

	if len(rec.invalidated) != 1 || rec.invalidated[0] != 5 {
		t.Errorf("invalidated = %v, want [5]", rec.invalidated)
	}
	if rec.popularInvalidate != 1 {
		t.Errorf("popular invalidations = %d, want 1", rec.popularInvalidate)
	}
}

func TestModelStats(t *testing.T) {
	t.Parallel()

	untrained := newTestServer(t, &fakeRecommender{statsErr: recommend.ErrNotTrained}, nil)
	if resp, _ := untrained.do(t, http.MethodGet, "/api/v1/model/stats", nil); resp.Code != http.StatusServiceUnavailable {
		t.Errorf("untrained status = %d, want 503", resp.Code)
	}

	trained := newTestServer(t, &fakeRecommender{stats: &recommend.TrainStats{Status: "trained", Users: 2, Products: 3}}, nil)
	resp, env := trained.do(t, http.MethodGet, "/api/v1/model/stats", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var got recommend.TrainStats
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Users != 2 || got.Products != 3 {
		t.Errorf("stats = %+v", got)
	}
}

func TestEnqueueTask(t *testing.T) {
	t.Parallel()

	t.Run("queue disabled", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, &fakeRecommender{}, nil)
		resp, env := ts.do(t, http.MethodPost, "/api/v1/tasks", map[string]interface{}{"task_type": "update_recommendations", "user_id": 1})
		if resp.Code != http.StatusServiceUnavailable || env.Error.Code != ErrCodeServiceUnavailable {
			t.Errorf("status = %d, error = %+v", resp.Code, env.Error)
		}
	})

	t.Run("assigns task id", func(t *testing.T) {
		t.Parallel()
		pub := &fakePublisher{}
		ts := newTestServer(t, &fakeRecommender{}, pub)

		resp, env := ts.do(t, http.MethodPost, "/api/v1/tasks", map[string]interface{}{
			"task_type":        "update_recommendations",
			"user_id":          7,
			"order_id":         3,
			"ordered_products": []int64{1, 2},
		})
		if resp.Code != http.StatusAccepted {
			t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
		}
		var got EnqueueResponse
		if err := json.Unmarshal(env.Data, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(pub.tasks) != 1 {
			t.Fatalf("published %d tasks, want 1", len(pub.tasks))
		}
		if got.TaskID == "" || pub.tasks[0].TaskID != got.TaskID || got.Topic != eventprocessor.DefaultTaskTopic {
			t.Errorf("response = %+v, task = %+v", got, pub.tasks[0])
		}
	})

	t.Run("keeps client task id", func(t *testing.T) {
		t.Parallel()
		pub := &fakePublisher{}
		ts := newTestServer(t, &fakeRecommender{}, pub)

		resp, _ := ts.do(t, http.MethodPost, "/api/v1/tasks", map[string]interface{}{
			"task_id":   "client-1",
			"task_type": "update_recommendations",
			"user_id":   7,
		})
		if resp.Code != http.StatusAccepted || len(pub.tasks) != 1 || pub.tasks[0].TaskID != "client-1" {
			t.Errorf("status = %d, tasks = %+v", resp.Code, pub.tasks)
		}
	})

	badBodies := []struct {
		name     string
		body     interface{}
		wantCode string
	}{
		{name: "malformed json", body: "{", wantCode: ErrCodeBadRequest},
		{name: "unknown field", body: `{"task_type":"update_recommendations","user_id":1,"priority":9}`, wantCode: ErrCodeBadRequest},
		{name: "missing user", body: map[string]interface{}{"task_type": "update_recommendations"}, wantCode: ErrCodeValidationFailed},
		{name: "missing type", body: map[string]interface{}{"user_id": 1}, wantCode: ErrCodeValidationFailed},
		{name: "bad product id", body: map[string]interface{}{"task_type": "x", "user_id": 1, "ordered_products": []int64{0}}, wantCode: ErrCodeValidationFailed},
	}
	for _, tt := range badBodies {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pub := &fakePublisher{}
			ts := newTestServer(t, &fakeRecommender{}, pub)

			resp, env := ts.do(t, http.MethodPost, "/api/v1/tasks", tt.body)
			if resp.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("status = %d, error = %+v, want %s", resp.Code, env.Error, tt.wantCode)
			}
			if len(pub.tasks) != 0 {
				t.Error("invalid task was published")
			}
		})
	}
}

func TestCreateOrder(t *testing.T) {
	t.Parallel()

	order := map[string]interface{}{
		"user_id": 7,
		"items": []map[string]interface{}{
			{"product_id": 1, "quantity": 2},
			{"product_id": 3, "quantity": 1},
		},
	}

	t.Run("records and enqueues", func(t *testing.T) {
		t.Parallel()
		rec := &fakeRecommender{}
		pub := &fakePublisher{}
		ts := newTestServer(t, rec, pub)

		resp, env := ts.do(t, http.MethodPost, "/api/v1/orders", order)
		if resp.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
		}
		var got OrderConfirmation
		if err := json.Unmarshal(env.Data, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.OrderID != 101 || !got.RecommendationsQueued || got.TaskID == "" {
			t.Errorf("confirmation = %+v", got)
		}
		if len(got.Items) != 2 || got.Items[0].ProductName != "Banana" || got.Items[1].ProductName != "Gift Card" {
			t.Errorf("items = %+v", got.Items)
		}
		if len(ts.orders.orders) != 1 || ts.orders.orders[0].Items[0].Quantity != 2 {
			t.Errorf("stored orders = %+v", ts.orders.orders)
		}
		if len(rec.invalidated) != 1 || rec.invalidated[0] != 7 {
			t.Errorf("invalidated = %v", rec.invalidated)
		}
		if len(pub.tasks) != 1 {
			t.Fatalf("published %d tasks", len(pub.tasks))
		}
		task := pub.tasks[0]
		if task.TaskType != eventprocessor.TaskTypeUpdateRecommendations || task.UserID != 7 || task.OrderID != 101 || len(task.OrderedProducts) != 2 {
			t.Errorf("task = %+v", task)
		}
	})

	t.Run("publish failure keeps the order", func(t *testing.T) {
		t.Parallel()
		pub := &fakePublisher{err: errors.New("nats down")}
		ts := newTestServer(t, &fakeRecommender{}, pub)

		resp, env := ts.do(t, http.MethodPost, "/api/v1/orders", order)
		if resp.Code != http.StatusCreated {
			t.Fatalf("status = %d", resp.Code)
		}
		var got OrderConfirmation
		if err := json.Unmarshal(env.Data, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.RecommendationsQueued || got.TaskID != "" {
			t.Errorf("confirmation = %+v, want not queued", got)
		}
	})

	t.Run("queue disabled", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, &fakeRecommender{}, nil)
		resp, _ := ts.do(t, http.MethodPost, "/api/v1/orders", order)
		if resp.Code != http.StatusCreated {
			t.Errorf("status = %d, want 201", resp.Code)
		}
	})

	invalid := []struct {
		name     string
		body     interface{}
		wantCode string
	}{
		{name: "unknown product", body: map[string]interface{}{"user_id": 7, "items": []map[string]interface{}{{"product_id": 99, "quantity": 1}}}, wantCode: ErrCodeBadRequest},
		{name: "no items", body: map[string]interface{}{"user_id": 7, "items": []map[string]interface{}{}}, wantCode: ErrCodeValidationFailed},
		{name: "zero quantity", body: map[string]interface{}{"user_id": 7, "items": []map[string]interface{}{{"product_id": 1, "quantity": 0}}}, wantCode: ErrCodeValidationFailed},
		{name: "duplicate product", body: map[string]interface{}{"user_id": 7, "items": []map[string]interface{}{{"product_id": 1, "quantity": 1}, {"product_id": 1, "quantity": 2}}}, wantCode: ErrCodeValidationFailed},
		{name: "missing user", body: map[string]interface{}{"items": []map[string]interface{}{{"product_id": 1, "quantity": 1}}}, wantCode: ErrCodeValidationFailed},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t, &fakeRecommender{}, &fakePublisher{})

			resp, env := ts.do(t, http.MethodPost, "/api/v1/orders", tt.body)
			if resp.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("status = %d, error = %+v, want %s", resp.Code, env.Error, tt.wantCode)
			}
			if len(ts.orders.orders) != 0 {
				t.Error("invalid order was stored")
			}
		})
	}
}
