package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-posts-backend/internal/domain"
	"github.com/tbourn/go-posts-backend/internal/http/middleware"
	"github.com/tbourn/go-posts-backend/internal/services"
)

// ---------- stubs ----------

type stubCommentSvc struct {
	create func(ctx context.Context, postID, authorID int64, content string) (*domain.Comment, error)
	list   func(ctx context.Context, postID int64) ([]domain.Comment, error)
}

func (s stubCommentSvc) Create(ctx context.Context, postID, authorID int64, content string) (*domain.Comment, error) {
	return s.create(ctx, postID, authorID, content)
}

func (s stubCommentSvc) List(ctx context.Context, postID int64) ([]domain.Comment, error) {
	return s.list(ctx, postID)
}

type stubPostSvc struct {
	update func(ctx context.Context, postID, requesterID int64, title, content string) (*domain.Post, error)
	del    func(ctx context.Context, postID, requesterID int64) error
}

func (s stubPostSvc) Update(ctx context.Context, postID, requesterID int64, title, content string) (*domain.Post, error) {
	return s.update(ctx, postID, requesterID, title, content)
}

func (s stubPostSvc) Delete(ctx context.Context, postID, requesterID int64) error {
	return s.del(ctx, postID, requesterID)
}

// newRouter mounts h the way the application router does.
func newRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/comments/:postId", middleware.RequireIdentity(), h.CreateComment)
	r.GET("/comments/:postId", h.ListComments)
	posts := r.Group("/posts", middleware.RequireIdentity())
	posts.PUT("/:id", h.UpdatePost)
	posts.DELETE("/:id", h.DeletePost)
	return r
}

func do(r http.Handler, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("error body is not JSON: %v (%s)", err, w.Body.String())
	}
	return e
}

var asUser1 = map[string]string{"X-User-ID": "1"}

// ---------- comments ----------

func TestCreateComment_Created(t *testing.T) {
	var gotPost, gotAuthor int64
	var gotContent string
	h := New(nil, stubCommentSvc{
		create: func(_ context.Context, postID, authorID int64, content string) (*domain.Comment, error) {
			gotPost, gotAuthor, gotContent = postID, authorID, content
			return &domain.Comment{ID: 5, PostID: postID, AuthorID: authorID, Content: content, CreatedAt: time.Unix(100, 0).UTC()}, nil
		},
	})

	w := do(newRouter(h), http.MethodPost, "/comments/3", `{"content":"nice"}`, asUser1)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if gotPost != 3 || gotAuthor != 1 || gotContent != "nice" {
		t.Fatalf("service got post=%d author=%d content=%q", gotPost, gotAuthor, gotContent)
	}
	var cm domain.Comment
	if err := json.Unmarshal(w.Body.Bytes(), &cm); err != nil {
		t.Fatalf("json: %v", err)
	}
	if cm.ID != 5 || cm.PostID != 3 || cm.AuthorID != 1 || cm.Content != "nice" {
		t.Fatalf("unexpected comment: %+v", cm)
	}
	if w.Header().Get(headerReplayed) != "" {
		t.Fatalf("fresh create must not be marked replayed")
	}
}

func TestCreateComment_DecodeFailures(t *testing.T) {
	called := false
	h := New(nil, stubCommentSvc{
		create: func(context.Context, int64, int64, string) (*domain.Comment, error) {
			called = true
			return nil, nil
		},
	})
	r := newRouter(h)

	cases := []struct {
		name, path, body string
		hdr              map[string]string
		status           int
		code             string
	}{
		{"no identity", "/comments/1", `{"content":"x"}`, nil, 401, ErrCodeUnauthorized},
		{"non-numeric post id", "/comments/abc", `{"content":"x"}`, asUser1, 400, ErrCodeValidation},
		{"zero post id", "/comments/0", `{"content":"x"}`, asUser1, 400, ErrCodeValidation},
		{"malformed json", "/comments/1", `{"content":`, asUser1, 400, ErrCodeValidation},
		{"wrong type", "/comments/1", `{"content":42}`, asUser1, 400, ErrCodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodPost, tc.path, tc.body, tc.hdr)
			if w.Code != tc.status {
				t.Fatalf("status = %d; want %d (%s)", w.Code, tc.status, w.Body.String())
			}
			if e := decodeErr(t, w); e.Code != tc.code || e.RequestID == "" {
				t.Fatalf("unexpected envelope: %+v", e)
			}
		})
	}
	if called {
		t.Fatalf("service must not be called when decoding fails")
	}
}

func TestCreateComment_PropagatesServiceErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
		msg    string
	}{
		{services.ErrEmptyComment, 400, ErrCodeValidation, "comment content must not be empty"},
		{services.ErrNotAuthenticated, 401, ErrCodeUnauthorized, "user not authenticated"},
		{services.ErrPostNotFound, 404, ErrCodeNotFound, "post not found"},
		{errors.New("disk I/O error"), 500, ErrCodeInternal, "internal server error"},
	}
	for _, tc := range cases {
		h := New(nil, stubCommentSvc{
			create: func(context.Context, int64, int64, string) (*domain.Comment, error) { return nil, tc.err },
		})
		w := do(newRouter(h), http.MethodPost, "/comments/1", `{"content":""}`, asUser1)
		if w.Code != tc.status {
			t.Fatalf("%v: status = %d; want %d", tc.err, w.Code, tc.status)
		}
		e := decodeErr(t, w)
		if e.Code != tc.code || e.Error != tc.msg {
			t.Fatalf("%v: unexpected envelope %+v", tc.err, e)
		}
	}
}

func TestListComments_OKAndErrors(t *testing.T) {
	h := New(nil, stubCommentSvc{
		list: func(_ context.Context, postID int64) ([]domain.Comment, error) {
			switch postID {
			case 1:
				return []domain.Comment{{ID: 2, PostID: 1}, {ID: 1, PostID: 1}}, nil
			case 2:
				return []domain.Comment{}, nil
			default:
				return nil, services.ErrPostNotFound
			}
		},
	})
	r := newRouter(h)

	// No identity needed to read.
	w := do(r, http.MethodGet, "/comments/1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var items []domain.Comment
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(items) != 2 || items[0].ID != 2 || items[1].ID != 1 {
		t.Fatalf("unexpected order: %+v", items)
	}
	// Without a DB behind the service no ETag is computed.
	if w.Header().Get("ETag") != "" {
		t.Fatalf("unexpected ETag with stub service")
	}

	w = do(r, http.MethodGet, "/comments/2", "", nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("empty list must be [] with 200, got %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/comments/99", "", nil)
	if w.Code != http.StatusNotFound || decodeErr(t, w).Code != ErrCodeNotFound {
		t.Fatalf("expected 404 NOT_FOUND, got %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/comments/-1", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative id, got %d", w.Code)
	}
}

// ---------- posts ----------

func TestUpdatePost(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	h := New(stubPostSvc{
		update: func(_ context.Context, postID, requesterID int64, title, content string) (*domain.Post, error) {
			switch {
			case postID == 99:
				return nil, services.ErrPostNotFound
			case requesterID != 1:
				return nil, services.ErrEditForbidden
			}
			return &domain.Post{ID: postID, Title: title, Content: content, OwnerID: 1, CreatedAt: created}, nil
		},
	}, nil)
	r := newRouter(h)

	w := do(r, http.MethodPut, "/posts/1", `{"title":"Hi","content":"World"}`, asUser1)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var p domain.Post
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("json: %v", err)
	}
	if p.ID != 1 || p.Title != "Hi" || p.Content != "World" || p.OwnerID != 1 || !p.CreatedAt.Equal(created) {
		t.Fatalf("unexpected post: %+v", p)
	}

	w = do(r, http.MethodPut, "/posts/99", `{"title":"Hi","content":"World"}`, asUser1)
	if w.Code != http.StatusNotFound || decodeErr(t, w).Code != "NOT_FOUND" {
		t.Fatalf("expected 404 NOT_FOUND, got %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPut, "/posts/1", `{"title":"Hi","content":"World"}`, map[string]string{"X-User-ID": "2"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if e := decodeErr(t, w); e.Code != "FORBIDDEN" || e.Error != "you are not allowed to edit this post" {
		t.Fatalf("unexpected envelope: %+v", e)
	}

	w = do(r, http.MethodPut, "/posts/1", `not json`, asUser1)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad JSON, got %d", w.Code)
	}

	w = do(r, http.MethodPut, "/posts/1", `{"title":"Hi","content":"World"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", w.Code)
	}
}

func TestDeletePost(t *testing.T) {
	var calls []int64
	h := New(stubPostSvc{
		del: func(_ context.Context, postID, requesterID int64) error {
			calls = append(calls, postID)
			switch {
			case postID == 99:
				return services.ErrPostNotFound
			case requesterID != 1:
				return services.ErrDeleteForbidden
			}
			return nil
		},
	}, nil)
	r := newRouter(h)

	w := do(r, http.MethodDelete, "/posts/1", "", asUser1)
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("expected 204 with empty body, got %d %q", w.Code, w.Body.String())
	}

	w = do(r, http.MethodDelete, "/posts/1", "", map[string]string{"X-User-ID": "2"})
	if w.Code != http.StatusForbidden || decodeErr(t, w).Code != "FORBIDDEN" {
		t.Fatalf("expected 403 FORBIDDEN, got %d", w.Code)
	}

	w = do(r, http.MethodDelete, "/posts/99", "", asUser1)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = do(r, http.MethodDelete, "/posts/x", "", asUser1)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(calls) != 3 {
		t.Fatalf("service calls = %v; want 3 (bad id never reaches it)", calls)
	}
}

func TestIdentity_MissingInContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, err := identity(c); err == nil {
		t.Fatalf("expected Unauthorized without RequireIdentity")
	}
}

func TestCommentsETag_Changes(t *testing.T) {
	ts := time.Unix(10, 0)
	a := commentsETag(1, 2, &ts, 7)
	if a != commentsETag(1, 2, &ts, 7) {
		t.Fatalf("etag must be stable")
	}
	if a == commentsETag(1, 2, &ts, 8) || a == commentsETag(1, 3, &ts, 7) || a == commentsETag(2, 2, &ts, 7) {
		t.Fatalf("etag must change with id, count and post")
	}
	if got := commentsETag(1, 0, nil, 0); got != `W/"comments:1:0:0:0"` {
		t.Fatalf("empty etag = %s", got)
	}
}
