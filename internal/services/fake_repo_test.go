package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/domain"
	"github.com/tbourn/go-posts-backend/internal/repo"
)

// fakeStore is an in-memory store that records every call in order and can
// fail selected operations.
type fakeStore struct {
	mu       sync.Mutex
	posts    map[int64]*domain.Post
	comments []domain.Comment
	nextID   int64
	clock    time.Time

	calls []string
	fail  map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		posts:  map[int64]*domain.Post{},
		nextID: 1,
		clock:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		fail:   map[string]error{},
	}
}

func (f *fakeStore) addPost(p domain.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := p
	f.posts[p.ID] = &cp
}

func (f *fakeStore) addComment(c domain.Comment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments = append(f.comments, c)
}

func (f *fakeStore) record(op string) error {
	f.calls = append(f.calls, op)
	return f.fail[op]
}

func (f *fakeStore) callsTo(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeStore) GetPost(_ context.Context, _ *gorm.DB, id int64) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetPost"); err != nil {
		return nil, err
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) UpdatePostFields(_ context.Context, _ *gorm.DB, id, ownerID int64, title, content string) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdatePostFields"); err != nil {
		return nil, err
	}
	p, ok := f.posts[id]
	if !ok || p.OwnerID != ownerID {
		return nil, repo.ErrNotFound
	}
	p.Title, p.Content = title, content
	p.UpdatedAt = f.clock.Add(time.Hour)
	cp := *p
	return &cp, nil
}

func (f *fakeStore) DeletePost(_ context.Context, _ *gorm.DB, id, ownerID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeletePost"); err != nil {
		return err
	}
	p, ok := f.posts[id]
	if !ok || p.OwnerID != ownerID {
		return repo.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakeStore) CreateComment(_ context.Context, _ *gorm.DB, postID, authorID int64, content string) (*domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateComment"); err != nil {
		return nil, err
	}
	f.clock = f.clock.Add(time.Second)
	c := domain.Comment{ID: f.nextID, PostID: postID, AuthorID: authorID, Content: content, CreatedAt: f.clock}
	f.nextID++
	f.comments = append(f.comments, c)
	return &c, nil
}

func (f *fakeStore) ListCommentsByPost(_ context.Context, _ *gorm.DB, postID int64) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListCommentsByPost"); err != nil {
		return nil, err
	}
	var out []domain.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) DeleteCommentsByPost(_ context.Context, _ *gorm.DB, postID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteCommentsByPost"); err != nil {
		return 0, err
	}
	kept := f.comments[:0]
	var n int64
	for _, c := range f.comments {
		if c.PostID == postID {
			n++
			continue
		}
		kept = append(kept, c)
	}
	f.comments = kept
	return n, nil
}

var (
	_ PostRepo    = (*fakeStore)(nil)
	_ CommentRepo = (*fakeStore)(nil)
	_ PostRepo    = repo.Store{}
	_ CommentRepo = repo.Store{}
)
