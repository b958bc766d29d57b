package repo

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"filesmanager/internal/models"
)

// MemoryFileStore is an in-memory FileStore preserving insertion
// order. It backs the tests.
type MemoryFileStore struct {
	mu    sync.Mutex
	files []*models.File
}

func NewMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{}
}

func (s *MemoryFileStore) Insert(_ context.Context, f *models.File) error {
	f.ID = primitive.NewObjectID()
	clone := *f
	s.mu.Lock()
	s.files = append(s.files, &clone)
	s.mu.Unlock()
	return nil
}

func (s *MemoryFileStore) FindByID(_ context.Context, id string) (*models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		if f.ID.Hex() == id {
			clone := *f
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *MemoryFileStore) FindByParent(_ context.Context, userID, parentID string, skip, limit int) ([]models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := []models.File{}
	for _, f := range s.files {
		if f.UserID == userID && f.ParentID == parentID {
			matched = append(matched, *f)
		}
	}
	if skip >= len(matched) {
		return []models.File{}, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], nil
}

func (s *MemoryFileStore) SetVisibility(_ context.Context, id string, isPublic bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		if f.ID.Hex() == id {
			f.IsPublic = isPublic
			return nil
		}
	}
	return nil
}

func (s *MemoryFileStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.files)), nil
}

// MemoryUserStore is an in-memory UserStore backing the tests.
type MemoryUserStore struct {
	mu    sync.Mutex
	users []*models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

func (s *MemoryUserStore) Insert(_ context.Context, u *models.User) error {
	u.ID = primitive.NewObjectID()
	clone := *u
	s.mu.Lock()
	s.users = append(s.users, &clone)
	s.mu.Unlock()
	return nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID.Hex() == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *MemoryUserStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}
