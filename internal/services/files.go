package services

import (
	"context"
	"encoding/base64"

	"filesmanager/internal/apperr"
	"filesmanager/internal/models"
	"filesmanager/internal/repo"
	"filesmanager/internal/storage"
)

// PageSize is the fixed number of records returned per listing page.
const PageSize = 20

// CreateFileParams is the typed input for FileRegistry.Create. Data is
// the base64 payload, required for anything that is not a folder.
type CreateFileParams struct {
	UserID   string
	Name     string
	Type     string
	ParentID string
	IsPublic bool
	Data     string
}

// FileRegistry owns the hierarchical file metadata model: parent
// validation on create, paginated listing and visibility toggling.
type FileRegistry struct {
	files   repo.FileStore
	content storage.ContentStore
}

func NewFileRegistry(files repo.FileStore, content storage.ContentStore) *FileRegistry {
	return &FileRegistry{files: files, content: content}
}

// Create validates and persists a new file record. Non-folder entries
// have their payload written to the content store first; nothing is
// persisted when any validation step fails.
func (r *FileRegistry) Create(ctx context.Context, p CreateFileParams) (*models.File, error) {
	if p.Name == "" {
		return nil, apperr.ErrMissingName
	}
	if !models.ValidFileType(p.Type) {
		return nil, apperr.ErrInvalidType
	}

	parentID := p.ParentID
	if parentID == "" {
		parentID = models.RootParentID
	}
	if parentID != models.RootParentID {
		parent, err := r.files.FindByID(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.ErrParentNotFound
		}
		if parent.Type != models.TypeFolder {
			return nil, apperr.ErrParentNotFolder
		}
	}

	f := &models.File{
		UserID:   p.UserID,
		Name:     p.Name,
		Type:     models.FileType(p.Type),
		IsPublic: p.IsPublic,
		ParentID: parentID,
	}

	if f.Type != models.TypeFolder {
		if p.Data == "" {
			return nil, apperr.ErrMissingData
		}
		payload, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return nil, apperr.ErrMissingData
		}
		ref, err := r.content.Save(ctx, payload)
		if err != nil {
			return nil, err
		}
		f.ContentRef = ref
	}

	if err := r.files.Insert(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Get returns the record for id, or NotFound. Visibility is the
// caller's concern; see AccessController.AuthorizeFileRead.
func (r *FileRegistry) Get(ctx context.Context, id string) (*models.File, error) {
	f, err := r.files.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperr.ErrNotFound
	}
	return f, nil
}

// List returns the caller's records under parentID, in insertion
// order, sliced to the requested page. An out-of-range page yields an
// empty slice, not an error.
func (r *FileRegistry) List(ctx context.Context, userID, parentID string, page int) ([]models.File, error) {
	if parentID == "" {
		parentID = models.RootParentID
	}
	if page < 0 {
		page = 0
	}
	return r.files.FindByParent(ctx, userID, parentID, page*PageSize, PageSize)
}

// SetVisibility durably toggles isPublic and returns the record as
// re-read from the store.
func (r *FileRegistry) SetVisibility(ctx context.Context, id string, isPublic bool) (*models.File, error) {
	if err := r.files.SetVisibility(ctx, id, isPublic); err != nil {
		return nil, err
	}
	f, err := r.files.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperr.ErrNotFound
	}
	return f, nil
}
