// Package files implements the cloud-storage dashboard: file and folder
// metadata in Postgres, file bytes in an external object store reached
// through presigned URLs.
package files

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkarlovs/cloudvault/internal/common"
	"github.com/dkarlovs/cloudvault/internal/logging"
)

type Service struct {
	repo   Repository
	store  ObjectStore
	logger logging.Logger
}

func NewService(repo Repository, store ObjectStore, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		logger: logger.With("module", "files"),
	}
}

func (s *Service) List(ctx context.Context, userID string, parentID *string) ([]*File, error) {
	result, err := s.repo.ListByParent(ctx, userID, parentID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, userID, fileID string) (*File, error) {
	f, err := s.repo.GetByID(ctx, userID, fileID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return f, nil
}

// CreateMeta records a file or folder row. For files the storage key must
// come from a prior UploadURL call, so the row always points at an object
// the backend has a URL for.
func (s *Service) CreateMeta(ctx context.Context, userID, name string, parentID *string, isFolder bool, storageKey string, size int64) (*File, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if !isFolder && storageKey == "" {
		return nil, fmt.Errorf("%w: storage key is required for files", common.ErrorValidation)
	}

	f := &File{
		UserID:     userID,
		Name:       name,
		ParentID:   parentID,
		IsFolder:   isFolder,
		StorageKey: storageKey,
		Size:       size,
	}

	f, err := s.repo.Create(ctx, f)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return f, nil
}

// Delete removes the object from storage and then the metadata row.
// A backend delete failure is logged, the row is removed anyway.
func (s *Service) Delete(ctx context.Context, userID, fileID string) error {

	f, err := s.repo.GetByID(ctx, userID, fileID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if !f.IsFolder && f.StorageKey != "" {
		if err := s.store.DeleteObject(ctx, f.StorageKey); err != nil {
			s.logger.Warn(ctx, "object store delete failed", "key", f.StorageKey, "error", err.Error())
		}
	}

	if err := s.repo.Delete(ctx, userID, fileID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	return nil
}

// UploadURL reserves a fresh storage key and returns it with a presigned
// PUT URL the browser uploads to directly.
func (s *Service) UploadURL(ctx context.Context) (string, string, error) {
	key := RandomStorageKey()

	url, err := s.store.PresignPut(ctx, key)
	if err != nil {
		return "", "", common.ErrorInternal
	}

	return key, url, nil
}

// DownloadURL returns a presigned GET URL for the user's file.
func (s *Service) DownloadURL(ctx context.Context, userID, fileID string) (string, error) {
	f, err := s.repo.GetByID(ctx, userID, fileID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", common.ErrorInternal
	}

	if f.IsFolder || f.StorageKey == "" {
		return "", fmt.Errorf("%w: no stored object for this entry", common.ErrorValidation)
	}

	url, err := s.store.PresignGet(ctx, f.StorageKey)
	if err != nil {
		return "", common.ErrorInternal
	}

	return url, nil
}
