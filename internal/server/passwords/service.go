// Package passwords manages the dashboard's stored password items.
package passwords

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkarlovs/cloudvault/internal/common"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validateItem(label, password, color string) error {
	if label == "" || password == "" || color == "" {
		return fmt.Errorf("%w: label, password and color are required", common.ErrorValidation)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*Item, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, userID, itemID string) (*Item, error) {
	item, err := s.repo.GetByID(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return item, nil
}

func (s *Service) Create(ctx context.Context, userID, label, password, color string) (*Item, error) {
	if err := validateItem(label, password, color); err != nil {
		return nil, err
	}

	item := &Item{
		UserID:   userID,
		Label:    label,
		Password: password,
		Color:    color,
	}

	item, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return item, nil
}

func (s *Service) Update(ctx context.Context, userID, itemID, label, password, color string) (*Item, error) {
	if err := validateItem(label, password, color); err != nil {
		return nil, err
	}

	item := &Item{
		ID:       itemID,
		UserID:   userID,
		Label:    label,
		Password: password,
		Color:    color,
	}

	item, err := s.repo.Update(ctx, item)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return item, nil
}

func (s *Service) Delete(ctx context.Context, userID, itemID string) error {
	err := s.repo.Delete(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}
