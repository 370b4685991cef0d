package service

import (
	"context"
	"strings"
	"time"

	"github.com/tidecart/internal/cart"
	"github.com/tidecart/internal/models"
	"github.com/tidecart/internal/repository"
)

// DeliverySlotService 配送时段服务
type DeliverySlotService struct {
	repo repository.DeliverySlotRepository
}

// NewDeliverySlotService 创建配送时段服务
func NewDeliverySlotService(repo repository.DeliverySlotRepository) *DeliverySlotService {
	return &DeliverySlotService{repo: repo}
}

// DeliverySlotInput 配送时段输入
type DeliverySlotInput struct {
	Display   string
	StartAt   *time.Time
	EndAt     *time.Time
	Capacity  int
	Available *bool
	IsActive  *bool
	SortOrder int
}

// ListPublic 前台可展示的时段（含已约满，available 标记为 false）
func (s *DeliverySlotService) ListPublic(now time.Time) ([]cart.DeliverySlot, error) {
	rows, _, err := s.repo.List(repository.DeliverySlotListFilter{
		CatalogListFilter: repository.CatalogListFilter{OnlyActive: true},
		From:              &now,
	})
	if err != nil {
		return nil, err
	}
	slots := make([]cart.DeliverySlot, 0, len(rows))
	for i := range rows {
		slots = append(slots, rows[i].ToCartSlot(now))
	}
	return slots, nil
}

// Find 查找时段
func (s *DeliverySlotService) Find(id uint) (*models.DeliverySlot, error) {
	slot, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotUnavailable
	}
	return slot, nil
}

// List 后台时段列表
func (s *DeliverySlotService) List(filter repository.DeliverySlotListFilter) ([]models.DeliverySlot, int64, error) {
	return s.repo.List(filter)
}

// Create 创建时段
func (s *DeliverySlotService) Create(_ context.Context, input DeliverySlotInput) (*models.DeliverySlot, error) {
	slot := &models.DeliverySlot{}
	if err := applySlot(slot, input); err != nil {
		return nil, err
	}
	slot.Available = boolOr(input.Available, true)
	slot.IsActive = boolOr(input.IsActive, true)
	if err := s.repo.Create(slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// Update 更新时段
func (s *DeliverySlotService) Update(_ context.Context, id uint, input DeliverySlotInput) (*models.DeliverySlot, error) {
	slot, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, ErrNotFound
	}
	if err := applySlot(slot, input); err != nil {
		return nil, err
	}
	slot.Available = boolOr(input.Available, slot.Available)
	slot.IsActive = boolOr(input.IsActive, slot.IsActive)
	if err := s.repo.Update(slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// Delete 删除时段
func (s *DeliverySlotService) Delete(_ context.Context, id uint) error {
	slot, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if slot == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

func applySlot(slot *models.DeliverySlot, input DeliverySlotInput) error {
	display := strings.TrimSpace(input.Display)
	if display == "" {
		return &ValidationError{Err: ErrInvalidInput, Fields: []string{"display"}}
	}
	if input.StartAt != nil && input.EndAt != nil && !input.EndAt.After(*input.StartAt) {
		return &ValidationError{Err: ErrInvalidInput, Fields: []string{"end_at"}}
	}
	if input.Capacity < 0 {
		return &ValidationError{Err: ErrInvalidInput, Fields: []string{"capacity"}}
	}
	slot.Display = display
	slot.StartAt = input.StartAt
	slot.EndAt = input.EndAt
	slot.Capacity = input.Capacity
	slot.SortOrder = input.SortOrder
	return nil
}
