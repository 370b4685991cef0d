package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidecart/internal/cart"
	"github.com/tidecart/internal/checkout"
	"github.com/tidecart/internal/i18n"
	"github.com/tidecart/internal/models"
	"github.com/tidecart/internal/repository"
)

// ProfileView 用户资料与偏好
type ProfileView struct {
	User           *models.User     `json:"user"`
	Preferences    cart.Preferences `json:"preferences"`
	ActiveLocation *cart.Address    `json:"active_location"`
}

// ProfileUpdateInput 资料局部更新，nil 字段保持不变
type ProfileUpdateInput struct {
	DisplayName    *string
	Locale         *string
	Preferences    cart.PreferencesPatch
	ActiveLocation *cart.Address
}

// PreferenceService 用户偏好服务
type PreferenceService struct {
	prefRepo repository.PreferenceRepository
	userRepo repository.UserRepository
}

// NewPreferenceService 创建偏好服务
func NewPreferenceService(prefRepo repository.PreferenceRepository, userRepo repository.UserRepository) *PreferenceService {
	return &PreferenceService{prefRepo: prefRepo, userRepo: userRepo}
}

// Get 获取用户资料
func (s *PreferenceService) Get(userID uint) (*ProfileView, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	pref, err := s.prefRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	return buildProfileView(user, pref), nil
}

// Update 更新资料：偏好浅合并，地址按 pincode 去重并保留最新 5 条
func (s *PreferenceService) Update(userID uint, input ProfileUpdateInput) (*ProfileView, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	for i, addr := range input.Preferences.SavedAddresses {
		if res := checkout.ValidateAddress(addr); !res.Valid() {
			return nil, &ValidationError{Err: ErrAddressInvalid, Fields: prefixFields(fmt.Sprintf("saved_addresses[%d].", i), res.Fields)}
		}
		input.Preferences.SavedAddresses[i] = checkout.NormalizeAddress(addr)
	}
	if input.ActiveLocation != nil {
		if res := checkout.ValidateAddress(*input.ActiveLocation); !res.Valid() {
			return nil, &ValidationError{Err: ErrAddressInvalid, Fields: prefixFields("active_location.", res.Fields)}
		}
	}

	userChanged := false
	if input.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*input.DisplayName)
		userChanged = true
	}
	if input.Locale != nil {
		user.Locale = i18n.NormalizeLocale(*input.Locale)
		userChanged = true
	}
	if userChanged {
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	pref, err := s.prefRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		pref = &models.UserPreference{UserID: userID}
	}
	next := cart.ApplyPreferences(pref.ToCart(), input.Preferences)
	pref.ContactNumber = next.ContactNumber
	pref.SavedAddresses = models.AddressList(next.SavedAddresses)
	if input.ActiveLocation != nil {
		active := checkout.NormalizeAddress(*input.ActiveLocation)
		pref.ActiveLocation = models.NewAddressSnapshot(&active)
	}
	pref.UpdatedAt = time.Now()
	if err := s.prefRepo.Save(pref); err != nil {
		return nil, err
	}
	return buildProfileView(user, pref), nil
}

// RememberAddress 结算地址写入常用地址并设为当前位置
func (s *PreferenceService) RememberAddress(userID uint, addr cart.Address) error {
	pref, err := s.prefRepo.GetByUser(userID)
	if err != nil {
		return err
	}
	if pref == nil {
		pref = &models.UserPreference{UserID: userID}
	}
	addr = checkout.NormalizeAddress(addr)
	pref.SavedAddresses = models.AddressList(cart.MergeAddresses(pref.SavedAddresses, addr))
	pref.ActiveLocation = models.NewAddressSnapshot(&addr)
	if strings.TrimSpace(pref.ContactNumber) == "" {
		pref.ContactNumber = addr.Phone
	}
	pref.UpdatedAt = time.Now()
	return s.prefRepo.Save(pref)
}

// ContactNumber 获取联系电话
func (s *PreferenceService) ContactNumber(userID uint) (string, error) {
	pref, err := s.prefRepo.GetByUser(userID)
	if err != nil || pref == nil {
		return "", err
	}
	return pref.ContactNumber, nil
}

func buildProfileView(user *models.User, pref *models.UserPreference) *ProfileView {
	view := &ProfileView{User: user, Preferences: pref.ToCart()}
	if pref != nil {
		view.ActiveLocation = pref.ActiveLocation.Ptr()
	}
	return view
}

func prefixFields(prefix string, fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, prefix+field)
	}
	return out
}
