package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/tidecart/internal/cart"
)

// AddressList 地址列表列
type AddressList []cart.Address

// Value 实现 driver.Valuer 接口
func (a AddressList) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal([]cart.Address{})
	}
	return json.Marshal([]cart.Address(a))
}

// Scan 实现 sql.Scanner 接口
func (a *AddressList) Scan(value interface{}) error {
	if value == nil {
		*a = AddressList{}
		return nil
	}
	raw, err := scanBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, a)
}

// AddressSnapshot 单个地址快照列，可为空
type AddressSnapshot struct {
	cart.Address
	Valid bool `json:"-"`
}

// NewAddressSnapshot 从地址创建快照
func NewAddressSnapshot(addr *cart.Address) AddressSnapshot {
	if addr == nil {
		return AddressSnapshot{}
	}
	return AddressSnapshot{Address: *addr, Valid: true}
}

// Ptr 返回地址指针，空快照返回 nil
func (a AddressSnapshot) Ptr() *cart.Address {
	if !a.Valid {
		return nil
	}
	addr := a.Address
	return &addr
}

// Value 实现 driver.Valuer 接口
func (a AddressSnapshot) Value() (driver.Value, error) {
	if !a.Valid {
		return nil, nil
	}
	return json.Marshal(a.Address)
}

// Scan 实现 sql.Scanner 接口
func (a *AddressSnapshot) Scan(value interface{}) error {
	if value == nil {
		*a = AddressSnapshot{}
		return nil
	}
	raw, err := scanBytes(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, &a.Address); err != nil {
		return err
	}
	a.Valid = true
	return nil
}

// MarshalJSON 空快照输出 null
func (a AddressSnapshot) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Address)
}

// UnmarshalJSON 解析快照，null 表示空
func (a *AddressSnapshot) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*a = AddressSnapshot{}
		return nil
	}
	if err := json.Unmarshal(b, &a.Address); err != nil {
		return err
	}
	a.Valid = true
	return nil
}
