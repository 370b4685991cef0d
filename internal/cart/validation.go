package cart

import "strings"

// ValidationResult 守卫函数的校验结果
type ValidationResult struct {
	Err    error
	Fields []string
}

// Valid 是否通过
func (r ValidationResult) Valid() bool {
	return r.Err == nil
}

// Message 拼接字段列表，便于提示
func (r ValidationResult) Message() string {
	if r.Err == nil {
		return ""
	}
	if len(r.Fields) == 0 {
		return r.Err.Error()
	}
	return r.Err.Error() + ": " + strings.Join(r.Fields, ", ")
}

// Pass 校验通过
func Pass() ValidationResult {
	return ValidationResult{}
}

// Fail 校验失败
func Fail(err error, fields ...string) ValidationResult {
	return ValidationResult{Err: err, Fields: fields}
}

// ValidateQuantity 数量必须为正
func ValidateQuantity(quantity int) ValidationResult {
	if quantity <= 0 {
		return Fail(ErrInvalidQuantity, "quantity")
	}
	return Pass()
}

// ValidateSlot 时段必须存在且可用
func ValidateSlot(slots []DeliverySlot, id uint) ValidationResult {
	for _, slot := range slots {
		if slot.ID != id {
			continue
		}
		if !slot.Available {
			return Fail(ErrSlotUnavailable, "slot_id")
		}
		return Pass()
	}
	return Fail(ErrSlotNotFound, "slot_id")
}

// ValidateNotEmpty 购物车不能为空
func ValidateNotEmpty(items []LineItem) ValidationResult {
	if len(items) == 0 {
		return Fail(ErrEmptyCart)
	}
	return Pass()
}
