package i18n

var messages = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":             "invalid request",
		"error.unauthorized":            "please log in",
		"error.forbidden":               "permission denied",
		"error.not_found":               "resource not found",
		"error.internal":                "internal error, please retry later",
		"error.too_many_requests":       "too many requests, please retry later",
		"error.login_failed":            "invalid credentials",
		"error.login_blocked":           "too many failed attempts, retry in %d seconds",
		"error.user_disabled":           "account disabled",
		"error.email_exists":            "email already registered",
		"error.password_too_short":      "password must be at least %d characters",
		"error.slug_exists":             "slug already exists",
		"error.category_in_use":         "category still has products",
		"error.category_not_found":      "category not found",
		"error.product_not_found":       "product not found",
		"error.product_unavailable":     "product is unavailable",
		"error.cart_item_invalid":       "invalid cart item",
		"error.cart_quantity_exceeded":  "quantity exceeds the per-item limit of %d",
		"error.cart_empty":              "your cart is empty",
		"error.address_invalid":         "address is incomplete: %s",
		"error.slot_unavailable":        "delivery slot is unavailable",
		"error.slot_required":           "please select a delivery slot",
		"error.payment_method_invalid":  "payment method is not supported",
		"error.checkout_step_invalid":   "this action is not allowed at the current checkout step",
		"error.checkout_in_flight":      "an order submission is already in progress",
		"error.checkout_canceled":       "order submission was canceled",
		"error.checkout_failed":         "order submission failed, please retry",
		"error.checkout_session_closed": "checkout has finished, start a new checkout",
		"error.order_not_found":         "order not found",
		"error.idempotency_conflict":    "idempotency key was already used for a different cart",
		"error.checkout_cart_empty":     "your cart is empty, checkout has been closed",
		"error.email_invalid":           "invalid email address",
		"notice.quantity_clamped":       "quantity limited to %d per item",
	},
	LocaleZH: {
		"error.bad_request":             "请求参数错误",
		"error.unauthorized":            "请先登录",
		"error.forbidden":               "无权限访问",
		"error.not_found":               "资源不存在",
		"error.internal":                "服务器内部错误，请稍后重试",
		"error.too_many_requests":       "请求过于频繁，请稍后重试",
		"error.login_failed":            "账号或密码错误",
		"error.login_blocked":           "失败次数过多，请 %d 秒后重试",
		"error.user_disabled":           "账号已被禁用",
		"error.email_exists":            "邮箱已被注册",
		"error.password_too_short":      "密码长度不能少于 %d 位",
		"error.slug_exists":             "标识已存在",
		"error.category_in_use":         "分类下仍有商品",
		"error.category_not_found":      "分类不存在",
		"error.product_not_found":       "商品不存在",
		"error.product_unavailable":     "商品已下架",
		"error.cart_item_invalid":       "购物车项无效",
		"error.cart_quantity_exceeded":  "单个商品数量不能超过 %d",
		"error.cart_empty":              "购物车为空",
		"error.address_invalid":         "地址信息不完整：%s",
		"error.slot_unavailable":        "配送时段不可用",
		"error.slot_required":           "请选择配送时段",
		"error.payment_method_invalid":  "不支持的支付方式",
		"error.checkout_step_invalid":   "当前结算步骤不允许该操作",
		"error.checkout_in_flight":      "订单正在提交中",
		"error.checkout_canceled":       "订单提交已取消",
		"error.checkout_failed":         "下单失败，请重试",
		"error.checkout_session_closed": "结算已完成，请重新开始",
		"error.order_not_found":         "订单不存在",
		"error.idempotency_conflict":    "幂等键已用于其他购物车",
		"error.checkout_cart_empty":     "购物车为空，结算已退出",
		"error.email_invalid":           "邮箱格式不正确",
		"notice.quantity_clamped":       "单个商品最多购买 %d 件",
	},
}
