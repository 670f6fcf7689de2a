package queue

import (
	"encoding/json"
	"fmt"

	"github.com/ram-us/internal/constants"

	"github.com/hibiken/asynq"
)

// 任务类型
const (
	TaskOrderStatusNotify        = constants.TaskOrderStatusNotify
	TaskOrderTimeoutCancel       = constants.TaskOrderTimeoutCancel
	TaskSellerSubscriptionExpire = constants.TaskSellerSubscriptionExpire
)

// OrderStatusNotifyPayload 订单状态变更后通知买家
type OrderStatusNotifyPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// OrderTimeoutCancelPayload 未支付订单到期取消
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// SellerSubscriptionExpirePayload 卖家订阅到期检查
type SellerSubscriptionExpirePayload struct {
	SellerID uint `json:"seller_id"`
}

func newTask(taskType string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, body), nil
}
