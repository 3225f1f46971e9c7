package scheduler

import (
	"radish/internal/common"
	"radish/internal/resourcemanager/recovery"
	"radish/internal/resourcemanager/rmcontainer"
)

// ReservationPolicy 预留策略扩展点。不同调度策略对"预留"有
// 不同的语义：容量调度为大请求占位防止饿死，FIFO 调度没有
// 预留概念。策略在节点构造时注入。
//
// 两个方法都不校验 attempt 与现有预留的归属关系，
// 这是调用方约定而不是强制不变式。
type ReservationPolicy interface {
	// Reserve 为应用程序尝试在节点上预留容器
	Reserve(node *SchedulerNode, attempt common.ApplicationAttemptID,
		priority common.Priority, container *rmcontainer.RMContainer,
		txn recovery.JournalPort)

	// Unreserve 清除节点上的预留
	Unreserve(node *SchedulerNode, attempt common.ApplicationAttemptID,
		txn recovery.JournalPort)
}
