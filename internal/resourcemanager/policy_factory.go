package resourcemanager

import (
	"fmt"

	"radish/internal/common"
	"radish/internal/resourcemanager/scheduler"
	"radish/internal/resourcemanager/scheduler/capacity"
	"radish/internal/resourcemanager/scheduler/fifo"
)

// NewReservationPolicy 按配置的调度器类型创建预留策略
func NewReservationPolicy(config common.SchedulerConfig) (scheduler.ReservationPolicy, error) {
	switch config.Type {
	case "capacity":
		return capacity.NewReservationPolicy(), nil
	case "fifo":
		return fifo.NewReservationPolicy(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported scheduler type %q",
			common.ErrInvalidConfiguration, config.Type)
	}
}
