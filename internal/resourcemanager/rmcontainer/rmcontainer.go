package rmcontainer

import (
	"fmt"

	"radish/internal/common"
)

// RMContainer 容器句柄。容器本体由调度器拥有，
// 节点账本只持有引用。
type RMContainer struct {
	id                common.ContainerID
	allocatedResource *common.Resource
	attemptID         common.ApplicationAttemptID
	priority          common.Priority
	nodeID            common.NodeID
}

// NewRMContainer 创建容器句柄。resource 允许为 nil，
// 账本对 nil 资源做容错处理而不是报错。
func NewRMContainer(id common.ContainerID, attemptID common.ApplicationAttemptID,
	nodeID common.NodeID, resource *common.Resource, priority common.Priority) *RMContainer {
	return &RMContainer{
		id:                id,
		allocatedResource: resource,
		attemptID:         attemptID,
		priority:          priority,
		nodeID:            nodeID,
	}
}

// ID 容器标识
func (c *RMContainer) ID() common.ContainerID {
	return c.id
}

// AllocatedResource 分配给容器的资源，可能为 nil
func (c *RMContainer) AllocatedResource() *common.Resource {
	return c.allocatedResource
}

// ApplicationAttemptID 容器归属的应用程序尝试
func (c *RMContainer) ApplicationAttemptID() common.ApplicationAttemptID {
	return c.attemptID
}

// ApplicationID 容器归属的应用程序
func (c *RMContainer) ApplicationID() common.ApplicationID {
	return c.attemptID.ApplicationID
}

// Priority 容器优先级
func (c *RMContainer) Priority() common.Priority {
	return c.priority
}

// NodeID 容器所在节点
func (c *RMContainer) NodeID() common.NodeID {
	return c.nodeID
}

func (c *RMContainer) String() string {
	if c.allocatedResource == nil {
		return fmt.Sprintf("RMContainer{%s, resource: <none>}", c.id)
	}
	return fmt.Sprintf("RMContainer{%s, resource: %s}", c.id, c.allocatedResource)
}
