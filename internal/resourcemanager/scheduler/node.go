package scheduler

import (
	"fmt"
	"sync"

	"radish/internal/common"
	"radish/internal/resourcemanager/recovery"
	"radish/internal/resourcemanager/rmcontainer"
	"radish/internal/resourcemanager/rmnode"

	"go.uber.org/zap"
)

// SchedulerNode 调度器视角下的集群节点账本：总量/可用/已用
// 资源、已登记容器和至多一个预留。所有可变状态由单把锁保护，
// 每次变更在同一临界区内写入恢复日志（如果调用方传入了事务），
// 备用 ResourceManager 据此重建状态而不必回放节点心跳。
type SchedulerNode struct {
	mu sync.Mutex

	rmNode   rmnode.RMNode
	nodeName string

	totalResource     common.Resource
	availableResource common.Resource
	usedResource      common.Resource

	// launchedContainers 已登记容器，键为 ContainerID.String()
	launchedContainers map[string]*rmcontainer.RMContainer
	numContainers      int

	reservedContainer *rmcontainer.RMContainer

	policy ReservationPolicy
	logger *zap.Logger
}

// NewSchedulerNode 创建节点账本。节点总容量被独立复制两份：
// 一份作为总量，一份作为初始可用量。usePortInNodeName 决定节点名
// 是 host 还是 host:port，后者用于单机多 NodeManager 实例。
func NewSchedulerNode(node rmnode.RMNode, usePortInNodeName bool, policy ReservationPolicy) *SchedulerNode {
	nodeName := node.Hostname()
	if usePortInNodeName {
		nodeName = fmt.Sprintf("%s:%d", node.Hostname(), node.NodeID().Port)
	}

	return &SchedulerNode{
		rmNode:             node,
		nodeName:           nodeName,
		totalResource:      common.CloneResource(node.TotalCapability()),
		availableResource:  common.CloneResource(node.TotalCapability()),
		launchedContainers: make(map[string]*rmcontainer.RMContainer),
		policy:             policy,
		logger:             common.ComponentLogger("scheduler-node"),
	}
}

// RMNode 节点描述符
func (sn *SchedulerNode) RMNode() rmnode.RMNode {
	return sn.rmNode
}

// NodeID 节点标识
func (sn *SchedulerNode) NodeID() common.NodeID {
	return sn.rmNode.NodeID()
}

// NodeName 调度匹配用的节点名（host 或 host:port）
func (sn *SchedulerNode) NodeName() string {
	return sn.nodeName
}

// RackName 节点所在机架
func (sn *SchedulerNode) RackName() string {
	return sn.rmNode.RackName()
}

// HTTPAddress 节点 Web 服务地址
func (sn *SchedulerNode) HTTPAddress() string {
	return sn.rmNode.HTTPAddress()
}

// AllocateContainer 在该节点上为应用程序登记一个已分配容器。
// 容器资源为 nil 时账目不变，但容器仍会登记、计数仍会增加。
func (sn *SchedulerNode) AllocateContainer(applicationID common.ApplicationID,
	container *rmcontainer.RMContainer, txn recovery.JournalPort) {
	sn.mu.Lock()
	defer sn.mu.Unlock()

	key := container.ID().String()
	if _, exists := sn.launchedContainers[key]; exists {
		// 重复分配同一容器 ID 会覆盖旧句柄且计数照常增加，
		// 上游保证不会发生；这里只暴露不做纠正
		sn.logger.Warn("Duplicate container allocation overwrites existing entry",
			zap.String("container_id", key),
			zap.String("node_address", sn.rmNode.NodeAddress()))
	}

	sn.deductAvailableLocked(container.AllocatedResource())
	sn.numContainers++
	sn.launchedContainers[key] = container

	if txn != nil {
		sn.recordLedgerLocked(txn)
		txn.Record(sn.NodeID().String(), recovery.Mutation{
			Kind:        recovery.MutationContainerLaunched,
			ContainerID: container.ID(),
			Resource:    container.AllocatedResource(),
			AttemptID:   container.ApplicationAttemptID(),
		})
	}

	common.GetMetrics().IncrContainersAllocated()

	sn.logger.Info("Assigned container",
		zap.String("container_id", key),
		zap.String("application_id", applicationID.String()),
		zap.String("capacity", resourceString(container.AllocatedResource())),
		zap.String("host", sn.rmNode.NodeAddress()),
		zap.Int("num_containers", sn.numContainers),
		zap.String("used", sn.usedResource.String()),
		zap.String("available", sn.availableResource.String()))
}

// ReleaseContainer 释放该节点上的一个容器。
// 未登记的容器 ID 是安全的空操作，容忍重复或乱序的释放请求。
func (sn *SchedulerNode) ReleaseContainer(container *rmcontainer.RMContainer,
	txn recovery.JournalPort) {
	sn.mu.Lock()
	defer sn.mu.Unlock()

	key := container.ID().String()
	if _, exists := sn.launchedContainers[key]; !exists {
		sn.logger.Error("Invalid container released",
			zap.String("container_id", key),
			zap.String("node_address", sn.rmNode.NodeAddress()))
		return
	}

	delete(sn.launchedContainers, key)
	sn.addAvailableLocked(container.AllocatedResource())
	sn.numContainers--

	if txn != nil {
		txn.Record(sn.NodeID().String(), recovery.Mutation{
			Kind:        recovery.MutationContainerReleased,
			ContainerID: container.ID(),
		})
		sn.recordLedgerLocked(txn)
	}

	common.GetMetrics().IncrContainersReleased()

	sn.logger.Info("Released container",
		zap.String("container_id", key),
		zap.String("capacity", resourceString(container.AllocatedResource())),
		zap.String("host", sn.rmNode.NodeAddress()),
		zap.Int("num_containers", sn.numContainers),
		zap.String("used", sn.usedResource.String()),
		zap.String("available", sn.availableResource.String()))
}

// ReserveResource 为应用程序尝试预留容器，语义由注入的策略决定
func (sn *SchedulerNode) ReserveResource(attempt common.ApplicationAttemptID,
	priority common.Priority, container *rmcontainer.RMContainer,
	txn recovery.JournalPort) {
	sn.policy.Reserve(sn, attempt, priority, container, txn)
}

// UnreserveResource 清除预留，语义由注入的策略决定
func (sn *SchedulerNode) UnreserveResource(attempt common.ApplicationAttemptID,
	txn recovery.JournalPort) {
	sn.policy.Unreserve(sn, attempt, txn)
}

// SetReservedContainer 设置或清除预留容器（nil 表示清除），
// 返回被替换的旧预留。供预留策略调用；直接覆盖现有预留，
// 不做隐式释放，策略依据返回值在单次变更内判断覆盖情况。
func (sn *SchedulerNode) SetReservedContainer(container *rmcontainer.RMContainer,
	txn recovery.JournalPort) *rmcontainer.RMContainer {
	sn.mu.Lock()
	defer sn.mu.Unlock()

	previous := sn.reservedContainer
	sn.reservedContainer = container

	if txn != nil {
		m := recovery.Mutation{Kind: recovery.MutationReservationUpdated}
		if container != nil {
			m.ContainerID = container.ID()
			m.Resource = container.AllocatedResource()
			m.AttemptID = container.ApplicationAttemptID()
			m.Reserved = true
		}
		txn.Record(sn.NodeID().String(), m)
	}

	return previous
}

// ApplyDeltaOnAvailableResource 把外部容量变化的差值计入可用资源。
// 有意只调整可用量：总量的权威来源在节点成员管理层，
// 由它负责同步 totalResource。
func (sn *SchedulerNode) ApplyDeltaOnAvailableResource(delta common.Resource) {
	sn.mu.Lock()
	defer sn.mu.Unlock()

	common.AddTo(&sn.availableResource, delta)
}

// TotalResource 节点总资源
func (sn *SchedulerNode) TotalResource() common.Resource {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	return sn.totalResource
}

// AvailableResource 节点可用资源
func (sn *SchedulerNode) AvailableResource() common.Resource {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	return sn.availableResource
}

// UsedResource 节点已用资源
func (sn *SchedulerNode) UsedResource() common.Resource {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	return sn.usedResource
}

// NumContainers 节点上的活跃容器数
func (sn *SchedulerNode) NumContainers() int {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	return sn.numContainers
}

// RunningContainers 当前容器列表的快照，后续变更不影响返回值
func (sn *SchedulerNode) RunningContainers() []*rmcontainer.RMContainer {
	sn.mu.Lock()
	defer sn.mu.Unlock()

	containers := make([]*rmcontainer.RMContainer, 0, len(sn.launchedContainers))
	for _, container := range sn.launchedContainers {
		containers = append(containers, container)
	}
	return containers
}

// LaunchedContainers 容器映射的活引用。只供可信调用方在
// 逻辑锁范围内使用，不得持有或修改；只读消费请用 RunningContainers。
func (sn *SchedulerNode) LaunchedContainers() map[string]*rmcontainer.RMContainer {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	return sn.launchedContainers
}

// ReservedContainer 当前预留的容器，未预留时为 nil
func (sn *SchedulerNode) ReservedContainer() *rmcontainer.RMContainer {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	return sn.reservedContainer
}

func (sn *SchedulerNode) String() string {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	return fmt.Sprintf("host: %s #containers=%d available=%d used=%d",
		sn.rmNode.NodeAddress(), sn.numContainers,
		sn.availableResource.Memory, sn.usedResource.Memory)
}

// deductAvailableLocked 可用 -= r，已用 += r。调用方持锁。
func (sn *SchedulerNode) deductAvailableLocked(resource *common.Resource) {
	if resource == nil {
		sn.logger.Error("Invalid deduction of nil resource",
			zap.String("node_address", sn.rmNode.NodeAddress()))
		return
	}
	common.SubtractFrom(&sn.availableResource, *resource)
	common.AddTo(&sn.usedResource, *resource)
}

// addAvailableLocked 可用 += r，已用 -= r。调用方持锁。
func (sn *SchedulerNode) addAvailableLocked(resource *common.Resource) {
	if resource == nil {
		sn.logger.Error("Invalid addition of nil resource",
			zap.String("node_address", sn.rmNode.NodeAddress()))
		return
	}
	common.AddTo(&sn.availableResource, *resource)
	common.SubtractFrom(&sn.usedResource, *resource)
}

func resourceString(r *common.Resource) string {
	if r == nil {
		return "<none>"
	}
	return r.String()
}

// recordLedgerLocked 把当前账目快照写入事务。调用方持锁。
func (sn *SchedulerNode) recordLedgerLocked(txn recovery.JournalPort) {
	txn.Record(sn.NodeID().String(), recovery.Mutation{
		Kind:          recovery.MutationLedgerUpdated,
		Available:     sn.availableResource,
		Used:          sn.usedResource,
		NumContainers: sn.numContainers,
	})
}
