package resourcemanager

import (
	"fmt"
	"sync"

	"radish/internal/common"
	"radish/internal/resourcemanager/rmnode"
	"radish/internal/resourcemanager/scheduler"

	"go.uber.org/zap"
)

// ClusterNodes 集群节点账本的注册表：节点加入集群视图时创建
// 对应的 SchedulerNode，退出时丢弃。注册表只管理生命周期，
// 账本内部的并发由每个节点自己的锁负责。
type ClusterNodes struct {
	mu     sync.RWMutex
	nodes  map[string]*scheduler.SchedulerNode
	config common.SchedulerConfig
	policy scheduler.ReservationPolicy
	logger *zap.Logger
}

// NewClusterNodes 创建节点注册表
func NewClusterNodes(config common.SchedulerConfig, policy scheduler.ReservationPolicy) *ClusterNodes {
	return &ClusterNodes{
		nodes:  make(map[string]*scheduler.SchedulerNode),
		config: config,
		policy: policy,
		logger: common.ComponentLogger("cluster-nodes"),
	}
}

// AddNode 节点加入集群视图，为它创建账本
func (cn *ClusterNodes) AddNode(node rmnode.RMNode) (*scheduler.SchedulerNode, error) {
	if err := common.ValidateNodeID(node.NodeID()); err != nil {
		return nil, err
	}

	cn.mu.Lock()
	defer cn.mu.Unlock()

	key := node.NodeID().String()
	if existing, exists := cn.nodes[key]; exists {
		cn.logger.Warn("Node already tracked",
			zap.String("node_id", key))
		return existing, nil
	}

	schedulerNode := scheduler.NewSchedulerNode(node, cn.config.UsePortInNodeName, cn.policy)
	cn.nodes[key] = schedulerNode

	cn.logger.Info("Node added to scheduler view",
		zap.String("node_id", key),
		zap.String("rack", node.RackName()),
		zap.Int64("memory", node.TotalCapability().Memory),
		zap.Int32("vcores", node.TotalCapability().VCores))

	return schedulerNode, nil
}

// RemoveNode 节点退出集群视图，丢弃账本
func (cn *ClusterNodes) RemoveNode(nodeID common.NodeID) error {
	cn.mu.Lock()
	defer cn.mu.Unlock()

	key := nodeID.String()
	node, exists := cn.nodes[key]
	if !exists {
		return fmt.Errorf("node %s not tracked", key)
	}

	delete(cn.nodes, key)

	cn.logger.Info("Node removed from scheduler view",
		zap.String("node_id", key),
		zap.Int("num_containers", node.NumContainers()))

	return nil
}

// GetNode 按标识获取节点账本
func (cn *ClusterNodes) GetNode(nodeID common.NodeID) (*scheduler.SchedulerNode, bool) {
	cn.mu.RLock()
	defer cn.mu.RUnlock()

	node, exists := cn.nodes[nodeID.String()]
	return node, exists
}

// GetNodes 全部节点账本
func (cn *ClusterNodes) GetNodes() []*scheduler.SchedulerNode {
	cn.mu.RLock()
	defer cn.mu.RUnlock()

	nodes := make([]*scheduler.SchedulerNode, 0, len(cn.nodes))
	for _, node := range cn.nodes {
		nodes = append(nodes, node)
	}
	return nodes
}

// NumNodes 节点数
func (cn *ClusterNodes) NumNodes() int {
	cn.mu.RLock()
	defer cn.mu.RUnlock()
	return len(cn.nodes)
}
