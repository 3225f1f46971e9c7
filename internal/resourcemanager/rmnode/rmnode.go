package rmnode

import (
	"fmt"

	"radish/internal/common"
)

// RMNode 节点描述符，由心跳/成员管理子系统维护。
// 调度器一侧只读，所有字段在节点注册时确定。
type RMNode interface {
	// NodeID 节点标识（host + port）
	NodeID() common.NodeID

	// Hostname 节点主机名
	Hostname() string

	// RackName 节点所在机架
	RackName() string

	// HTTPAddress 节点 Web 服务地址
	HTTPAddress() string

	// NodeAddress 节点通信地址（host:port）
	NodeAddress() string

	// TotalCapability 节点总容量
	TotalCapability() common.Resource
}

type rmNode struct {
	nodeID          common.NodeID
	hostname        string
	rackName        string
	httpAddress     string
	totalCapability common.Resource
}

// NewRMNode 创建节点描述符
func NewRMNode(nodeID common.NodeID, rackName, httpAddress string, totalCapability common.Resource) RMNode {
	return &rmNode{
		nodeID:          nodeID,
		hostname:        nodeID.Host,
		rackName:        rackName,
		httpAddress:     httpAddress,
		totalCapability: totalCapability,
	}
}

func (n *rmNode) NodeID() common.NodeID {
	return n.nodeID
}

func (n *rmNode) Hostname() string {
	return n.hostname
}

func (n *rmNode) RackName() string {
	return n.rackName
}

func (n *rmNode) HTTPAddress() string {
	return n.httpAddress
}

func (n *rmNode) NodeAddress() string {
	return fmt.Sprintf("%s:%d", n.nodeID.Host, n.nodeID.Port)
}

func (n *rmNode) TotalCapability() common.Resource {
	return n.totalCapability
}
