package common

import "fmt"

// Resource 资源向量（固定维度，按分量运算）
type Resource struct {
	Memory int64 `json:"memory" yaml:"memory"` // 内存 MB
	VCores int32 `json:"vcores" yaml:"vcores"` // 虚拟核心数
}

func (r Resource) String() string {
	return fmt.Sprintf("<memory:%d, vCores:%d>", r.Memory, r.VCores)
}

// NodeID 节点标识
type NodeID struct {
	Host string `json:"host" yaml:"host"`
	Port int32  `json:"port" yaml:"port"`
}

func (n NodeID) String() string {
	return fmt.Sprintf("%s:%d", n.Host, n.Port)
}

// ApplicationID 应用程序标识
type ApplicationID struct {
	ClusterTimestamp int64 `json:"cluster_timestamp"`
	ID               int32 `json:"id"`
}

func (a ApplicationID) String() string {
	return fmt.Sprintf("application_%d_%04d", a.ClusterTimestamp, a.ID)
}

// ApplicationAttemptID 应用程序尝试标识
type ApplicationAttemptID struct {
	ApplicationID ApplicationID `json:"application_id"`
	AttemptID     int32         `json:"attempt_id"`
}

func (a ApplicationAttemptID) String() string {
	return fmt.Sprintf("appattempt_%d_%04d_%06d",
		a.ApplicationID.ClusterTimestamp, a.ApplicationID.ID, a.AttemptID)
}

// ContainerID 容器标识
type ContainerID struct {
	ApplicationAttemptID ApplicationAttemptID `json:"application_attempt_id"`
	ContainerID          int64                `json:"container_id"`
}

func (c ContainerID) String() string {
	return fmt.Sprintf("container_%d_%04d_%02d_%06d",
		c.ApplicationAttemptID.ApplicationID.ClusterTimestamp,
		c.ApplicationAttemptID.ApplicationID.ID,
		c.ApplicationAttemptID.AttemptID,
		c.ContainerID)
}

// Priority 调度优先级，数值越小优先级越高
type Priority int32
