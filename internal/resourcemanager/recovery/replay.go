package recovery

import (
	"radish/internal/common"

	"go.uber.org/zap"
)

// NodeState 从日志重建出的单节点状态，
// 备用 ResourceManager 用它恢复调度视图。
type NodeState struct {
	NodeID            string
	AvailableResource common.Resource
	UsedResource      common.Resource
	NumContainers     int
	// Containers 容器 ID 到容器快照的映射
	Containers map[string]ContainerState
	// Reserved 当前预留的容器 ID，未预留时为空
	Reserved string
}

// ContainerState 容器快照
type ContainerState struct {
	ContainerID common.ContainerID
	Resource    *common.Resource
	AttemptID   common.ApplicationAttemptID
}

// ReplayNodeStates 按提交顺序回放日志条目，重建每个节点的状态。
// 条目顺序即事务提交顺序，单节点内的顺序与原始变更一致。
func ReplayNodeStates(entries []Entry) map[string]*NodeState {
	logger := common.ComponentLogger("journal-replay")
	states := make(map[string]*NodeState)

	nodeState := func(nodeID string) *NodeState {
		state, ok := states[nodeID]
		if !ok {
			state = &NodeState{
				NodeID:     nodeID,
				Containers: make(map[string]ContainerState),
			}
			states[nodeID] = state
		}
		return state
	}

	for _, entry := range entries {
		state := nodeState(entry.NodeID)
		m := entry.Mutation

		switch m.Kind {
		case MutationLedgerUpdated:
			state.AvailableResource = m.Available
			state.UsedResource = m.Used
			state.NumContainers = m.NumContainers

		case MutationContainerLaunched:
			state.Containers[m.ContainerID.String()] = ContainerState{
				ContainerID: m.ContainerID,
				Resource:    m.Resource,
				AttemptID:   m.AttemptID,
			}

		case MutationContainerReleased:
			delete(state.Containers, m.ContainerID.String())

		case MutationReservationUpdated:
			if m.Reserved {
				state.Reserved = m.ContainerID.String()
			} else {
				state.Reserved = ""
			}

		default:
			logger.Warn("Skipping journal entry with unknown mutation kind",
				zap.String("node_id", entry.NodeID),
				zap.String("kind", string(m.Kind)))
		}
	}

	logger.Info("Journal replay completed",
		zap.Int("entries", len(entries)),
		zap.Int("nodes", len(states)))

	return states
}

// ReplayStore 从日志存储读取并回放全部条目
func ReplayStore(store JournalStore) (map[string]*NodeState, error) {
	entries, err := store.Entries()
	if err != nil {
		return nil, err
	}
	return ReplayNodeStates(entries), nil
}
