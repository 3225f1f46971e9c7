package recovery_test

import (
	"testing"

	"radish/internal/common"
	"radish/internal/resourcemanager/recovery"
	"radish/internal/resourcemanager/rmcontainer"
	"radish/internal/resourcemanager/rmnode"
	"radish/internal/resourcemanager/scheduler"
	"radish/internal/resourcemanager/scheduler/capacity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJournaledNode(host string) *scheduler.SchedulerNode {
	rmNode := rmnode.NewRMNode(
		common.NodeID{Host: host, Port: 8041},
		"/rack-1",
		host+":8042",
		common.Resource{Memory: 8192, VCores: 8},
	)
	return scheduler.NewSchedulerNode(rmNode, false, capacity.NewReservationPolicy())
}

func newJournaledContainer(host string, id int64, memory int64) *rmcontainer.RMContainer {
	attempt := common.ApplicationAttemptID{
		ApplicationID: common.ApplicationID{ClusterTimestamp: 1700000000, ID: 1},
		AttemptID:     1,
	}
	cid := common.ContainerID{ApplicationAttemptID: attempt, ContainerID: id}
	resource := common.Resource{Memory: memory, VCores: 1}
	return rmcontainer.NewRMContainer(cid, attempt,
		common.NodeID{Host: host, Port: 8041}, &resource, 1)
}

// 日志回放重建出的状态必须与在线账本一致，
// 这是备用 ResourceManager 接管时依赖的崩溃一致性契约
func TestReplayMatchesLiveNodeState(t *testing.T) {
	node := newJournaledNode("node-a")
	store := recovery.NewMemoryJournalStore()
	appID := common.ApplicationID{ClusterTimestamp: 1700000000, ID: 1}

	c1 := newJournaledContainer("node-a", 1, 2048)
	c2 := newJournaledContainer("node-a", 2, 1024)
	c3 := newJournaledContainer("node-a", 3, 512)

	// 三次独立的外部提交
	txn := recovery.NewTransactionState()
	node.AllocateContainer(appID, c1, txn)
	node.AllocateContainer(appID, c2, txn)
	require.NoError(t, txn.Commit(store))

	txn = recovery.NewTransactionState()
	node.AllocateContainer(appID, c3, txn)
	node.ReleaseContainer(c1, txn)
	require.NoError(t, txn.Commit(store))

	reservation := newJournaledContainer("node-a", 10, 4096)
	txn = recovery.NewTransactionState()
	node.ReserveResource(reservation.ApplicationAttemptID(), 1, reservation, txn)
	require.NoError(t, txn.Commit(store))

	states, err := recovery.ReplayStore(store)
	require.NoError(t, err)
	require.Contains(t, states, "node-a:8041")

	state := states["node-a:8041"]
	assert.Equal(t, node.AvailableResource(), state.AvailableResource)
	assert.Equal(t, node.UsedResource(), state.UsedResource)
	assert.Equal(t, node.NumContainers(), state.NumContainers)
	assert.Equal(t, reservation.ID().String(), state.Reserved)

	require.Len(t, state.Containers, 2)
	assert.Contains(t, state.Containers, c2.ID().String())
	assert.Contains(t, state.Containers, c3.ID().String())
	assert.NotContains(t, state.Containers, c1.ID().String())
}

func TestReplaySeparatesNodes(t *testing.T) {
	nodeA := newJournaledNode("node-a")
	nodeB := newJournaledNode("node-b")
	store := recovery.NewMemoryJournalStore()
	appID := common.ApplicationID{ClusterTimestamp: 1700000000, ID: 1}

	// 一个事务同时触及两个节点
	txn := recovery.NewTransactionState()
	nodeA.AllocateContainer(appID, newJournaledContainer("node-a", 1, 2048), txn)
	nodeB.AllocateContainer(appID, newJournaledContainer("node-b", 2, 4096), txn)
	require.NoError(t, txn.Commit(store))

	states, err := recovery.ReplayStore(store)
	require.NoError(t, err)
	require.Len(t, states, 2)

	assert.Equal(t, int64(2048), states["node-a:8041"].UsedResource.Memory)
	assert.Equal(t, int64(4096), states["node-b:8041"].UsedResource.Memory)
}

func TestReplayClearedReservation(t *testing.T) {
	node := newJournaledNode("node-a")
	store := recovery.NewMemoryJournalStore()
	reservation := newJournaledContainer("node-a", 10, 4096)
	attempt := reservation.ApplicationAttemptID()

	txn := recovery.NewTransactionState()
	node.ReserveResource(attempt, 1, reservation, txn)
	require.NoError(t, txn.Commit(store))

	txn = recovery.NewTransactionState()
	node.UnreserveResource(attempt, txn)
	require.NoError(t, txn.Commit(store))

	states, err := recovery.ReplayStore(store)
	require.NoError(t, err)
	assert.Empty(t, states["node-a:8041"].Reserved)
}

func TestReplayEmptyJournal(t *testing.T) {
	states := recovery.ReplayNodeStates(nil)
	assert.Empty(t, states)
}
