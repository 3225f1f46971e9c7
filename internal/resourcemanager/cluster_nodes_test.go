package resourcemanager

import (
	"testing"

	"radish/internal/common"
	"radish/internal/resourcemanager/rmnode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchedulerConfig() common.SchedulerConfig {
	return common.SchedulerConfig{Type: "capacity", UsePortInNodeName: false}
}

func newTestClusterNodes(t *testing.T) *ClusterNodes {
	t.Helper()
	policy, err := NewReservationPolicy(testSchedulerConfig())
	require.NoError(t, err)
	return NewClusterNodes(testSchedulerConfig(), policy)
}

func testRMNode(host string) rmnode.RMNode {
	return rmnode.NewRMNode(
		common.NodeID{Host: host, Port: 8041},
		"/rack-1",
		host+":8042",
		common.Resource{Memory: 8192, VCores: 8},
	)
}

func TestAddAndGetNode(t *testing.T) {
	cn := newTestClusterNodes(t)

	node, err := cn.AddNode(testRMNode("node-a"))
	require.NoError(t, err)
	require.NotNil(t, node)

	found, exists := cn.GetNode(common.NodeID{Host: "node-a", Port: 8041})
	require.True(t, exists)
	assert.Same(t, node, found)
	assert.Equal(t, 1, cn.NumNodes())
}

func TestAddNodeTwiceReturnsExisting(t *testing.T) {
	cn := newTestClusterNodes(t)

	first, err := cn.AddNode(testRMNode("node-a"))
	require.NoError(t, err)
	second, err := cn.AddNode(testRMNode("node-a"))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cn.NumNodes())
}

func TestAddNodeValidatesNodeID(t *testing.T) {
	cn := newTestClusterNodes(t)

	invalid := rmnode.NewRMNode(common.NodeID{Host: "", Port: 8041},
		"/rack-1", "", common.Resource{Memory: 8192, VCores: 8})
	_, err := cn.AddNode(invalid)
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
	assert.Equal(t, 0, cn.NumNodes())
}

func TestRemoveNode(t *testing.T) {
	cn := newTestClusterNodes(t)
	_, err := cn.AddNode(testRMNode("node-a"))
	require.NoError(t, err)

	require.NoError(t, cn.RemoveNode(common.NodeID{Host: "node-a", Port: 8041}))
	assert.Equal(t, 0, cn.NumNodes())

	_, exists := cn.GetNode(common.NodeID{Host: "node-a", Port: 8041})
	assert.False(t, exists)

	assert.Error(t, cn.RemoveNode(common.NodeID{Host: "node-a", Port: 8041}))
}

func TestGetNodesReturnsAll(t *testing.T) {
	cn := newTestClusterNodes(t)
	for _, host := range []string{"node-a", "node-b", "node-c"} {
		_, err := cn.AddNode(testRMNode(host))
		require.NoError(t, err)
	}

	assert.Len(t, cn.GetNodes(), 3)
}

func TestReservationPolicyFactory(t *testing.T) {
	capacityPolicy, err := NewReservationPolicy(common.SchedulerConfig{Type: "capacity"})
	require.NoError(t, err)
	assert.NotNil(t, capacityPolicy)

	fifoPolicy, err := NewReservationPolicy(common.SchedulerConfig{Type: "fifo"})
	require.NoError(t, err)
	assert.NotNil(t, fifoPolicy)

	_, err = NewReservationPolicy(common.SchedulerConfig{Type: "fair"})
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
}
