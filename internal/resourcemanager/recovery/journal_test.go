package recovery

import (
	"testing"

	"radish/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContainerID(id int64) common.ContainerID {
	return common.ContainerID{
		ApplicationAttemptID: common.ApplicationAttemptID{
			ApplicationID: common.ApplicationID{ClusterTimestamp: 1700000000, ID: 1},
			AttemptID:     1,
		},
		ContainerID: id,
	}
}

func TestTransactionStateBuffersEntries(t *testing.T) {
	txn := NewTransactionState()

	txn.Record("node-a:8041", Mutation{
		Kind:        MutationContainerLaunched,
		ContainerID: testContainerID(1),
	})
	txn.Record("node-b:8041", Mutation{
		Kind:        MutationContainerLaunched,
		ContainerID: testContainerID(2),
	})

	entries := txn.Pending()
	require.Len(t, entries, 2)
	assert.Equal(t, "node-a:8041", entries[0].NodeID)
	assert.Equal(t, "node-b:8041", entries[1].NodeID)
}

// 同一事务内同一节点的账目快照只保留最后一次写入
func TestTransactionStateLedgerLastWriteWins(t *testing.T) {
	txn := NewTransactionState()

	txn.Record("node-a:8041", Mutation{
		Kind:      MutationLedgerUpdated,
		Available: common.Resource{Memory: 6144, VCores: 6},
		Used:      common.Resource{Memory: 2048, VCores: 2},
	})
	txn.Record("node-a:8041", Mutation{
		Kind:          MutationLedgerUpdated,
		Available:     common.Resource{Memory: 4096, VCores: 4},
		Used:          common.Resource{Memory: 4096, VCores: 4},
		NumContainers: 2,
	})
	// 另一节点的快照不受影响
	txn.Record("node-b:8041", Mutation{
		Kind:      MutationLedgerUpdated,
		Available: common.Resource{Memory: 1024, VCores: 1},
	})

	entries := txn.Pending()
	require.Len(t, entries, 2)
	assert.Equal(t, common.Resource{Memory: 4096, VCores: 4}, entries[0].Mutation.Available)
	assert.Equal(t, 2, entries[0].Mutation.NumContainers)
	assert.Equal(t, "node-b:8041", entries[1].NodeID)
}

func TestTransactionStateCommitFlushesBatch(t *testing.T) {
	txn := NewTransactionState()
	store := NewMemoryJournalStore()

	txn.Record("node-a:8041", Mutation{
		Kind:        MutationContainerLaunched,
		ContainerID: testContainerID(1),
	})
	txn.Record("node-a:8041", Mutation{
		Kind:          MutationLedgerUpdated,
		Available:     common.Resource{Memory: 6144, VCores: 6},
		Used:          common.Resource{Memory: 2048, VCores: 2},
		NumContainers: 1,
	})

	require.NoError(t, txn.Commit(store))

	entries, err := store.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// 提交后缓冲清空，空事务提交是空操作
	assert.Empty(t, txn.Pending())
	require.NoError(t, txn.Commit(store))
	entries, err = store.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestMemoryStoreRejectsAppendAfterClose(t *testing.T) {
	store := NewMemoryJournalStore()
	require.NoError(t, store.Close())

	err := store.Append([]Entry{{NodeID: "node-a:8041"}})
	assert.ErrorIs(t, err, common.ErrJournalClosed)
}
