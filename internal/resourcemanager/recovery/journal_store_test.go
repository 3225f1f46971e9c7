package recovery

import (
	"testing"
	"time"

	"radish/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileJournalStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	resource := common.Resource{Memory: 2048, VCores: 2}
	batch := []Entry{
		{
			NodeID: "node-a:8041",
			Mutation: Mutation{
				Kind:        MutationContainerLaunched,
				ContainerID: testContainerID(1),
				Resource:    &resource,
			},
			Timestamp: time.Now(),
		},
		{
			NodeID: "node-a:8041",
			Mutation: Mutation{
				Kind:          MutationLedgerUpdated,
				Available:     common.Resource{Memory: 6144, VCores: 6},
				Used:          resource,
				NumContainers: 1,
			},
			Timestamp: time.Now(),
		},
	}
	require.NoError(t, store.Append(batch))

	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, MutationContainerLaunched, entries[0].Mutation.Kind)
	assert.Equal(t, testContainerID(1), entries[0].Mutation.ContainerID)
	require.NotNil(t, entries[0].Mutation.Resource)
	assert.Equal(t, resource, *entries[0].Mutation.Resource)
	assert.Equal(t, 1, entries[1].Mutation.NumContainers)
}

func TestFileStorePreservesCommitOrderAcrossBatches(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileJournalStore(dir)
	require.NoError(t, err)

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, store.Append([]Entry{{
			NodeID:   "node-a:8041",
			Mutation: Mutation{Kind: MutationContainerLaunched, ContainerID: testContainerID(i)},
		}}))
	}
	require.NoError(t, store.Close())

	// 重新打开后仍能按提交顺序读回
	reopened, err := NewFileJournalStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, int64(i+1), entry.Mutation.ContainerID.ContainerID)
	}
}

func TestFileStoreRejectsAppendAfterClose(t *testing.T) {
	store, err := NewFileJournalStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = store.Append([]Entry{{NodeID: "node-a:8041"}})
	assert.ErrorIs(t, err, common.ErrJournalClosed)
}

func TestNewJournalStoreSelectsImplementation(t *testing.T) {
	memory, err := NewJournalStore(common.RecoveryConfig{StoreType: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryJournalStore{}, memory)

	file, err := NewJournalStore(common.RecoveryConfig{StoreType: "file", Directory: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileJournalStore{}, file)
	require.NoError(t, file.Close())

	_, err = NewJournalStore(common.RecoveryConfig{StoreType: "etcd"})
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
}

func TestKafkaStoreLocalReadsUnsupported(t *testing.T) {
	store := NewKafkaJournalStore(common.KafkaConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "node-journal",
	})
	defer store.Close()

	_, err := store.Entries()
	assert.ErrorIs(t, err, ErrEntriesNotSupported)
}

func TestKafkaStoreRejectsAppendAfterClose(t *testing.T) {
	store := NewKafkaJournalStore(common.KafkaConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "node-journal",
	})
	require.NoError(t, store.Close())

	err := store.Append([]Entry{{NodeID: "node-a:8041"}})
	assert.ErrorIs(t, err, common.ErrJournalClosed)
}
