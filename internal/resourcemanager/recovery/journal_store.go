package recovery

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"radish/internal/common"

	"go.uber.org/zap"
)

// JournalStore 日志存储接口。Append 以批次为提交单位：
// 一个批次对应一次事务提交，要么整批可见要么整批不可见。
type JournalStore interface {
	// Append 追加一个批次
	Append(batch []Entry) error

	// Entries 读取全部条目（按提交顺序）
	Entries() ([]Entry, error)

	// Close 关闭存储
	Close() error
}

// NewJournalStore 按配置创建日志存储
func NewJournalStore(config common.RecoveryConfig) (JournalStore, error) {
	switch config.StoreType {
	case "memory":
		return NewMemoryJournalStore(), nil
	case "file":
		return NewFileJournalStore(config.Directory)
	case "kafka":
		return NewKafkaJournalStore(config.Kafka), nil
	default:
		return nil, fmt.Errorf("%w: unsupported journal store type %q",
			common.ErrInvalidConfiguration, config.StoreType)
	}
}

// MemoryJournalStore 内存日志存储实现
type MemoryJournalStore struct {
	mu      sync.RWMutex
	entries []Entry
	closed  bool
	logger  *zap.Logger
}

// NewMemoryJournalStore 创建内存日志存储
func NewMemoryJournalStore() *MemoryJournalStore {
	return &MemoryJournalStore{
		logger: common.ComponentLogger("memory-journal"),
	}
}

// Append 追加批次到内存
func (ms *MemoryJournalStore) Append(batch []Entry) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.closed {
		return common.ErrJournalClosed
	}

	ms.entries = append(ms.entries, batch...)

	ms.logger.Debug("Journal batch appended",
		zap.Int("batch_size", len(batch)),
		zap.Int("total_entries", len(ms.entries)))

	return nil
}

// Entries 返回全部条目的副本
func (ms *MemoryJournalStore) Entries() ([]Entry, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	entries := make([]Entry, len(ms.entries))
	copy(entries, ms.entries)
	return entries, nil
}

// Close 关闭内存日志存储
func (ms *MemoryJournalStore) Close() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.closed = true
	return nil
}

// FileJournalStore 文件日志存储实现，JSON 行格式追加写
type FileJournalStore struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	logger *zap.Logger
}

// NewFileJournalStore 创建文件日志存储
func NewFileJournalStore(directory string) (*FileJournalStore, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", directory, err)
	}

	path := filepath.Join(directory, "node-journal.jsonl")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file %s: %w", path, err)
	}

	return &FileJournalStore{
		path:   path,
		file:   file,
		logger: common.ComponentLogger("file-journal"),
	}, nil
}

// Append 追加批次到文件并刷盘
func (fs *FileJournalStore) Append(batch []Entry) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.file == nil {
		return common.ErrJournalClosed
	}

	writer := bufio.NewWriter(fs.file)
	for _, entry := range batch {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal journal entry: %w", err)
		}
		if _, err := writer.Write(data); err != nil {
			return fmt.Errorf("failed to write journal entry: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write journal entry: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush journal: %w", err)
	}
	if err := fs.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync journal: %w", err)
	}

	fs.logger.Debug("Journal batch appended",
		zap.Int("batch_size", len(batch)),
		zap.String("path", fs.path))

	return nil
}

// Entries 读取文件中的全部条目
func (fs *FileJournalStore) Entries() ([]Entry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	file, err := os.Open(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			fs.logger.Warn("Skipping malformed journal line", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}

	return entries, nil
}

// Close 关闭文件日志存储
func (fs *FileJournalStore) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.file == nil {
		return nil
	}

	err := fs.file.Close()
	fs.file = nil
	return err
}
