package recovery

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"radish/internal/common"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrEntriesNotSupported kafka 存储是单向复制通道，
// 回放端直接消费 topic，不支持本地读取
var ErrEntriesNotSupported = errors.New("kafka journal store does not support local reads")

const defaultKafkaBufferSize = 1024

// KafkaJournalStore 把已提交的日志批次复制到 Kafka topic，
// 由备用 ResourceManager 消费重建节点状态。Append 只做入队，
// 后台 goroutine 负责实际写入，调度热路径不会被网络阻塞。
type KafkaJournalStore struct {
	writer  *kafka.Writer
	batches chan []Entry
	done    chan struct{}
	wg      sync.WaitGroup
	closed  bool
	mu      sync.Mutex
	logger  *zap.Logger
}

// NewKafkaJournalStore 创建 Kafka 日志存储
func NewKafkaJournalStore(config common.KafkaConfig) *KafkaJournalStore {
	bufferSize := config.BufferSize
	if bufferSize <= 0 {
		bufferSize = defaultKafkaBufferSize
	}

	ks := &KafkaJournalStore{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(config.Brokers...),
			Topic:        config.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
		batches: make(chan []Entry, bufferSize),
		done:    make(chan struct{}),
		logger:  common.ComponentLogger("kafka-journal"),
	}

	ks.wg.Add(1)
	go ks.writeLoop()

	return ks
}

// Append 入队一个批次。缓冲满时丢弃并告警，绝不阻塞调用方。
func (ks *KafkaJournalStore) Append(batch []Entry) error {
	ks.mu.Lock()
	if ks.closed {
		ks.mu.Unlock()
		return common.ErrJournalClosed
	}
	ks.mu.Unlock()

	select {
	case ks.batches <- batch:
		return nil
	default:
		common.GetMetrics().IncrJournalEntriesDropped()
		ks.logger.Warn("Journal replication buffer full, dropping batch",
			zap.Int("batch_size", len(batch)))
		return nil
	}
}

// Entries 不支持本地读取
func (ks *KafkaJournalStore) Entries() ([]Entry, error) {
	return nil, ErrEntriesNotSupported
}

// Close 关闭存储，排空缓冲后关闭底层 writer
func (ks *KafkaJournalStore) Close() error {
	ks.mu.Lock()
	if ks.closed {
		ks.mu.Unlock()
		return nil
	}
	ks.closed = true
	ks.mu.Unlock()

	close(ks.done)
	ks.wg.Wait()
	return ks.writer.Close()
}

// writeLoop 后台写入循环
func (ks *KafkaJournalStore) writeLoop() {
	defer ks.wg.Done()

	for {
		select {
		case batch := <-ks.batches:
			ks.writeBatch(batch)
		case <-ks.done:
			// 排空剩余批次
			for {
				select {
				case batch := <-ks.batches:
					ks.writeBatch(batch)
				default:
					return
				}
			}
		}
	}
}

// writeBatch 把一个批次写入 topic，按节点 ID 分区保证单节点有序
func (ks *KafkaJournalStore) writeBatch(batch []Entry) {
	messages := make([]kafka.Message, 0, len(batch))
	for _, entry := range batch {
		value, err := json.Marshal(entry)
		if err != nil {
			ks.logger.Error("Failed to marshal journal entry", zap.Error(err))
			continue
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(entry.NodeID),
			Value: value,
		})
	}
	if len(messages) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ks.writer.WriteMessages(ctx, messages...); err != nil {
		ks.logger.Error("Failed to replicate journal batch",
			zap.Int("batch_size", len(messages)),
			zap.Error(err))
	}
}
