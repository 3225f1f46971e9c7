package webapp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"radish/internal/common"
	"radish/internal/resourcemanager/scheduler"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NodeLister 节点账本的只读来源
type NodeLister interface {
	GetNodes() []*scheduler.SchedulerNode
	GetNode(nodeID common.NodeID) (*scheduler.SchedulerNode, bool)
}

// NodeReport 节点报告，由账本的快照读取器构建
type NodeReport struct {
	NodeID            string          `json:"node_id"`
	NodeName          string          `json:"node_name"`
	RackName          string          `json:"rack_name"`
	HTTPAddress       string          `json:"http_address"`
	TotalResource     common.Resource `json:"total_resource"`
	AvailableResource common.Resource `json:"available_resource"`
	UsedResource      common.Resource `json:"used_resource"`
	NumContainers     int             `json:"num_containers"`
	ReservedContainer string          `json:"reserved_container,omitempty"`
}

// HTTPServer 只读的节点报告 HTTP 服务器。核心账本不拥有任何
// 网络面，这里只消费它的快照读取器。
type HTTPServer struct {
	server *http.Server
	nodes  NodeLister
	logger *zap.Logger
}

// NewHTTPServer 创建 HTTP 服务器
func NewHTTPServer(nodes NodeLister) *HTTPServer {
	return &HTTPServer{
		nodes:  nodes,
		logger: common.ComponentLogger("webapp"),
	}
}

// Router 构建路由
func (s *HTTPServer) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.loggingMiddleware)

	cluster := router.PathPrefix("/ws/v1/cluster").Subrouter()
	cluster.HandleFunc("/nodes", s.handleNodes).Methods("GET")
	cluster.HandleFunc("/nodes/{host}/{port}", s.handleNode).Methods("GET")
	cluster.HandleFunc("/metrics", s.handleMetrics).Methods("GET")

	return router
}

// Start 启动 HTTP 服务器
func (s *HTTPServer) Start(port int) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("Starting node report HTTP server", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Node report HTTP server failed", zap.Error(err))
		}
	}()

	return nil
}

// Stop 停止 HTTP 服务器
func (s *HTTPServer) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Stopping node report HTTP server")
	return s.server.Shutdown(ctx)
}

// handleNodes 处理节点列表请求
func (s *HTTPServer) handleNodes(w http.ResponseWriter, r *http.Request) {
	nodes := s.nodes.GetNodes()
	reports := make([]*NodeReport, 0, len(nodes))
	for _, node := range nodes {
		reports = append(reports, buildNodeReport(node))
	}

	s.writeJSONResponse(w, map[string]interface{}{
		"nodes": map[string]interface{}{
			"node": reports,
		},
	})
}

// handleNode 处理单个节点请求
func (s *HTTPServer) handleNode(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var port int32
	if _, err := fmt.Sscanf(vars["port"], "%d", &port); err != nil {
		http.Error(w, "invalid port", http.StatusBadRequest)
		return
	}

	nodeID := common.NodeID{Host: vars["host"], Port: port}
	node, exists := s.nodes.GetNode(nodeID)
	if !exists {
		http.Error(w, fmt.Sprintf("node %s not found", nodeID), http.StatusNotFound)
		return
	}

	s.writeJSONResponse(w, map[string]interface{}{
		"node": buildNodeReport(node),
	})
}

// handleMetrics 处理指标请求
func (s *HTTPServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := common.GetMetrics().Snapshot()
	s.writeJSONResponse(w, map[string]interface{}{
		"metrics": metrics,
	})
}

// buildNodeReport 从账本快照构建节点报告
func buildNodeReport(node *scheduler.SchedulerNode) *NodeReport {
	report := &NodeReport{
		NodeID:            node.NodeID().String(),
		NodeName:          node.NodeName(),
		RackName:          node.RackName(),
		HTTPAddress:       node.HTTPAddress(),
		TotalResource:     node.TotalResource(),
		AvailableResource: node.AvailableResource(),
		UsedResource:      node.UsedResource(),
		NumContainers:     node.NumContainers(),
	}
	if reserved := node.ReservedContainer(); reserved != nil {
		report.ReservedContainer = reserved.ID().String()
	}
	return report
}

// writeJSONResponse 写 JSON 响应
func (s *HTTPServer) writeJSONResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// loggingMiddleware 请求日志中间件
func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}
