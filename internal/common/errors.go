package common

import (
	"errors"
	"fmt"
)

// 定义常见错误类型
var (
	ErrInvalidParameter     = errors.New("invalid parameter")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrJournalClosed        = errors.New("journal store closed")
)

// ValidationError 验证错误
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// Unwrap 所有验证错误都归类为参数非法
func (e *ValidationError) Unwrap() error {
	return ErrInvalidParameter
}

// NewValidationError 创建验证错误
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// ValidateResource 验证资源配置
func ValidateResource(resource Resource) error {
	if resource.Memory <= 0 {
		return NewValidationError("memory", "must be greater than 0", resource.Memory)
	}
	if resource.VCores <= 0 {
		return NewValidationError("vcores", "must be greater than 0", resource.VCores)
	}
	if resource.Memory > 1024*1024 { // 1TB
		return NewValidationError("memory", "exceeds maximum limit (1TB)", resource.Memory)
	}
	if resource.VCores > 1000 {
		return NewValidationError("vcores", "exceeds maximum limit (1000)", resource.VCores)
	}
	return nil
}

// ValidateNodeID 验证节点ID
func ValidateNodeID(nodeID NodeID) error {
	if nodeID.Host == "" {
		return NewValidationError("host", "cannot be empty", nodeID.Host)
	}
	if nodeID.Port <= 0 || nodeID.Port > 65535 {
		return NewValidationError("port", "must be between 1 and 65535", nodeID.Port)
	}
	return nil
}
