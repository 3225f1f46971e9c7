package common

// 资源向量的按分量运算。所有运算都不做隐式截断：
// 调用方需要自行保证不会把账目减成负数。

// CloneResource 复制资源向量
func CloneResource(r Resource) Resource {
	return Resource{Memory: r.Memory, VCores: r.VCores}
}

// AddTo 原地累加 lhs += rhs
func AddTo(lhs *Resource, rhs Resource) {
	lhs.Memory += rhs.Memory
	lhs.VCores += rhs.VCores
}

// SubtractFrom 原地扣减 lhs -= rhs
func SubtractFrom(lhs *Resource, rhs Resource) {
	lhs.Memory -= rhs.Memory
	lhs.VCores -= rhs.VCores
}

// AddResources 返回 lhs + rhs
func AddResources(lhs, rhs Resource) Resource {
	return Resource{
		Memory: lhs.Memory + rhs.Memory,
		VCores: lhs.VCores + rhs.VCores,
	}
}

// SubtractResources 返回 lhs - rhs
func SubtractResources(lhs, rhs Resource) Resource {
	return Resource{
		Memory: lhs.Memory - rhs.Memory,
		VCores: lhs.VCores - rhs.VCores,
	}
}

// FitsIn 检查 smaller 的每个维度是否都不超过 bigger
func FitsIn(smaller, bigger Resource) bool {
	return smaller.Memory <= bigger.Memory && smaller.VCores <= bigger.VCores
}

// IsZero 检查资源向量是否为零
func IsZero(r Resource) bool {
	return r.Memory == 0 && r.VCores == 0
}
