package utils

import (
	"strings"

	"github.com/google/uuid"
)

// IdentifierLength 随机标识符长度
const IdentifierLength = 10

// IdentifierGenerator 生成 ACT-/OFR- 之后的随机部分
type IdentifierGenerator interface {
	Generate() string
}

// UUIDIdentifierGenerator 基于UUID的随机标识符，结果为10位大写字母数字
type UUIDIdentifierGenerator struct{}

// NewIdentifierGenerator 创建默认标识符生成器
func NewIdentifierGenerator() IdentifierGenerator {
	return UUIDIdentifierGenerator{}
}

// Generate 生成随机标识符
func (UUIDIdentifierGenerator) Generate() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:IdentifierLength])
}
