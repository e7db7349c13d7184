package script

import (
	"fmt"
)

var (
	// ErrUnsupportedOpcode 字节流中出现未注册的操作码
	ErrUnsupportedOpcode = fmt.Errorf("unsupported opcode")
	// ErrTruncatedPush 压栈数据声明的长度超出了脚本末尾
	ErrTruncatedPush = fmt.Errorf("truncated push data")
)

// ParseError 脚本解析错误。解析错误说明字节流无法表示为合法的
// 操作序列，与执行期的验证失败（Execute 返回 false）是两类问题，
// 调用方不应把解析错误当作"拒绝花费"处理。
type ParseError struct {
	Code byte  // 触发错误的字节
	Pos  int   // 字节在拼接后脚本流中的偏移
	Err  error // 错误原因
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse script failed at offset %d: %v: 0x%02x", e.Pos, e.Err, e.Code)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
