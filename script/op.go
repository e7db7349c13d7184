package script

import (
	"fmt"
)

// Op 脚本中的一个操作。操作对象本身无状态、不可变，
// 可以被并发执行的多个脚本安全共享，执行期的状态全部在 Context 上。
type Op interface {
	// Execute 在给定的上下文上执行。返回 false 表示操作失败，
	// 整个脚本的验证随之失败。
	Execute(ctx *Context) bool
	String() string
}

// DataOp 压栈操作，携带 1~75 字节的字面量数据
type DataOp struct {
	data []byte
}

func NewDataOp(data []byte) *DataOp {
	d := make([]byte, len(data))
	copy(d, data)
	return &DataOp{data: d}
}

func (op *DataOp) Execute(ctx *Context) bool {
	ctx.Push(op.data)
	return true
}

func (op *DataOp) Data() []byte {
	return op.data
}

func (op *DataOp) String() string {
	return fmt.Sprintf("OP_PUSHDATA(%d) 0x%x", len(op.data), op.data)
}
