package script

import (
	"github.com/treeforest/easybtc/script/stack"
)

// Transaction 待验证的交易。脚本核心只读取与签名相关的内容，
// 具体的交易结构由上层账本提供。
type Transaction interface {
	// SigHash 计算第 txInIndex 个输入的待签名哈希。
	// scriptPubKey 是该输入所引用输出的锁定脚本
	SigHash(txInIndex int, scriptPubKey []byte) [32]byte
	// Input 返回第 i 个输入引用的前置输出位置 (交易哈希, 输出索引)
	Input(i int) (txId [32]byte, vout uint32)
}

// TxOutput 被引用的未花费交易输出
type TxOutput interface {
	Amount() uint64
	LockingScript() []byte
}

// UTXOView 未花费输出集合的只读快照。一次 Execute 调用期间快照
// 不能发生变化，这一点由调用方保证。
type UTXOView interface {
	UTXO(txId [32]byte, index uint32) (TxOutput, bool)
}

// Context 一次脚本执行的上下文。每次 Execute 都会新建一个，
// 由该次执行独占，执行结束后即丢弃，不会被复用。
type Context struct {
	stack     *stack.Stack
	tx        Transaction
	txInIndex int
	utxos     UTXOView
}

func NewContext(tx Transaction, txInIndex int, utxos UTXOView) *Context {
	return &Context{
		stack:     stack.New(),
		tx:        tx,
		txInIndex: txInIndex,
		utxos:     utxos,
	}
}

// Push 将数据压入操作数栈顶
func (ctx *Context) Push(data []byte) {
	ctx.stack.Push(data)
}

// Pop 弹出栈顶数据。栈空时返回 false，操作应将其视为执行失败，
// 而不是未定义行为。
func (ctx *Context) Pop() ([]byte, bool) {
	if ctx.stack.Empty() {
		return nil, false
	}
	return ctx.stack.Pop(), true
}

// Transaction 当前正在验证的交易
func (ctx *Context) Transaction() Transaction {
	return ctx.tx
}

// TxInIndex 当前正在验证的输入索引
func (ctx *Context) TxInIndex() int {
	return ctx.txInIndex
}

// UTXO 查找输入引用的未花费输出。找不到时返回 false，
// 核心不会伪造一个占位输出。
func (ctx *Context) UTXO(txId [32]byte, index uint32) (TxOutput, bool) {
	if ctx.utxos == nil {
		return nil, false
	}
	return ctx.utxos.UTXO(txId, index)
}
