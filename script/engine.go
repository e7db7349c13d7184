package script

import (
	"bytes"
	"io"
	"strings"

	"github.com/treeforest/easybtc/base58check"
)

// Tracer 执行跟踪回调，在每个操作执行之后被调用。
// 引擎默认不输出任何诊断信息，需要观测时由调用方挂上回调。
type Tracer func(op Op, ok bool)

// Engine 基于堆栈的脚本执行引擎。由 Parse 创建，创建后操作序列
// 不可变；Execute 每次调用都使用全新的上下文，可以被重复调用，
// 也可以在不同协程中验证不同的交易。
type Engine struct {
	ops     []Op
	address string // 解析时提取到的付款地址，没有则为空串
	tracer  Tracer
}

// Parse 解析交易脚本。字节流是解锁脚本在前、锁定脚本在后的拼接，
// 与历史上先执行花费方证明、再执行输出约束的验证顺序一致。
//
// [0x01,0x4b] 区间的字节作为压栈长度处理，其余字节必须是已注册的
// 操作码，否则返回 *ParseError。解析失败时不返回部分结果。
func Parse(scriptSig, scriptPubKey []byte) (*Engine, error) {
	data := make([]byte, 0, len(scriptSig)+len(scriptPubKey))
	data = append(data, scriptSig...)
	data = append(data, scriptPubKey...)

	r := bytes.NewReader(data)
	list := make([]Op, 0)
	address := ""

	for {
		pos := len(data) - r.Len()
		b, err := r.ReadByte()
		if err == io.EOF {
			break
		}

		if b >= 0x01 && b <= MaxDataLen {
			// 压栈数据
			buf := make([]byte, int(b))
			if _, err = io.ReadFull(r, buf); err != nil {
				return nil, &ParseError{Code: b, Pos: pos, Err: ErrTruncatedPush}
			}
			list = append(list, NewDataOp(buf))

			// 提取付款地址。只认整个脚本流中的第一个候选，
			// 后续符合长度的数据不再处理。
			if b == Hash160Len && address == "" {
				address = base58check.Hash160ToAddress(buf)
			} else if b == PubKeyLen && address == "" {
				address = base58check.PubKeyToAddress(buf)
			}
			continue
		}

		op := GetOp(OPCODE(b))
		if op == nil {
			return nil, &ParseError{Code: b, Pos: pos, Err: ErrUnsupportedOpcode}
		}
		list = append(list, op)
	}

	return &Engine{ops: list, address: address}, nil
}

// ExtractAddress 返回解析时提取到的付款地址，未提取到时为空串
func (e *Engine) ExtractAddress() string {
	return e.address
}

// SetTracer 设置执行跟踪回调
func (e *Engine) SetTracer(tracer Tracer) {
	e.tracer = tracer
}

// Execute 执行脚本，返回当前交易的第 txInIndex 个输入能否通过验证。
// 任何一个操作失败都会立刻终止执行并返回 false；全部操作成功后，
// 还要求栈顶元素为真值（等价于隐式执行一次 OP_VERIFY）。
// 返回 false 是脚本求值的正常结果，不代表输入数据非法。
func (e *Engine) Execute(tx Transaction, txInIndex int, utxos UTXOView) bool {
	ctx := NewContext(tx, txInIndex, utxos)
	for _, op := range e.ops {
		ok := op.Execute(ctx)
		if e.tracer != nil {
			e.tracer(op, ok)
		}
		if !ok {
			return false
		}
	}
	// 最终接受检查：栈顶必须为真值
	return opVerify{}.Execute(ctx)
}

func (e *Engine) String() string {
	list := make([]string, 0, len(e.ops))
	for _, op := range e.ops {
		list = append(list, op.String())
	}
	return "-- BEGIN ----\n" + strings.Join(list, "\n") + "\n-- END ----"
}
