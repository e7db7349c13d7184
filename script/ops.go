package script

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/ripemd160"
)

var (
	trueBytes  = []byte{1}
	falseBytes = []byte{0}
)

// isTruthy 栈元素的真值语义：非空且不全为零字节
func isTruthy(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return true
		}
	}
	return false
}

func hash160(data []byte) []byte {
	sha := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(sha[:])
	return r.Sum(nil)
}

type opFalse struct{}

func (opFalse) Execute(ctx *Context) bool {
	ctx.Push([]byte{})
	return true
}

func (opFalse) String() string { return "OP_FALSE" }

// opSmallInt OP_1 ~ OP_16，压入对应的小整数
type opSmallInt struct {
	n byte
}

func (op opSmallInt) Execute(ctx *Context) bool {
	ctx.Push([]byte{op.n})
	return true
}

func (op opSmallInt) String() string { return fmt.Sprintf("OP_%d", op.n) }

type opNop struct{}

func (opNop) Execute(ctx *Context) bool { return true }

func (opNop) String() string { return "OP_NOP" }

// opVerify 弹出栈顶并要求其为真值。Execute 的最终接受检查
// 也是对它的一次隐式调用。
type opVerify struct{}

func (opVerify) Execute(ctx *Context) bool {
	top, ok := ctx.Pop()
	if !ok {
		return false
	}
	return isTruthy(top)
}

func (opVerify) String() string { return "OP_VERIFY" }

// opReturn 无条件失败
type opReturn struct{}

func (opReturn) Execute(ctx *Context) bool { return false }

func (opReturn) String() string { return "OP_RETURN" }

type opDrop struct{}

func (opDrop) Execute(ctx *Context) bool {
	_, ok := ctx.Pop()
	return ok
}

func (opDrop) String() string { return "OP_DROP" }

type opDup struct{}

func (opDup) Execute(ctx *Context) bool {
	top, ok := ctx.Pop()
	if !ok {
		return false
	}
	ctx.Push(top)
	ctx.Push(top)
	return true
}

func (opDup) String() string { return "OP_DUP" }

type opSwap struct{}

func (opSwap) Execute(ctx *Context) bool {
	a, ok := ctx.Pop()
	if !ok {
		return false
	}
	b, ok := ctx.Pop()
	if !ok {
		return false
	}
	ctx.Push(a)
	ctx.Push(b)
	return true
}

func (opSwap) String() string { return "OP_SWAP" }

type opEqual struct{}

func (opEqual) Execute(ctx *Context) bool {
	a, ok := ctx.Pop()
	if !ok {
		return false
	}
	b, ok := ctx.Pop()
	if !ok {
		return false
	}
	if bytes.Equal(a, b) {
		ctx.Push(trueBytes)
	} else {
		ctx.Push(falseBytes)
	}
	return true
}

func (opEqual) String() string { return "OP_EQUAL" }

// opEqualVerify 弹出两个元素，不相等则执行失败
type opEqualVerify struct{}

func (opEqualVerify) Execute(ctx *Context) bool {
	a, ok := ctx.Pop()
	if !ok {
		return false
	}
	b, ok := ctx.Pop()
	if !ok {
		return false
	}
	return bytes.Equal(a, b)
}

func (opEqualVerify) String() string { return "OP_EQUALVERIFY" }

type opSha256 struct{}

func (opSha256) Execute(ctx *Context) bool {
	data, ok := ctx.Pop()
	if !ok {
		return false
	}
	hash := sha256.Sum256(data)
	ctx.Push(hash[:])
	return true
}

func (opSha256) String() string { return "OP_SHA256" }

type opHash160 struct{}

func (opHash160) Execute(ctx *Context) bool {
	data, ok := ctx.Pop()
	if !ok {
		return false
	}
	ctx.Push(hash160(data))
	return true
}

func (opHash160) String() string { return "OP_HASH160" }

type opHash256 struct{}

func (opHash256) Execute(ctx *Context) bool {
	data, ok := ctx.Pop()
	if !ok {
		return false
	}
	hash := sha256.Sum256(data)
	hash = sha256.Sum256(hash[:])
	ctx.Push(hash[:])
	return true
}

func (opHash256) String() string { return "OP_HASH256" }

// opCheckSig 弹出公钥和签名，通过上下文找到当前输入引用的未花费输出，
// 对交易的待签名哈希做 ECDSA 验签，并将结果压栈。
// 找不到引用的输出时执行失败。
type opCheckSig struct{}

func (opCheckSig) Execute(ctx *Context) bool {
	verified, ok := checkSig(ctx)
	if !ok {
		return false
	}
	if verified {
		ctx.Push(trueBytes)
	} else {
		ctx.Push(falseBytes)
	}
	return true
}

func (opCheckSig) String() string { return "OP_CHECKSIG" }

// opCheckSigVerify 等价于 OP_CHECKSIG 后紧跟 OP_VERIFY
type opCheckSigVerify struct{}

func (opCheckSigVerify) Execute(ctx *Context) bool {
	verified, ok := checkSig(ctx)
	return ok && verified
}

func (opCheckSigVerify) String() string { return "OP_CHECKSIGVERIFY" }

// checkSig 验签。verified 是签名是否有效；ok 为 false 表示操作
// 本身无法进行（栈元素不足、找不到引用的输出），应视为执行失败。
func checkSig(ctx *Context) (verified, ok bool) {
	pubData, ok := ctx.Pop()
	if !ok {
		return false, false
	}
	sig, ok := ctx.Pop()
	if !ok {
		return false, false
	}

	tx := ctx.Transaction()
	if tx == nil {
		return false, false
	}

	// 被花费输出的锁定脚本参与待签名哈希的计算
	txId, vout := tx.Input(ctx.TxInIndex())
	utxo, ok := ctx.UTXO(txId, vout)
	if !ok {
		return false, false
	}
	digest := tx.SigHash(ctx.TxInIndex(), utxo.LockingScript())

	pub := ecdsa.PublicKey{Curve: elliptic.P256()}
	pub.X, pub.Y = elliptic.Unmarshal(pub.Curve, pubData)
	if pub.X == nil || pub.Y == nil {
		return false, false
	}
	return ecdsa.VerifyASN1(&pub, digest[:], sig), true
}
