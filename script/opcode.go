package script

// OPCODE 单字节操作码。取值沿用比特币脚本的编码：
// [0x01,0x4b] 区间的字节不是操作码，而是后随数据的压栈长度。
type OPCODE byte

const (
	FALSE          OPCODE = 0x00 // 压入空字节序列
	TRUE           OPCODE = 0x51 // 即 OP_1
	NOP            OPCODE = 0x61
	VERIFY         OPCODE = 0x69
	RETURN         OPCODE = 0x6a
	DROP           OPCODE = 0x75
	DUP            OPCODE = 0x76
	SWAP           OPCODE = 0x7c
	EQUAL          OPCODE = 0x87
	EQUALVERIFY    OPCODE = 0x88
	SHA256         OPCODE = 0xa8
	HASH160        OPCODE = 0xa9
	HASH256        OPCODE = 0xaa
	CHECKSIG       OPCODE = 0xac
	CHECKSIGVERIFY OPCODE = 0xad
)

const (
	// MaxDataLen 单条压栈数据的最大长度，同时也是压栈长度字节的上界
	MaxDataLen = 0x4b

	// Hash160Len 公钥指纹(hash160)长度，解析时据此提取付款地址
	Hash160Len = 20
	// PubKeyLen 未压缩公钥长度，解析时据此提取付款地址
	PubKeyLen = 65
)

// ops 操作码注册表。操作对象全局唯一，进程存活期间不会被修改。
var ops = map[OPCODE]Op{
	FALSE:          opFalse{},
	NOP:            opNop{},
	VERIFY:         opVerify{},
	RETURN:         opReturn{},
	DROP:           opDrop{},
	DUP:            opDup{},
	SWAP:           opSwap{},
	EQUAL:          opEqual{},
	EQUALVERIFY:    opEqualVerify{},
	SHA256:         opSha256{},
	HASH160:        opHash160{},
	HASH256:        opHash256{},
	CHECKSIG:       opCheckSig{},
	CHECKSIGVERIFY: opCheckSigVerify{},
}

func init() {
	// OP_1 ~ OP_16 压入对应的小整数
	for n := byte(1); n <= 16; n++ {
		ops[TRUE+OPCODE(n-1)] = opSmallInt{n: n}
	}
}

// GetOp 查询操作码对应的操作。未注册的操作码返回 nil。
func GetOp(code OPCODE) Op {
	return ops[code]
}
