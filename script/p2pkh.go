package script

import (
	"fmt"

	"github.com/treeforest/easybtc/base58check"
)

// GenerateScriptPubKey 生成 P2PKH 锁定脚本：
// OP_DUP OP_HASH160 <hash160> OP_EQUALVERIFY OP_CHECKSIG
func GenerateScriptPubKey(address []byte) ([]byte, error) {
	hash160, err := base58check.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("decode address failed: %v", err)
	}
	if len(hash160) != Hash160Len {
		return nil, fmt.Errorf("invalid hash160 length: %d", len(hash160))
	}
	s := make([]byte, 0, Hash160Len+5)
	s = append(s, byte(DUP), byte(HASH160), byte(Hash160Len))
	s = append(s, hash160...)
	s = append(s, byte(EQUALVERIFY), byte(CHECKSIG))
	return s, nil
}

// GenerateScriptSig 将签名和公钥拼接成解锁脚本：<sig> <pubkey>
func GenerateScriptSig(sig, pub []byte) ([]byte, error) {
	if len(sig) == 0 || len(sig) > MaxDataLen {
		return nil, fmt.Errorf("invalid signature length: %d", len(sig))
	}
	if len(pub) != PubKeyLen {
		return nil, fmt.Errorf("invalid public key length: %d", len(pub))
	}
	s := make([]byte, 0, len(sig)+len(pub)+2)
	s = append(s, byte(len(sig)))
	s = append(s, sig...)
	s = append(s, byte(len(pub)))
	s = append(s, pub...)
	return s, nil
}

// IsPayToPubKeyHash 是否是标准的 P2PKH 锁定脚本
func IsPayToPubKeyHash(scriptPubKey []byte) bool {
	return len(scriptPubKey) == Hash160Len+5 &&
		scriptPubKey[0] == byte(DUP) &&
		scriptPubKey[1] == byte(HASH160) &&
		scriptPubKey[2] == byte(Hash160Len) &&
		scriptPubKey[Hash160Len+3] == byte(EQUALVERIFY) &&
		scriptPubKey[Hash160Len+4] == byte(CHECKSIG)
}

// IsPushOnly 解锁脚本是否只包含压栈数据
func IsPushOnly(scriptSig []byte) bool {
	for i := 0; i < len(scriptSig); {
		n := int(scriptSig[i])
		if n < 0x01 || n > MaxDataLen || i+1+n > len(scriptSig) {
			return false
		}
		i += 1 + n
	}
	return true
}
