package blc

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"

	"github.com/treeforest/easybtc/script"
)

type TxInput struct {
	TxId             [32]byte // 引用的上一笔交易的交易哈希，创币交易初始化全为0
	Vout             uint32   // 引用的上一笔交易的输出索引，创币交易初始化为0xFFFFFFFF
	ScriptSig        []byte   // 解锁脚本
	CoinbaseDataSize int      // 创币交易数据长度
	CoinbaseData     []byte   // 创币交易（用户可以在这里写下任何东西，可辅助挖矿）
}

func NewTxInput(txId [32]byte, vout uint32) *TxInput {
	return &TxInput{
		TxId:      txId,
		Vout:      vout,
		ScriptSig: nil,
	}
}

func NewCoinbaseTxInput(coinbaseData []byte) *TxInput {
	return &TxInput{
		TxId:             [32]byte{},
		Vout:             0xFFFFFFFF,
		ScriptSig:        nil,
		CoinbaseDataSize: len(coinbaseData),
		CoinbaseData:     coinbaseData,
	}
}

func (input *TxInput) IsCoinbase() bool {
	return input.Vout == 0xFFFFFFFF
}

// SignInput 对交易的第 txInIndex 个输入签名，生成解锁脚本。
// scriptPubKey 是该输入引用输出的锁定脚本。
func (tx *Transaction) SignInput(txInIndex int, scriptPubKey []byte, key *ecdsa.PrivateKey) error {
	if txInIndex < 0 || txInIndex >= len(tx.Vins) {
		return fmt.Errorf("tx input index out of range: %d", txInIndex)
	}
	digest := tx.SigHash(txInIndex, scriptPubKey)
	sig, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		return fmt.Errorf("sign failed: %v", err)
	}
	pub := elliptic.Marshal(elliptic.P256(), key.PublicKey.X, key.PublicKey.Y)
	scriptSig, err := script.GenerateScriptSig(sig, pub)
	if err != nil {
		return fmt.Errorf("generate script sig failed: %v", err)
	}
	tx.Vins[txInIndex].ScriptSig = scriptSig
	return nil
}
