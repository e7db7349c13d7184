package blc

import (
	"github.com/pkg/errors"
	"github.com/treeforest/easybtc/script"
)

// VerifyInput 验证交易的第 txInIndex 个输入能否花费其引用的输出。
// 返回的 error 表示脚本字节流本身非法（无法解析），与验证不通过
// （返回 false, nil）是两类结果，调用方必须区分对待。
func VerifyInput(tx *Transaction, txInIndex int, utxos *UTXOSet) (bool, error) {
	if txInIndex < 0 || txInIndex >= len(tx.Vins) {
		return false, errors.Errorf("tx input index out of range: %d", txInIndex)
	}
	vin := tx.Vins[txInIndex]
	if vin.IsCoinbase() {
		// 创币交易输入没有引用的输出，无需脚本验证
		return true, nil
	}

	out, ok := utxos.Get(vin.TxId, vin.Vout)
	if !ok {
		// 引用的输出不存在(或已被花费)，无法授权
		return false, nil
	}

	engine, err := script.Parse(vin.ScriptSig, out.ScriptPubKey)
	if err != nil {
		return false, errors.Wrap(err, "parse script failed")
	}
	return engine.Execute(tx, txInIndex, utxos), nil
}

// VerifyTransaction 验证交易的所有输入
func VerifyTransaction(tx *Transaction, utxos *UTXOSet) (bool, error) {
	for i := range tx.Vins {
		ok, err := VerifyInput(tx, i, utxos)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
