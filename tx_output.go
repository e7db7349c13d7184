package blc

import (
	"encoding/json"
	"fmt"

	"github.com/treeforest/easybtc/script"
)

type TxOutput struct {
	Value        uint64 // 金额
	Address      string // 地址
	ScriptPubKey []byte // 锁定脚本
}

func NewTxOutput(value uint64, address string) (*TxOutput, error) {
	out := &TxOutput{
		Value:        value,
		Address:      address,
		ScriptPubKey: nil,
	}
	err := out.GenScriptPubKey()
	return out, err
}

func (out *TxOutput) GenScriptPubKey() error {
	scriptPubKey, err := script.GenerateScriptPubKey([]byte(out.Address))
	if err != nil {
		return fmt.Errorf("generate script public key failed:%v", err)
	}
	out.ScriptPubKey = scriptPubKey
	return nil
}

func (out *TxOutput) Marshal() ([]byte, error) {
	return json.Marshal(out)
}

func (out *TxOutput) Unmarshal(data []byte) error {
	return json.Unmarshal(data, out)
}

// Amount 输出金额
func (out *TxOutput) Amount() uint64 {
	return out.Value
}

// LockingScript 输出的锁定脚本
func (out *TxOutput) LockingScript() []byte {
	return out.ScriptPubKey
}
