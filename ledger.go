package blc

import (
	"fmt"
	"math"
	"sync"

	"github.com/pkg/errors"
	"github.com/treeforest/easybtc/dao"
	"github.com/treeforest/easybtc/script"
	log "github.com/treeforest/logger"
)

const (
	COIN = 100000000 // 1个币 = 100,000,000 聪
)

// ErrMalformedScript 交易中的脚本字节流无法解析。与"验证不通过"
// 不同，携带该错误的交易属于非法输入，调用方应直接丢弃。
var ErrMalformedScript = errors.New("malformed transaction script")

// Ledger 链状态。维护未花费输出集合与交易池，
// 是脚本验证核心的调用方。
type Ledger struct {
	dao     *dao.DAO
	utxoSet *UTXOSet
	txPool  *TxPool
	locker  sync.Mutex // 串行化状态变更，保证验证期间快照一致
}

// OpenLedger 打开(或创建)链状态数据库，并重建内存中的未花费输出集合
func OpenLedger(dbPath string) (*Ledger, error) {
	l := &Ledger{
		dao:     dao.New(dbPath),
		utxoSet: NewUTXOSet(),
		txPool:  NewTxPool(),
	}
	err := l.dao.TraverseUTXO(func(txId [32]byte, index uint32, data []byte) error {
		var out TxOutput
		if err := out.Unmarshal(data); err != nil {
			return fmt.Errorf("unmarshal tx output failed: %v", err)
		}
		l.utxoSet.Put(txId, index, &out)
		return nil
	})
	if err != nil {
		_ = l.dao.Close()
		return nil, fmt.Errorf("load utxo set failed: %v", err)
	}
	log.Infof("ledger opened, %d utxos loaded", l.utxoSet.Len())
	return l, nil
}

func (l *Ledger) Close() error {
	return l.dao.Close()
}

func (l *Ledger) UTXOSet() *UTXOSet {
	return l.utxoSet
}

func (l *Ledger) TxPool() *TxPool {
	return l.txPool
}

// AddUTXO 登记一个未花费输出并持久化
func (l *Ledger) AddUTXO(txId [32]byte, index uint32, value uint64, address string) error {
	l.locker.Lock()
	defer l.locker.Unlock()

	if l.utxoSet.Exist(txId, index) {
		return errors.New("utxo already exist")
	}
	out, err := NewTxOutput(value, address)
	if err != nil {
		return fmt.Errorf("create tx output failed: %v", err)
	}
	data, err := out.Marshal()
	if err != nil {
		return fmt.Errorf("marshal tx output failed: %v", err)
	}
	if err = l.dao.PutUTXO(txId, index, data); err != nil {
		return err
	}
	l.utxoSet.Put(txId, index, out)
	return nil
}

// AddToTxPool 将交易放入交易池。入池前完成全部输入的脚本验证；
// 脚本无法解析时返回包装了 ErrMalformedScript 的错误。
func (l *Ledger) AddToTxPool(tx *Transaction) error {
	l.locker.Lock()
	defer l.locker.Unlock()

	// 输出是否已经在交易池中被使用
	for _, vin := range tx.Vins {
		if l.txPool.IsUsedTxInput(&vin) {
			return errors.New("tx input is used")
		}
	}

	fee, err := l.checkTx(tx)
	if err != nil {
		return err
	}
	return l.txPool.Put(fee, tx)
}

// checkTx 验证交易并计算手续费
func (l *Ledger) checkTx(tx *Transaction) (fee uint64, err error) {
	hash, err := tx.CalculateHash()
	if err != nil || hash != tx.Hash {
		return 0, errors.New("invalid transaction hash")
	}

	var inputAmount, outputAmount uint64
	for _, vin := range tx.Vins {
		if vin.IsCoinbase() {
			continue
		}
		out, ok := l.utxoSet.Get(vin.TxId, vin.Vout)
		if !ok {
			return 0, errors.New("referenced utxo not exist")
		}
		if inputAmount > math.MaxUint64-out.Value {
			return 0, errors.New("input amount overflow")
		}
		inputAmount += out.Value
	}
	for _, vout := range tx.Vouts {
		// 求和回绕会让超发交易通过金额检查
		if outputAmount > math.MaxUint64-vout.Value {
			return 0, errors.New("output amount overflow")
		}
		outputAmount += vout.Value
	}
	if inputAmount < outputAmount {
		return 0, errors.New("input amount less than output amount")
	}

	ok, err := VerifyTransaction(tx, l.utxoSet)
	if err != nil {
		// 解析失败：交易本身非法，而非验证不通过
		return 0, errors.Wrap(ErrMalformedScript, err.Error())
	}
	if !ok {
		return 0, errors.New("transaction verify failed")
	}
	return inputAmount - outputAmount, nil
}

// CommitTx 将池内交易作用到链状态：消耗输入引用的输出，登记新输出
func (l *Ledger) CommitTx(txHash [32]byte) error {
	l.locker.Lock()
	defer l.locker.Unlock()

	var entry *TxPoolEntry
	l.txPool.Traverse(func(fee uint64, tx *Transaction) bool {
		if tx.Hash == txHash {
			entry = &TxPoolEntry{Fee: fee, Tx: *tx}
			return false
		}
		return true
	})
	if entry == nil {
		return errors.New("tx not found in pool")
	}
	tx := &entry.Tx

	for _, vin := range tx.Vins {
		if vin.IsCoinbase() {
			continue
		}
		if err := l.dao.DeleteUTXO(vin.TxId, vin.Vout); err != nil {
			return err
		}
	}
	for i := range tx.Vouts {
		data, err := tx.Vouts[i].Marshal()
		if err != nil {
			return fmt.Errorf("marshal tx output failed: %v", err)
		}
		if err = l.dao.PutUTXO(tx.Hash, uint32(i), data); err != nil {
			return err
		}
	}

	l.utxoSet.ApplyTransaction(tx)
	l.txPool.Remove(txHash)
	log.Debugf("tx %x committed", txHash)
	return nil
}

// GetBalance 地址的余额
func (l *Ledger) GetBalance(address string) uint64 {
	return l.utxoSet.GetBalance(address)
}

// DescribeScript 解析脚本并返回可读的程序清单与提取到的付款地址。
// 仅用于诊断。
func (l *Ledger) DescribeScript(scriptSig, scriptPubKey []byte) (program, address string, err error) {
	engine, err := script.Parse(scriptSig, scriptPubKey)
	if err != nil {
		return "", "", err
	}
	return engine.String(), engine.ExtractAddress(), nil
}
