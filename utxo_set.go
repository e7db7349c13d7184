package blc

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/treeforest/easybtc/script"
)

// OutPoint 未花费输出的复合键 (交易哈希, 输出索引)。
// 用结构体做键，避免字符串拼接键带来的分隔符歧义。
type OutPoint struct {
	TxId  [32]byte
	Index uint32
}

// UTXOSet 未花费输出集合。脚本执行期间把它当作只读快照使用；
// 写操作（Put/Delete/ApplyTransaction）只应发生在两次验证之间。
type UTXOSet struct {
	locker     sync.RWMutex
	utxos      map[OutPoint]*TxOutput
	addrFilter *bloom.BloomFilter // 持币地址的 Bloom 过滤器，加速余额查询
}

func NewUTXOSet() *UTXOSet {
	return &UTXOSet{
		utxos:      map[OutPoint]*TxOutput{},
		addrFilter: bloom.NewWithEstimates(100000, 0.01),
	}
}

func (set *UTXOSet) Put(txId [32]byte, index uint32, out *TxOutput) {
	set.locker.Lock()
	defer set.locker.Unlock()

	set.utxos[OutPoint{TxId: txId, Index: index}] = out
	set.addrFilter.Add([]byte(out.Address))
}

func (set *UTXOSet) Get(txId [32]byte, index uint32) (*TxOutput, bool) {
	set.locker.RLock()
	defer set.locker.RUnlock()

	out, ok := set.utxos[OutPoint{TxId: txId, Index: index}]
	return out, ok
}

func (set *UTXOSet) Exist(txId [32]byte, index uint32) bool {
	_, ok := set.Get(txId, index)
	return ok
}

func (set *UTXOSet) Delete(txId [32]byte, index uint32) {
	set.locker.Lock()
	defer set.locker.Unlock()

	// bloom 过滤器不支持删除，地址可能残留其中，只会带来
	// 余额查询时多余的一次遍历，不影响结果
	delete(set.utxos, OutPoint{TxId: txId, Index: index})
}

func (set *UTXOSet) Len() int {
	set.locker.RLock()
	defer set.locker.RUnlock()

	return len(set.utxos)
}

func (set *UTXOSet) Traverse(fn func(txId [32]byte, index uint32, out *TxOutput)) {
	set.locker.RLock()
	defer set.locker.RUnlock()

	for op, out := range set.utxos {
		fn(op.TxId, op.Index, out)
	}
}

// GetBalance 地址的余额
func (set *UTXOSet) GetBalance(address string) uint64 {
	set.locker.RLock()
	defer set.locker.RUnlock()

	if !set.addrFilter.Test([]byte(address)) {
		return 0
	}
	var amount uint64
	for _, out := range set.utxos {
		if out.Address == address {
			amount += out.Value
		}
	}
	return amount
}

// ApplyTransaction 把已通过验证的交易作用到集合上：
// 消耗输入引用的输出，加入新的输出。
func (set *UTXOSet) ApplyTransaction(tx *Transaction) {
	for _, vin := range tx.Vins {
		if vin.IsCoinbase() {
			continue
		}
		set.Delete(vin.TxId, vin.Vout)
	}
	for i := range tx.Vouts {
		set.Put(tx.Hash, uint32(i), &tx.Vouts[i])
	}
}

// UTXO 脚本引擎使用的只读查找入口
func (set *UTXOSet) UTXO(txId [32]byte, index uint32) (script.TxOutput, bool) {
	out, ok := set.Get(txId, index)
	if !ok {
		return nil, false
	}
	return out, true
}
