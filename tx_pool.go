package blc

import (
	"errors"
	"sort"
	"sync"

	"github.com/treeforest/easybtc/merkle"
)

const (
	defTxPoolCap = 10000
)

// TxPool 交易池。只存放已通过脚本验证的交易，按手续费排序供打包取用。
type TxPool struct {
	locker sync.RWMutex
	txs    map[[32]byte]*TxPoolEntry
	spent  map[OutPoint][32]byte // 已被池内交易占用的输出 => 交易哈希
	cap    int
}

type TxPoolEntry struct {
	Fee uint64
	Tx  Transaction
}

func NewTxPool() *TxPool {
	return &TxPool{
		txs:   map[[32]byte]*TxPoolEntry{},
		spent: map[OutPoint][32]byte{},
		cap:   defTxPoolCap,
	}
}

// IsUsedTxInput 输入引用的输出是否已被池内的其它交易占用
func (pool *TxPool) IsUsedTxInput(vin *TxInput) bool {
	pool.locker.RLock()
	defer pool.locker.RUnlock()

	_, used := pool.spent[OutPoint{TxId: vin.TxId, Index: vin.Vout}]
	return used
}

func (pool *TxPool) Put(fee uint64, tx *Transaction) error {
	pool.locker.Lock()
	defer pool.locker.Unlock()

	if len(pool.txs) >= pool.cap {
		return errors.New("tx pool is full")
	}
	if _, ok := pool.txs[tx.Hash]; ok {
		return errors.New("tx already in pool")
	}
	for _, vin := range tx.Vins {
		if vin.IsCoinbase() {
			continue
		}
		if _, used := pool.spent[OutPoint{TxId: vin.TxId, Index: vin.Vout}]; used {
			return errors.New("tx input is used")
		}
	}

	pool.txs[tx.Hash] = &TxPoolEntry{Fee: fee, Tx: *tx}
	for _, vin := range tx.Vins {
		if vin.IsCoinbase() {
			continue
		}
		pool.spent[OutPoint{TxId: vin.TxId, Index: vin.Vout}] = tx.Hash
	}
	return nil
}

func (pool *TxPool) Remove(txHash [32]byte) {
	pool.locker.Lock()
	defer pool.locker.Unlock()

	entry, ok := pool.txs[txHash]
	if !ok {
		return
	}
	for _, vin := range entry.Tx.Vins {
		delete(pool.spent, OutPoint{TxId: vin.TxId, Index: vin.Vout})
	}
	delete(pool.txs, txHash)
}

func (pool *TxPool) Len() int {
	pool.locker.RLock()
	defer pool.locker.RUnlock()

	return len(pool.txs)
}

// Get 取手续费最高的 count 笔交易
func (pool *TxPool) Get(count int) []TxPoolEntry {
	pool.locker.RLock()
	defer pool.locker.RUnlock()

	entries := make([]TxPoolEntry, 0, len(pool.txs))
	for _, entry := range pool.txs {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Fee > entries[j].Fee
	})
	if count < len(entries) {
		entries = entries[:count]
	}
	return entries
}

func (pool *TxPool) Traverse(fn func(fee uint64, tx *Transaction) bool) {
	pool.locker.RLock()
	defer pool.locker.RUnlock()

	for _, entry := range pool.txs {
		if false == fn(entry.Fee, &entry.Tx) {
			return
		}
	}
}

func (pool *TxPool) TxHashes() [][]byte {
	pool.locker.RLock()
	defer pool.locker.RUnlock()

	hashes := make([][]byte, 0, len(pool.txs))
	for hash := range pool.txs {
		h := hash
		hashes = append(hashes, h[:])
	}
	return hashes
}

// MerkleRoot 池内交易哈希的默克尔根，作为池内容的摘要。
// 池为空时返回 nil。
func (pool *TxPool) MerkleRoot() []byte {
	hashes := pool.TxHashes()
	if len(hashes) == 0 {
		return nil
	}
	return merkle.New().BuildWithHashes(hashes)
}

// MerkleProof 生成交易存在于当前池快照中的证明。
// 证明与返回的根配对，用 merkle.VerifyMerkleProof 校验。
func (pool *TxPool) MerkleProof(txHash [32]byte) (root []byte, proof [][]byte, err error) {
	hashes := pool.TxHashes()
	if len(hashes) == 0 {
		return nil, nil, errors.New("tx pool is empty")
	}
	tree := merkle.New()
	root = tree.BuildWithHashes(hashes)
	proof, err = tree.GenerateMerkleProof(txHash[:])
	if err != nil {
		return nil, nil, err
	}
	return root, proof, nil
}
