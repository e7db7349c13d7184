package blc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/treeforest/easybtc/walletmgr/wallet"
)

func TestUTXOSet(t *testing.T) {
	w1, w2 := wallet.New(), wallet.New()
	set := NewUTXOSet()
	txId := randomTxId(t)

	out1, err := NewTxOutput(30*COIN, string(w1.GetAddress()))
	require.NoError(t, err)
	out2, err := NewTxOutput(20*COIN, string(w1.GetAddress()))
	require.NoError(t, err)
	out3, err := NewTxOutput(10*COIN, string(w2.GetAddress()))
	require.NoError(t, err)

	set.Put(txId, 0, out1)
	set.Put(txId, 1, out2)
	set.Put(txId, 2, out3)

	require.Equal(t, 3, set.Len())
	require.Equal(t, uint64(50*COIN), set.GetBalance(string(w1.GetAddress())))
	require.Equal(t, uint64(10*COIN), set.GetBalance(string(w2.GetAddress())))
	require.Equal(t, uint64(0), set.GetBalance(string(wallet.New().GetAddress())))

	set.Delete(txId, 1)
	require.Equal(t, false, set.Exist(txId, 1))
	require.Equal(t, uint64(30*COIN), set.GetBalance(string(w1.GetAddress())))

	count := 0
	set.Traverse(func(txId [32]byte, index uint32, out *TxOutput) {
		count++
	})
	require.Equal(t, 2, count)
}

func TestUTXOSetApplyTransaction(t *testing.T) {
	owner, payee := wallet.New(), wallet.New()
	tx, utxos := newSpendingTx(t, owner, payee, 50*COIN)

	utxos.ApplyTransaction(tx)

	// 输入引用的输出被消耗，新的输出被登记
	require.Equal(t, false, utxos.Exist(tx.Vins[0].TxId, tx.Vins[0].Vout))
	require.Equal(t, true, utxos.Exist(tx.Hash, 0))
	require.Equal(t, uint64(0), utxos.GetBalance(string(owner.GetAddress())))
	require.Equal(t, uint64(50*COIN), utxos.GetBalance(string(payee.GetAddress())))
}
