package walletmgr

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWalletManager(t *testing.T) {
	defer os.Remove(walletFilename)

	mgr := New()
	w, err := mgr.CreateWallet()
	require.NoError(t, err)

	address := string(w.GetAddress())
	require.Equal(t, true, mgr.Has(address))

	got, err := mgr.GetWallet(address)
	require.NoError(t, err)
	require.Equal(t, w.PubKeyHash160(), got.PubKeyHash160())

	for _, w := range mgr.Wallets {
		t.Logf("addr:%s pubKeyHash160:%x\n", w.GetAddress(), w.PubKeyHash160())
	}

	require.NoError(t, mgr.RemoveWallet(address))
	require.Equal(t, false, mgr.Has(address))
}
