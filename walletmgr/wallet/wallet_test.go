package wallet

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWallet(t *testing.T) {
	w := New()

	// 未压缩公钥为 65 字节，公钥指纹为 20 字节
	require.Equal(t, 65, len(w.PubKey()))
	require.Equal(t, 20, len(w.PubKeyHash160()))
	require.NotEmpty(t, w.GetAddress())

	t.Log(hex.EncodeToString(w.PubKey()))
	t.Log(string(w.GetAddress()))
}
