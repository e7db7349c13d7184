package script

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/treeforest/easybtc/base58check"
	"github.com/treeforest/easybtc/walletmgr/wallet"
)

func TestGenerateScriptPubKey(t *testing.T) {
	w := wallet.New()

	scriptPubKey, err := GenerateScriptPubKey(w.GetAddress())
	require.NoError(t, err)
	require.Equal(t, true, IsPayToPubKeyHash(scriptPubKey))

	// 锁定脚本自身可以被解析，且提取出的地址就是钱包地址
	engine, err := Parse(nil, scriptPubKey)
	require.NoError(t, err)
	require.Equal(t, string(w.GetAddress()), engine.ExtractAddress())
}

func TestGenerateScriptPubKeyLeadingZeroHash160(t *testing.T) {
	// 指纹以零字节开头的地址同样能生成锁定脚本
	hash160 := append([]byte{0x00}, bytes.Repeat([]byte{0xAB}, 19)...)
	address := base58check.Hash160ToAddress(hash160)

	scriptPubKey, err := GenerateScriptPubKey([]byte(address))
	require.NoError(t, err)
	require.Equal(t, true, IsPayToPubKeyHash(scriptPubKey))

	engine, err := Parse(nil, scriptPubKey)
	require.NoError(t, err)
	require.Equal(t, address, engine.ExtractAddress())
}

func TestGenerateScriptPubKeyBadAddress(t *testing.T) {
	_, err := GenerateScriptPubKey([]byte("1BoatSLRHtKNngkdXEeobR76b53LETtpy1"))
	require.Error(t, err)
}

func TestGenerateScriptSig(t *testing.T) {
	w := wallet.New()
	sig := make([]byte, 70)

	scriptSig, err := GenerateScriptSig(sig, w.PubKey())
	require.NoError(t, err)
	require.Equal(t, true, IsPushOnly(scriptSig))

	// 签名长度越界
	_, err = GenerateScriptSig(make([]byte, 76), w.PubKey())
	require.Error(t, err)

	// 公钥长度错误
	_, err = GenerateScriptSig(sig, w.PubKey()[:64])
	require.Error(t, err)
}

func TestIsPayToPubKeyHash(t *testing.T) {
	require.Equal(t, false, IsPayToPubKeyHash(nil))
	require.Equal(t, false, IsPayToPubKeyHash([]byte{byte(DUP), byte(HASH160)}))
}

func TestIsPushOnly(t *testing.T) {
	require.Equal(t, true, IsPushOnly(nil))
	require.Equal(t, true, IsPushOnly([]byte{0x02, 0xaa, 0xbb}))
	require.Equal(t, false, IsPushOnly([]byte{byte(DUP)}))
	require.Equal(t, false, IsPushOnly([]byte{0x05, 0x01})) // 截断
}
