package wallet

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"

	"github.com/treeforest/easybtc/base58check"
	"golang.org/x/crypto/ripemd160"
)

// Wallet 钱包。持有 P256 私钥与 65 字节的未压缩公钥。
type Wallet struct {
	Key ecdsa.PrivateKey // 私钥
	Pub []byte           // 未压缩公钥
}

func New() *Wallet {
	curve := elliptic.P256()
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		panic(err)
	}
	pub := elliptic.Marshal(curve, key.PublicKey.X, key.PublicKey.Y)
	return &Wallet{Key: *key, Pub: pub}
}

// GetAddress 钱包的付款地址
func (w *Wallet) GetAddress() []byte {
	return []byte(base58check.PubKeyToAddress(w.Pub))
}

// Sign 对数据的 sha256 摘要做 ECDSA 签名
func (w *Wallet) Sign(data []byte) ([]byte, error) {
	hash := sha256.Sum256(data)
	return ecdsa.SignASN1(rand.Reader, &w.Key, hash[:])
}

// PubKeyHash160 公钥指纹 ripemd160(sha256(pub))
func (w *Wallet) PubKeyHash160() []byte {
	hash := sha256.Sum256(w.Pub)
	r := ripemd160.New()
	r.Write(hash[:])
	return r.Sum(nil)
}

// PubKey 公钥的拷贝
func (w *Wallet) PubKey() []byte {
	pub := make([]byte, len(w.Pub))
	copy(pub, w.Pub)
	return pub
}
