package base58

import (
	"fmt"
	"math/big"
)

// alphabet base58 编码基数表，去掉了易混淆的 0OIl
const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// decTable 字符到基数值的反查表，非法字符为 -1
var decTable [256]int8

func init() {
	for i := range decTable {
		decTable[i] = -1
	}
	for i, c := range alphabet {
		decTable[c] = int8(i)
	}
}

// Encode base58 编码。输入的前导零字节会丢失，
// 需要保留时由调用方按位补 '1'。
func Encode(b []byte) []byte {
	x := new(big.Int).SetBytes(b)
	radix := big.NewInt(58)
	mod := new(big.Int)

	dst := make([]byte, 0, len(b)*137/100+1)
	for x.Sign() != 0 {
		x.DivMod(x, radix, mod)
		dst = append(dst, alphabet[mod.Int64()])
	}

	// 除余法得到的是低位在前，翻转
	for i, j := 0, len(dst)-1; i < j; i, j = i+1, j-1 {
		dst[i], dst[j] = dst[j], dst[i]
	}
	return dst
}

// Decode base58 解码。出现基数表之外的字符时返回错误。
func Decode(b []byte) ([]byte, error) {
	x := big.NewInt(0)
	radix := big.NewInt(58)
	for _, c := range b {
		v := decTable[c]
		if v < 0 {
			return nil, fmt.Errorf("invalid base58 character: %q", c)
		}
		x.Mul(x, radix)
		x.Add(x, big.NewInt(int64(v)))
	}
	return x.Bytes(), nil
}
