package base58check

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"github.com/treeforest/easybtc/base58"
	"golang.org/x/crypto/ripemd160"
)

const (
	version = byte(0x00)
)

func Encode(hash160 []byte) (base58checkEncoded []byte) {
	encoded := make([]byte, len(hash160)+1)
	encoded[0] = version
	copy(encoded[1:], hash160)

	// 执行两次 SHA-256
	hash := sha256.Sum256(encoded)
	hash2 := sha256.Sum256(hash[:])

	checksum := hash2[0:4]
	encodedChecksum := append(encoded, checksum...)
	base58EncodedChecksum := base58.Encode(encodedChecksum)

	// 由于base58会将0删除，比特币要求在0的位置补上1，即比特币地址由1开始的原因
	var buffer bytes.Buffer
	for _, v := range encodedChecksum {
		if v != byte(0x00) {
			break
		}
		buffer.WriteByte('1')
	}
	buffer.Write(base58EncodedChecksum)

	return buffer.Bytes()
}

func Decode(b []byte) (hash160 []byte, err error) {
	if len(b) < 2 {
		return nil, fmt.Errorf("invalid address length: %d", len(b))
	}
	decoded, err := base58.Decode(b[1:])
	if err != nil {
		return nil, err
	}

	// base58 解码丢掉了前导零字节，按版本字符之后的 '1' 个数补回，
	// 否则 hash160 以零字节开头的地址会解出缺字节的指纹
	zeros := 0
	for _, v := range b[1:] {
		if v != '1' {
			break
		}
		zeros++
	}
	payload := make([]byte, zeros+len(decoded))
	copy(payload[zeros:], decoded)
	if len(payload) < 5 {
		return nil, fmt.Errorf("invalid address")
	}

	hash160 = payload[:len(payload)-4]
	checksum := payload[len(payload)-4:]

	encoded := make([]byte, 0, len(hash160)+1)
	encoded = append(encoded, version)
	encoded = append(encoded, hash160...)

	// 执行两次 SHA-256,验证校验码是否正确
	hash := sha256.Sum256(encoded)
	hash2 := sha256.Sum256(hash[:])

	if !bytes.Equal(hash2[:4], checksum) {
		return nil, fmt.Errorf("checksum error")
	}

	return hash160, nil
}

// Hash160ToAddress 将 20 字节的公钥指纹转换成付款地址
func Hash160ToAddress(hash160 []byte) string {
	return string(Encode(hash160))
}

// PubKeyToAddress 将未压缩公钥转换成付款地址
func PubKeyToAddress(pub []byte) string {
	hash := sha256.Sum256(pub)
	r := ripemd160.New()
	r.Write(hash[:])
	return string(Encode(r.Sum(nil)))
}
