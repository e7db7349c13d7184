package gob

import (
	"bytes"
	"crypto/elliptic"
	"encoding/gob"
	"fmt"
	"sync"
)

var registerP256 sync.Once

// EncodeP256 编码携带 P256 椭圆曲线私钥的对象（如钱包）
func EncodeP256(e interface{}) ([]byte, error) {
	registerP256.Do(func() { gob.Register(elliptic.P256()) })
	return Encode(e)
}

// DecodeP256 解码携带 P256 椭圆曲线私钥的对象
func DecodeP256(data []byte, o interface{}) error {
	registerP256.Do(func() { gob.Register(elliptic.P256()) })
	return Decode(data, o)
}

func Encode(e interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, fmt.Errorf("gob encode failed: %v", err)
	}
	return buf.Bytes(), nil
}

func Decode(data []byte, o interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(o); err != nil {
		return fmt.Errorf("gob decode failed: %v", err)
	}
	return nil
}
