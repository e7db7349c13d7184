package dao

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
	log "github.com/treeforest/logger"
)

const (
	dbName = "CHAINSTATE" // 数据库名
)

// utxoPrefix 未花费输出的键前缀。键 = 前缀 + 交易哈希 + 大端输出索引，
// 二进制拼接，不存在分隔符歧义。
var utxoPrefix = []byte("utxo-")

func IsNotExistDB(path string) bool {
	_, err := os.Stat(filepath.Join(path, dbName))
	return os.IsNotExist(err)
}

// DAO 链状态存储对象，持久化未花费输出集合
type DAO struct {
	*leveldb.DB
}

func New(dbPath string) *DAO {
	log.Debug("db path:", filepath.Join(dbPath, dbName))
	levelDB, err := leveldb.OpenFile(filepath.Join(dbPath, dbName), &opt.Options{})
	if err != nil {
		log.Fatalf("open leveldb [%s] error [%v]", dbName, err)
	}
	return &DAO{DB: levelDB}
}

func (o *DAO) Close() error {
	return o.DB.Close()
}

func utxoKey(txId [32]byte, index uint32) []byte {
	key := make([]byte, 0, len(utxoPrefix)+len(txId)+4)
	key = append(key, utxoPrefix...)
	key = append(key, txId[:]...)
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], index)
	return append(key, idx[:]...)
}

// PutUTXO 写入一个未花费输出，data 为序列化后的交易输出
func (o *DAO) PutUTXO(txId [32]byte, index uint32, data []byte) error {
	wo := &opt.WriteOptions{Sync: true}
	if err := o.DB.Put(utxoKey(txId, index), data, wo); err != nil {
		return fmt.Errorf("put utxo failed: %v", err)
	}
	return nil
}

// DeleteUTXO 删除一个已被花费的输出
func (o *DAO) DeleteUTXO(txId [32]byte, index uint32) error {
	wo := &opt.WriteOptions{Sync: true}
	if err := o.DB.Delete(utxoKey(txId, index), wo); err != nil {
		return fmt.Errorf("delete utxo failed: %v", err)
	}
	return nil
}

// TraverseUTXO 遍历存储的全部未花费输出
func (o *DAO) TraverseUTXO(fn func(txId [32]byte, index uint32, data []byte) error) error {
	iter := o.DB.NewIterator(util.BytesPrefix(utxoPrefix), nil)
	defer iter.Release()

	for iter.Next() {
		key := iter.Key()
		if len(key) != len(utxoPrefix)+36 {
			log.Warnf("skip invalid utxo key: %x", key)
			continue
		}
		var txId [32]byte
		copy(txId[:], key[len(utxoPrefix):len(utxoPrefix)+32])
		index := binary.BigEndian.Uint32(key[len(utxoPrefix)+32:])

		data := make([]byte, len(iter.Value()))
		copy(data, iter.Value())

		if err := fn(txId, index, data); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("traverse utxo failed: %v", err)
	}
	return nil
}
