package store

import (
	"context"
	"strings"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v3"

	"github.com/dlshle/lrucache/errors"
	"github.com/dlshle/lrucache/logging"
	"github.com/dlshle/lrucache/utils"
)

const gcInterval = 10 * time.Minute

// BadgerStore is a KVStore persisted in an embedded badger database.
type BadgerStore[K comparable, V any] struct {
	db        *badger.DB
	codec     Codec[K, V]
	logger    logging.Logger
	stopGC    chan struct{}
	closeOnce sync.Once
}

// NewBadgerStore opens (or creates) an on-disk store under dir.
func NewBadgerStore[K comparable, V any](dir string, codec Codec[K, V], logger logging.Logger) (*BadgerStore[K, V], error) {
	return OpenBadgerStore(badger.DefaultOptions(dir), codec, logger)
}

// NewInMemoryBadgerStore keeps everything in memory; handy for tests and demos.
func NewInMemoryBadgerStore[K comparable, V any](codec Codec[K, V], logger logging.Logger) (*BadgerStore[K, V], error) {
	return OpenBadgerStore(badger.DefaultOptions("").WithInMemory(true), codec, logger)
}

// OpenBadgerStore opens a store with caller provided options. Badger's own
// logging is routed to logger.
func OpenBadgerStore[K comparable, V any](opts badger.Options, codec Codec[K, V], logger logging.Logger) (*BadgerStore[K, V], error) {
	if logger == nil {
		logger = logging.Discard()
	}
	db, err := badger.Open(opts.WithLogger(badgerLogger{logger}))
	if err != nil {
		return nil, errors.WrapWithStackTrace(err)
	}
	s := &BadgerStore[K, V]{
		db:     db,
		codec:  codec,
		logger: logger,
		stopGC: make(chan struct{}),
	}
	// value log gc is not supported in memory
	if !opts.InMemory {
		s.doGC()
		go s.garbageCollectionRoutine()
	}
	return s, nil
}

func (s *BadgerStore[K, V]) garbageCollectionRoutine() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopGC:
			return
		case <-ticker.C:
			s.doGC()
		}
	}
}

func (s *BadgerStore[K, V]) doGC() {
	// gc rewrites at most one file per call
	for {
		if err := s.db.RunValueLogGC(0.7); err != nil {
			if err != badger.ErrNoRewrite {
				s.logger.Warnf(context.Background(), "value log gc: %s", err.Error())
			}
			return
		}
	}
}

func (s *BadgerStore[K, V]) Get(key K) (res V, err error) {
	err = s.db.View(func(tx *badger.Txn) error {
		res, err = s.GetWithTxn(tx, key)
		return err
	})
	return
}

func (s *BadgerStore[K, V]) GetWithTxn(tx *badger.Txn, key K) (value V, err error) {
	var (
		rawKey []byte
		item   *badger.Item
	)
	err = utils.ProcessWithErrors(func() error {
		rawKey, err = s.codec.EncodeKey(key)
		return err
	}, func() error {
		item, err = tx.Get(rawKey)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		return err
	}, func() error {
		return item.Value(func(val []byte) error {
			value, err = s.codec.DecodeValue(val)
			return err
		})
	})
	return
}

func (s *BadgerStore[K, V]) Has(key K) (bool, error) {
	_, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *BadgerStore[K, V]) Put(key K, value V) error {
	return s.db.Update(func(tx *badger.Txn) error {
		return s.PutWithTxn(tx, key, value)
	})
}

func (s *BadgerStore[K, V]) PutWithTxn(tx *badger.Txn, key K, value V) error {
	rawKey, rawValue, err := s.encodeKV(key, value)
	if err != nil {
		return err
	}
	return tx.Set(rawKey, rawValue)
}

// BulkPut writes all records in one transaction.
func (s *BadgerStore[K, V]) BulkPut(bulk map[K]V) error {
	return s.db.Update(func(tx *badger.Txn) error {
		for key, value := range bulk {
			if err := s.PutWithTxn(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BadgerStore[K, V]) Delete(key K) error {
	return s.db.Update(func(tx *badger.Txn) error {
		return s.DeleteWithTxn(tx, key)
	})
}

func (s *BadgerStore[K, V]) DeleteWithTxn(tx *badger.Txn, key K) error {
	rawKey, err := s.codec.EncodeKey(key)
	if err != nil {
		return err
	}
	return tx.Delete(rawKey)
}

// Iterate visits records in key byte order until itr returns an error.
func (s *BadgerStore[K, V]) Iterate(itr func(key K, value V) error) error {
	return s.db.View(func(tx *badger.Txn) error {
		it := tx.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var (
				key   K
				value V
			)
			err := item.Value(func(val []byte) (err error) {
				key, value, err = s.decodeKV(item.Key(), val)
				return err
			})
			if err != nil {
				return err
			}
			if err = itr(key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Drop deletes every record.
func (s *BadgerStore[K, V]) Drop() error {
	return s.db.DropAll()
}

func (s *BadgerStore[K, V]) Close() (err error) {
	s.closeOnce.Do(func() {
		close(s.stopGC)
		err = s.db.Close()
	})
	return
}

func (s *BadgerStore[K, V]) encodeKV(key K, value V) (k, v []byte, err error) {
	err = utils.ProcessWithErrors(func() error {
		k, err = s.codec.EncodeKey(key)
		return err
	}, func() error {
		v, err = s.codec.EncodeValue(value)
		return err
	})
	return
}

func (s *BadgerStore[K, V]) decodeKV(rawKey []byte, rawValue []byte) (key K, value V, err error) {
	err = utils.ProcessWithErrors(func() error {
		key, err = s.codec.DecodeKey(rawKey)
		return err
	}, func() error {
		value, err = s.codec.DecodeValue(rawValue)
		return err
	})
	return
}

// badgerLogger adapts a logging.Logger to badger.Logger.
type badgerLogger struct {
	logger logging.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(context.Background(), strings.TrimSuffix(format, "\n"), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf(context.Background(), strings.TrimSuffix(format, "\n"), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Infof(context.Background(), strings.TrimSuffix(format, "\n"), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(context.Background(), strings.TrimSuffix(format, "\n"), args...)
}
