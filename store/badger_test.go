package store

import (
	"testing"

	"github.com/dlshle/lrucache/errors"
	"github.com/dlshle/lrucache/test_utils"
)

type TestEntity struct {
	K string `json:"k"`
	T string `json:"t"`
	V string `json:"v"`
}

func TestBadgerStore(t *testing.T) {
	var (
		db       *BadgerStore[string, TestEntity]
		data     TestEntity
		existing TestEntity
		err      error
	)
	dir := t.TempDir()
	test_utils.NewGroup("badger", "test badger store basic functionalities").Cases(test_utils.New("creation", func() {
		db, err = NewBadgerStore[string, TestEntity](dir, JSONCodec[TestEntity]{}, nil)
		test_utils.AssertNil(err)
	}), test_utils.New("test crud", func() {
		existing = TestEntity{K: "test", T: "something", V: "hello"}
		test_utils.AssertNil(db.Put("test", existing))
		data, err = db.Get("test")
		test_utils.AssertNil(err)
		test_utils.AssertEquals(data, existing)
		data.V = "newV"
		test_utils.AssertNil(db.Put("test", data))
		data, err = db.Get("test")
		test_utils.AssertNil(err)
		test_utils.AssertEquals(data.V, "newV")
		test_utils.AssertNil(db.Delete("test"))
		data, err = db.Get("test")
		test_utils.AssertErrorIs(err, ErrNotFound)
		test_utils.AssertEquals(data, TestEntity{})
		has, err := db.Has("test")
		test_utils.AssertNil(err)
		test_utils.AssertFalse(has)
		test_utils.AssertNil(db.Delete("never-there"))
	}), test_utils.New("data survives reopening", func() {
		existing = TestEntity{V: "a"}
		test_utils.AssertNil(db.Put("test1", existing))
		test_utils.AssertNil(db.Close())
		test_utils.AssertNil(db.Close())

		db, err = NewBadgerStore[string, TestEntity](dir, JSONCodec[TestEntity]{}, nil)
		test_utils.AssertNil(err)
		data, err = db.Get("test1")
		test_utils.AssertNil(err)
		test_utils.AssertEquals(data, existing)
		test_utils.AssertNil(db.Delete("test1"))
	}), test_utils.New("bulk put and iterate", func() {
		test_utils.AssertNil(db.BulkPut(map[string]TestEntity{"a": {V: "a"}, "b": {V: "b"}}))
		var keys []string
		var values []TestEntity
		test_utils.AssertNil(db.Iterate(func(k string, v TestEntity) error {
			keys = append(keys, k)
			values = append(values, v)
			return nil
		}))
		test_utils.AssertSlicesEqual(keys, []string{"a", "b"})
		test_utils.AssertSlicesEqual(values, []TestEntity{{V: "a"}, {V: "b"}})

		stop := errors.New("stop")
		visited := 0
		err = db.Iterate(func(string, TestEntity) error {
			visited++
			return stop
		})
		test_utils.AssertErrorIs(err, stop)
		test_utils.AssertEquals(visited, 1)
	}), test_utils.New("drop and close", func() {
		test_utils.AssertNil(db.Drop())
		has, err := db.Has("a")
		test_utils.AssertNil(err)
		test_utils.AssertFalse(has)
		test_utils.AssertNil(db.Close())
	})).Do(t)
}

func TestInMemoryBadgerStore(t *testing.T) {
	db, err := NewInMemoryBadgerStore[string, string](StringCodec{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	test_utils.AssertNil(db.Put("k", "v"))
	v, err := db.Get("k")
	test_utils.AssertNil(err)
	test_utils.AssertEquals(v, "v")
	_, err = db.Get("missing")
	test_utils.AssertErrorIs(err, ErrNotFound)
}

func TestJSONCodecRejectsGarbage(t *testing.T) {
	_, err := JSONCodec[TestEntity]{}.DecodeValue([]byte("{not json"))
	test_utils.AssertNonNil(err)
}
