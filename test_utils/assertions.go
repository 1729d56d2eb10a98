package test_utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

const (
	assertionFailureError = "assertion failure: "
)

func fail(format string, args ...interface{}) {
	panic(assertionFailureError + fmt.Sprintf(format, args...))
}

func isNil(val interface{}) bool {
	if val == nil {
		return true
	}
	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// AssertNil treats typed nil pointers (e.g. a nil *TrackableError) as nil.
func AssertNil(val interface{}) {
	if !isNil(val) {
		fail("value %v isn't nil", val)
	}
}

func AssertNonNil(val interface{}) {
	if isNil(val) {
		fail("value %v is nil", val)
	}
}

func AssertTrue(val bool) {
	if !val {
		fail("value isn't true")
	}
}

func AssertFalse(val bool) {
	if val {
		fail("value isn't false")
	}
}

func AssertEquals[T comparable](l T, r T) {
	if l != r {
		fail("%v and %v are not equal", l, r)
	}
}

func AssertSlicesEqual[T comparable](l []T, r []T) {
	if len(l) != len(r) {
		fail("slices %v and %v differ in length", l, r)
	}
	for i := range l {
		if l[i] != r[i] {
			fail("slices %v and %v differ at %d", l, r, i)
		}
	}
}

// AssertUnorderedSlicesEqual compares l and r as multisets.
func AssertUnorderedSlicesEqual[T comparable](l []T, r []T) {
	if len(l) != len(r) {
		fail("slices %v and %v differ in length", l, r)
	}
	counts := make(map[T]int, len(l))
	for _, v := range l {
		counts[v]++
	}
	for _, v := range r {
		counts[v]--
		if counts[v] < 0 {
			fail("slices %v and %v hold different elements", l, r)
		}
	}
}

func AssertErrorIs(err error, target error) {
	if !errors.Is(err, target) {
		fail("error %v is not %v", err, target)
	}
}

func AssertPanic(cb func()) {
	defer func() {
		if recover() == nil {
			fail("no panic value is recovered")
		}
	}()
	cb()
}

func isAssertionFailurePanic(recovered interface{}) bool {
	if panicString, ok := recovered.(string); ok {
		return strings.HasPrefix(panicString, assertionFailureError)
	}
	return false
}
