package test_utils

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type assertion struct {
	head                  *assertion
	id                    string
	description           string
	assertion             func()
	shouldAssert          bool
	next                  *assertion
	numRuns               int
	runMultipleInParallel bool
}

// Assertable chains cases and operations that Do runs in order.
type Assertable interface {
	Concurrently(id string, desc string, actions ...func()) Assertable
	ThenWithDescription(id string, description string, assertion func()) Assertable
	Then(id string, assertion func()) Assertable
	Cases(cases ...*assertion) Assertable
	WithMultipleRuns(numRuns int, parallel bool) Assertable
	Do(t *testing.T)
}

func New(id string, assertionCase func()) *assertion {
	return NewWithDescription(id, "", assertionCase)
}

func NewWithDescription(id string, description string, assertionCase func()) *assertion {
	a := &assertion{
		id:           id,
		description:  description,
		assertion:    assertionCase,
		shouldAssert: true,
	}
	a.head = a
	return a
}

// NewGroup starts a chain with a header node that only indents the output.
func NewGroup(id string, description string) Assertable {
	a := &assertion{
		id:          id,
		description: description,
	}
	a.head = a
	return a
}

func (a *assertion) WithMultipleRuns(numRuns int, parallel bool) Assertable {
	if numRuns < 1 {
		numRuns = 1
	}
	a.numRuns = numRuns
	a.runMultipleInParallel = parallel
	return a
}

// Concurrently runs actions in parallel goroutines as a single operation step.
// Panics from any action are re-raised once all of them finish.
func (a *assertion) Concurrently(id string, desc string, actions ...func()) Assertable {
	actionFunc := func() {
		var wg sync.WaitGroup
		panics := make([]interface{}, len(actions))
		for i, act := range actions {
			wg.Add(1)
			go func(action func(), i int) {
				defer wg.Done()
				defer func() {
					panics[i] = recover()
				}()
				action()
			}(act, i)
		}
		wg.Wait()
		for _, p := range panics {
			if p != nil {
				panic(p)
			}
		}
	}
	return a.link(&assertion{
		id:          id,
		description: desc,
		assertion:   actionFunc,
	})
}

func (a *assertion) Then(id string, assertionCase func()) Assertable {
	return a.ThenWithDescription(id, "", assertionCase)
}

func (a *assertion) ThenWithDescription(id string, description string, assertionCase func()) Assertable {
	return a.link(&assertion{
		id:           id,
		description:  description,
		assertion:    assertionCase,
		shouldAssert: true,
	})
}

func (a *assertion) Cases(cases ...*assertion) Assertable {
	curr := a
	for _, c := range cases {
		if c != nil {
			curr = curr.link(c)
		}
	}
	return curr
}

func (a *assertion) link(next *assertion) *assertion {
	next.head = a.head
	a.next = next
	return next
}

func (a *assertion) Do(t *testing.T) {
	t.Helper()
	startTime := time.Now()
	indent := 0
	for curr := a.head; curr != nil; curr = curr.next {
		kind := "operation"
		if curr.shouldAssert {
			kind = "case"
		}
		t.Logf("%sRunning %s %s%s", indents(indent), kind, curr.id, describe(curr))
		switch {
		case curr.assertion == nil:
			indent += 2
		case curr.shouldAssert:
			runCase(t, indent, curr)
		default:
			curr.assertion()
		}
	}
	t.Log("All test finished, overall runtime: ", time.Since(startTime))
}

func runCase(t *testing.T, indent int, node *assertion) {
	t.Helper()
	if node.numRuns <= 1 {
		assertCase(t, indent, node)
		return
	}
	var (
		wg        sync.WaitGroup
		succeeded int32
	)
	mode := "in series"
	if node.runMultipleInParallel {
		mode = "in parallel"
	}
	t.Logf("%sRun case [%s] %s %d times", indents(indent), node.id, mode, node.numRuns)
	for i := 0; i < node.numRuns; i++ {
		if !node.runMultipleInParallel {
			if assertCase(t, indent+4, node) {
				succeeded++
			}
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if assertCase(t, indent+4, node) {
				atomic.AddInt32(&succeeded, 1)
			}
		}()
	}
	wg.Wait()
	t.Logf("%sMultiple case success rate: %d/%d", indents(indent), atomic.LoadInt32(&succeeded), node.numRuns)
}

func assertCase(t *testing.T, indent int, node *assertion) (passed bool) {
	passed = true
	defer func() {
		recovered := recover()
		if recovered == nil {
			t.Logf("%s✅ %s passed", indents(indent), node.id)
			return
		}
		passed = false
		message := fmt.Sprintf("panic recovered: %v\n%s", recovered, debug.Stack())
		if isAssertionFailurePanic(recovered) {
			message = recovered.(string)
		}
		t.Errorf("%s❌ %s failed: %s", indents(indent), node.id, message)
	}()
	node.assertion()
	return
}

func indents(level int) string {
	return strings.Repeat(" ", level)
}

func describe(a *assertion) string {
	if a.description == "" {
		return ""
	}
	return "[" + a.description + "]"
}
