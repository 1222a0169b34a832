package queue

import (
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainAllEmpty(t *testing.T) {
	t.Parallel()
	q := New[int64]()

	done := make(chan []int64)
	go func() { done <- q.DrainAll() }()

	select {
	case got := <-done:
		require.NotNil(t, got)
		assert.Empty(t, got)
	case <-time.After(5 * time.Second):
		t.Fatal("DrainAll blocked on an empty queue")
	}
}

func TestDrainAllIsIdempotent(t *testing.T) {
	t.Parallel()
	q := New[int64]()
	for _, v := range []int64{4, 9, 16, 25} {
		q.Push(v)
	}

	assert.Equal(t, []int64{4, 9, 16, 25}, q.DrainAll())
	assert.Empty(t, q.DrainAll(), "second drain must not return any value again")
	assert.Zero(t, q.Len())
}

func TestPushAfterDrain(t *testing.T) {
	t.Parallel()
	q := New[string]()
	q.Push("a")
	require.Equal(t, []string{"a"}, q.DrainAll())

	q.Push("b")
	q.Push("c")
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, []string{"b", "c"}, q.DrainAll())
}

// TestConcurrentProducers pushes from many producers at once. Nothing may be
// lost or duplicated and each producer's values must keep their order.
func TestConcurrentProducers(t *testing.T) {
	t.Parallel()
	const (
		producers   = 50
		perProducer = 500
	)
	q := New[[2]int]()

	var wg sync.WaitGroup
	barrier := make(chan struct{})
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			<-barrier
			for i := 0; i < perProducer; i++ {
				q.Push([2]int{p, i})
			}
		}(p)
	}
	close(barrier)
	wg.Wait()

	got := q.DrainAll()
	require.Len(t, got, producers*perProducer)

	next := make([]int, producers)
	for _, item := range got {
		p, i := item[0], item[1]
		require.Equalf(t, next[p], i, "producer %d out of order", p)
		next[p]++
	}
	for p, n := range next {
		assert.Equalf(t, perProducer, n, "producer %d count", p)
	}
}

// TestPrematureDrain drains while producers are running. Every snapshot is a
// valid prefix-per-producer and the union of all snapshots is complete.
func TestPrematureDrain(t *testing.T) {
	t.Parallel()
	q := New[int]()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			q.Push(i)
		}
	}()

	var all []int
	for i := 0; i < 10; i++ {
		all = append(all, q.DrainAll()...)
	}
	wg.Wait()
	all = append(all, q.DrainAll()...)

	require.Len(t, all, 2000)
	assert.True(t, sort.IntsAreSorted(all), "single producer order must be preserved across drains")
}

type countingObserver struct {
	pushed  atomic.Int64
	drained atomic.Int64
}

func (o *countingObserver) Pushed()       { o.pushed.Add(1) }
func (o *countingObserver) Drained(n int) { o.drained.Add(int64(n)) }

func TestObserver(t *testing.T) {
	t.Parallel()
	obs := &countingObserver{}
	q := New[int](WithObserver(obs))
	for i := 0; i < 7; i++ {
		q.Push(i)
	}
	q.DrainAll()
	q.DrainAll()

	assert.EqualValues(t, 7, obs.pushed.Load())
	assert.EqualValues(t, 7, obs.drained.Load())
}

// TestMultisetEquality_PropertyBased splits random inputs across producers
// and checks the drained multiset equals the pushed multiset.
func TestMultisetEquality_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("drained multiset equals pushed multiset", prop.ForAll(
		func(values []int64, producers int) bool {
			q := New[int64]()
			var wg sync.WaitGroup
			for p := 0; p < producers; p++ {
				wg.Add(1)
				go func(p int) {
					defer wg.Done()
					for i := p; i < len(values); i += producers {
						q.Push(values[i])
					}
				}(p)
			}
			wg.Wait()

			got := q.DrainAll()
			want := slices.Clone(values)
			slices.Sort(got)
			slices.Sort(want)
			return slices.Equal(got, want) && len(q.DrainAll()) == 0
		},
		gen.SliceOf(gen.Int64()),
		gen.IntRange(1, 16),
	))

	properties.TestingRun(t)
}
