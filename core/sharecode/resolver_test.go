package sharecode

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logsvc "github.com/udriss/correction/services/logger"
)

// issuerMock records every call and issues codes "C<id>".
type issuerMock struct {
	mu        sync.Mutex
	codes     map[int]string
	creates   [][]int
	fetches   [][]int
	createErr error
	fetchErr  error
	block     bool // Fetch waits for ctx cancellation
}

func newIssuerMock(existing map[int]string) *issuerMock {
	codes := make(map[int]string)
	for k, v := range existing {
		codes[k] = v
	}
	return &issuerMock{codes: codes}
}

func (m *issuerMock) CreateIfMissing(_ context.Context, ids []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates = append(m.creates, append([]int(nil), ids...))
	if m.createErr != nil {
		return m.createErr
	}
	for _, id := range ids {
		if _, ok := m.codes[id]; !ok {
			m.codes[id] = "C" + strconv.Itoa(id)
		}
	}
	return nil
}

func (m *issuerMock) Fetch(ctx context.Context, ids []int) (map[int]string, error) {
	m.mu.Lock()
	m.fetches = append(m.fetches, append([]int(nil), ids...))
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int]string)
	for _, id := range ids {
		if code, ok := m.codes[id]; ok {
			out[id] = code
		}
	}
	return out, nil
}

func (m *issuerMock) calls() int { return len(m.creates) + len(m.fetches) }

func refs(ids ...int) []Ref {
	out := make([]Ref, 0, len(ids))
	for _, id := range ids {
		out = append(out, Ref{ID: id})
	}
	return out
}

func TestResolver_Resolve(t *testing.T) {
	errDown := errors.New("issuer down")

	tests := []struct {
		name          string
		existing      map[int]string
		refs          []Ref
		createErr     error
		fetchErr      error
		wantCodes     map[int]string
		wantOutcome   Outcome
		wantFallbacks []int
		wantCreates   int
	}{
		{
			name:        "creates missing then fetches all",
			existing:    map[int]string{2: "OLD2"},
			refs:        refs(1, 2, 3),
			wantCodes:   map[int]string{1: "C1", 2: "OLD2", 3: "C3"},
			wantOutcome: Success,
			wantCreates: 1,
		},
		{
			name:        "pre-attached codes skip creation",
			refs:        []Ref{{ID: 1, Code: "MINE"}, {ID: 2, Code: " ALSO "}},
			wantCodes:   map[int]string{1: "MINE", 2: "ALSO"},
			wantOutcome: Success,
			wantCreates: 0,
		},
		{
			name:        "stored codes win over pre-attached ones",
			existing:    map[int]string{1: "REAL1"},
			refs:        []Ref{{ID: 1, Code: "STALE"}},
			wantCodes:   map[int]string{1: "REAL1"},
			wantOutcome: Success,
			wantCreates: 0,
		},
		{
			name:        "pre-attached fallback codes are created",
			refs:        []Ref{{ID: 1, Code: "TEMP-1"}, {ID: 2, Code: "MINE"}},
			wantCodes:   map[int]string{1: "C1", 2: "MINE"},
			wantOutcome: Success,
			wantCreates: 1,
		},
		{
			name:          "pre-attached fallback codes stay unresolved",
			refs:          []Ref{{ID: 1, Code: "TEMP-1"}},
			createErr:     errDown,
			wantCodes:     map[int]string{1: "TEMP-1"},
			wantOutcome:   Failure,
			wantFallbacks: []int{1},
			wantCreates:   1,
		},
		{
			name:          "create failure still resolves existing codes",
			existing:      map[int]string{2: "OLD2"},
			refs:          refs(1, 2),
			createErr:     errDown,
			wantCodes:     map[int]string{1: "TEMP-1", 2: "OLD2"},
			wantOutcome:   Partial,
			wantFallbacks: []int{1},
			wantCreates:   1,
		},
		{
			name:          "fetch failure falls back for everything",
			refs:          refs(4, 5),
			fetchErr:      errDown,
			wantCodes:     map[int]string{4: "TEMP-4", 5: "TEMP-5"},
			wantOutcome:   Failure,
			wantFallbacks: []int{4, 5},
			wantCreates:   1,
		},
		{
			name:        "duplicate ids are resolved once",
			refs:        refs(7, 7, 8),
			wantCodes:   map[int]string{7: "C7", 8: "C8"},
			wantOutcome: Success,
			wantCreates: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := newIssuerMock(tt.existing)
			issuer.createErr = tt.createErr
			issuer.fetchErr = tt.fetchErr
			resolver := NewResolver(issuer, logsvc.NewNopLogger(), time.Second)

			res := resolver.Resolve(context.Background(), tt.refs)

			assert.Equal(t, tt.wantCodes, res.Codes)
			assert.Equal(t, tt.wantOutcome, res.Outcome)
			sort.Ints(res.Fallbacks)
			assert.Equal(t, tt.wantFallbacks, res.Fallbacks)
			assert.Len(t, issuer.creates, tt.wantCreates)
			assert.Len(t, issuer.fetches, 1)
			assert.LessOrEqual(t, issuer.calls(), 2)
			assert.Equal(t, issuer.calls(), res.Calls)
			if tt.createErr != nil || tt.fetchErr != nil {
				assert.Error(t, res.Err())
			} else {
				assert.NoError(t, res.Err())
			}
		})
	}
}

func TestResolver_batchingBound(t *testing.T) {
	for _, n := range []int{1, 2, 10, 500} {
		issuer := newIssuerMock(nil)
		resolver := NewResolver(issuer, logsvc.NewNopLogger(), 0)

		ids := make([]int, n)
		for i := range ids {
			ids[i] = i + 1
		}
		res := resolver.Resolve(context.Background(), refs(ids...))

		assert.LessOrEqual(t, issuer.calls(), 2, "n=%d", n)
		assert.Len(t, res.Codes, n)
		assert.Empty(t, res.Fallbacks)
	}
}

func TestResolver_idempotent(t *testing.T) {
	issuer := newIssuerMock(nil)
	resolver := NewResolver(issuer, logsvc.NewNopLogger(), 0)
	ids := []int{1, 2, 3}

	first := resolver.Resolve(context.Background(), refs(ids...))
	require.Equal(t, Success, first.Outcome)
	require.Len(t, issuer.creates, 1)

	second := resolver.Resolve(context.Background(), Refs(ids, first.Codes))
	assert.Equal(t, first.Codes, second.Codes)
	assert.Len(t, issuer.creates, 1, "no create call on the second pass")
	assert.Zero(t, second.Created)
}

func TestResolver_recovers(t *testing.T) {
	issuer := newIssuerMock(nil)
	issuer.createErr = errors.New("issuer down")
	resolver := NewResolver(issuer, logsvc.NewNopLogger(), 0)
	ids := []int{1}

	first := resolver.Resolve(context.Background(), refs(ids...))
	require.Equal(t, Failure, first.Outcome)
	require.Equal(t, "TEMP-1", first.Code(1))

	issuer.createErr = nil
	second := resolver.Resolve(context.Background(), Refs(ids, first.Codes))
	assert.Equal(t, Success, second.Outcome)
	assert.Equal(t, "C1", second.Code(1))
	assert.Empty(t, second.Fallbacks)
	assert.Len(t, issuer.creates, 2)

	// the split step alone also retries fallbacks
	issuer = newIssuerMock(nil)
	third := NewResolver(issuer, logsvc.NewNopLogger(), 0).Resolve(context.Background(), []Ref{{ID: 1, Code: Fallback(1)}})
	assert.Equal(t, "C1", third.Code(1))
	assert.Equal(t, [][]int{{1}}, issuer.creates)
}

func TestRefs(t *testing.T) {
	got := Refs([]int{1, 2, 3}, map[int]string{1: "C1", 2: Fallback(2)})
	assert.Equal(t, []Ref{{ID: 1, Code: "C1"}, {ID: 2}, {ID: 3}}, got)
}

func TestResolver_timeout(t *testing.T) {
	issuer := newIssuerMock(nil)
	issuer.block = true
	resolver := NewResolver(issuer, logsvc.NewNopLogger(), 20*time.Millisecond)

	res := resolver.Resolve(context.Background(), refs(1))
	assert.Equal(t, Failure, res.Outcome)
	assert.Equal(t, "TEMP-1", res.Code(1))
	require.Len(t, res.Errors, 1)
	assert.True(t, errors.Is(res.Errors[0], context.DeadlineExceeded))
}

func TestResolver_empty(t *testing.T) {
	issuer := newIssuerMock(nil)
	res := NewResolver(issuer, logsvc.NewNopLogger(), 0).Resolve(context.Background(), nil)
	assert.Equal(t, Success, res.Outcome)
	assert.Zero(t, issuer.calls())
}

func TestFallback(t *testing.T) {
	assert.Equal(t, "TEMP-42", Fallback(42))
	assert.True(t, IsFallback(Fallback(42)))
	assert.False(t, IsFallback(NewCode()))
	assert.Len(t, NewCode(), 12)
}
