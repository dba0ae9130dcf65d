package skydns

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.etcd.io/etcd/api/v3/mvccpb"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/skillcoder/kuberoute/internal/logic/reconciler"
)

// fakeKV is an in-memory stand-in for the etcd KV client, covering the
// Put/Get-with-prefix/Delete subset the provider uses.
type fakeKV struct {
	store map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{store: map[string]string{}}
}

func (f *fakeKV) Put(
	_ context.Context, key, val string, _ ...clientv3.OpOption,
) (*clientv3.PutResponse, error) {
	f.store[key] = val

	return &clientv3.PutResponse{}, nil
}

func (f *fakeKV) Get(
	_ context.Context, key string, _ ...clientv3.OpOption,
) (*clientv3.GetResponse, error) {
	keys := make([]string, 0, len(f.store))
	for k := range f.store {
		if strings.HasPrefix(k, key) {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	resp := &clientv3.GetResponse{}
	for _, k := range keys {
		resp.Kvs = append(resp.Kvs, &mvccpb.KeyValue{
			Key:   []byte(k),
			Value: []byte(f.store[k]),
		})
	}

	return resp, nil
}

func (f *fakeKV) Delete(
	_ context.Context, key string, _ ...clientv3.OpOption,
) (*clientv3.DeleteResponse, error) {
	delete(f.store, key)

	return &clientv3.DeleteResponse{}, nil
}

func (f *fakeKV) Compact(
	_ context.Context, _ int64, _ ...clientv3.CompactOption,
) (*clientv3.CompactResponse, error) {
	return &clientv3.CompactResponse{}, nil
}

func (f *fakeKV) Do(_ context.Context, _ clientv3.Op) (clientv3.OpResponse, error) {
	return clientv3.OpResponse{}, nil
}

func (f *fakeKV) Txn(_ context.Context) clientv3.Txn {
	return nil
}

func TestRecordKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fqdn string
		want string
	}{
		{fqdn: "app.example.com", want: "/skydns/com/example/app"},
		{fqdn: "app.example.com.", want: "/skydns/com/example/app"},
		{fqdn: "failover-app.sub.example.org", want: "/skydns/org/example/sub/failover-app"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, recordKey(tt.fqdn))
	}
}

func TestUpdateRecordCommand_WritesEntries(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	p := &provider{logger: slog.Default(), kv: kv}

	err := p.UpdateRecordCommand(
		t.Context(), "app.example.com", []string{"10.0.0.1", "10.0.0.2"}, 60, reconciler.RecordTypeA,
	)
	require.NoError(t, err)
	require.Len(t, kv.store, 2)

	var first entry
	require.NoError(t, json.Unmarshal([]byte(kv.store["/skydns/com/example/app/a1"]), &first))
	require.Equal(t, entry{Host: "10.0.0.1", TTL: 60}, first)

	var second entry
	require.NoError(t, json.Unmarshal([]byte(kv.store["/skydns/com/example/app/a2"]), &second))
	require.Equal(t, entry{Host: "10.0.0.2", TTL: 60}, second)
}

func TestUpdateRecordCommand_RemovesStaleSiblings(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	p := &provider{logger: slog.Default(), kv: kv}

	err := p.UpdateRecordCommand(
		t.Context(), "app.example.com", []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}, 60, reconciler.RecordTypeA,
	)
	require.NoError(t, err)
	require.Len(t, kv.store, 3)

	// Shrinking the value set must drop the leftover a3 entry.
	err = p.UpdateRecordCommand(
		t.Context(), "app.example.com", []string{"10.0.0.1"}, 60, reconciler.RecordTypeA,
	)
	require.NoError(t, err)
	require.Len(t, kv.store, 1)
	require.Contains(t, kv.store, "/skydns/com/example/app/a1")
}

func TestUpdateRecordCommand_PreservesDottedExtensionRecords(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	p := &provider{logger: slog.Default(), kv: kv}

	// x.app.example.com lives under the app.example.com key prefix. Names
	// with dots are representable (label values allow them), so updating
	// the shorter name must not sweep the longer one away.
	err := p.UpdateRecordCommand(
		t.Context(), "x.app.example.com", []string{"10.0.0.9"}, 60, reconciler.RecordTypeA,
	)
	require.NoError(t, err)

	err = p.UpdateRecordCommand(
		t.Context(), "app.example.com", []string{"10.0.0.1"}, 60, reconciler.RecordTypeA,
	)
	require.NoError(t, err)

	require.Contains(t, kv.store, "/skydns/com/example/app/x/a1")
	require.Contains(t, kv.store, "/skydns/com/example/app/a1")
	require.Len(t, kv.store, 2)
}
