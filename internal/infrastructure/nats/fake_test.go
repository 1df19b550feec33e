// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

// fakeEntry is a key-value entry with a value and revision
type fakeEntry struct {
	jetstream.KeyValueEntry
	key      string
	value    []byte
	revision uint64
}

func (e *fakeEntry) Key() string      { return e.key }
func (e *fakeEntry) Value() []byte    { return e.value }
func (e *fakeEntry) Revision() uint64 { return e.revision }

// fakeLister streams a fixed set of keys
type fakeLister struct {
	jetstream.KeyLister
	keys    chan string
	stopped bool
}

func newFakeLister(keys []string) *fakeLister {
	ch := make(chan string, len(keys))
	for _, k := range keys {
		ch <- k
	}
	close(ch)
	return &fakeLister{keys: ch}
}

func (l *fakeLister) Keys() <-chan string { return l.keys }
func (l *fakeLister) Stop() error {
	l.stopped = true
	return nil
}

// fakeKV is an in-memory bucket overriding the calls the storage makes
type fakeKV struct {
	jetstream.KeyValue
	entries   map[string]*fakeEntry
	getErr    error
	listErr   error
	deleteErr error
	deleted   []string
	filters   []string
}

func newFakeKV() *fakeKV {
	return &fakeKV{entries: map[string]*fakeEntry{}}
}

func (kv *fakeKV) put(t *testing.T, key string, value any, revision uint64) {
	t.Helper()
	data := []byte{}
	if value != nil {
		var err error
		data, err = json.Marshal(value)
		require.NoError(t, err)
	}
	kv.entries[key] = &fakeEntry{key: key, value: data, revision: revision}
}

func (kv *fakeKV) Get(_ context.Context, key string) (jetstream.KeyValueEntry, error) {
	if kv.getErr != nil {
		return nil, kv.getErr
	}
	entry, ok := kv.entries[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return entry, nil
}

func (kv *fakeKV) Delete(_ context.Context, key string, _ ...jetstream.KVDeleteOpt) error {
	if kv.deleteErr != nil {
		return kv.deleteErr
	}
	if _, ok := kv.entries[key]; !ok {
		return jetstream.ErrKeyNotFound
	}
	delete(kv.entries, key)
	kv.deleted = append(kv.deleted, key)
	return nil
}

func (kv *fakeKV) ListKeys(ctx context.Context, _ ...jetstream.WatchOpt) (jetstream.KeyLister, error) {
	return kv.ListKeysFiltered(ctx)
}

func (kv *fakeKV) ListKeysFiltered(_ context.Context, filters ...string) (jetstream.KeyLister, error) {
	if kv.listErr != nil {
		return nil, kv.listErr
	}
	kv.filters = append(kv.filters, filters...)

	keys := []string{}
	for key := range kv.entries {
		if matchesAny(key, filters) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil, jetstream.ErrNoKeysFound
	}
	sort.Strings(keys)
	return newFakeLister(keys), nil
}

// matchesAny supports the trailing single-token wildcard used by the storage
func matchesAny(key string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		prefix, wildcard := strings.CutSuffix(f, "*")
		if !wildcard && key == f {
			return true
		}
		if wildcard && strings.HasPrefix(key, prefix) && !strings.Contains(key[len(prefix):], ".") {
			return true
		}
	}
	return false
}

// fakeRequester answers request/reply calls with canned data
type fakeRequester struct {
	reply    []byte
	err      error
	subjects []string
	payloads []string
}

func (r *fakeRequester) RequestWithContext(_ context.Context, subj string, data []byte) (*nats.Msg, error) {
	r.subjects = append(r.subjects, subj)
	r.payloads = append(r.payloads, string(data))
	if r.err != nil {
		return nil, r.err
	}
	return &nats.Msg{Subject: subj, Data: r.reply}, nil
}
