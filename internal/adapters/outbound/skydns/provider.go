// Package skydns publishes records into an etcd keyspace in the SkyDNS
// layout consumed by cluster-local DNS servers: one JSON entry per value
// under the reversed-domain path, e.g. app.example.com ->
// /skydns/com/example/app/a1.
package skydns

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/skillcoder/kuberoute/internal/logic/reconciler"
)

const (
	keyPrefix   = "/skydns"
	dialTimeout = 5 * time.Second
)

// entry is the SkyDNS record value format.
type entry struct {
	Host string `json:"host"`
	TTL  int64  `json:"ttl"`
}

type provider struct {
	logger *slog.Logger
	kv     clientv3.KV
}

// New creates a SkyDNS provider connected to the given etcd endpoints.
func New(logger *slog.Logger, endpoints []string) (reconciler.DNSProvider, error) {
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create etcd client: %w", err)
	}

	return &provider{
		logger: logger,
		kv:     client.KV,
	}, nil
}

var _ reconciler.DNSProvider = (*provider)(nil)

func (p *provider) UpdateRecordCommand(
	ctx context.Context,
	fqdn string,
	values []string,
	ttl int64,
	_ reconciler.RecordType,
) error {
	base := recordKey(fqdn)
	written := make(map[string]struct{}, len(values))

	for i, value := range values {
		payload, err := json.Marshal(entry{Host: value, TTL: ttl})
		if err != nil {
			return fmt.Errorf("marshal skydns entry: %w", err)
		}

		key := fmt.Sprintf("%s/a%d", base, i+1)
		written[key] = struct{}{}

		if _, err := p.kv.Put(ctx, key, string(payload)); err != nil {
			return fmt.Errorf("put %s: %w", key, err)
		}
	}

	// Drop sibling entries left over from a previously larger value set so
	// shrinking address sets do not keep resolving removed nodes.
	resp, err := p.kv.Get(ctx, base+"/", clientv3.WithPrefix(), clientv3.WithKeysOnly())
	if err != nil {
		return fmt.Errorf("list entries under %s: %w", base, err)
	}

	for _, kv := range resp.Kvs {
		key := string(kv.Key)
		if _, keep := written[key]; keep {
			continue
		}

		// The prefix also matches records whose name is a dotted extension
		// of this one (x.app stores under app/x/...). Only direct children
		// belong to this name; everything deeper is someone else's record.
		if strings.Contains(strings.TrimPrefix(key, base+"/"), "/") {
			continue
		}

		if _, err := p.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete stale entry %s: %w", key, err)
		}

		p.logger.DebugContext(ctx, "stale skydns entry removed", "key", key)
	}

	return nil
}

// recordKey reverses the fqdn labels under the skydns prefix.
func recordKey(fqdn string) string {
	labels := strings.Split(strings.TrimSuffix(fqdn, "."), ".")

	var b strings.Builder

	b.WriteString(keyPrefix)

	for i := len(labels) - 1; i >= 0; i-- {
		b.WriteString("/")
		b.WriteString(labels[i])
	}

	return b.String()
}
