// Package etcdhelper provides an etcd client for tests.
// Each test works in an own namespace, so tests can run in parallel against one etcd.
package etcdhelper

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	etcd "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/namespace"
	"google.golang.org/grpc"

	"github.com/algomarket/problem-service/internal/pkg/idgenerator"
)

type testOrBenchmark interface {
	Cleanup(f func())
	Skipf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// ClientForTest returns a namespaced etcd client, or skips the test
// when the UNIT_ETCD_ENDPOINT environment variable is not set.
func ClientForTest(t testOrBenchmark) *etcd.Client {
	endpoint := os.Getenv("UNIT_ETCD_ENDPOINT")
	if endpoint == "" {
		t.Skipf("etcd test is skipped, UNIT_ETCD_ENDPOINT is not set")
		return nil
	}

	ctx := context.Background()
	client, err := etcd.New(etcd.Config{
		Context:              ctx,
		Endpoints:            []string{endpoint},
		DialTimeout:          2 * time.Second,
		DialKeepAliveTimeout: 2 * time.Second,
		DialKeepAliveTime:    10 * time.Second,
		Username:             os.Getenv("UNIT_ETCD_USERNAME"), // optional
		Password:             os.Getenv("UNIT_ETCD_PASSWORD"), // optional
		DialOptions: []grpc.DialOption{
			grpc.WithBlock(), // wait for the connection
		},
	})
	if err != nil {
		t.Fatalf("cannot create etcd client: %s", err)
		return nil
	}

	// Create the test namespace.
	originalKV := client.KV // not namespaced client for the cleanup
	prefix := fmt.Sprintf("unit-%s/", idgenerator.EtcdNamespaceForTest())
	client.KV = namespace.NewKV(client.KV, prefix)
	client.Lease = namespace.NewLease(client.Lease, prefix)
	client.Watcher = namespace.NewWatcher(client.Watcher, prefix)

	// Clear the namespace after the test.
	t.Cleanup(func() {
		if _, err := originalKV.Delete(ctx, prefix, etcd.WithPrefix()); err != nil {
			t.Fatalf(`cannot clear etcd namespace "%s" after the test: %s`, prefix, err)
		}
		_ = client.Close()
	})

	return client
}

// AllKeys returns all keys in the client namespace, sorted.
func AllKeys(ctx context.Context, client *etcd.Client) ([]string, error) {
	resp, err := client.Get(ctx, "", etcd.WithPrefix(), etcd.WithKeysOnly())
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		out = append(out, string(kv.Key))
	}
	sort.Strings(out)
	return out, nil
}
