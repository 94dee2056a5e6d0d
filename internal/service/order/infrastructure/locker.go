// internal/service/order/infrastructure/locker.go
package infrastructure

import (
	"context"

	"autohub/internal/pkg/zookeeper"
)

// ZookeeperLocker hands out a fresh DistributedLock on the same resource for
// every Lock call.
type ZookeeperLocker struct {
	conn       *zookeeper.Conn
	resourceID string
}

func NewZookeeperLocker(conn *zookeeper.Conn, resourceID string) *ZookeeperLocker {
	return &ZookeeperLocker{conn: conn, resourceID: resourceID}
}

func (l *ZookeeperLocker) Lock(ctx context.Context) (func() error, error) {
	lock, err := zookeeper.NewDistributedLock(l.conn, l.resourceID)
	if err != nil {
		return nil, err
	}
	if err := lock.Lock(ctx); err != nil {
		return nil, err
	}
	return lock.Unlock, nil
}

// LocalLocker is used when zookeeper is disabled: a single instance needs no
// cluster lock.
type LocalLocker struct{}

func (LocalLocker) Lock(context.Context) (func() error, error) {
	return func() error { return nil }, nil
}
