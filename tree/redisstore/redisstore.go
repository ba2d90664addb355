/*
Package redisstore provides a NodeStore backed by a redis server, so that
trees can be grown and read by multiple processes sharing the same redis
instance.
*/
package redisstore

import (
	"context"
	"fmt"

	"github.com/grovekit/grove/tree"
	redis "gopkg.in/redis.v5"
)

const nodeIDLength = 20

/*
NodeEncodeDecoder serializes nodes to the values stored on redis and parses
them back.
*/
type NodeEncodeDecoder interface {
	Encode(*tree.Node) ([]byte, error)
	Decode([]byte) (*tree.Node, error)
}

type redisStore struct {
	rc      *redis.Client
	prefix  string
	nencdec NodeEncodeDecoder
}

/*
New returns a tree.NodeStore that keeps its nodes on the given redis client,
under keys namespaced with the given prefix, serialized with the given
NodeEncodeDecoder.
*/
func New(rc *redis.Client, prefix string, nencdec NodeEncodeDecoder) tree.NodeStore {
	return &redisStore{rc: rc, prefix: prefix, nencdec: nencdec}
}

func (rs *redisStore) Create(ctx context.Context, n *tree.Node) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n.ID = randString(nodeIDLength)
		data, err := rs.nencdec.Encode(n)
		if err != nil {
			return fmt.Errorf("serializing node %s: %v", n.ID, err)
		}
		ok, err := rs.rc.SetNX(rs.keyFor(n.ID), data, 0).Result()
		if err != nil {
			return fmt.Errorf("creating node %s on redis: %v", n.ID, err)
		}
		if ok {
			return nil
		}
	}
}

func (rs *redisStore) Get(ctx context.Context, id string) (*tree.Node, error) {
	data, err := rs.rc.Get(rs.keyFor(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving node %s from redis: %v", id, err)
	}
	n, err := rs.nencdec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing node %s: %v", id, err)
	}
	return n, nil
}

func (rs *redisStore) Store(ctx context.Context, n *tree.Node) error {
	data, err := rs.nencdec.Encode(n)
	if err != nil {
		return fmt.Errorf("serializing node %s: %v", n.ID, err)
	}
	err = rs.rc.Set(rs.keyFor(n.ID), data, 0).Err()
	if err != nil {
		return fmt.Errorf("storing node %s on redis: %v", n.ID, err)
	}
	return nil
}

func (rs *redisStore) Delete(ctx context.Context, n *tree.Node) error {
	err := rs.rc.Del(rs.keyFor(n.ID)).Err()
	if err != nil {
		return fmt.Errorf("deleting node %s from redis: %v", n.ID, err)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(id string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, id)
}
