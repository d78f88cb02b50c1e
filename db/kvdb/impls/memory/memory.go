// Package memory is an in-process kvdb.Client used by tests and
// single-node setups that have no Redis at hand. List and hash ops
// follow the redis impl's index/field semantics.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zeptools/sqlbatch/db/kvdb"
)

type Client struct {
	Conf *kvdb.Conf

	mu       sync.Mutex
	values   map[string]string
	lists    map[string][]string
	hashes   map[string]map[string]string
	deadline map[string]time.Time
}

// Ensure memory.Client implements kvdb.Client interface
var _ kvdb.Client = (*Client)(nil)

func (c *Client) Init() error {
	c.values = map[string]string{}
	c.lists = map[string][]string{}
	c.hashes = map[string]map[string]string{}
	c.deadline = map[string]time.Time{}
	return nil
}

func (c *Client) Close() error {
	return nil
}

func (c *Client) GetHandle() any {
	return c
}

func (c *Client) GetConf() *kvdb.Conf {
	return c.Conf
}

// dropExpired removes a key past its deadline. Caller holds mu.
func (c *Client) dropExpired(key string) {
	dl, ok := c.deadline[key]
	if !ok || time.Now().Before(dl) {
		return
	}
	delete(c.values, key)
	delete(c.lists, key)
	delete(c.hashes, key)
	delete(c.deadline, key)
}

func (c *Client) has(key string) bool {
	c.dropExpired(key)
	if _, ok := c.values[key]; ok {
		return true
	}
	if _, ok := c.lists[key]; ok {
		return true
	}
	_, ok := c.hashes[key]
	return ok
}

//---- Key Ops ----

func (c *Client) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.has(key), nil
}

func (c *Client) Delete(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var cnt int64
	for _, key := range keys {
		if c.has(key) {
			cnt++
		}
		delete(c.values, key)
		delete(c.lists, key)
		delete(c.hashes, key)
		delete(c.deadline, key)
	}
	return cnt, nil
}

func (c *Client) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.has(key) {
		return false, nil
	}
	c.deadline[key] = time.Now().Add(expiration)
	return true, nil
}

//---- Single-value Ops ----

func (c *Client) Set(_ context.Context, key string, value any, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = fmt.Sprint(value)
	if expiration > 0 {
		c.deadline[key] = time.Now().Add(expiration)
	} else {
		delete(c.deadline, key)
	}
	return nil
}

func (c *Client) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropExpired(key)
	val, ok := c.values[key]
	return val, ok, nil
}

//---- List Ops ----

func (c *Client) Push(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropExpired(key)
	c.lists[key] = append(c.lists[key], value)
	return nil
}

func (c *Client) Len(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropExpired(key)
	return int64(len(c.lists[key])), nil
}

func (c *Client) Range(_ context.Context, key string, start, stop int64) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropExpired(key)
	list := c.lists[key]
	lo, hi, ok := clampRange(start, stop, int64(len(list)))
	if !ok {
		return []string{}, nil
	}
	out := make([]string, hi-lo+1)
	copy(out, list[lo:hi+1])
	return out, nil
}

func (c *Client) Trim(_ context.Context, key string, start, stop int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropExpired(key)
	list := c.lists[key]
	lo, hi, ok := clampRange(start, stop, int64(len(list)))
	if !ok {
		delete(c.lists, key)
		return nil
	}
	trimmed := make([]string, hi-lo+1)
	copy(trimmed, list[lo:hi+1])
	c.lists[key] = trimmed
	return nil
}

// clampRange resolves redis-style inclusive list indexes
// (negatives count from the tail) against a list of length n.
func clampRange(start, stop, n int64) (lo, hi int64, ok bool) {
	if n == 0 {
		return 0, 0, false
	}
	lo, hi = start, stop
	if lo < 0 {
		lo += n
	}
	if hi < 0 {
		hi += n
	}
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	if lo > hi || lo >= n {
		return 0, 0, false
	}
	return lo, hi, true
}

//---- Hash Ops ----

func (c *Client) SetFields(_ context.Context, key string, fields map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropExpired(key)
	h, ok := c.hashes[key]
	if !ok {
		h = map[string]string{}
		c.hashes[key] = h
	}
	for f, v := range fields {
		h[f] = fmt.Sprint(v)
	}
	return nil
}

func (c *Client) GetFields(_ context.Context, key string, fields ...string) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropExpired(key)
	rtnMap := make(map[string]string, len(fields))
	h := c.hashes[key]
	for _, f := range fields {
		if v, ok := h[f]; ok {
			rtnMap[f] = v
		}
	}
	return rtnMap, nil
}

func (c *Client) GetAllFields(_ context.Context, key string) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropExpired(key)
	all := make(map[string]string, len(c.hashes[key]))
	for f, v := range c.hashes[key] {
		all[f] = v
	}
	return all, nil
}
