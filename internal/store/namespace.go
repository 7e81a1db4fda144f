package store

import "context"

// Namespaced prefixes every key so several browser profiles can share one
// backend without seeing each other's collections.
type Namespaced struct {
	base   Store
	prefix string
}

// Namespace wraps base so that key "posts" is stored as "<prefix>:posts".
func Namespace(base Store, prefix string) *Namespaced {
	return &Namespaced{base: base, prefix: prefix}
}

func (n *Namespaced) key(k string) string {
	if n.prefix == "" {
		return k
	}
	return n.prefix + ":" + k
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.base.Get(ctx, n.key(key))
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.base.Set(ctx, n.key(key), value)
}

func (n *Namespaced) Remove(ctx context.Context, key string) error {
	return n.base.Remove(ctx, n.key(key))
}

func (n *Namespaced) Ping(ctx context.Context) error {
	return Ping(ctx, n.base)
}

var _ Store = (*Namespaced)(nil)
