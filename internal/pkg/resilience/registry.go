package resilience

import "sync"

// Registry hands out one shared Policy per name.
type Registry struct {
	mu       sync.Mutex
	configs  map[string]Config
	policies map[string]*Policy
	opts     []Option
}

func NewRegistry(configs map[string]Config, opts ...Option) *Registry {
	return &Registry{configs: configs, policies: make(map[string]*Policy), opts: opts}
}

// Get returns the policy called name, creating it from its config on first use.
// Unknown names get the default config.
func (r *Registry) Get(name string) *Policy {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.policies[name]; ok {
		return p
	}
	p := NewPolicy(name, r.configs[name], r.opts...)
	r.policies[name] = p
	return p
}
