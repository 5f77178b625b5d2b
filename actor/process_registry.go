// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

import (
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"
)

const registryShards = 32

// AddressResolver returns the Process serving a PID hosted by another
// system, or false when it does not handle that address
type AddressResolver func(pid *PID) (Process, bool)

// ProcessRegistry maps local ids to processes. Ids are spread over shards
// hashed with xxh3 so lookups never contend on a single lock.
type ProcessRegistry struct {
	mu        sync.Mutex
	sequence  uint64
	address   *atomic.String
	shards    [registryShards]*sync.Map
	resolvers []AddressResolver
	rmu       sync.RWMutex

	deadLetter Process
}

func newProcessRegistry(deadLetter Process) *ProcessRegistry {
	registry := &ProcessRegistry{
		address:    atomic.NewString(LocalAddress),
		deadLetter: deadLetter,
	}
	for i := range registry.shards {
		registry.shards[i] = new(sync.Map)
	}
	return registry
}

// NextID returns a fresh id of the form $<n>
func (r *ProcessRegistry) NextID() string {
	r.mu.Lock()
	r.sequence++
	next := r.sequence
	r.mu.Unlock()
	return "$" + strconv.FormatUint(next, 10)
}

// Address returns the address of the local system
func (r *ProcessRegistry) Address() string {
	return r.address.Load()
}

// SetAddress sets the address of the local system.
// It is called once, when remoting starts.
func (r *ProcessRegistry) SetAddress(address string) {
	r.address.Store(address)
}

// RegisterAddressResolver adds a resolver consulted for foreign addresses.
// Resolvers are tried in registration order.
func (r *ProcessRegistry) RegisterAddressResolver(resolver AddressResolver) {
	r.rmu.Lock()
	r.resolvers = append(r.resolvers, resolver)
	r.rmu.Unlock()
}

// Add registers process under id. It returns the PID and true, or the PID
// already registered under id and false.
func (r *ProcessRegistry) Add(id string, process Process) (*PID, bool) {
	pid := NewPID(r.Address(), id)
	if _, loaded := r.shard(id).LoadOrStore(id, process); loaded {
		return pid, false
	}
	pid.process.Store(&processHolder{process})
	return pid, true
}

// Remove unregisters the process of pid. It is idempotent.
func (r *ProcessRegistry) Remove(pid *PID) {
	value, loaded := r.shard(pid.ID).LoadAndDelete(pid.ID)
	if !loaded {
		return
	}
	if local, ok := value.(*actorProcess); ok {
		local.dead.Store(true)
	}
}

// Get resolves pid. Foreign addresses go through the resolvers; unknown
// processes resolve to the dead-letter process.
func (r *ProcessRegistry) Get(pid *PID) Process {
	if pid == nil {
		return r.deadLetter
	}

	if !r.isLocal(pid.Address) {
		r.rmu.RLock()
		defer r.rmu.RUnlock()
		for _, resolve := range r.resolvers {
			if process, ok := resolve(pid); ok && process != nil {
				return process
			}
		}
		return r.deadLetter
	}

	if value, ok := r.shard(pid.ID).Load(pid.ID); ok {
		return value.(Process)
	}
	return r.deadLetter
}

// GetLocal returns the process registered under id
func (r *ProcessRegistry) GetLocal(id string) (Process, bool) {
	value, ok := r.shard(id).Load(id)
	if !ok {
		return nil, false
	}
	return value.(Process), true
}

// Count returns the number of registered processes
func (r *ProcessRegistry) Count() int {
	count := 0
	for _, shard := range r.shards {
		shard.Range(func(_, _ any) bool {
			count++
			return true
		})
	}
	return count
}

// localActors returns the PIDs of the registered actors
func (r *ProcessRegistry) localActors() []*PID {
	address := r.Address()
	var pids []*PID
	for _, shard := range r.shards {
		shard.Range(func(key, value any) bool {
			if _, ok := value.(*actorProcess); ok {
				pids = append(pids, NewPID(address, key.(string)))
			}
			return true
		})
	}
	return pids
}

func (r *ProcessRegistry) isLocal(address string) bool {
	return address == LocalAddress || address == r.Address()
}

func (r *ProcessRegistry) shard(id string) *sync.Map {
	return r.shards[xxh3.HashString(id)%registryShards]
}
