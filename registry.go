package hs220

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/davincikj153/HS220-simulator/kinematics"
)

// The arm component owns a joint store; the pose sensor and the suggestion
// service attach to it by arm name. The registry refcounts each store so the
// last resource to close tears it down, the same way the serial controller is
// shared between arm, gripper and calibration sensor on real hardware.

type StoreEntry struct {
	store    *JointStore
	refCount int64 // Atomic reference counter
}

type StoreRegistry struct {
	entries map[string]*StoreEntry // arm name -> entry
	mu      sync.RWMutex
}

func NewStoreRegistry() *StoreRegistry {
	return &StoreRegistry{
		entries: make(map[string]*StoreEntry),
	}
}

var sharedStores = NewStoreRegistry()

// All refcount transitions happen while holding r.mu, so an attach can never
// interleave with a final release deleting the entry. r.mu is the only lock
// here; entry contents are immutable after creation.

// GetStore returns the store registered under name, creating it with the
// given constants if absent. Attaching with different constants than the
// existing store is a configuration conflict.
func (r *StoreRegistry) GetStore(name string, params kinematics.Params, limits kinematics.Limits, start kinematics.Joints) (*JointStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, exists := r.entries[name]; exists {
		if entry.store.Params() != params {
			currentRefCount := atomic.LoadInt64(&entry.refCount)
			return nil, fmt.Errorf("conflict: store %q uses different kinematic constants (refCount: %d)", name, currentRefCount)
		}

		atomic.AddInt64(&entry.refCount, 1)
		return entry.store, nil
	}

	entry := &StoreEntry{
		store: NewJointStore(params, limits, start),
	}
	atomic.StoreInt64(&entry.refCount, 1)
	r.entries[name] = entry

	return entry.store, nil
}

// AttachStore returns the existing store registered under name without
// creating one. Consumers like the pose sensor use this so they never race
// the arm for ownership of the joint state.
func (r *StoreRegistry) AttachStore(name string) (*JointStore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[name]
	if !exists {
		return nil, fmt.Errorf("no joint store registered for arm %q", name)
	}

	atomic.AddInt64(&entry.refCount, 1)
	return entry.store, nil
}

// ReleaseStore drops one reference; the entry is removed when the count
// reaches zero.
func (r *StoreRegistry) ReleaseStore(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.entries[name]
	if !exists {
		return
	}

	if atomic.AddInt64(&entry.refCount, -1) <= 0 {
		delete(r.entries, name)
	}
}

// StoreStatus reports the reference count and presence for a named store.
func (r *StoreRegistry) StoreStatus(name string) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[name]
	if !exists {
		return 0, false
	}

	return atomic.LoadInt64(&entry.refCount), entry.store != nil
}

// Package-level helpers operating on the shared registry.

func GetSharedStore(name string, params kinematics.Params, limits kinematics.Limits, start kinematics.Joints) (*JointStore, error) {
	return sharedStores.GetStore(name, params, limits, start)
}

func AttachSharedStore(name string) (*JointStore, error) {
	return sharedStores.AttachStore(name)
}

func ReleaseSharedStore(name string) {
	sharedStores.ReleaseStore(name)
}
