package fakestoragerepo

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-storefront-client/storage"
)

var _ storage.Repo = (*FakeStorageRepo)(nil)

type FakeStorageRepo struct {
	values  map[string]string
	failSet map[string]error
	lock    sync.RWMutex
}

func NewFakeStorageRepo() *FakeStorageRepo {
	return &FakeStorageRepo{
		values:  make(map[string]string),
		failSet: make(map[string]error),
	}
}

func (r *FakeStorageRepo) Get(_ context.Context, key string) (string, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	value, ok := r.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return value, nil
}

func (r *FakeStorageRepo) Set(_ context.Context, key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err, ok := r.failSet[key]; ok {
		return err
	}
	r.values[key] = value
	return nil
}

func (r *FakeStorageRepo) Remove(_ context.Context, key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.values, key)
	return nil
}

// FailSet makes every later Set of key return err.
func (r *FakeStorageRepo) FailSet(key string, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.failSet[key] = err
}

// Len reports how many keys are stored.
func (r *FakeStorageRepo) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.values)
}
