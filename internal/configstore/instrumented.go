package configstore

import "context"

// ReadObserver 观察每次读取的结果
type ReadObserver interface {
	RecordStoreRead(backend, result string)
}

// instrumentedStore 为读取打点，其余方法透传
type instrumentedStore struct {
	Store
	backend  string
	observer ReadObserver
}

// Instrument 包装 store，使每次 Get 以 hit、miss 或 error 上报给 observer
func Instrument(store Store, backend Backend, observer ReadObserver) Store {
	if observer == nil {
		return store
	}
	return &instrumentedStore{Store: store, backend: string(backend), observer: observer}
}

func (s *instrumentedStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, found, err := s.Store.Get(ctx, key)
	switch {
	case err != nil:
		s.observer.RecordStoreRead(s.backend, "error")
	case found:
		s.observer.RecordStoreRead(s.backend, "hit")
	default:
		s.observer.RecordStoreRead(s.backend, "miss")
	}
	return v, found, err
}
