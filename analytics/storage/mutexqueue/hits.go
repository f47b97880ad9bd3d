package mutexqueue

import (
	"container/list"
	"errors"
	"sync"
)

// ErrorMaxSizeReached queue max size error
var ErrorMaxSizeReached = errors.New("Queue max size has been reached")

// NewMQHitsStorage returns an instance of MQHitsStorage. A queueSize <= 0 means unbounded.
func NewMQHitsStorage(queueSize int) *MQHitsStorage {
	return &MQHitsStorage{
		queue:      list.New(),
		size:       queueSize,
		mutexQueue: &sync.Mutex{},
	}
}

// MQHitsStorage in memory storage of serialized hits
type MQHitsStorage struct {
	queue      *list.List
	size       int
	mutexQueue *sync.Mutex
}

// Push a hit body at the back of the queue
func (s *MQHitsStorage) Push(body string) error {
	s.mutexQueue.Lock()
	defer s.mutexQueue.Unlock()

	if s.size > 0 && s.queue.Len()+1 > s.size {
		return ErrorMaxSizeReached
	}

	s.queue.PushBack(body)
	return nil
}

// PopAll empties the queue and returns its content, oldest first
func (s *MQHitsStorage) PopAll() []string {
	s.mutexQueue.Lock()
	defer s.mutexQueue.Unlock()

	toReturn := make([]string, 0, s.queue.Len())
	for e := s.queue.Front(); e != nil; e = e.Next() {
		toReturn = append(toReturn, e.Value.(string))
	}
	s.queue.Init()
	return toReturn
}

// Empty returns if the queue len is zero
func (s *MQHitsStorage) Empty() bool {
	s.mutexQueue.Lock()
	defer s.mutexQueue.Unlock()

	return s.queue.Len() == 0
}

// Count returns the number of queued hits
func (s *MQHitsStorage) Count() int64 {
	s.mutexQueue.Lock()
	defer s.mutexQueue.Unlock()

	return int64(s.queue.Len())
}
