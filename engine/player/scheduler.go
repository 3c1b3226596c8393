package player

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/rig-go/engine/profiler"
)

// scheduler is the implementation of the Scheduler interface.
type scheduler struct {
	mu *sync.RWMutex

	players []Player
	byID    map[string]Player

	// pool manages a bounded set of reusable goroutines for the parallel
	// player update phase. Workers persist across frames, avoiding
	// per-frame goroutine spawn/teardown overhead.
	pool    worker.DynamicWorkerPool
	workers int

	prof *profiler.Profiler
}

// Scheduler fans player updates out over a persistent worker pool, one
// task per player per frame. Players never share mutable state (each owns
// its context arena; graph assets are read-only), so updates are safely
// parallel. Thread-safe.
type Scheduler interface {
	// Add registers a player with the scheduler.
	//
	// Parameters:
	//   - p: the player to register
	Add(p Player)

	// Remove unregisters a player by id.
	//
	// Parameters:
	//   - id: the player's identifier
	Remove(id string)

	// Get retrieves a registered player by id.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the player's identifier
	//
	// Returns:
	//   - Player: the player or nil
	Get(id string) Player

	// Count returns the number of registered players.
	//
	// Returns:
	//   - int: the player count
	Count() int

	// Update advances every registered player by one frame in parallel
	// and blocks until all of them finish.
	//
	// Parameters:
	//   - dt: elapsed time since the last frame in seconds
	//
	// Returns:
	//   - error: the joined evaluation errors, nil if every player
	//     succeeded
	Update(dt float32) error
}

// Ensure scheduler implements Scheduler interface.
var _ Scheduler = &scheduler{}

// NewScheduler creates a scheduler with an empty player set.
//
// Parameters:
//   - options: functional options to further configure the scheduler
//
// Returns:
//   - Scheduler: the newly created scheduler
func NewScheduler(options ...SchedulerBuilderOption) Scheduler {
	s := &scheduler{
		mu:      &sync.RWMutex{},
		byID:    make(map[string]Player),
		workers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(s)
	}
	// Initialize the pool after options so WithWorkers can override the
	// default. Queue size of 256 accommodates typical player counts with
	// headroom.
	s.pool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)
	return s
}

func (s *scheduler) Add(p Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[p.ID()]; ok {
		return
	}
	s.players = append(s.players, p)
	s.byID[p.ID()] = p
}

func (s *scheduler) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, p := range s.players {
		if p.ID() == id {
			s.players = append(s.players[:i], s.players[i+1:]...)
			break
		}
	}
}

func (s *scheduler) Get(id string) Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id]
}

func (s *scheduler) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

func (s *scheduler) Update(dt float32) error {
	s.mu.RLock()
	players := make([]Player, len(s.players))
	copy(players, s.players)
	s.mu.RUnlock()

	// A WaitGroup provides per-frame barrier sync since pool.Wait()
	// blocks until workers idle-exit, which is unsuitable for frame-rate
	// workloads.
	var wg sync.WaitGroup
	errs := make([]error, len(players))
	for i, p := range players {
		wg.Add(1)
		idx := i
		pCap := p
		s.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				errs[idx] = pCap.Update(dt)
				return nil, nil
			},
		})
	}
	wg.Wait()

	if s.prof != nil {
		s.prof.Tick(len(players))
	}
	return errors.Join(errs...)
}
