package stda

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

const pollerBacklog = 200
const pollerWorkers = 4
const workerMaximumJobDuration = 15 * time.Second

type stdaPoller struct {
	deviceStore deviceStore

	pollerWork chan pollerWork
	pollerStop chan bool

	randLock *sync.Mutex
	rand     *rand.Rand
}

type pollerWork struct {
	deviceID string
	interval time.Duration
	fn       func(context.Context, *device) bool
}

func (p *stdaPoller) Start() {
	p.pollerStop = make(chan bool, pollerWorkers)
	p.pollerWork = make(chan pollerWork, pollerBacklog)

	for i := 0; i < pollerWorkers; i++ {
		go p.worker()
	}
}

func (p *stdaPoller) Stop() {
	for i := 0; i < pollerWorkers; i++ {
		p.pollerStop <- true
	}
}

// Add schedules a device for repeated polling. The first run is jittered
// across the interval so devices added together do not poll in lockstep.
func (p *stdaPoller) Add(deviceID string, interval time.Duration, fn func(context.Context, *device) bool) {
	p.randLock.Lock()
	initialWait := time.Duration(float64(interval) * p.rand.Float64())
	p.randLock.Unlock()

	time.AfterFunc(initialWait, func() {
		p.pollerWork <- pollerWork{
			deviceID: deviceID,
			interval: interval,
			fn:       fn,
		}
	})
}

func (p *stdaPoller) worker() {
	for {
		select {
		case work := <-p.pollerWork:
			d := p.deviceStore.getDevice(work.deviceID)

			if d != nil {
				ctx, cancel := context.WithTimeout(context.Background(), workerMaximumJobDuration)

				if work.fn(ctx, d) {
					time.AfterFunc(work.interval, func() {
						p.pollerWork <- work
					})
				}

				cancel()
			}
		case <-p.pollerStop:
			return
		}
	}
}
