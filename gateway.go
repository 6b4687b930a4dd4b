// Package stda adapts the SmartThings cloud capability model into a stable
// set of local entities and keeps their state synchronized through polled
// and pushed status updates.
package stda

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/golog"
	"github.com/shimmeringbee/persistence"
	"github.com/stda-home/stda/entities"
	"github.com/stda-home/stda/registry"
	"github.com/stda-home/stda/rules"
	"github.com/stda-home/stda/st"
	"log"
)

const DefaultPollInterval = 1 * time.Minute

const eventQueueSize = 500

// Gateway owns the device table, drives synchronization and exposes the
// entity surface. One Gateway serves one SmartThings account; devices are
// synchronized independently.
type Gateway struct {
	cloud    Cloud
	section  persistence.Section
	logger   logwrap.Logger
	registry *registry.Registry
	rules    *rules.Engine

	ctx       context.Context
	ctxCancel context.CancelFunc

	deviceLock *sync.RWMutex
	devices    map[string]*device

	events chan any
	poller *stdaPoller

	pollInterval time.Duration
}

// New constructs a Gateway against the given cloud client and persistence
// root. The default registry and quirk rules are used unless overridden.
func New(cloud Cloud, s persistence.Section, opts ...Option) *Gateway {
	g := &Gateway{
		cloud:    cloud,
		section:  s,
		logger:   logwrap.New(golog.Wrap(log.Default())),
		registry: registry.Default(),
		rules:    rules.Default(),

		deviceLock: &sync.RWMutex{},
		devices:    map[string]*device{},

		events: make(chan any, eventQueueSize),

		pollInterval: DefaultPollInterval,
	}

	g.poller = &stdaPoller{
		deviceStore: g,
		randLock:    &sync.Mutex{},
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

type Option func(*Gateway)

// WithRegistry overrides the capability registry.
func WithRegistry(r *registry.Registry) Option {
	return func(g *Gateway) {
		g.registry = r
	}
}

// WithRules overrides the quirk rule engine. The engine must be compiled.
func WithRules(e *rules.Engine) Option {
	return func(g *Gateway) {
		g.rules = e
	}
}

// WithPollInterval overrides the per-device polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(g *Gateway) {
		g.pollInterval = d
	}
}

// Start brings up the poll workers and restores previously added devices
// from persistence. No network traffic happens here; restored devices are
// refreshed by their first poll.
func (g *Gateway) Start() error {
	g.ctx, g.ctxCancel = context.WithCancel(context.Background())

	g.poller.Start()
	g.load()

	return nil
}

// Stop halts polling and the event stream. In-flight operations observe the
// cancelled context.
func (g *Gateway) Stop() error {
	if g.ctxCancel != nil {
		g.ctxCancel()
	}

	g.poller.Stop()

	return nil
}

// AddDevice describes a device, builds its entity set and schedules it for
// polling. Safe to call for an already known device; the existing entity set
// is kept (bindings are immutable for the session).
func (g *Gateway) AddDevice(pctx context.Context, deviceID string) error {
	ctx, end := g.logger.Segment(pctx, "Adding device.", logwrap.Datum("device", deviceID))
	defer end()

	if g.getDevice(deviceID) != nil {
		g.logger.LogInfo(ctx, "Device already present, keeping existing entity set.")
		return nil
	}

	desc, err := g.cloud.DescribeDevice(ctx, deviceID)
	if err != nil {
		g.logger.LogError(ctx, "Failed to describe device.", logwrap.Err(err))
		return fmt.Errorf("describe device %s: %w", deviceID, err)
	}

	d, created := g.createDevice(desc)
	if !created {
		return nil
	}

	g.persistDescribe(desc)
	g.attachDevice(ctx, d, desc)

	return nil
}

// attachDevice builds the binding set, announces the device and its entities
// and schedules polling. Shared between AddDevice and restore-from-
// persistence.
func (g *Gateway) attachDevice(ctx context.Context, d *device, desc st.Device) {
	d.setBindings(g.buildBindings(ctx, d, desc))

	g.sendEvent(entities.DeviceAdded{DeviceID: d.id, Label: d.label})

	for _, b := range d.getBindings() {
		g.sendEvent(entities.EntityAdded{Entity: b.entity()})
	}

	g.poller.Add(d.id, g.pollInterval, g.pollDevice)
}

// pollDevice is the per-device poll body. A failure degrades only this
// device and polling continues.
func (g *Gateway) pollDevice(ctx context.Context, d *device) bool {
	if err := g.refreshDevice(ctx, d); err != nil {
		g.logger.LogWarn(ctx, "Device refresh failed.", logwrap.Datum("device", d.id), logwrap.Err(err))
	}

	return g.getDevice(d.id) != nil
}

// Refresh fetches and applies a snapshot for one device on demand.
func (g *Gateway) Refresh(ctx context.Context, deviceID string) error {
	d := g.getDevice(deviceID)
	if d == nil {
		return fmt.Errorf("refresh: unknown device %s", deviceID)
	}

	return g.refreshDevice(ctx, d)
}

func (g *Gateway) refreshDevice(ctx context.Context, d *device) error {
	snap, err := g.fetchSnapshot(ctx, d)
	if err != nil {
		return err
	}

	return g.applySnapshot(ctx, d, snap)
}

// DeliverStatus accepts a pushed status payload for a device. Pushed and
// polled updates converge on the same apply path.
func (g *Gateway) DeliverStatus(ctx context.Context, deviceID string, status st.DeviceStatus) error {
	d := g.getDevice(deviceID)
	if d == nil {
		return fmt.Errorf("deliver: unknown device %s", deviceID)
	}

	return g.applySnapshot(ctx, d, newSnapshot(status, time.Now()))
}

// Entities returns the entity surface of one device, in binding order.
func (g *Gateway) Entities(deviceID string) []entities.Entity {
	d := g.getDevice(deviceID)
	if d == nil {
		return nil
	}

	var es []entities.Entity
	for _, b := range d.getBindings() {
		es = append(es, b.entity())
	}

	return es
}

// Entity returns a single entity by its stable identifier, or nil.
func (g *Gateway) Entity(id string) entities.Entity {
	for _, d := range g.getDevices() {
		for _, b := range d.getBindings() {
			if b.id == id {
				return b.entity()
			}
		}
	}

	return nil
}

// DeviceIDs returns the identifiers of all known devices.
func (g *Gateway) DeviceIDs() []string {
	var ids []string
	for _, d := range g.getDevices() {
		ids = append(ids, d.id)
	}

	return ids
}

var _ eventSender = (*Gateway)(nil)
var _ deviceStore = (*Gateway)(nil)
