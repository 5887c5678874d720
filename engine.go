package heliland

import (
	"container/heap"

	kitlog "github.com/go-kit/kit/log"
)

// Router turns one simulation instant's worth of component outputs into the
// inboxes delivered to (possibly different) components at that same
// instant. A composition (coupled.go) supplies the EIC/EOC/IC routing
// table; the engine itself knows nothing about which component feeds which.
type Router interface {
	// Route delivers outputs produced this instant and returns the inboxes
	// that result, keyed by component name. The engine calls only Route;
	// a router surfaces outputs to the outside world by calling its own
	// Emit from inside Route.
	Route(outputs map[string]Outbox) map[string]Inbox
	// Emit hands a component's output to the outside world. The routers in
	// coupled.go pass every producer's full output here, not only the
	// fields that leave the composition.
	Emit(componentName string, out Outbox)
}

// scheduledNode is one entry in the engine's priority queue: a component
// together with the absolute simulation time it is next due to fire and
// the simulation time of its last transition (needed to compute the
// elapsed-time parameter e for external transitions).
type scheduledNode struct {
	atomic     Atomic
	at         SimTime
	lastFiring SimTime
	index      int
}

type nodeHeap []*scheduledNode

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].at < h[j].at }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *nodeHeap) Push(x any) {
	n := x.(*scheduledNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Engine is the host described in §5: a single-threaded, event-driven,
// cooperatively scheduled simulation-time runner. It owns a priority queue
// of (scheduled_time, component) pairs, advances global time to the
// minimum, runs the firing components' output functions, routes the
// resulting events via the Router, resolves any same-instant collisions
// through Confluent (against the pre-transition state), runs Internal on
// whichever firing components Confluent didn't already resolve, and
// re-schedules every touched component by its new time advance.
type Engine struct {
	now      SimTime
	nodes    map[string]*scheduledNode
	queue    nodeHeap
	router   Router
	logger   kitlog.Logger
	pending  map[string]Inbox // externally-injected events not yet delivered
}

// NewEngine constructs an Engine wired to the given Router, with every
// component scheduled according to its initial TimeAdvance.
func NewEngine(router Router, logger kitlog.Logger, components ...Atomic) *Engine {
	e := &Engine{
		nodes:   make(map[string]*scheduledNode),
		router:  router,
		logger:  logger,
		pending: make(map[string]Inbox),
	}
	heap.Init(&e.queue)
	for _, c := range components {
		n := &scheduledNode{atomic: c, at: c.TimeAdvance(), lastFiring: 0}
		e.nodes[c.Name()] = n
		heap.Push(&e.queue, n)
	}
	return e
}

// Now returns the engine's current simulation time.
func (e *Engine) Now() SimTime { return e.now }

// PeekNext returns the time of the next scheduled internal transition (not
// counting pending external events). Passivated components stay queued at
// Infinity, so a fully passivated engine reports (Infinity, true); the
// second result is false only for an engine with no components.
func (e *Engine) PeekNext() (SimTime, bool) {
	if e.queue.Len() == 0 {
		return 0, false
	}
	return e.queue[0].at, true
}

// AdvanceTo moves the engine's clock forward to t without running any
// transitions, for callers (a test harness, the CLI's scenario player) that
// need to deliver an external event at a specific wall-clock-equivalent
// time even when nothing is scheduled in between. It is a no-op if t does
// not lie in the future.
func (e *Engine) AdvanceTo(t SimTime) {
	if t > e.now {
		e.now = t
	}
}

// InjectExternal delivers an externally-sourced event (e.g. a pilot
// takeover signal read from a UDP listener) to the named component at the
// engine's current time, without waiting for that component's scheduled
// internal transition. It takes effect on the next Step call.
func (e *Engine) InjectExternal(component string, in Inbox) {
	existing := e.pending[component]
	e.pending[component] = mergeInbox(existing, in)
}

// Step advances the engine by exactly one simulation instant: it pops every
// component scheduled for the minimum time (there may be several tied at
// once), computes their outputs, routes the resulting events together with
// any pending injected events, runs external/confluent transitions on the
// receivers, and then runs Internal on the firing components that
// Confluent did not already resolve. It
// returns the new simulation time, or false if nothing is scheduled and no
// external event is pending (the whole system has passivated).
func (e *Engine) Step() (SimTime, bool) {
	if e.queue.Len() == 0 && len(e.pending) == 0 {
		return e.now, false
	}

	next := Infinity
	if e.queue.Len() > 0 {
		next = e.queue[0].at
	}
	if len(e.pending) > 0 && e.now < next {
		// A pending external event takes effect immediately rather than
		// waiting for the next scheduled internal transition.
		next = e.now
	}
	if next == Infinity {
		return e.now, false
	}
	e.now = next

	firing := make([]*scheduledNode, 0)
	for e.queue.Len() > 0 && e.queue[0].at == e.now {
		firing = append(firing, heap.Pop(&e.queue).(*scheduledNode))
	}

	outputs := make(map[string]Outbox)
	for _, n := range firing {
		outputs[n.atomic.Name()] = n.atomic.Output()
	}

	// Take the pending events before routing, so that anything a sink
	// injects while Route runs is delivered by the next Step.
	pending := e.pending
	e.pending = make(map[string]Inbox)

	routed := map[string]Inbox{}
	if len(outputs) > 0 {
		routed = e.router.Route(outputs)
	}
	for name, in := range pending {
		routed[name] = mergeInbox(routed[name], in)
	}

	firedNow := make(map[string]bool, len(firing))
	for _, n := range firing {
		firedNow[n.atomic.Name()] = true
	}

	// A component that both fired this instant and received a routed
	// delivery resolves the tie through Confluent alone (§4.1/§4.5
	// confluence rules: external first, then internal). Confluent runs
	// against the pre-Internal state and is the sole authority for the
	// outcome; Internal only runs afterward for components Confluent
	// didn't already resolve.
	resolved := make(map[string]bool, len(firing))
	for name, in := range routed {
		if in.Empty() {
			continue
		}
		n, ok := e.nodes[name]
		if !ok {
			continue
		}
		if firedNow[name] {
			n.atomic.Confluent(0, in)
			resolved[name] = true
		} else {
			elapsed := e.now - n.lastFiring
			n.atomic.External(elapsed, in)
		}
		n.lastFiring = e.now
	}

	for _, n := range firing {
		if resolved[n.atomic.Name()] {
			continue
		}
		n.atomic.Internal()
		n.lastFiring = e.now
	}

	// Re-schedule every component touched this instant (fired, or received
	// an external/confluent transition) by its fresh TimeAdvance.
	touched := map[string]*scheduledNode{}
	for _, n := range firing {
		touched[n.atomic.Name()] = n
	}
	for name := range routed {
		if n, ok := e.nodes[name]; ok {
			touched[name] = n
		}
	}
	for name, n := range touched {
		if ta := n.atomic.TimeAdvance(); ta == Infinity {
			n.at = Infinity
		} else {
			n.at = e.now + ta
		}
		if firedNow[name] {
			heap.Push(&e.queue, n)
		} else {
			// Not popped this instant: still queued, so reorder in place.
			heap.Fix(&e.queue, n.index)
		}
	}

	return e.now, true
}

// Run drives Step until the system passivates completely (no more scheduled
// internal transitions and no pending external events), matching Mission's
// Propagate loop in the teacher repo.
func (e *Engine) Run() {
	for {
		if _, more := e.Step(); !more {
			return
		}
	}
}

// mergeInbox combines two Inboxes destined for the same component at the
// same instant, concatenating bags and OR-ing booleans/pointers (last
// non-nil wins for single-value fields). Message bags preserve insertion
// order (§5).
func mergeInbox(a, b Inbox) Inbox {
	out := a
	out.PilotTakeover = a.PilotTakeover || b.PilotTakeover
	if b.StartMission != nil {
		out.StartMission = b.StartMission
	}
	out.PlpAchieved = a.PlpAchieved || b.PlpAchieved
	out.LpRecv = append(append(Bag[LandingPoint]{}, a.LpRecv...), b.LpRecv...)
	out.AircraftState = append(append(Bag[AircraftState]{}, a.AircraftState...), b.AircraftState...)
	out.FccCommandLand = a.FccCommandLand || b.FccCommandLand
	out.ControlYielded = a.ControlYielded || b.ControlYielded
	out.LpNew = append(append(Bag[LandingPoint]{}, a.LpNew...), b.LpNew...)
	if b.LpCritMet != nil {
		out.LpCritMet = b.LpCritMet
	}
	if b.RequestReposition != nil {
		out.RequestReposition = b.RequestReposition
	}
	out.CancelHover = a.CancelHover || b.CancelHover
	out.HoverCriteriaMet = a.HoverCriteriaMet || b.HoverCriteriaMet
	if b.PilotHandover != nil {
		out.PilotHandover = b.PilotHandover
	}
	out.LandingAchieved = a.LandingAchieved || b.LandingAchieved
	if b.Waypoint != nil {
		out.Waypoint = b.Waypoint
	}
	if b.CommandHover != nil {
		out.CommandHover = b.CommandHover
	}
	if b.LandRequest != nil {
		out.LandRequest = b.LandRequest
	}
	return out
}
