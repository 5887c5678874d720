package heliland

import kitlog "github.com/go-kit/kit/log"

// LPRepositionRouter implements Router for the LP_Reposition composition
// (§4, "Event flow"): LP_Manager selects and forwards landing points to
// Reposition_Timer, which commands Command_Reposition to reposition;
// Command_Reposition and Handover_Control share the single Stabilize
// instance to verify a hover; Stabilize's result flows back up to whichever
// of the two asked for it. Handover_Control's control-yielded signal is
// fanned out to both LP_Manager and Reposition_Timer, since either may be
// the one waiting on it depending on which path triggered the handover.
//
// Sink, when set, receives every producer's full output once per routed
// instant — the composition doesn't distinguish IC-only fields from
// EOC-worthy ones at the type level (§9's typed-port-tag note covers the
// wiring itself, not a separate masking pass); callers that only want the
// externally-visible subset filter Sink themselves.
type LPRepositionRouter struct {
	Sink func(component string, out Outbox)
}

// Emit implements Router.
func (r *LPRepositionRouter) Emit(component string, out Outbox) {
	if r.Sink != nil {
		r.Sink(component, out)
	}
}

// Route implements Router, applying the IC table described above.
func (r *LPRepositionRouter) Route(outputs map[string]Outbox) map[string]Inbox {
	routed := map[string]Inbox{}
	merge := func(name string, in Inbox) { routed[name] = mergeInbox(routed[name], in) }

	for producer, out := range outputs {
		r.Emit(producer, out)

		switch producer {
		case "LP_Manager":
			if out.LpNew != nil {
				merge("Reposition_Timer", Inbox{LpNew: Bag[LandingPoint]{*out.LpNew}})
			}
			if out.PilotHandover != nil {
				merge("Handover_Control", Inbox{PilotHandover: out.PilotHandover})
			}
		case "Reposition_Timer":
			if out.CancelHover {
				merge("Command_Reposition", Inbox{CancelHover: true})
				merge("Stabilize", Inbox{CancelHover: true})
			}
			if out.PilotHandover != nil {
				merge("Handover_Control", Inbox{PilotHandover: out.PilotHandover})
			}
			if out.RequestReposition != nil {
				merge("Command_Reposition", Inbox{RequestReposition: out.RequestReposition})
			}
			// out.Land is surfaced only through Emit: it crosses into the
			// Landing composition, wired by Supervisor below.
		case "Command_Reposition":
			if out.HoverCriteria != nil {
				merge("Stabilize", Inbox{CommandHover: out.HoverCriteria})
			}
			if out.CancelHover {
				merge("Stabilize", Inbox{CancelHover: true})
			}
			if out.LpCritMet != nil {
				merge("Reposition_Timer", Inbox{LpCritMet: out.LpCritMet})
			}
		case "Stabilize":
			if out.HoverCriteriaMet {
				merge("Command_Reposition", Inbox{HoverCriteriaMet: true})
				merge("Handover_Control", Inbox{HoverCriteriaMet: true})
			}
		case "Handover_Control":
			if out.HoverCriteria != nil {
				merge("Stabilize", Inbox{CommandHover: out.HoverCriteria})
			}
			if out.ControlYielded {
				merge("LP_Manager", Inbox{ControlYielded: true})
				merge("Reposition_Timer", Inbox{ControlYielded: true})
			}
		}
	}
	return routed
}

// LandingRouter implements Router for the Landing composition. Landing_Routine
// has no children of its own to route to; everything it produces is EOC.
type LandingRouter struct {
	Sink func(component string, out Outbox)
}

// Emit implements Router.
func (r *LandingRouter) Emit(component string, out Outbox) {
	if r.Sink != nil {
		r.Sink(component, out)
	}
}

// Route implements Router.
func (r *LandingRouter) Route(outputs map[string]Outbox) map[string]Inbox {
	for producer, out := range outputs {
		r.Emit(producer, out)
	}
	return map[string]Inbox{}
}

// SupervisorRouter implements Router for the top-level Supervisor
// composition: LP_Reposition, Landing and Handle_Waypoint, plus the two
// cross-composition IC links the spec's event-flow paragraph describes —
// Reposition_Timer's "land" output reaching Landing_Routine, and
// Landing_Routine's FCC land command looping back to LP_Manager so an
// accept window in progress knows the FCC is already landing (§4.1's
// "fcc_command_land while in LP_APPROACH" rule).
type SupervisorRouter struct {
	lpReposition LPRepositionRouter
	landing      LandingRouter

	Sink func(component string, out Outbox)
}

// NewSupervisorRouter constructs a SupervisorRouter that forwards every
// component's output to sink (if non-nil) in addition to performing IC
// routing.
func NewSupervisorRouter(sink func(component string, out Outbox)) *SupervisorRouter {
	r := &SupervisorRouter{Sink: sink}
	r.lpReposition.Sink = sink
	r.landing.Sink = sink
	return r
}

// Emit implements Router.
func (r *SupervisorRouter) Emit(component string, out Outbox) {
	if r.Sink != nil {
		r.Sink(component, out)
	}
}

// Route implements Router.
func (r *SupervisorRouter) Route(outputs map[string]Outbox) map[string]Inbox {
	lpOutputs := map[string]Outbox{}
	landingOutputs := map[string]Outbox{}
	other := map[string]Outbox{}

	for producer, out := range outputs {
		switch producer {
		case "LP_Manager", "Reposition_Timer", "Command_Reposition", "Stabilize", "Handover_Control":
			lpOutputs[producer] = out
		case "Landing_Routine":
			landingOutputs[producer] = out
		default:
			other[producer] = out
		}
	}

	routed := map[string]Inbox{}
	merge := func(name string, in Inbox) { routed[name] = mergeInbox(routed[name], in) }

	for name, in := range r.lpReposition.Route(lpOutputs) {
		merge(name, in)
	}
	for name, in := range r.landing.Route(landingOutputs) {
		merge(name, in)
	}
	for producer, out := range other {
		r.Emit(producer, out)
	}

	if rt, ok := lpOutputs["Reposition_Timer"]; ok && rt.Land != nil {
		merge("Landing_Routine", Inbox{LandRequest: rt.Land})
	}
	if lr, ok := landingOutputs["Landing_Routine"]; ok && lr.FCCCommand != nil &&
		lr.FCCCommand.SupervisorStatus&StatusLandingRequested != 0 {
		merge("LP_Manager", Inbox{FccCommandLand: true})
	}

	return routed
}

// Supervisor is the top-level assembly: all seven atomic models, the
// SupervisorRouter wiring them together, and the Engine driving them. It is
// the entry point the rest of the system (an input-reader driver, a test
// harness) talks to.
type Supervisor struct {
	Engine *Engine
	Router *SupervisorRouter

	LPManager         *LPManager
	RepositionTimer   *RepositionTimer
	CommandReposition *CommandReposition
	Stabilize         *Stabilize
	HandoverControl   *HandoverControl
	LandingRoutine    *LandingRoutine
	HandleWaypoint    *HandleWaypoint

	logger kitlog.Logger
}

// NewSupervisor constructs a fully-wired Supervisor. sink, if non-nil,
// observes every component's output as it is produced — the hook a BOSS
// display writer, an FCC command sender, or a test harness attaches to.
func NewSupervisor(cfg Config, sink func(component string, out Outbox)) *Supervisor {
	s := &Supervisor{
		LPManager:         NewLPManager(cfg),
		RepositionTimer:   NewRepositionTimer(cfg),
		CommandReposition: NewCommandReposition(cfg),
		Stabilize:         NewStabilize(cfg),
		HandoverControl:   NewHandoverControl(cfg),
		LandingRoutine:    NewLandingRoutine(cfg),
		HandleWaypoint:    NewHandleWaypoint(cfg),
		logger:            NewComponentLogger("Supervisor"),
	}
	s.Router = NewSupervisorRouter(sink)
	s.Engine = NewEngine(s.Router, s.logger,
		s.LPManager, s.RepositionTimer, s.CommandReposition, s.Stabilize,
		s.HandoverControl, s.LandingRoutine, s.HandleWaypoint)
	return s
}

// Step advances the supervisor by one simulation instant. See Engine.Step.
func (s *Supervisor) Step() (SimTime, bool) { return s.Engine.Step() }

// Run drives the supervisor until it passivates. See Engine.Run.
func (s *Supervisor) Run() { s.Engine.Run() }

// Now returns the supervisor's current simulation time.
func (s *Supervisor) Now() SimTime { return s.Engine.Now() }

// RunUntil steps the engine until its internal clock would need to pass t
// to continue, then advances the clock the rest of the way to t. Scenario
// players (the CLI, scenario tests) use this to deliver an externally
// timed input at exactly t regardless of what, if anything, the core has
// scheduled in between.
func (s *Supervisor) RunUntil(t SimTime) {
	for {
		next, scheduled := s.Engine.PeekNext()
		if !scheduled || next > t {
			break
		}
		if _, more := s.Engine.Step(); !more {
			break
		}
	}
	s.Engine.AdvanceTo(t)
}

// broadcast delivers the same Inbox to all seven components (the EIC side
// of the top-level composition: pilot_takeover and start_mission fan out to
// every child at once, §2's event-flow paragraph).
func (s *Supervisor) broadcast(in Inbox) {
	for _, name := range []string{
		"LP_Manager", "Reposition_Timer", "Command_Reposition", "Stabilize",
		"Handover_Control", "Landing_Routine", "Handle_Waypoint",
	} {
		s.Engine.InjectExternal(name, in)
	}
}

// InjectStartMission begins a mission (§3, §4.1-4.3 "start_mission" resets).
func (s *Supervisor) InjectStartMission(start StartSupervisor) {
	s.broadcast(Inbox{StartMission: &start})
}

// InjectPilotTakeover delivers a pilot-takeover signal to every component.
func (s *Supervisor) InjectPilotTakeover() {
	s.broadcast(Inbox{PilotTakeover: true})
}

// InjectAircraftState delivers a polled aircraft-state sample to every
// component that consumes it.
func (s *Supervisor) InjectAircraftState(as AircraftState) {
	for _, name := range []string{"LP_Manager", "Command_Reposition", "Stabilize"} {
		s.Engine.InjectExternal(name, Inbox{AircraftState: Bag[AircraftState]{as}})
	}
}

// InjectPlpAchieved signals that the planned landing point has been reached
// (§4.1, LP_Manager only).
func (s *Supervisor) InjectPlpAchieved() {
	s.Engine.InjectExternal("LP_Manager", Inbox{PlpAchieved: true})
}

// InjectLpRecv delivers a batch of candidate landing points from perception
// (§4.1, LP_Manager only).
func (s *Supervisor) InjectLpRecv(batch ...LandingPoint) {
	s.Engine.InjectExternal("LP_Manager", Inbox{LpRecv: Bag[LandingPoint](batch)})
}

// InjectLandingAchieved signals touchdown (§4.6, Landing_Routine only).
func (s *Supervisor) InjectLandingAchieved() {
	s.Engine.InjectExternal("Landing_Routine", Inbox{LandingAchieved: true})
}

// InjectWaypoint forwards an on-route waypoint (§4.7, Handle_Waypoint only).
func (s *Supervisor) InjectWaypoint(wp Waypoint) {
	s.Engine.InjectExternal("Handle_Waypoint", Inbox{Waypoint: &wp})
}
