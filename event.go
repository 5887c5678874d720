package heliland

// Port names an input or output on an atomic model. No Port constants are
// declared and nothing routes by Port: the ports the engine and routers
// actually use are the typed fields of Inbox and Outbox below, so a
// misspelled port is a compile error rather than a silently unmatched
// string key.
type Port string

// Bag is an ordered collection of values arriving on one port at one
// instant. Per §5, message bags per port preserve insertion order, and
// validation over a bag iterates in that order.
type Bag[T any] []T

// Inbox collects everything delivered to a component at one simulation
// instant, keyed by port. A component's External/Confluent transition reads
// whichever bags are relevant to it.
type Inbox struct {
	PilotTakeover    bool
	StartMission     *StartSupervisor
	PlpAchieved      bool
	LpRecv           Bag[LandingPoint]
	AircraftState    Bag[AircraftState]
	FccCommandLand   bool
	ControlYielded   bool
	LpNew            Bag[LandingPoint]
	LpCritMet        *LandingPoint
	RequestReposition *LandingPoint
	CancelHover      bool
	HoverCriteriaMet bool
	PilotHandover    *LandingPoint
	LandingAchieved  bool
	Waypoint         *Waypoint
	CommandHover     *HoverCriteria
	LandRequest      *LandingPoint
}

// Empty reports whether the inbox carries nothing at all, used by engines
// to skip scheduling an external transition when no event is destined for a
// component.
func (b Inbox) Empty() bool {
	return !b.PilotTakeover && b.StartMission == nil && !b.PlpAchieved &&
		len(b.LpRecv) == 0 && len(b.AircraftState) == 0 && !b.FccCommandLand &&
		!b.ControlYielded && len(b.LpNew) == 0 && b.LpCritMet == nil &&
		b.RequestReposition == nil && !b.CancelHover && !b.HoverCriteriaMet &&
		b.PilotHandover == nil && !b.LandingAchieved && b.Waypoint == nil &&
		b.CommandHover == nil && b.LandRequest == nil
}

// Outbox collects everything a component's Output function produced at one
// simulation instant. Unset fields carry their zero value and are not
// delivered anywhere.
type Outbox struct {
	RequestAircraftState bool
	FCCCommand           *FCCCommand
	BossDisplay          *BossDisplay
	GCSMessage           *GCSMessage
	MissionMonitorStop   bool
	LpNew                *LandingPoint
	LpExpired            *LandingPoint
	PilotHandover        *LandingPoint
	RequestReposition    *LandingPoint
	CancelHover          bool
	LpCritMet            *LandingPoint
	Land                 *LandingPoint
	HoverCriteriaMet     bool
	NotifyPilot          bool
	ControlYielded       bool
	MissionComplete      bool
	UpdateMissionItem    bool
	HoverCriteria        *HoverCriteria
}
