package core

// GuardAction says what to do with a navigation attempt.
type GuardAction int

const (
	ActionAllow GuardAction = iota
	ActionRedirect
)

// Decision is the outcome of guarding one navigation attempt. Target is
// only meaningful for ActionRedirect.
type Decision struct {
	Action GuardAction
	Target Route
}

// DashboardFor maps an actor type to its dashboard route.
func DashboardFor(actor ActorType) Route {
	if actor == ActorMerchant {
		return RouteMerchantDashboard
	}
	return RouteUserDashboard
}

func isDashboard(route Route) bool {
	return route == RouteUserDashboard || route == RouteMerchantDashboard
}

// Decide is the route guard: a pure function of the navigation target
// and the session snapshot. An authenticated actor is pinned to its own
// dashboard; an unauthenticated visitor may go anywhere public but is
// bounced from dashboards to home. No side effects, no I/O.
func Decide(target Route, session Session) Decision {
	if session.Authenticated {
		own := DashboardFor(session.ActorType)
		if target != own {
			return Decision{Action: ActionRedirect, Target: own}
		}
		return Decision{Action: ActionAllow}
	}

	if isDashboard(target) {
		return Decision{Action: ActionRedirect, Target: RouteHome}
	}
	return Decision{Action: ActionAllow}
}

// GuardedNavigator pairs the pure guard decision with a navigation
// effect executor. Every transition goes through Decide before the
// Navigator is invoked, so nothing renders on a route the session does
// not permit.
type GuardedNavigator struct {
	sessions *SessionStore
	nav      Navigator
	logger   Logger
}

// NewGuardedNavigator wires the guard in front of a Navigator.
func NewGuardedNavigator(sessions *SessionStore, nav Navigator, logger Logger) *GuardedNavigator {
	if nav == nil {
		nav = &NoOpNavigator{}
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &GuardedNavigator{sessions: sessions, nav: nav, logger: logger}
}

// Go resolves the guard decision for target and executes the resulting
// navigation. It returns the route actually navigated to.
func (g *GuardedNavigator) Go(target Route) Route {
	decision := Decide(target, g.sessions.Current())

	route := target
	if decision.Action == ActionRedirect {
		route = decision.Target
		g.logger.Debug("Navigation redirected", map[string]interface{}{
			"operation": "route_guard",
			"requested": string(target),
			"redirect":  string(route),
		})
	}

	g.nav.Navigate(route)
	return route
}

// Navigate lets the guarded navigator stand in wherever a plain
// Navigator is expected, guard included.
func (g *GuardedNavigator) Navigate(route Route) {
	g.Go(route)
}
