package echoapi

import "expvar"

// exposed under /debug/vars
var (
	sessionsCreated   = expvar.NewInt("sessions_created")
	plansGenerated    = expvar.NewInt("plans_generated")
	planParseFailures = expvar.NewInt("plan_parse_failures")
	chatMessages      = expvar.NewInt("chat_messages")
)
