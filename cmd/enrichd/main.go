package main

import (
	"agora-backend/cmd/enrichd/commands"
	"agora-backend/lib/telemetry"
	"agora-backend/lib/util/serviceutil"
)

func main() {
	telemetry.InitSlog(true)
	commands.ExecuteContext(serviceutil.SignalContext())
}
