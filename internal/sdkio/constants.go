package sdkio

// Named OS resources and the liveness-probe endpoint, fixed by the
// simulator ABI.
const (
	MemMapName     = `Local\IRSDKMemMapFileName`
	MemMapMaxSize  = 1164 * 1024
	DataValidEvent = `Local\IRSDKDataValidEvent`
	SimStatusURL   = "http://127.0.0.1:32034/get_sim_status?object=simStatus"
)
